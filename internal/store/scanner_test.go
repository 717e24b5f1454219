package store

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writePNG writes a solid PNG of the given size.
func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}

func TestScanAsset(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "original.png"), 800, 600)
	writePNG(t, filepath.Join(dir, "small.png"), 200, 150)
	writePNG(t, filepath.Join(dir, "thumb.48.48.png"), 48, 48)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".hidden"), []byte("skip me"), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := ScanAsset(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(a.Renditions()) != 4 {
		t.Fatalf("renditions: got %d, want 4 (%v)", len(a.Renditions()), a.Renditions())
	}

	byName := map[string]int{}
	for i, d := range a.Renditions() {
		byName[d.FileName] = i
		if d.Hash == "" {
			t.Errorf("%s: missing hash", d.FileName)
		}
	}

	d := a.Renditions()[byName["original.png"]]
	if d.Width != 800 || d.Height != 600 {
		t.Errorf("original.png dimensions: got %dx%d", d.Width, d.Height)
	}
	d = a.Renditions()[byName["notes.txt"]]
	if d.Width != 0 || d.Height != 0 {
		t.Errorf("notes.txt should have zero dimensions, got %dx%d", d.Width, d.Height)
	}

	orig := a.Original()
	if orig == nil || orig.FileName != "original.png" {
		t.Fatalf("original designation: got %+v", orig)
	}
}

func TestScanAssetCorruptImage(t *testing.T) {
	dir := t.TempDir()
	// Image extension but undecodable content: treated as a non-image
	// rendition, not an error.
	if err := os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := ScanAsset(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	d := a.Renditions()[0]
	if d.Width != 0 || d.Height != 0 {
		t.Errorf("broken image should have zero dimensions, got %dx%d", d.Width, d.Height)
	}
}

func TestScanAssetEmptyDir(t *testing.T) {
	if _, err := ScanAsset(t.TempDir()); err == nil {
		t.Error("empty directory should fail")
	}
}

func TestScanTree(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "banner", "home", "original.png"), 640, 360)
	writePNG(t, filepath.Join(root, "banner", "home", "small.png"), 320, 180)
	writePNG(t, filepath.Join(root, "icons", "logo.png"), 64, 64)
	writePNG(t, filepath.Join(root, "cover.png"), 400, 400)

	m, err := ScanTree(root)
	if err != nil {
		t.Fatalf("scan tree: %v", err)
	}

	keys := m.Keys()
	want := []string{".", "banner/home", "icons"}
	if len(keys) != len(want) {
		t.Fatalf("keys: got %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys: got %v, want %v", keys, want)
		}
	}

	if m.Stats.TotalAssets != 3 || m.Stats.TotalRenditions != 4 {
		t.Errorf("stats: %+v", m.Stats)
	}

	a, ok := m.Asset("banner/home")
	if !ok {
		t.Fatal("banner/home missing")
	}
	if len(a.Renditions()) != 2 {
		t.Fatalf("banner/home renditions: got %d", len(a.Renditions()))
	}
	// Paths are relative to the tree root.
	for _, d := range a.Renditions() {
		if filepath.ToSlash(d.Path) != "banner/home/"+d.FileName {
			t.Errorf("path: got %q for %q", d.Path, d.FileName)
		}
	}
	if errs := m.Validate(); len(errs) != 0 {
		t.Errorf("scanned manifest should validate, got %v", errs)
	}
}
