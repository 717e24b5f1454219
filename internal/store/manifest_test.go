package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/mediares/internal/rendition"
)

func sampleManifest() *Manifest {
	m := NewManifest()
	m.Assets["banner/home"] = AssetRecord{
		Title:    "Home banner",
		Original: "original.jpg",
		Crop:     &rendition.Crop{X: 10, Y: 10, Width: 640, Height: 360},
		Renditions: []RenditionRecord{
			{File: "original.jpg", Path: "banner/home/original.jpg", Width: 1920, Height: 1080, Size: 250000, Hash: "aaaa1111bbbb2222"},
			{File: "medium.jpg", Path: "banner/home/medium.jpg", Width: 640, Height: 360, Size: 40000, Hash: "cccc3333dddd4444"},
			{File: "thumb.48.48.png", Path: "banner/home/thumb.48.48.png", Width: 48, Height: 48, Size: 2000, Hash: "eeee5555ffff6666"},
		},
	}
	m.ComputeStats()
	return m
}

func TestManifestRoundtrip(t *testing.T) {
	m := sampleManifest()

	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFileName)
	if err := WriteManifest(m, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	m2, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m2.Version != SupportedManifestVersion {
		t.Errorf("version: got %d", m2.Version)
	}
	rec, ok := m2.Assets["banner/home"]
	if !ok {
		t.Fatal("asset banner/home missing")
	}
	if rec.Original != "original.jpg" {
		t.Errorf("original: got %q", rec.Original)
	}
	if rec.Crop == nil || rec.Crop.Width != 640 {
		t.Errorf("crop not preserved: %+v", rec.Crop)
	}
	if len(rec.Renditions) != 3 {
		t.Errorf("renditions: got %d", len(rec.Renditions))
	}
	if m2.Stats.TotalAssets != 1 || m2.Stats.TotalRenditions != 3 {
		t.Errorf("stats: %+v", m2.Stats)
	}
}

func TestLoadManifestRejectsUnknownVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, []byte(`{"version": 99, "assets": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(path); err == nil {
		t.Error("version 99 should be rejected")
	}
}

func TestManifestIgnoresUnknownFields(t *testing.T) {
	raw := `{
		"version": 1,
		"generated_at": "2026-01-01T00:00:00Z",
		"base_path": "./",
		"future_field": true,
		"assets": {
			"a": {"renditions": [{"file": "x.jpg", "path": "a/x.jpg", "width": 10, "height": 10, "size": 1, "hash": "ff", "new_field": 1}]}
		},
		"stats": {"total_assets": 1, "total_renditions": 1, "total_bytes": 1}
	}`
	var m Manifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if len(m.Assets["a"].Renditions) != 1 {
		t.Error("renditions not parsed")
	}
}

func TestManifestAsset(t *testing.T) {
	m := sampleManifest()
	m.source = "/tmp/" + ManifestFileName

	a, ok := m.Asset("banner/home")
	if !ok {
		t.Fatal("asset lookup failed")
	}
	if a.ID() == "" || a.Key() != "banner/home" {
		t.Errorf("identity: id=%q key=%q", a.ID(), a.Key())
	}
	if len(a.Renditions()) != 3 {
		t.Fatalf("renditions: got %d", len(a.Renditions()))
	}
	orig := a.Original()
	if orig == nil || orig.FileName != "original.jpg" {
		t.Fatalf("original: got %+v", orig)
	}
	if a.Crop() == nil {
		t.Error("crop missing")
	}

	if _, ok := m.Asset("nope"); ok {
		t.Error("unknown key should not resolve")
	}
}

func TestPickOriginalFallsBackToLargest(t *testing.T) {
	rec := AssetRecord{
		Renditions: []RenditionRecord{
			{File: "small.jpg", Path: "a/small.jpg", Width: 100, Height: 100},
			{File: "big.jpg", Path: "a/big.jpg", Width: 800, Height: 600},
			{File: "thumb.48.48.png", Path: "a/thumb.48.48.png", Width: 4800, Height: 4800},
			{File: "notes.txt", Path: "a/notes.txt"},
		},
	}
	a := assetFromRecord("id", "a", rec)
	orig := a.Original()
	if orig == nil || orig.FileName != "big.jpg" {
		t.Fatalf("expected big.jpg as implicit original, got %+v", orig)
	}
}

func TestValidateFindsProblems(t *testing.T) {
	m := NewManifest()
	m.Assets["bad"] = AssetRecord{
		Original: "missing.jpg",
		Crop:     &rendition.Crop{Width: -1, Height: 10},
		Renditions: []RenditionRecord{
			{File: "x.jpg", Path: "bad/x.jpg", Width: -5, Height: 10, Hash: "ff"},
			{File: "y.jpg", Path: "bad/x.jpg", Width: 10, Height: 10, Hash: "ff"},
			{File: "", Path: "", Width: 10, Height: 10},
		},
	}
	m.Stats = Stats{TotalAssets: 7, TotalRenditions: 7}

	errs := m.Validate()
	if len(errs) == 0 {
		t.Fatal("expected validation errors")
	}
	wantSubstrings := []string{
		"original \"missing.jpg\" not among renditions",
		"negative dimensions",
		"duplicate path",
		"missing file name",
		"missing hash",
		"invalid crop region",
		"stats.total_assets mismatch",
		"stats.total_renditions mismatch",
	}
	joined := ""
	for _, e := range errs {
		joined += e + "\n"
	}
	for _, want := range wantSubstrings {
		found := false
		for _, e := range errs {
			if strings.Contains(e, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing validation error containing %q in:\n%s", want, joined)
		}
	}

	if errs := sampleManifest().Validate(); len(errs) != 0 {
		t.Errorf("sample manifest should be valid, got %v", errs)
	}
}
