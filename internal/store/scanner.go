package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// Register decoders for dimension probing beyond the stdlib set.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/AnyUserName/mediares/internal/format"
	"github.com/AnyUserName/mediares/internal/hasher"
)

// ScanAsset treats dir as a single asset whose files (recursively) are
// its stored renditions.
func ScanAsset(dir string) (*Asset, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	rec, err := scanRecord(abs, abs)
	if err != nil {
		return nil, err
	}
	if len(rec.Renditions) == 0 {
		return nil, fmt.Errorf("no renditions found in %s", dir)
	}
	key := filepath.Base(abs)
	return assetFromRecord(abs, key, rec), nil
}

// ScanTree walks root and builds a manifest with one asset per directory
// that contains files. Asset keys are slash-separated paths relative to
// root ("." for files directly under it).
func ScanTree(root string) (*Manifest, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	m := NewManifest()
	m.BasePath = abs
	m.source = abs

	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != abs {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || d.Name() == ManifestFileName {
			return nil
		}
		relDir, err := filepath.Rel(abs, filepath.Dir(path))
		if err != nil {
			return err
		}
		key := filepath.ToSlash(relDir)
		rr, err := probeFile(abs, path)
		if err != nil {
			return err
		}
		rec := m.Assets[key]
		rec.Renditions = append(rec.Renditions, rr)
		m.Assets[key] = rec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if len(m.Assets) == 0 {
		return nil, fmt.Errorf("no renditions found under %s", root)
	}

	for key, rec := range m.Assets {
		sortRecords(rec.Renditions)
		m.Assets[key] = rec
	}
	m.ComputeStats()
	return m, nil
}

// scanRecord gathers all files under dir into one asset record.
func scanRecord(root, dir string) (AssetRecord, error) {
	var rec AssetRecord
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || d.Name() == ManifestFileName {
			return nil
		}
		rr, err := probeFile(root, path)
		if err != nil {
			return err
		}
		rec.Renditions = append(rec.Renditions, rr)
		return nil
	})
	if err != nil {
		return AssetRecord{}, fmt.Errorf("scan %s: %w", dir, err)
	}
	sortRecords(rec.Renditions)
	return rec, nil
}

// probeFile builds a rendition record for one file: dimensions for image
// types, content hash, size. Files that fail to decode are kept as
// non-image renditions with zero dimensions.
func probeFile(root, path string) (RenditionRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return RenditionRecord{}, fmt.Errorf("stat %s: %w", path, err)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return RenditionRecord{}, err
	}

	rr := RenditionRecord{
		File: filepath.Base(path),
		Path: filepath.ToSlash(rel),
		Size: info.Size(),
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format.IsImage(ext) {
		// EXIF orientation can swap effective width/height, so decode
		// with auto-orientation instead of reading the raw header.
		if img, err := imaging.Open(path, imaging.AutoOrientation(true)); err == nil {
			bounds := img.Bounds()
			rr.Width = bounds.Dx()
			rr.Height = bounds.Dy()
		}
	}

	rr.Hash, err = hasher.SumFile(path, hasher.HandleLen)
	if err != nil {
		return RenditionRecord{}, fmt.Errorf("hash %s: %w", path, err)
	}
	return rr, nil
}
