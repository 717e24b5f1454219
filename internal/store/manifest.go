package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/AnyUserName/mediares/internal/rendition"
)

// ManifestFileName is the default manifest name inside an asset tree.
const ManifestFileName = "mediares.manifest.json"

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// Manifest is a snapshot of an asset tree: every asset with its stored
// renditions, original designation, and optional crop region.
type Manifest struct {
	Version     int                    `json:"version"`
	GeneratedAt string                 `json:"generated_at"`
	BasePath    string                 `json:"base_path"`
	Assets      map[string]AssetRecord `json:"assets"`
	Stats       Stats                  `json:"stats"`

	source string // path the manifest was loaded from, for asset IDs
}

// AssetRecord describes one asset in the manifest.
type AssetRecord struct {
	Title      string            `json:"title,omitempty"`
	Original   string            `json:"original,omitempty"` // file name of the original rendition
	Crop       *rendition.Crop   `json:"crop,omitempty"`
	Renditions []RenditionRecord `json:"renditions"`
}

// RenditionRecord describes one stored rendition file.
type RenditionRecord struct {
	File   string `json:"file"`
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"`
	Hash   string `json:"hash"`
}

// Stats aggregates manifest totals.
type Stats struct {
	TotalAssets     int   `json:"total_assets"`
	TotalRenditions int   `json:"total_renditions"`
	TotalBytes      int64 `json:"total_bytes"`
}

// NewManifest creates an empty manifest with defaults.
func NewManifest() *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		BasePath:    "./",
		Assets:      make(map[string]AssetRecord),
	}
}

// ComputeStats recalculates aggregate totals from the asset records.
func (m *Manifest) ComputeStats() {
	var s Stats
	s.TotalAssets = len(m.Assets)
	for _, a := range m.Assets {
		s.TotalRenditions += len(a.Renditions)
		for _, r := range a.Renditions {
			s.TotalBytes += r.Size
		}
	}
	m.Stats = s
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Version != SupportedManifestVersion {
		return nil, fmt.Errorf("unsupported manifest version %d", m.Version)
	}
	m.source = path
	return &m, nil
}

// WriteManifest serializes the manifest to a JSON file.
func WriteManifest(m *Manifest, path string) error {
	m.ComputeStats()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// Asset materializes the asset snapshot for the given key.
func (m *Manifest) Asset(key string) (*Asset, bool) {
	rec, ok := m.Assets[key]
	if !ok {
		return nil, false
	}
	id := m.source + "#" + key
	if m.source == "" {
		id = m.BasePath + "#" + key
	}
	return assetFromRecord(id, key, rec), true
}

// Keys returns all asset keys, sorted.
func (m *Manifest) Keys() []string {
	keys := make([]string, 0, len(m.Assets))
	for k := range m.Assets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks the manifest for structural problems and returns one
// message per finding.
func (m *Manifest) Validate() []string {
	var errs []string

	if m.Version != SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	for _, key := range m.Keys() {
		rec := m.Assets[key]
		if len(rec.Renditions) == 0 {
			errs = append(errs, fmt.Sprintf("asset %q: no renditions", key))
		}

		seenPaths := map[string]bool{}
		originalFound := rec.Original == ""
		for i, r := range rec.Renditions {
			if r.File == "" {
				errs = append(errs, fmt.Sprintf("asset %q rendition[%d]: missing file name", key, i))
			}
			if r.Path == "" {
				errs = append(errs, fmt.Sprintf("asset %q rendition[%d]: missing path", key, i))
			}
			if r.Width < 0 || r.Height < 0 {
				errs = append(errs, fmt.Sprintf("asset %q rendition[%d]: negative dimensions %dx%d",
					key, i, r.Width, r.Height))
			}
			if r.Hash == "" {
				errs = append(errs, fmt.Sprintf("asset %q rendition[%d]: missing hash", key, i))
			}
			if r.Path != "" && seenPaths[r.Path] {
				errs = append(errs, fmt.Sprintf("asset %q rendition[%d]: duplicate path %q", key, i, r.Path))
			}
			seenPaths[r.Path] = true
			if r.File == rec.Original {
				originalFound = true
			}
		}
		if !originalFound {
			errs = append(errs, fmt.Sprintf("asset %q: original %q not among renditions", key, rec.Original))
		}

		if c := rec.Crop; c != nil {
			if c.Width <= 0 || c.Height <= 0 || c.X < 0 || c.Y < 0 {
				errs = append(errs, fmt.Sprintf("asset %q: invalid crop region %d,%d %dx%d",
					key, c.X, c.Y, c.Width, c.Height))
			}
		}
	}

	// Stats consistency.
	renditionCount := 0
	for _, rec := range m.Assets {
		renditionCount += len(rec.Renditions)
	}
	if m.Stats.TotalAssets != len(m.Assets) {
		errs = append(errs, fmt.Sprintf("stats.total_assets mismatch: %d != %d", m.Stats.TotalAssets, len(m.Assets)))
	}
	if m.Stats.TotalRenditions != renditionCount {
		errs = append(errs, fmt.Sprintf("stats.total_renditions mismatch: %d != %d", m.Stats.TotalRenditions, renditionCount))
	}

	return errs
}
