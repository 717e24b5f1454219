package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".mediares.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndCatalog(t *testing.T) {
	path := writeConfig(t, `
formats:
  hero:
    min_width: 1600
    min_height: 900
    ratio_width: 16
    ratio_height: 9
    extensions: [jpg, webp]
  teaser-small:
    min_width: 100
    min_height: 100
    ratio: 1.0
defaults:
  extensions: [jpg, png]
  include_thumbnails: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Defaults.Extensions) != 2 || !cfg.Defaults.IncludeThumbnails {
		t.Errorf("defaults: %+v", cfg.Defaults)
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	hero, ok := catalog.Get("hero")
	if !ok {
		t.Fatal("hero missing from catalog")
	}
	if hero.MinWidth != 1600 || hero.MinHeight != 900 {
		t.Errorf("hero bounds: %+v", hero)
	}
	if math.Abs(hero.Ratio-16.0/9.0) > 0.001 {
		t.Errorf("hero ratio: got %g", hero.Ratio)
	}

	// Config overrides the built-in of the same name.
	teaser, _ := catalog.Get("teaser-small")
	if teaser.MinWidth != 100 {
		t.Errorf("teaser-small override: %+v", teaser)
	}

	// Built-ins remain available.
	if _, ok := catalog.Get("stage-wide"); !ok {
		t.Error("built-in stage-wide missing")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	// No explicit file and nothing in the search path of a temp cwd.
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load without config file: %v", err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if catalog.Len() == 0 {
		t.Error("default catalog should not be empty")
	}
}

func TestLoadInvalidFormat(t *testing.T) {
	path := writeConfig(t, `
formats:
  broken:
    ratio: -2.0
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := cfg.Catalog(); err == nil {
		t.Error("negative ratio in config must be rejected")
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("explicitly named missing config file must error")
	}
}
