package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/mediares/internal/rendition"
	"github.com/AnyUserName/mediares/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats <asset_root_or_manifest>",
	Short: "Display statistics for an asset tree or manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	path := args[0]

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	var m *store.Manifest
	if info.IsDir() {
		// Prefer an existing manifest, scan the tree otherwise.
		manifestPath := filepath.Join(path, store.ManifestFileName)
		if _, err := os.Stat(manifestPath); err == nil {
			m, err = store.LoadManifest(manifestPath)
			if err != nil {
				return err
			}
		} else {
			logVerbose("no manifest in %s, scanning", path)
			m, err = store.ScanTree(path)
			if err != nil {
				return err
			}
		}
	} else {
		m, err = store.LoadManifest(path)
		if err != nil {
			return err
		}
	}

	printStats(m)
	return nil
}

func printStats(m *store.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	if m.GeneratedAt != "" {
		fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Total assets:     %d\n", s.TotalAssets)
	fmt.Printf("  Total renditions: %d\n", s.TotalRenditions)
	fmt.Printf("  Total size:       %s\n", formatBytes(s.TotalBytes))
	fmt.Println()

	// Per-extension breakdown.
	type extStat struct {
		count int
		bytes int64
	}
	extStats := map[string]extStat{}
	thumbnails := 0
	nonImages := 0
	for _, key := range m.Keys() {
		for _, r := range m.Assets[key].Renditions {
			ext := extLabel(r.File)
			es := extStats[ext]
			es.count++
			es.bytes += r.Size
			extStats[ext] = es
			if strings.HasPrefix(r.File, rendition.ThumbnailPrefix) {
				thumbnails++
			}
			if r.Width == 0 || r.Height == 0 {
				nonImages++
			}
		}
	}

	var exts []string
	for ext := range extStats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	fmt.Println("  Extension breakdown:")
	for _, ext := range exts {
		es := extStats[ext]
		fmt.Printf("    %-7s %4d renditions  %s\n", ext, es.count, formatBytes(es.bytes))
	}
	fmt.Println()

	fmt.Printf("  Hidden thumbnails: %d\n", thumbnails)
	fmt.Printf("  Non-image files:   %d\n", nonImages)

	// Warnings.
	var warnings []string
	for _, key := range m.Keys() {
		asset, _ := m.Asset(key)
		if asset.Original() == nil {
			warnings = append(warnings, fmt.Sprintf("asset %q has no designated original", key))
		}
	}
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}

func extLabel(file string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file)), ".")
	if ext == "" {
		return "(none)"
	}
	return ext
}
