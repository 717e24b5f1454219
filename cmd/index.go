package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/mediares/internal/store"
)

var indexOut string

var indexCmd = &cobra.Command{
	Use:   "index <asset_root>",
	Short: "Scan an asset tree and write an asset manifest",
	Long: `Walks a directory tree of pre-generated renditions, probes image
dimensions, hashes file contents, and writes an asset manifest. Every
directory containing files becomes one asset keyed by its relative
path.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVarP(&indexOut, "out", "o", "", "manifest path (default <asset_root>/"+store.ManifestFileName+")")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(_ *cobra.Command, args []string) error {
	root := args[0]
	start := time.Now()

	logVerbose("scanning: %s", root)
	m, err := store.ScanTree(root)
	if err != nil {
		return err
	}

	out := indexOut
	if out == "" {
		out = filepath.Join(root, store.ManifestFileName)
	}
	if err := store.WriteManifest(m, out); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Assets:     %d\n", m.Stats.TotalAssets)
	fmt.Printf("  Renditions: %d\n", m.Stats.TotalRenditions)
	fmt.Printf("  Bytes:      %s\n", formatBytes(m.Stats.TotalBytes))
	fmt.Printf("  Time:       %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("  Manifest:   %s\n", out)
	fmt.Println()
	return nil
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
