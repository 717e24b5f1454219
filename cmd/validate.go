package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/mediares/internal/config"
	"github.com/AnyUserName/mediares/internal/store"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate an asset manifest, referenced files, and the format catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	ok := color.New(color.FgGreen)
	fail := color.New(color.FgRed)

	// The format catalog must load cleanly before anything else.
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if _, err := cfg.Catalog(); err != nil {
		fail.Printf("  ✗ format catalog: %v\n", err)
		return fmt.Errorf("validation failed")
	}
	ok.Println("  ✓ Format catalog is valid")

	manifestPath := args[0]
	m, err := store.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	errs := m.Validate()
	errs = append(errs, validateFiles(m, filepath.Dir(manifestPath))...)

	if len(errs) == 0 {
		ok.Println("  ✓ Manifest is valid")
		ok.Printf("  ✓ %d assets, %d renditions — all files present\n",
			m.Stats.TotalAssets, m.Stats.TotalRenditions)
		return nil
	}

	fail.Printf("  ✗ Manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

// validateFiles checks that each rendition's backing file exists and
// matches its recorded size.
func validateFiles(m *store.Manifest, baseDir string) []string {
	var errs []string
	for _, key := range m.Keys() {
		for i, r := range m.Assets[key].Renditions {
			if r.Path == "" {
				continue
			}
			fullPath := filepath.Join(baseDir, filepath.FromSlash(r.Path))
			info, err := os.Stat(fullPath)
			if err != nil {
				errs = append(errs, fmt.Sprintf("asset %q rendition[%d]: file not found: %s", key, i, r.Path))
			} else if r.Size > 0 && info.Size() != r.Size {
				errs = append(errs, fmt.Sprintf("asset %q rendition[%d]: size mismatch: manifest=%d, disk=%d",
					key, i, r.Size, info.Size()))
			}
		}
	}
	return errs
}
