package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/mediares/internal/config"
	"github.com/AnyUserName/mediares/internal/format"
	"github.com/AnyUserName/mediares/internal/resolver"
	"github.com/AnyUserName/mediares/internal/store"
)

var (
	resolveAssetKey   string
	resolveExtensions []string
	resolveWidth      int
	resolveHeight     int
	resolveFormats    []string
	resolveThumbnails bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <asset_dir_or_manifest>",
	Short: "Resolve the best rendition for the given constraints",
	Long: `Resolves which stored rendition of an asset satisfies the requested
constraints, or derives a virtual (downscaled) rendition from a larger
stored one. The asset is a directory of rendition files, or an entry of
an asset manifest selected with --asset.

Formats are tried in the order given; the first satisfiable one wins.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveAssetKey, "asset", "a", "", "asset key (required with a manifest)")
	resolveCmd.Flags().StringSliceVarP(&resolveExtensions, "ext", "e", nil, "allowed file extensions")
	resolveCmd.Flags().IntVarP(&resolveWidth, "width", "W", 0, "fixed width in pixels")
	resolveCmd.Flags().IntVarP(&resolveHeight, "height", "H", 0, "fixed height in pixels")
	resolveCmd.Flags().StringSliceVarP(&resolveFormats, "format", "f", nil, "format names from the catalog, in priority order")
	resolveCmd.Flags().BoolVar(&resolveThumbnails, "include-thumbnails", false, "consider reserved thumbnail renditions")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(_ *cobra.Command, cmdArgs []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}

	asset, err := loadAsset(cmdArgs[0], resolveAssetKey)
	if err != nil {
		return err
	}
	logVerbose("asset: %s (%d renditions)", asset.Key(), len(asset.Renditions()))

	args, err := buildArgs(catalog, cfg)
	if err != nil {
		return err
	}

	match, err := resolver.New().Resolve(asset, args)
	if err != nil {
		return err
	}
	if match == nil {
		fmt.Println("  ✗ no rendition satisfies the given constraints")
		return fmt.Errorf("no match for asset %q", asset.Key())
	}

	printMatch(asset, match)
	return nil
}

// loadAsset materializes the asset from a directory or a manifest entry.
func loadAsset(path, key string) (*store.Asset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		manifestPath := filepath.Join(path, store.ManifestFileName)
		if _, err := os.Stat(manifestPath); err == nil && key != "" {
			path = manifestPath
		} else {
			return store.ScanAsset(path)
		}
	}

	m, err := store.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, fmt.Errorf("--asset is required with a manifest (available: %s)",
			strings.Join(m.Keys(), ", "))
	}
	asset, ok := m.Asset(key)
	if !ok {
		return nil, fmt.Errorf("asset %q not in manifest (available: %s)",
			key, strings.Join(m.Keys(), ", "))
	}
	return asset, nil
}

// buildArgs assembles the resolution constraints from flags, catalog
// and config defaults.
func buildArgs(catalog *format.Catalog, cfg *config.Config) (resolver.Args, error) {
	args := resolver.Args{
		FileExtensions:    resolveExtensions,
		FixedWidth:        resolveWidth,
		FixedHeight:       resolveHeight,
		IncludeThumbnails: resolveThumbnails || cfg.Defaults.IncludeThumbnails,
	}
	if len(args.FileExtensions) == 0 {
		args.FileExtensions = cfg.Defaults.Extensions
	}
	for _, name := range resolveFormats {
		spec, ok := catalog.Get(name)
		if !ok {
			return resolver.Args{}, fmt.Errorf("unknown format %q (see 'mediares formats')", name)
		}
		args.Formats = append(args.Formats, spec)
	}
	return args, nil
}

func printMatch(asset *store.Asset, match *resolver.Match) {
	fmt.Println()
	fmt.Printf("  Asset:      %s\n", asset.Key())
	fmt.Printf("  Rendition:  %dx%d %s\n", match.Width, match.Height, match.FileName)

	kind := "stored (exact match)"
	if match.Virtual {
		kind = "virtual (downscale target, not materialized)"
	}
	fmt.Printf("  Kind:       %s\n", kind)
	if match.Crop != nil {
		fmt.Printf("  Crop:       %d,%d %dx%d\n",
			match.Crop.X, match.Crop.Y, match.Crop.Width, match.Crop.Height)
	}
	if match.Format != nil {
		fmt.Printf("  Format:     %s\n", match.Format.Name)
	}
	fmt.Printf("  Source:     %s", match.Path)
	if match.Hash != "" {
		fmt.Printf("  (hash %s)", match.Hash)
	}
	fmt.Println()
	fmt.Println()
}
