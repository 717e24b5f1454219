package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "mediares",
	Short: "Rendition resolution for pre-generated media asset variants",
	Long: `mediares — picks, for a media asset with multiple stored renditions,
the one that satisfies a set of constraints (extensions, fixed size,
named formats with min/max bounds and aspect ratio), or derives a
downscaled virtual rendition from a larger stored one.

Assets come from a directory of rendition files or from an asset
manifest; named formats come from a built-in catalog extendable via
.mediares.yaml.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .mediares.yaml)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"mediares %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[mediares] "+format+"\n", args...)
	}
}
