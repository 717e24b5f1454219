package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/mediares/internal/config"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the format catalog (built-ins plus configured formats)",
	Args:  cobra.NoArgs,
	RunE:  runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)

	var rows [][]string
	for _, name := range catalog.Names() {
		spec, _ := catalog.Get(name)
		rows = append(rows, []string{
			spec.Name,
			boundsLabel(spec.MinWidth, spec.MaxWidth),
			boundsLabel(spec.MinHeight, spec.MaxHeight),
			ratioLabel(spec.Ratio),
			extensionsLabel(spec.Extensions),
		})
	}

	table.Header([]string{"NAME", "WIDTH", "HEIGHT", "RATIO", "EXTENSIONS"})
	table.Bulk(rows)
	table.Render()
	return nil
}

func boundsLabel(min, max int) string {
	switch {
	case min == 0 && max == 0:
		return "any"
	case max == 0:
		return fmt.Sprintf("≥%d", min)
	case min == 0:
		return fmt.Sprintf("≤%d", max)
	case min == max:
		return fmt.Sprintf("%d", min)
	default:
		return fmt.Sprintf("%d–%d", min, max)
	}
}

func ratioLabel(ratio float64) string {
	if ratio == 0 {
		return "any"
	}
	return fmt.Sprintf("%.3f", ratio)
}

func extensionsLabel(extensions []string) string {
	if len(extensions) == 0 {
		return "any"
	}
	return strings.Join(extensions, ", ")
}
