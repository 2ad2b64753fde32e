// =============================================================================
// Sales Analytics - Enrich Command
// =============================================================================
//
// This file defines the 'enrich' command, which enriches an existing
// pipe-delimited file without running the analysis. Lines are decoded by
// position, so previously enriched files can be refreshed in place.
//
// COMMAND USAGE:
//   sales-analytics enrich [--input file] [--output file]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/ginjaninja78/sales-analytics/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	enrichInput  string
	enrichOutput string
)

// enrichCmd represents the 'enrich' command.
var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a pipe-delimited file with product catalog data",
	Long: `Read a pipe-delimited transaction file, look up every product id in the
product catalog and write the records with the API_Category, API_Brand,
API_Rating and API_Match columns. Existing API columns are recomputed.

The input defaults to input_file and the output defaults to the input path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEnrich(cmd)
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)
	enrichCmd.Flags().StringVar(&enrichInput, "input", "", "File to enrich (default: input_file)")
	enrichCmd.Flags().StringVar(&enrichOutput, "output", "", "Output file (default: overwrite the input)")
}

func runEnrich(cmd *cobra.Command) error {
	cfg := appConfig
	if cfg == nil {
		cfg = config.Default()
	}

	input := cfg.InputFile
	if enrichInput != "" {
		input = enrichInput
	}

	client, err := newCatalogClient(cfg.Catalog)
	if err != nil {
		return err
	}

	stats, err := pipeline.EnrichFile(cmd.Context(), pipeline.EnrichFileOptions{
		InputFile:  input,
		OutputFile: enrichOutput,
		Encodings:  cfg.Encodings,
		Catalog:    client,
	})
	if err != nil {
		return err
	}

	output := enrichOutput
	if output == "" {
		output = input
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Enriched %d/%d (%.1f%%)\n", stats.Matched, stats.Total, stats.SuccessRate)
	fmt.Fprintf(cmd.OutOrStdout(), "Saved to: %s\n", output)
	return nil
}
