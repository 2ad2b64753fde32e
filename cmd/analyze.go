// =============================================================================
// Sales Analytics - Analyze Command
// =============================================================================
//
// This file defines the 'analyze' command, the main command of the tool. It
// runs the whole pipeline and prints one progress line per step.
//
// COMMAND USAGE:
//   sales-analytics analyze [flags]
//
// FLAGS:
//   --input        : Sales file (overrides input_file)
//   --interactive  : Ask for filters before validation
//   --region       : Keep only this region (exact, case-sensitive)
//   --min-amount   : Keep transactions with amount >= value
//   --max-amount   : Keep transactions with amount <= value
//   --top          : Size of the top products view
//   --threshold    : Quantity below which a product is low-performing
//   --skip-enrich  : Do not contact the product catalog
//   --workbook     : Also write an XLSX workbook to this path
//
// Flags win over config.yaml; config.yaml wins over built-in defaults.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ginjaninja78/sales-analytics/internal/analytics"
	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/ginjaninja78/sales-analytics/internal/pipeline"
	"github.com/ginjaninja78/sales-analytics/internal/prompt"
	"github.com/ginjaninja78/sales-analytics/internal/validation"
	"github.com/spf13/cobra"
)

// bannerWidth is the width of the console banner rules.
const bannerWidth = 47

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	analyzeInput       string
	analyzeInteractive bool
	analyzeRegion      string
	analyzeMinAmount   string
	analyzeMaxAmount   string
	analyzeTop         int
	analyzeThreshold   int
	analyzeSkipEnrich  bool
	analyzeWorkbook    string
)

// =============================================================================
// ANALYZE COMMAND DEFINITION
// =============================================================================

// analyzeCmd represents the 'analyze' command.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full sales analysis pipeline",
	Long: `The analyze command reads the sales file, parses and validates every
transaction, computes the revenue views, enriches valid transactions with
product catalog data and writes the enriched data file and the text report.

Malformed lines and invalid records are skipped and counted; they never stop
the run. A missing input file or an unreachable catalog is logged and the run
continues with what is available.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd)
	},
}

// init registers the analyze command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(analyzeCmd)

	flags := analyzeCmd.Flags()
	flags.StringVar(&analyzeInput, "input", "", "Path to the sales file (overrides input_file)")
	flags.BoolVarP(&analyzeInteractive, "interactive", "i", false, "Ask for region and amount filters")
	flags.StringVar(&analyzeRegion, "region", "", "Keep only transactions of this region")
	flags.StringVar(&analyzeMinAmount, "min-amount", "", "Keep transactions with amount >= value")
	flags.StringVar(&analyzeMaxAmount, "max-amount", "", "Keep transactions with amount <= value")
	flags.IntVar(&analyzeTop, "top", 0, "Number of top-selling products to list")
	flags.IntVar(&analyzeThreshold, "threshold", 0, "Quantity below which a product is low-performing")
	flags.BoolVar(&analyzeSkipEnrich, "skip-enrich", false, "Do not fetch the product catalog")
	flags.StringVar(&analyzeWorkbook, "workbook", "", "Also write an XLSX workbook to this path")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runAnalyze runs the pipeline with options built from config and flags.
func runAnalyze(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	opts, err := analyzeOptions(cmd, appConfig)
	if err != nil {
		return err
	}
	if analyzeInteractive {
		opts.Prompter = prompt.New(cmd.InOrStdin(), out)
	}
	opts.Progress = consoleProgress(out)

	printBanner(out)

	result, err := pipeline.New(opts).Run(cmd.Context())
	if ctxErr := cmd.Context().Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		fmt.Fprintf(out, "\n\n❌ Error occurred: %v\n", err)
		fmt.Fprintln(out, "Please check your data files and try again.")
		return err
	}

	fmt.Fprintf(out, "Run ID: %s (%s)\n", result.RunID, result.Stats.ProcessingTime.Round(time.Millisecond))
	return nil
}

// analyzeOptions merges the configuration with command-line flags.
func analyzeOptions(cmd *cobra.Command, cfg *config.MainConfig) (pipeline.Options, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	flags := cmd.Flags()

	filterCfg := cfg.Filter
	if flags.Changed("region") {
		filterCfg.Region = analyzeRegion
	}
	if flags.Changed("min-amount") {
		filterCfg.MinAmount = analyzeMinAmount
	}
	if flags.Changed("max-amount") {
		filterCfg.MaxAmount = analyzeMaxAmount
	}
	minAmount, maxAmount, err := filterCfg.Amounts()
	if err != nil {
		return pipeline.Options{}, err
	}

	analysis := analytics.Options{TopN: cfg.Analysis.TopProducts, LowThreshold: cfg.Analysis.LowThreshold}
	if flags.Changed("top") {
		analysis.TopN = analyzeTop
	}
	if flags.Changed("threshold") {
		analysis.LowThreshold = analyzeThreshold
	}

	opts := pipeline.Options{
		InputFile:  cfg.InputFile,
		InputSheet: cfg.InputSheet,
		Encodings:  cfg.Encodings,
		Filter: validation.FilterOptions{
			Region:    strings.TrimSpace(filterCfg.Region),
			MinAmount: minAmount,
			MaxAmount: maxAmount,
		},
		Analysis:           &analysis,
		TopCustomers:       &cfg.Analysis.TopCustomers,
		SkipEnrich:         analyzeSkipEnrich,
		EnrichedOutputFile: cfg.EnrichedOutputFile,
		ReportFile:         cfg.ReportFile,
		WorkbookFile:       cfg.WorkbookFile,
	}
	if flags.Changed("input") {
		opts.InputFile = analyzeInput
	}
	if flags.Changed("workbook") {
		opts.WorkbookFile = analyzeWorkbook
	}

	if !opts.SkipEnrich {
		client, err := newCatalogClient(cfg.Catalog)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Catalog = client
	}
	return opts, nil
}

// =============================================================================
// CONSOLE OUTPUT
// =============================================================================

func printBanner(w io.Writer) {
	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "      SALES ANALYTICS SYSTEM")
	fmt.Fprintln(w, rule)
}

// consoleProgress prints one line per finished step.
func consoleProgress(w io.Writer) pipeline.ProgressFunc {
	return func(step int, desc, status string) {
		fmt.Fprintf(w, "\n[%d/%d] %s...", step, pipeline.TotalSteps, desc)
		if status != "" {
			fmt.Fprintf(w, " ✓ %s", status)
		}
		fmt.Fprintln(w)
		if step == pipeline.TotalSteps {
			fmt.Fprintln(w, strings.Repeat("=", bannerWidth))
		}
	}
}
