// =============================================================================
// Sales Analytics - Pipeline
// =============================================================================
//
// This module orchestrates one analysis run, from reading the sales file to
// writing the report.
//
// PIPELINE:
//   1. Read the sales file (text with encoding fallback, or XLSX)
//   2. Parse lines into transactions (malformed lines are skipped)
//   3. Choose filters (flags/config, or the interactive prompt)
//   4. Validate and filter
//   5. Compute the analysis views
//   6. Fetch the product catalog
//   7. Enrich valid transactions
//   8. Save enriched data
//   9. Write the text report (and optional workbook)
//  10. Done
//
// ERROR HANDLING:
//   Per-record defects never stop a run. A missing input file or catalog is
//   logged and the run continues with empty data. Only failures to write an
//   output file are returned as errors.
//
// =============================================================================

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/sales-analytics/internal/analytics"
	"github.com/ginjaninja78/sales-analytics/internal/catalog"
	"github.com/ginjaninja78/sales-analytics/internal/csvparser"
	"github.com/ginjaninja78/sales-analytics/internal/enrich"
	"github.com/ginjaninja78/sales-analytics/internal/logger"
	"github.com/ginjaninja78/sales-analytics/internal/report"
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/internal/validation"
	"github.com/ginjaninja78/sales-analytics/internal/xlsxparser"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TotalSteps is the number of progress steps of a run.
const TotalSteps = 10

// =============================================================================
// COLLABORATORS
// =============================================================================

// ProductSource supplies the product catalog.
type ProductSource interface {
	FetchAllProducts(ctx context.Context) ([]catalog.Product, catalog.Source, error)
}

// FilterPrompter asks the user for filters.
type FilterPrompter interface {
	AskFilter(records []types.Transaction) (validation.FilterOptions, bool, error)
}

// ProgressFunc is called when a step finishes. status is a short summary.
type ProgressFunc func(step int, desc, status string)

// =============================================================================
// OPTIONS AND RESULT
// =============================================================================

// Options configures a run.
type Options struct {
	// InputFile is the sales file. .xlsx files are read as workbooks.
	InputFile  string
	InputSheet string
	Encodings  []string

	// Filter is used unless Prompter is set and the user chooses filters.
	Filter   validation.FilterOptions
	Prompter FilterPrompter

	// Analysis nil means analytics.DefaultOptions. TopCustomers nil means
	// report.DefaultTopCustomers. Set values are used as given, zero included.
	Analysis     *analytics.Options
	TopCustomers *int

	// Catalog is nil or SkipEnrich is true to run without enrichment.
	Catalog    ProductSource
	SkipEnrich bool

	// Output paths. Placeholders are expanded with the run id as {uuid}.
	// Empty EnrichedOutputFile or WorkbookFile disables that output.
	EnrichedOutputFile string
	ReportFile         string
	WorkbookFile       string

	// Progress receives step notifications. Nil disables them.
	Progress ProgressFunc
}

// Result represents the outcome of a run.
type Result struct {
	RunID string

	Views      analytics.Views
	Filter     validation.FilterSummary
	Enrichment enrich.Stats
	Enriched   []types.EnrichedTransaction

	// Written output paths, after placeholder expansion.
	EnrichedOutputFile string
	ReportFile         string
	WorkbookFile       string

	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	// Encoding is the encoding the input was decoded with ("xlsx" for workbooks).
	Encoding string

	LinesRead       int
	Parsed          int
	SkippedLines    int
	Valid           int
	Invalid         int
	ProductsFetched int
	CatalogSource   catalog.Source

	ProcessingTime time.Duration
}

// =============================================================================
// RUNNER
// =============================================================================

// Runner executes the pipeline.
type Runner struct {
	opts Options
}

// New creates a Runner.
func New(opts Options) *Runner {
	return &Runner{opts: opts}
}

// Run executes the pipeline.
//
// RETURNS:
//   - The run result. It is filled as far as the run got.
//   - An error only when an output file cannot be written.
func (r *Runner) Run(ctx context.Context) (result Result, err error) {
	startTime := time.Now()
	runID := uuid.New().String()
	log := logger.WithFields(logger.FromContext(ctx), map[string]interface{}{
		"run_id": runID,
		"input":  r.opts.InputFile,
	})
	ctx = logger.WithContext(ctx, log)

	result = Result{RunID: runID}
	defer func() { result.Stats.ProcessingTime = time.Since(startTime) }()

	// =========================================================================
	// STEP 1: READ
	// =========================================================================

	lines, encoding := r.readInput(log)
	result.Stats.LinesRead = len(lines)
	result.Stats.Encoding = encoding
	r.progress(1, "Reading sales data", fmt.Sprintf("Successfully read %d transactions", len(lines)))

	// =========================================================================
	// STEP 2: PARSE
	// =========================================================================

	parsed := csvparser.Parse(lines)
	result.Stats.Parsed = len(parsed.Transactions)
	result.Stats.SkippedLines = parsed.Skipped
	log.Debug().Int("parsed", len(parsed.Transactions)).Int("skipped", parsed.Skipped).Msg("parsed transactions")
	r.progress(2, "Parsing and cleaning data", fmt.Sprintf("Parsed %d records", len(parsed.Transactions)))

	// =========================================================================
	// STEP 3: FILTER OPTIONS
	// =========================================================================

	filter := r.chooseFilter(parsed.Transactions, log)
	r.progress(3, "Applying filter options", filter.String())

	// =========================================================================
	// STEP 4: VALIDATE
	// =========================================================================

	valid, invalid, summary := validation.ValidateAndFilter(parsed.Transactions, filter)
	result.Filter = summary
	result.Stats.Valid = len(valid)
	result.Stats.Invalid = invalid
	log.Info().
		Int("valid", len(valid)).
		Int("invalid", invalid).
		Interface("invalid_by_rule", summary.InvalidByRule).
		Int("filtered_by_region", summary.FilteredByRegion).
		Int("filtered_by_amount", summary.FilteredByAmount).
		Msg("validated transactions")
	r.progress(4, "Validating transactions", fmt.Sprintf("Valid: %d | Invalid: %d", len(valid), invalid))

	// =========================================================================
	// STEP 5: ANALYZE
	// =========================================================================

	analysis := analytics.DefaultOptions()
	if r.opts.Analysis != nil {
		analysis = *r.opts.Analysis
	}
	result.Views = analytics.Analyze(valid, analysis)
	r.progress(5, "Analyzing sales data", "Analysis complete")

	// =========================================================================
	// STEPS 6-8: CATALOG AND ENRICHMENT
	// =========================================================================

	if err = r.enrichStep(ctx, valid, &result); err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 9: REPORT
	// =========================================================================

	if err = r.reportStep(&result); err != nil {
		return result, err
	}

	r.progress(10, "Process Complete!", "")
	log.Info().Dur("elapsed", time.Since(startTime)).Msg("run complete")
	return result, nil
}

// readInput returns the data lines and the encoding used. Read failures are
// logged and yield no lines.
func (r *Runner) readInput(log zerolog.Logger) ([]string, string) {
	if xlsxparser.IsWorkbook(r.opts.InputFile) {
		lines, err := xlsxparser.ReadSalesSheet(r.opts.InputFile, r.opts.InputSheet)
		if err != nil {
			log.Error().Err(err).Str("file", r.opts.InputFile).Msg("failed to read sales workbook")
			return []string{}, ""
		}
		return lines, "xlsx"
	}

	res, err := csvparser.ReadSalesData(r.opts.InputFile, r.opts.Encodings)
	if err != nil {
		if errors.Is(err, csvparser.ErrInputNotFound) {
			log.Error().Str("file", r.opts.InputFile).Msg("sales file not found, continuing with no data")
		} else {
			log.Error().Err(err).Str("file", r.opts.InputFile).Msg("failed to read sales file")
		}
		return res.Lines, ""
	}
	log.Info().Str("file", r.opts.InputFile).Str("encoding", res.Encoding).Int("lines", len(res.Lines)).Msg("read sales data")
	return res.Lines, res.Encoding
}

func (r *Runner) chooseFilter(records []types.Transaction, log zerolog.Logger) validation.FilterOptions {
	if r.opts.Prompter == nil {
		return r.opts.Filter
	}

	opts, ok, err := r.opts.Prompter.AskFilter(records)
	if err != nil {
		log.Warn().Err(err).Msg("filter prompt failed, using configured filters")
		return r.opts.Filter
	}
	if !ok {
		return validation.FilterOptions{}
	}
	return opts
}

func (r *Runner) enrichStep(ctx context.Context, valid []types.Transaction, result *Result) error {
	log := logger.FromContext(ctx)

	if r.opts.SkipEnrich || r.opts.Catalog == nil {
		result.Enriched = enrich.EnrichTransactions(valid, types.ProductMapping{})
		result.Enrichment = enrich.EnrichmentStats(result.Enriched)
		result.Stats.CatalogSource = catalog.SourceNone
		r.progress(6, "Fetching product data from API", "skipped")
		r.progress(7, "Enriching sales data", "skipped")
		r.progress(8, "Saving enriched data", "skipped")
		return nil
	}

	products, source, err := r.opts.Catalog.FetchAllProducts(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("continuing without product catalog")
	}
	mapping := catalog.CreateProductMapping(products)
	result.Stats.ProductsFetched = len(products)
	result.Stats.CatalogSource = source
	log.Debug().Int("mapped", len(mapping)).Msg("created product mapping")
	r.progress(6, "Fetching product data from API", fmt.Sprintf("Fetched %d products", len(products)))

	result.Enriched = enrich.EnrichTransactions(valid, mapping)
	result.Enrichment = enrich.EnrichmentStats(result.Enriched)
	r.progress(7, "Enriching sales data", fmt.Sprintf("Enriched %d/%d (%.1f%%)",
		result.Enrichment.Matched, result.Enrichment.Total, result.Enrichment.SuccessRate))

	if r.opts.EnrichedOutputFile == "" {
		r.progress(8, "Saving enriched data", "skipped")
		return nil
	}
	if len(result.Enriched) == 0 {
		log.Warn().Msg("no enriched data to save")
		r.progress(8, "Saving enriched data", "No data to save")
		return nil
	}

	path := r.expand(r.opts.EnrichedOutputFile, result.RunID)
	if err := enrich.SaveEnrichedData(path, result.Enriched); err != nil {
		return fmt.Errorf("failed to save enriched data: %w", err)
	}
	result.EnrichedOutputFile = path
	log.Info().Str("file", path).Int("records", len(result.Enriched)).Msg("saved enriched data")
	r.progress(8, "Saving enriched data", "Saved to: "+path)
	return nil
}

func (r *Runner) reportStep(result *Result) error {
	in := report.Input{
		Views:        result.Views,
		Enrichment:   result.Enrichment,
		TopCustomers: report.DefaultTopCustomers,
		RunID:        result.RunID,
	}
	if r.opts.TopCustomers != nil {
		in.TopCustomers = *r.opts.TopCustomers
	}

	if r.opts.ReportFile != "" {
		path := r.expand(r.opts.ReportFile, result.RunID)
		if err := report.WriteSalesReport(path, in); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
		result.ReportFile = path
	}

	if r.opts.WorkbookFile != "" {
		path := r.expand(r.opts.WorkbookFile, result.RunID)
		if err := report.WriteWorkbook(path, in); err != nil {
			return fmt.Errorf("failed to generate workbook: %w", err)
		}
		result.WorkbookFile = path
	}

	status := "Report saved to: " + result.ReportFile
	if result.ReportFile == "" {
		status = "skipped"
	}
	r.progress(9, "Generating report", status)
	return nil
}

func (r *Runner) expand(path, runID string) string {
	return utils.ExpandFileName(path, map[string]string{"uuid": runID})
}

func (r *Runner) progress(step int, desc, status string) {
	if r.opts.Progress != nil {
		r.opts.Progress(step, desc, status)
	}
}
