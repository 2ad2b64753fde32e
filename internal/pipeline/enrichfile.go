package pipeline

import (
	"context"
	"fmt"

	"github.com/ginjaninja78/sales-analytics/internal/catalog"
	"github.com/ginjaninja78/sales-analytics/internal/csvparser"
	"github.com/ginjaninja78/sales-analytics/internal/enrich"
	"github.com/ginjaninja78/sales-analytics/internal/logger"
)

// EnrichFileOptions configures EnrichFile.
type EnrichFileOptions struct {
	InputFile  string
	OutputFile string
	Encodings  []string
	Catalog    ProductSource
}

// EnrichFile re-enriches an existing pipe-delimited file. Each line is decoded
// positionally, so files that already carry API columns are accepted; those
// columns are recomputed. Lines that cannot be decoded are dropped.
func EnrichFile(ctx context.Context, opts EnrichFileOptions) (enrich.Stats, error) {
	log := logger.FromContext(ctx)

	res, err := csvparser.ReadSalesData(opts.InputFile, opts.Encodings)
	if err != nil {
		return enrich.Stats{}, fmt.Errorf("failed to read %s: %w", opts.InputFile, err)
	}

	var products []catalog.Product
	if opts.Catalog != nil {
		var fetchErr error
		products, _, fetchErr = opts.Catalog.FetchAllProducts(ctx)
		if fetchErr != nil {
			log.Warn().Err(fetchErr).Msg("continuing without product catalog")
		}
	}

	records := enrich.PositionalLines(res.Lines)
	enriched := enrich.Enrich(records, catalog.CreateProductMapping(products))
	if dropped := len(records) - len(enriched); dropped > 0 {
		log.Warn().Int("dropped", dropped).Msg("dropped lines that could not be decoded")
	}

	outputFile := opts.OutputFile
	if outputFile == "" {
		outputFile = opts.InputFile
	}
	if err := enrich.SaveEnrichedData(outputFile, enriched); err != nil {
		return enrich.Stats{}, err
	}

	stats := enrich.EnrichmentStats(enriched)
	log.Info().
		Str("file", outputFile).
		Int("matched", stats.Matched).
		Int("total", stats.Total).
		Msg("enriched file")
	return stats, nil
}
