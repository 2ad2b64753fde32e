package enrich

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ginjaninja78/sales-analytics/internal/csvparser"
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// FormatRecord renders an enriched record in EnrichedFields order.
// Nil values become empty strings and APIMatch is True or False.
func FormatRecord(e types.EnrichedTransaction) []string {
	row := csvparser.FormatFields(e.Transaction)
	row = append(row,
		derefString(e.APICategory),
		derefString(e.APIBrand),
		formatRating(e.APIRating),
		formatBool(e.APIMatch),
	)
	return row
}

// SaveEnrichedData writes enriched records as a pipe-delimited file with a
// header row. An empty slice writes nothing.
func SaveEnrichedData(path string, enriched []types.EnrichedTransaction) (err error) {
	if len(enriched) == 0 {
		return nil
	}

	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create enriched file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close enriched file: %w", cerr)
		}
	}()

	w := bufio.NewWriter(file)
	if _, err := w.WriteString(strings.Join(types.EnrichedFields, csvparser.Delimiter) + "\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, e := range enriched {
		if _, err := w.WriteString(strings.Join(FormatRecord(e), csvparser.Delimiter) + "\n"); err != nil {
			return fmt.Errorf("failed to write record %s: %w", e.TransactionID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush enriched file: %w", err)
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatRating(r *float64) string {
	if r == nil {
		return ""
	}
	s := strconv.FormatFloat(*r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
