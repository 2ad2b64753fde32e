// =============================================================================
// Sales Analytics - Enricher
// =============================================================================
//
// This module merges product catalog metadata into transactions.
//
// RECORD SHAPES:
//   Records reach the enricher either as parsed transactions or as raw field
//   lists (for example, rows of an existing pipe file). Decode turns both into
//   one canonical Transaction; anything else is skipped.
//
//   KindStructured -> used as-is
//   KindPositional -> first 8 fields mapped in canonical order
//   KindInvalid    -> Skip
//
// LOOKUP:
//   The numeric product id is the first three digits of ProductID, which must
//   contain a "P" ("P101" -> 101). A missing id or a mapping miss leaves the
//   API fields nil and APIMatch false. A single bad record never fails the
//   batch.
//
// =============================================================================

package enrich

import (
	"strconv"
	"strings"

	"github.com/ginjaninja78/sales-analytics/internal/csvparser"
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// =============================================================================
// RECORD DECODING
// =============================================================================

// Kind tags the shape of a RawRecord.
type Kind int

const (
	KindInvalid Kind = iota
	KindStructured
	KindPositional
)

// RawRecord is a record of unknown shape at the system boundary.
type RawRecord struct {
	Kind        Kind
	Transaction types.Transaction
	Fields      []string
}

// Structured wraps a parsed transaction.
func Structured(t types.Transaction) RawRecord {
	return RawRecord{Kind: KindStructured, Transaction: t}
}

// Positional wraps a raw field list.
func Positional(fields []string) RawRecord {
	return RawRecord{Kind: KindPositional, Fields: fields}
}

// PositionalLines splits pipe-delimited lines into positional records.
func PositionalLines(lines []string) []RawRecord {
	records := make([]RawRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, Positional(strings.Split(line, csvparser.Delimiter)))
	}
	return records
}

// Outcome is the result of Decode.
type Outcome int

const (
	Skip Outcome = iota
	Decoded
)

// Decode converts a RawRecord into a Transaction.
func Decode(r RawRecord) (types.Transaction, Outcome) {
	switch r.Kind {
	case KindStructured:
		return r.Transaction, Decoded
	case KindPositional:
		if len(r.Fields) < csvparser.FieldCount {
			return types.Transaction{}, Skip
		}
		t, err := csvparser.ParseFields(r.Fields[:csvparser.FieldCount])
		if err != nil {
			return types.Transaction{}, Skip
		}
		return t, Decoded
	default:
		return types.Transaction{}, Skip
	}
}

// =============================================================================
// ENRICHMENT
// =============================================================================

// ExtractProductID returns the numeric id encoded in a product id.
// ok is false when the id has no "P", no digits, or its number is zero.
func ExtractProductID(productID string) (int, bool) {
	if !strings.Contains(productID, "P") {
		return 0, false
	}

	var digits strings.Builder
	for _, r := range productID {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			if digits.Len() == 3 {
				break
			}
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}

	id, err := strconv.Atoi(digits.String())
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// Enrich decodes records and attaches catalog metadata. Skipped records are
// dropped; everything else is returned in input order.
func Enrich(records []RawRecord, mapping types.ProductMapping) []types.EnrichedTransaction {
	enriched := make([]types.EnrichedTransaction, 0, len(records))
	for _, r := range records {
		t, outcome := Decode(r)
		if outcome == Skip {
			continue
		}
		enriched = append(enriched, enrichOne(t, mapping))
	}
	return enriched
}

// EnrichTransactions enriches already-parsed transactions.
func EnrichTransactions(txns []types.Transaction, mapping types.ProductMapping) []types.EnrichedTransaction {
	enriched := make([]types.EnrichedTransaction, 0, len(txns))
	for _, t := range txns {
		enriched = append(enriched, enrichOne(t, mapping))
	}
	return enriched
}

func enrichOne(t types.Transaction, mapping types.ProductMapping) types.EnrichedTransaction {
	e := types.EnrichedTransaction{Transaction: t}

	id, ok := ExtractProductID(t.ProductID)
	if !ok {
		return e
	}
	info, found := mapping[id]
	if !found {
		return e
	}

	category, brand, rating := info.Category, info.Brand, info.Rating
	e.APICategory = &category
	e.APIBrand = &brand
	e.APIRating = &rating
	e.APIMatch = true
	return e
}

// =============================================================================
// STATISTICS
// =============================================================================

// Stats summarises an enrichment run.
type Stats struct {
	Matched int
	Total   int

	// SuccessRate is Matched/Total as a percentage; 0 when Total is 0.
	SuccessRate float64

	// UnmatchedProductIDs lists distinct unmatched ids in first-seen order.
	UnmatchedProductIDs []string
}

// EnrichmentStats computes match statistics.
func EnrichmentStats(enriched []types.EnrichedTransaction) Stats {
	s := Stats{Total: len(enriched), UnmatchedProductIDs: []string{}}
	seen := make(map[string]struct{})

	for _, e := range enriched {
		if e.APIMatch {
			s.Matched++
			continue
		}
		if _, dup := seen[e.ProductID]; dup {
			continue
		}
		seen[e.ProductID] = struct{}{}
		s.UnmatchedProductIDs = append(s.UnmatchedProductIDs, e.ProductID)
	}

	if s.Total > 0 {
		s.SuccessRate = float64(s.Matched) / float64(s.Total) * 100
	}
	return s
}
