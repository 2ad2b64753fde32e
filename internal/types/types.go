// =============================================================================
// Sales Analytics - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser
//   - validation
//   - analytics
//   - enrich
//   - report
//
// LIFECYCLE:
//   Transactions are created once by the parser and never modified afterwards.
//   Enrichment produces new EnrichedTransaction values; it does not write to
//   the Transaction it wraps.
//
// =============================================================================

package types

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// FIELD LISTS
// =============================================================================

// TransactionFields is the canonical column order of the input file.
var TransactionFields = []string{
	"TransactionID",
	"Date",
	"ProductID",
	"ProductName",
	"Quantity",
	"UnitPrice",
	"CustomerID",
	"Region",
}

// EnrichedFields is the column order of the enriched output file.
var EnrichedFields = append(append([]string{}, TransactionFields...),
	"API_Category",
	"API_Brand",
	"API_Rating",
	"API_Match",
)

// =============================================================================
// TRANSACTION TYPES
// =============================================================================

// Transaction represents one cleaned sales record.
type Transaction struct {
	// TransactionID must start with "T" to be valid.
	TransactionID string

	// Date is kept as the raw date token. It is compared lexically, so
	// "2024-01-05" style values sort chronologically.
	Date string

	// ProductID must start with "P" followed by a numeric suffix.
	ProductID string

	// ProductName has had its commas replaced with spaces.
	ProductName string

	// Quantity must be > 0 to be valid.
	Quantity int

	// UnitPrice must be > 0 to be valid.
	UnitPrice decimal.Decimal

	// CustomerID must start with "C" to be valid.
	CustomerID string

	// Region must be non-empty to be valid.
	Region string
}

// Amount returns Quantity x UnitPrice at full precision.
func (t Transaction) Amount() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// EnrichedTransaction is a Transaction plus product catalog metadata.
// A nil pointer field means the value is unknown (no catalog match).
type EnrichedTransaction struct {
	Transaction

	APICategory *string
	APIBrand    *string
	APIRating   *float64

	// APIMatch is true when the product id was found in the mapping.
	APIMatch bool
}

// =============================================================================
// PRODUCT CATALOG TYPES
// =============================================================================

// ProductInfo is the subset of catalog data used for enrichment.
type ProductInfo struct {
	Title    string
	Category string
	Brand    string
	Rating   float64
}

// ProductMapping maps a numeric product id to its catalog metadata.
// It is built once per run and only read afterwards.
type ProductMapping map[int]ProductInfo
