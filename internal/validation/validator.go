// =============================================================================
// Sales Analytics - Validation and Filtering
// =============================================================================
//
// This module decides which parsed transactions are eligible for analysis.
//
// VALIDATION RULES (a record failing any rule is invalid):
//   - quantity:       Quantity must be > 0
//   - unit_price:     UnitPrice must be > 0
//   - transaction_id: TransactionID must start with "T"
//   - product_id:     ProductID must start with "P"
//   - customer_id:    CustomerID must start with "C"
//   - region:         Region must be non-empty
//
// FILTERS (applied to valid records only):
//   - Region: exact, case-sensitive match
//   - Amount range: Quantity x UnitPrice within [MinAmount, MaxAmount]
//
// ERROR HANDLING:
//   Invalid records are counted, never returned as errors. The first rule a
//   record breaks is tallied in FilterSummary.InvalidByRule.
//
// CUSTOMIZATION:
//   - Add a rule by appending to the rules slice below
//
// =============================================================================

package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/shopspring/decimal"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// Rule names reported in FilterSummary.InvalidByRule.
const (
	RuleQuantity      = "quantity"
	RuleUnitPrice     = "unit_price"
	RuleTransactionID = "transaction_id"
	RuleProductID     = "product_id"
	RuleCustomerID    = "customer_id"
	RuleRegion        = "region"
)

// ValidationError describes the first rule a transaction violates.
type ValidationError struct {
	// Rule is the violated rule name (see the Rule constants).
	Rule string

	// Field is the transaction field that failed.
	Field string

	// Value is the offending value as text.
	Value string

	// TransactionID identifies the record, if it has one.
	TransactionID string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("transaction '%s', field '%s': rule %s failed (value: '%s')",
		e.TransactionID, e.Field, e.Rule, e.Value)
}

type rule struct {
	name  string
	field string
	check func(t types.Transaction) bool
	value func(t types.Transaction) string
}

var rules = []rule{
	{
		name:  RuleQuantity,
		field: "Quantity",
		check: func(t types.Transaction) bool { return t.Quantity > 0 },
		value: func(t types.Transaction) string { return fmt.Sprint(t.Quantity) },
	},
	{
		name:  RuleUnitPrice,
		field: "UnitPrice",
		check: func(t types.Transaction) bool { return t.UnitPrice.IsPositive() },
		value: func(t types.Transaction) string { return t.UnitPrice.String() },
	},
	{
		name:  RuleTransactionID,
		field: "TransactionID",
		check: func(t types.Transaction) bool { return strings.HasPrefix(t.TransactionID, "T") },
		value: func(t types.Transaction) string { return t.TransactionID },
	},
	{
		name:  RuleProductID,
		field: "ProductID",
		check: func(t types.Transaction) bool { return strings.HasPrefix(t.ProductID, "P") },
		value: func(t types.Transaction) string { return t.ProductID },
	},
	{
		name:  RuleCustomerID,
		field: "CustomerID",
		check: func(t types.Transaction) bool { return strings.HasPrefix(t.CustomerID, "C") },
		value: func(t types.Transaction) string { return t.CustomerID },
	},
	{
		name:  RuleRegion,
		field: "Region",
		check: func(t types.Transaction) bool { return t.Region != "" },
		value: func(t types.Transaction) string { return t.Region },
	},
}

// Validate returns nil if t passes every rule, otherwise the first failure.
func Validate(t types.Transaction) *ValidationError {
	for _, r := range rules {
		if !r.check(t) {
			return &ValidationError{
				Rule:          r.name,
				Field:         r.field,
				Value:         r.value(t),
				TransactionID: t.TransactionID,
			}
		}
	}
	return nil
}

// =============================================================================
// FILTER OPTIONS AND SUMMARY
// =============================================================================

// FilterOptions holds the optional user filters. Zero value means no filter.
type FilterOptions struct {
	// Region keeps only records with this exact region. Empty means any.
	Region string

	// MinAmount and MaxAmount bound the transaction amount, inclusive.
	// Nil means unbounded; a zero value is a real bound.
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// IsZero reports whether no filter is set.
func (o FilterOptions) IsZero() bool {
	return o.Region == "" && o.MinAmount == nil && o.MaxAmount == nil
}

// String renders the active filters for logs and the console.
func (o FilterOptions) String() string {
	if o.IsZero() {
		return "none"
	}
	var parts []string
	if o.Region != "" {
		parts = append(parts, "region="+o.Region)
	}
	if o.MinAmount != nil {
		parts = append(parts, "min="+o.MinAmount.String())
	}
	if o.MaxAmount != nil {
		parts = append(parts, "max="+o.MaxAmount.String())
	}
	return strings.Join(parts, " ")
}

// FilterSummary counts what happened to the input.
type FilterSummary struct {
	TotalInput       int
	Invalid          int
	FilteredByRegion int
	FilteredByAmount int
	FinalCount       int

	// InvalidByRule maps rule name to the number of records it rejected.
	InvalidByRule map[string]int
}

// =============================================================================
// VALIDATE AND FILTER
// =============================================================================

// ValidateAndFilter drops invalid records and applies the optional filters.
//
// PARAMETERS:
//   - records: Parsed transactions, in input order.
//   - opts: Optional region and amount filters.
//
// RETURNS:
//   - The surviving records in their original relative order.
//   - The number of invalid records.
//   - A summary of every count.
func ValidateAndFilter(records []types.Transaction, opts FilterOptions) ([]types.Transaction, int, FilterSummary) {
	summary := FilterSummary{
		TotalInput:    len(records),
		InvalidByRule: make(map[string]int),
	}
	valid := make([]types.Transaction, 0, len(records))

	for _, t := range records {
		if verr := Validate(t); verr != nil {
			summary.Invalid++
			summary.InvalidByRule[verr.Rule]++
			continue
		}

		if opts.Region != "" && t.Region != opts.Region {
			summary.FilteredByRegion++
			continue
		}

		if !inRange(t.Amount(), opts.MinAmount, opts.MaxAmount) {
			summary.FilteredByAmount++
			continue
		}

		valid = append(valid, t)
	}

	summary.FinalCount = len(valid)
	return valid, summary.Invalid, summary
}

func inRange(amount decimal.Decimal, minAmount, maxAmount *decimal.Decimal) bool {
	if minAmount != nil && amount.LessThan(*minAmount) {
		return false
	}
	if maxAmount != nil && amount.GreaterThan(*maxAmount) {
		return false
	}
	return true
}

// =============================================================================
// FILTER HELPERS
// =============================================================================

// AvailableRegions returns the distinct non-empty regions, sorted.
func AvailableRegions(records []types.Transaction) []string {
	seen := make(map[string]struct{})
	regions := []string{}
	for _, t := range records {
		if t.Region == "" {
			continue
		}
		if _, ok := seen[t.Region]; ok {
			continue
		}
		seen[t.Region] = struct{}{}
		regions = append(regions, t.Region)
	}
	sort.Strings(regions)
	return regions
}

// AmountRange returns the smallest and largest transaction amount.
// ok is false when records is empty.
func AmountRange(records []types.Transaction) (minAmount, maxAmount decimal.Decimal, ok bool) {
	for i, t := range records {
		amount := t.Amount()
		if i == 0 {
			minAmount, maxAmount = amount, amount
			continue
		}
		if amount.LessThan(minAmount) {
			minAmount = amount
		}
		if amount.GreaterThan(maxAmount) {
			maxAmount = amount
		}
	}
	return minAmount, maxAmount, len(records) > 0
}
