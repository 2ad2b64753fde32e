// =============================================================================
// Sales Analytics - Transaction Parser
// =============================================================================
//
// This module turns raw pipe-delimited lines into Transaction records.
//
// LINE FORMAT:
//   TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region
//
// CLEANING RULES:
//   - Every field is trimmed
//   - Commas in ProductName become spaces ("Mouse, Wireless" -> "Mouse Wireless")
//   - Thousands separators are stripped from Quantity and UnitPrice ("1,500" -> 1500)
//   - Quantity is an integer, UnitPrice a decimal
//
// ERROR HANDLING:
//   A line with fewer than 8 fields or an unparsable number is skipped as a
//   whole. Skipped lines are not "invalid" records: validation only ever sees
//   structurally complete records.
//
// =============================================================================

package csvparser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/shopspring/decimal"
)

// Delimiter separates fields in the sales file.
const Delimiter = "|"

// FieldCount is the minimum number of fields a data line must have.
const FieldCount = 8

var (
	// ErrTooFewFields is returned for lines with fewer than FieldCount fields.
	ErrTooFewFields = errors.New("too few fields")

	// ErrInvalidQuantity is returned when Quantity is not an integer.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidPrice is returned when UnitPrice is not a number.
	ErrInvalidPrice = errors.New("invalid unit price")
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseResult carries parsed records and the number of skipped lines.
type ParseResult struct {
	Transactions []types.Transaction
	Skipped      int
}

// ParseTransactions parses lines into transactions, silently skipping
// malformed lines. Output order matches input order.
func ParseTransactions(lines []string) []types.Transaction {
	return Parse(lines).Transactions
}

// Parse is ParseTransactions with a count of skipped lines.
func Parse(lines []string) ParseResult {
	result := ParseResult{Transactions: make([]types.Transaction, 0, len(lines))}

	for _, line := range lines {
		t, err := ParseLine(line)
		if err != nil {
			result.Skipped++
			continue
		}
		result.Transactions = append(result.Transactions, t)
	}

	return result
}

// ParseLine parses a single pipe-delimited line.
func ParseLine(line string) (types.Transaction, error) {
	return ParseFields(strings.Split(line, Delimiter))
}

// ParseFields maps already-split fields onto a Transaction.
//
// PARAMETERS:
//   - fields: At least FieldCount values in canonical order. Extra fields are ignored.
//
// RETURNS:
//   - The cleaned Transaction.
//   - ErrTooFewFields, ErrInvalidQuantity or ErrInvalidPrice (wrapped).
func ParseFields(fields []string) (types.Transaction, error) {
	if len(fields) < FieldCount {
		return types.Transaction{}, fmt.Errorf("%w: got %d, want %d", ErrTooFewFields, len(fields), FieldCount)
	}

	qtyStr := stripThousands(strings.TrimSpace(fields[4]))
	quantity, err := strconv.Atoi(qtyStr)
	if err != nil {
		return types.Transaction{}, fmt.Errorf("%w: %q", ErrInvalidQuantity, fields[4])
	}

	priceStr := stripThousands(strings.TrimSpace(fields[5]))
	unitPrice, err := decimal.NewFromString(priceStr)
	if err != nil {
		return types.Transaction{}, fmt.Errorf("%w: %q", ErrInvalidPrice, fields[5])
	}

	return types.Transaction{
		TransactionID: strings.TrimSpace(fields[0]),
		Date:          strings.TrimSpace(fields[1]),
		ProductID:     strings.TrimSpace(fields[2]),
		ProductName:   CleanProductName(fields[3]),
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		CustomerID:    strings.TrimSpace(fields[6]),
		Region:        strings.TrimSpace(fields[7]),
	}, nil
}

// CleanProductName trims the name and replaces commas with spaces. Runs of
// whitespace collapse to one space, so "Mouse, Wireless" and "Mouse Wireless"
// name the same product.
func CleanProductName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), ",", " ")
	return strings.Join(strings.Fields(name), " ")
}

// stripThousands removes thousands-separator commas.
func stripThousands(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// =============================================================================
// FORMATTING
// =============================================================================

// FormatFields renders a transaction back into its canonical fields.
// Parsing the joined result yields an equal transaction.
func FormatFields(t types.Transaction) []string {
	return []string{
		t.TransactionID,
		t.Date,
		t.ProductID,
		t.ProductName,
		strconv.Itoa(t.Quantity),
		FormatPrice(t.UnitPrice),
		t.CustomerID,
		t.Region,
	}
}

// FormatLine renders a transaction as a pipe-delimited line.
func FormatLine(t types.Transaction) string {
	return strings.Join(FormatFields(t), Delimiter)
}

// FormatPrice renders a price the way the legacy exporter did: integral
// values keep a trailing ".0".
func FormatPrice(d decimal.Decimal) string {
	s := d.String()
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
