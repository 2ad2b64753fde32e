package csvparser

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantErr  error
		wantName string
		wantQty  int
		wantCost string
	}{
		{
			name:     "plain line",
			line:     "T001|2024-01-05|P101|Keyboard|2|500|C01|North",
			wantName: "Keyboard",
			wantQty:  2,
			wantCost: "500",
		},
		{
			name:     "comma in product name",
			line:     "T001|2024-01-05|P101|Mouse, Wireless|2|500|C01|North",
			wantName: "Mouse Wireless",
			wantQty:  2,
			wantCost: "500",
		},
		{
			name:     "thousands separators in numbers",
			line:     "T002|2024-01-05|P102|Laptop|1,500|45,000.50|C02|South",
			wantName: "Laptop",
			wantQty:  1500,
			wantCost: "45000.5",
		},
		{
			name:     "surrounding whitespace",
			line:     "  T003 | 2024-01-06 | P103 |  USB Cable  | 3 | 99.99 | C03 | East ",
			wantName: "USB Cable",
			wantQty:  3,
			wantCost: "99.99",
		},
		{
			name:     "extra fields ignored",
			line:     "T004|2024-01-06|P104|Monitor|1|12000|C04|West|extra|more",
			wantName: "Monitor",
			wantQty:  1,
			wantCost: "12000",
		},
		{
			name:    "too few fields",
			line:    "T005|2024-01-06|P105|Monitor|1|12000|C04",
			wantErr: ErrTooFewFields,
		},
		{
			name:    "non-integer quantity",
			line:    "T006|2024-01-06|P105|Monitor|1.5|12000|C04|West",
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "non-numeric price",
			line:    "T007|2024-01-06|P105|Monitor|1|abc|C04|West",
			wantErr: ErrInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseLine() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLine() unexpected error: %v", err)
			}
			if got.ProductName != tt.wantName {
				t.Errorf("ProductName = %q, want %q", got.ProductName, tt.wantName)
			}
			if got.Quantity != tt.wantQty {
				t.Errorf("Quantity = %d, want %d", got.Quantity, tt.wantQty)
			}
			if !got.UnitPrice.Equal(decimal.RequireFromString(tt.wantCost)) {
				t.Errorf("UnitPrice = %s, want %s", got.UnitPrice, tt.wantCost)
			}
		})
	}
}

func TestParseTransactions_SkipsMalformedAndKeepsOrder(t *testing.T) {
	lines := []string{
		"T001|2024-01-05|P101|Mouse|2|500|C01|North",
		"garbage",
		"T002|2024-01-05|P102|Keyboard|x|800|C02|South",
		"T003|2024-01-06|P103|Cable|3|50|C03|East",
		"T004|2024-01-06|P104|Hub|0|-5|C04|",
	}

	res := Parse(lines)
	if res.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", res.Skipped)
	}

	wantIDs := []string{"T001", "T003", "T004"}
	if len(res.Transactions) != len(wantIDs) {
		t.Fatalf("got %d transactions, want %d", len(res.Transactions), len(wantIDs))
	}
	for i, id := range wantIDs {
		if res.Transactions[i].TransactionID != id {
			t.Errorf("transactions[%d] = %s, want %s", i, res.Transactions[i].TransactionID, id)
		}
	}

	if len(ParseTransactions(nil)) != 0 {
		t.Error("expected no transactions for nil input")
	}
}

func TestParse_Idempotent(t *testing.T) {
	lines := []string{
		"T001|2024-01-05|P101|Mouse, Wireless|1,200|1,500.25|C01|North",
		" T002 |2024-01-07|P202|  Desk   Lamp |4|300|C09| South ",
	}

	first := ParseTransactions(lines)
	again := make([]string, len(first))
	for i, tx := range first {
		again[i] = FormatLine(tx)
	}
	second := ParseTransactions(again)

	if len(first) != len(second) {
		t.Fatalf("length changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.TransactionID != b.TransactionID || a.Date != b.Date || a.ProductID != b.ProductID ||
			a.ProductName != b.ProductName || a.Quantity != b.Quantity || !a.UnitPrice.Equal(b.UnitPrice) ||
			a.CustomerID != b.CustomerID || a.Region != b.Region {
			t.Errorf("record %d changed on reparse: %+v vs %+v", i, a, b)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"500", "500.0"},
		{"99.99", "99.99"},
		{"0.5", "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatPrice(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("FormatPrice(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
