package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/sales-analytics/internal/analytics"
	"github.com/ginjaninja78/sales-analytics/internal/enrich"
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func scenarioInput() Input {
	txns := []types.Transaction{
		{TransactionID: "T001", Date: "2024-01-05", ProductID: "P101", ProductName: "Mouse Wireless",
			Quantity: 2, UnitPrice: decimal.NewFromInt(500), CustomerID: "C01", Region: "North"},
		{TransactionID: "T003", Date: "2024-01-06", ProductID: "P101", ProductName: "Mouse Wireless",
			Quantity: 3, UnitPrice: decimal.NewFromInt(500), CustomerID: "C01", Region: "North"},
	}
	enriched := enrich.EnrichTransactions(txns, types.ProductMapping{})

	return Input{
		Views:        analytics.Analyze(txns, analytics.DefaultOptions()),
		Enrichment:   enrich.EnrichmentStats(enriched),
		TopCustomers: DefaultTopCustomers,
		GeneratedAt:  time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
		RunID:        "run-1",
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₹0.00"},
		{"999.5", "₹999.50"},
		{"1000", "₹1,000.00"},
		{"1545000", "₹1,545,000.00"},
		{"123456.789", "₹123,456.79"},
		{"-2500", "₹-2,500.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatCurrency(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("FormatCurrency(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateSalesReport(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateSalesReport(&buf, scenarioInput()); err != nil {
		t.Fatalf("GenerateSalesReport() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"SALES ANALYTICS REPORT",
		"Generated: 2024-02-01 09:30:00",
		"Run ID: run-1",
		"Records Processed: 2",
		"Total Revenue:        ₹2,500.00",
		"Average Order Value:  ₹1,250.00",
		"Date Range:           2024-01-05 to 2024-01-06",
		"North        ₹2,500.00    100.0",
		"TOP 5 PRODUCTS",
		"1     Mouse Wireless       5          ₹2,500.00",
		"1     C01          ₹2,500.00       2",
		"2024-01-06   ₹1,500.00       1            1",
		"Best Selling Day: 2024-01-06 (₹1,500.00, 1 transactions)",
		"Low Performing Products (<10 units):",
		"  Mouse Wireless: 5 units, ₹2,500.00",
		"Products Enriched:    0/2",
		"Success Rate:         0.0%",
		"Unmatched Products:   P101",
		"END OF REPORT",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}

	sections := []string{"OVERALL SUMMARY", "REGION-WISE PERFORMANCE", "TOP 5 PRODUCTS", "TOP 5 CUSTOMERS",
		"DAILY SALES TREND", "PRODUCT PERFORMANCE ANALYSIS", "API ENRICHMENT SUMMARY", "END OF REPORT"}
	last := -1
	for _, s := range sections {
		i := strings.Index(out, s)
		if i <= last {
			t.Errorf("section %q out of order", s)
		}
		last = i
	}
}

func TestGenerateSalesReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	in := Input{Views: analytics.Analyze(nil, analytics.DefaultOptions())}
	if err := GenerateSalesReport(&buf, in); err != nil {
		t.Fatalf("GenerateSalesReport() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Date Range:           No data", "Best Selling Day: No data", "No low performing products", "Products Enriched:    0/0"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if strings.Contains(out, "Unmatched Products") {
		t.Error("unexpected unmatched line for empty enrichment")
	}
}

func TestGenerateSalesReport_TruncatesUnmatched(t *testing.T) {
	in := scenarioInput()
	ids := make([]string, 12)
	for i := range ids {
		ids[i] = "P9" + string(rune('A'+i))
	}
	in.Enrichment = enrich.Stats{Total: 12, UnmatchedProductIDs: ids}

	var buf bytes.Buffer
	if err := GenerateSalesReport(&buf, in); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "P9J...") || strings.Contains(buf.String(), "P9K") {
		t.Errorf("unmatched list not truncated:\n%s", buf.String())
	}
}

func TestWriteSalesReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", "sales_report.txt")
	if err := WriteSalesReport(path, scenarioInput()); err != nil {
		t.Fatalf("WriteSalesReport() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "END OF REPORT\n"+strings.Repeat("=", reportWidth)+"\n") {
		t.Errorf("unexpected report ending:\n%s", data)
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", "report.xlsx")
	if err := WriteWorkbook(path, scenarioInput()); err != nil {
		t.Fatalf("WriteWorkbook() error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	want := []string{SheetSummary, SheetRegions, SheetProducts, SheetCustomers, SheetDailyTrend, SheetLowProducts, SheetEnrichment}
	got := f.GetSheetList()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("sheets = %v, want %v", got, want)
	}

	rows, err := f.GetRows(SheetProducts)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1][1] != "Mouse Wireless" || rows[1][2] != "5" || rows[1][3] != "2500" {
		t.Errorf("product rows = %v", rows)
	}

	regions, err := f.GetRows(SheetRegions)
	if err != nil {
		t.Fatal(err)
	}
	if len(regions) != 2 || regions[1][0] != "North" {
		t.Errorf("region rows = %v", regions)
	}
}
