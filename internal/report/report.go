// =============================================================================
// Sales Analytics - Text Report
// =============================================================================
//
// This module renders the fixed-width sales report.
//
// SECTIONS:
//   1. Header (title, generation time, run id, records processed)
//   2. Overall summary
//   3. Region-wise performance
//   4. Top products
//   5. Top customers
//   6. Daily sales trend
//   7. Product performance (peak day, low performers)
//   8. API enrichment summary
//
// The report only formats values; every number comes from analytics.Views
// and enrich.Stats.
//
// =============================================================================

package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ginjaninja78/sales-analytics/internal/analytics"
	"github.com/ginjaninja78/sales-analytics/internal/enrich"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
	"github.com/google/uuid"
)

const (
	reportWidth = 55

	// DefaultTopCustomers is the number of customers listed.
	DefaultTopCustomers = 5

	// maxUnmatchedListed caps the unmatched product list.
	maxUnmatchedListed = 10
)

// Input is everything the report needs.
type Input struct {
	Views      analytics.Views
	Enrichment enrich.Stats

	// TopCustomers limits the customer table.
	TopCustomers int

	// GeneratedAt defaults to time.Now().
	GeneratedAt time.Time

	// RunID identifies the run. Empty means a new UUID.
	RunID string
}

func (in Input) withDefaults() Input {
	if in.TopCustomers < 0 {
		in.TopCustomers = 0
	}
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now()
	}
	if in.RunID == "" {
		in.RunID = uuid.New().String()
	}
	return in
}

// WriteSalesReport writes the report to path, creating its directory.
func WriteSalesReport(path string, in Input) (err error) {
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", cerr)
		}
	}()

	return GenerateSalesReport(file, in)
}

// GenerateSalesReport renders the report to w.
func GenerateSalesReport(w io.Writer, in Input) error {
	in = in.withDefaults()
	v := in.Views

	bw := bufio.NewWriter(w)
	rw := &reportWriter{w: bw}

	// 1. Header
	rw.line(strings.Repeat("=", reportWidth))
	rw.line("           SALES ANALYTICS REPORT")
	rw.printf("         Generated: %s\n", in.GeneratedAt.Format("2006-01-02 15:04:05"))
	rw.printf("         Run ID: %s\n", in.RunID)
	rw.printf("         Records Processed: %d\n", v.TransactionCount)
	rw.line(strings.Repeat("=", reportWidth))
	rw.line("")

	// 2. Overall summary
	rw.section("OVERALL SUMMARY")
	rw.printf("Total Revenue:        %s\n", FormatCurrency(v.TotalRevenue))
	rw.printf("Total Transactions:   %d\n", v.TransactionCount)
	rw.printf("Average Order Value:  %s\n", FormatCurrency(v.AvgOrderValue))
	dateRange := "No data"
	if v.FirstDate != "" {
		dateRange = v.FirstDate + " to " + v.LastDate
	}
	rw.printf("Date Range:           %s\n\n", dateRange)

	// 3. Regions
	rw.section("REGION-WISE PERFORMANCE")
	rw.printf("%-12s %-12s %-12s %-12s\n", "Region", "Sales", "% of Total", "Transactions")
	rw.line(strings.Repeat("-", reportWidth))
	for _, r := range v.Regions {
		rw.printf("%-12s %-12s %-12s%% %-12d\n",
			r.Region, FormatCurrency(r.TotalSales), r.Percentage.StringFixed(1), r.TransactionCount)
	}
	rw.line("")

	// 4. Top products
	rw.section(fmt.Sprintf("TOP %d PRODUCTS", v.TopN))
	rw.printf("%-5s %-20s %-10s %-15s\n", "Rank", "Product Name", "Qty Sold", "Revenue")
	rw.line(strings.Repeat("-", reportWidth))
	for i, p := range v.TopProducts {
		rw.printf("%-5d %-20.19s %-10d %-15s\n", i+1, p.ProductName, p.TotalQuantity, FormatCurrency(p.TotalRevenue))
	}
	rw.line("")

	// 5. Top customers
	customers := v.Customers
	if len(customers) > in.TopCustomers {
		customers = customers[:in.TopCustomers]
	}
	rw.section(fmt.Sprintf("TOP %d CUSTOMERS", in.TopCustomers))
	rw.printf("%-5s %-12s %-15s %-12s\n", "Rank", "Customer ID", "Total Spent", "Order Count")
	rw.line(strings.Repeat("-", reportWidth))
	for i, c := range customers {
		rw.printf("%-5d %-12s %-15s %-12d\n", i+1, c.CustomerID, FormatCurrency(c.TotalSpent), c.PurchaseCount)
	}
	rw.line("")

	// 6. Daily trend
	rw.section("DAILY SALES TREND")
	rw.printf("%-12s %-15s %-12s %-12s\n", "Date", "Revenue", "Transactions", "Unique Cust")
	rw.line(strings.Repeat("-", reportWidth))
	for _, d := range v.DailyTrend {
		rw.printf("%-12s %-15s %-12d %-12d\n", d.Date, FormatCurrency(d.Revenue), d.TransactionCount, d.UniqueCustomers)
	}
	rw.line("")

	// 7. Product performance
	rw.section("PRODUCT PERFORMANCE ANALYSIS")
	if v.HasPeak {
		rw.printf("Best Selling Day: %s (%s, %d transactions)\n\n",
			v.Peak.Date, FormatCurrency(v.Peak.Revenue), v.Peak.TransactionCount)
	} else {
		rw.line("Best Selling Day: No data")
		rw.line("")
	}
	if len(v.LowPerformers) > 0 {
		rw.printf("Low Performing Products (<%d units):\n", v.LowThreshold)
		for _, p := range v.LowPerformers {
			rw.printf("  %s: %d units, %s\n", p.ProductName, p.TotalQuantity, FormatCurrency(p.TotalRevenue))
		}
	} else {
		rw.line("No low performing products")
	}
	rw.line("")

	// 8. Enrichment
	s := in.Enrichment
	rw.section("API ENRICHMENT SUMMARY")
	rw.printf("Products Enriched:    %d/%d\n", s.Matched, s.Total)
	rw.printf("Success Rate:         %.1f%%\n", s.SuccessRate)
	if n := len(s.UnmatchedProductIDs); n > 0 {
		listed := s.UnmatchedProductIDs
		more := ""
		if n > maxUnmatchedListed {
			listed, more = listed[:maxUnmatchedListed], "..."
		}
		rw.printf("Unmatched Products:   %s%s\n", strings.Join(listed, ", "), more)
	}
	rw.line("")

	rw.line("END OF REPORT")
	rw.line(strings.Repeat("=", reportWidth))

	if rw.err != nil {
		return fmt.Errorf("failed to write report: %w", rw.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}
	return nil
}

// reportWriter keeps the first write error so the section code stays flat.
type reportWriter struct {
	w   *bufio.Writer
	err error
}

func (rw *reportWriter) printf(format string, args ...interface{}) {
	if rw.err != nil {
		return
	}
	_, rw.err = fmt.Fprintf(rw.w, format, args...)
}

func (rw *reportWriter) line(s string) {
	rw.printf("%s\n", s)
}

func (rw *reportWriter) section(title string) {
	rw.line(title)
	rw.line(strings.Repeat("-", reportWidth))
}
