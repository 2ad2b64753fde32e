package report

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/sales-analytics/pkg/utils"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook, in order.
const (
	SheetSummary     = "Summary"
	SheetRegions     = "Regions"
	SheetProducts    = "Top Products"
	SheetCustomers   = "Customers"
	SheetDailyTrend  = "Daily Trend"
	SheetLowProducts = "Low Performers"
	SheetEnrichment  = "Enrichment"
)

type sheetData struct {
	name   string
	header []interface{}
	rows   [][]interface{}
}

// WriteWorkbook exports the same views as the text report to an XLSX file,
// one sheet per view. Amounts are written as numbers.
func WriteWorkbook(path string, in Input) error {
	in = in.withDefaults()

	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range workbookSheets(in) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet.name, err)
		}

		if err := writeSheet(f, sheet, headerStyle); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet sheetData, headerStyle int) error {
	if err := f.SetSheetRow(sheet.name, "A1", &sheet.header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet.name, err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(sheet.header))
	if err != nil {
		return fmt.Errorf("failed to resolve column: %w", err)
	}
	if err := f.SetCellStyle(sheet.name, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet.name, err)
	}
	if err := f.SetColWidth(sheet.name, "A", lastCol, 18); err != nil {
		return fmt.Errorf("failed to size %s columns: %w", sheet.name, err)
	}

	for i, row := range sheet.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}
		if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet.name, i+1, err)
		}
	}
	return nil
}

func workbookSheets(in Input) []sheetData {
	v := in.Views
	s := in.Enrichment

	summary := sheetData{
		name:   SheetSummary,
		header: []interface{}{"Metric", "Value"},
		rows: [][]interface{}{
			{"Run ID", in.RunID},
			{"Generated", in.GeneratedAt.Format("2006-01-02 15:04:05")},
			{"Total Revenue", v.TotalRevenue.InexactFloat64()},
			{"Total Transactions", v.TransactionCount},
			{"Average Order Value", v.AvgOrderValue.InexactFloat64()},
			{"First Date", v.FirstDate},
			{"Last Date", v.LastDate},
		},
	}
	if v.HasPeak {
		summary.rows = append(summary.rows,
			[]interface{}{"Peak Day", v.Peak.Date},
			[]interface{}{"Peak Revenue", v.Peak.Revenue.InexactFloat64()},
		)
	}

	regions := sheetData{name: SheetRegions, header: []interface{}{"Region", "Sales", "% of Total", "Transactions"}}
	for _, r := range v.Regions {
		regions.rows = append(regions.rows, []interface{}{
			r.Region, r.TotalSales.InexactFloat64(), r.Percentage.InexactFloat64(), r.TransactionCount,
		})
	}

	products := sheetData{name: SheetProducts, header: []interface{}{"Rank", "Product Name", "Qty Sold", "Revenue"}}
	for i, p := range v.TopProducts {
		products.rows = append(products.rows, []interface{}{
			i + 1, p.ProductName, p.TotalQuantity, p.TotalRevenue.InexactFloat64(),
		})
	}

	customers := sheetData{
		name:   SheetCustomers,
		header: []interface{}{"Customer ID", "Total Spent", "Order Count", "Avg Order Value", "Products"},
	}
	for _, c := range v.Customers {
		customers.rows = append(customers.rows, []interface{}{
			c.CustomerID, c.TotalSpent.InexactFloat64(), c.PurchaseCount,
			c.AvgOrderValue.InexactFloat64(), strings.Join(c.ProductsBought, ", "),
		})
	}

	daily := sheetData{name: SheetDailyTrend, header: []interface{}{"Date", "Revenue", "Transactions", "Unique Customers"}}
	for _, d := range v.DailyTrend {
		daily.rows = append(daily.rows, []interface{}{
			d.Date, d.Revenue.InexactFloat64(), d.TransactionCount, d.UniqueCustomers,
		})
	}

	low := sheetData{name: SheetLowProducts, header: []interface{}{"Product Name", "Qty Sold", "Revenue"}}
	for _, p := range v.LowPerformers {
		low.rows = append(low.rows, []interface{}{p.ProductName, p.TotalQuantity, p.TotalRevenue.InexactFloat64()})
	}

	enrichment := sheetData{
		name:   SheetEnrichment,
		header: []interface{}{"Metric", "Value"},
		rows: [][]interface{}{
			{"Matched", s.Matched},
			{"Total", s.Total},
			{"Success Rate", s.SuccessRate},
			{"Unmatched Products", strings.Join(s.UnmatchedProductIDs, ", ")},
		},
	}

	return []sheetData{summary, regions, products, customers, daily, low, enrichment}
}
