// =============================================================================
// Sales Analytics - Aggregation Views
// =============================================================================
//
// Each view is a pure function of the validated transaction set. Views build
// an explicit grouping map (key -> accumulator) in a single pass and then
// convert it to a sorted slice. Amounts are accumulated exactly and rounded to
// 2 places once, when the result value is produced.
//
// All sorts are stable: ties keep the order in which keys were first seen.
//
// =============================================================================

package analytics

import (
	"sort"

	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/shopspring/decimal"
)

const (
	// DefaultTopN is the number of products returned by TopSellingProducts.
	DefaultTopN = 5

	// DefaultLowThreshold is the quantity below which a product is low-performing.
	DefaultLowThreshold = 10
)

var hundred = decimal.NewFromInt(100)

// RegionSales is one row of the region breakdown.
type RegionSales struct {
	Region           string
	TotalSales       decimal.Decimal
	TransactionCount int
	Percentage       decimal.Decimal
}

// ProductSales is one row of the product ranking.
type ProductSales struct {
	ProductName   string
	TotalQuantity int
	TotalRevenue  decimal.Decimal
}

// CustomerSummary describes one customer's purchases.
type CustomerSummary struct {
	CustomerID     string
	TotalSpent     decimal.Decimal
	PurchaseCount  int
	AvgOrderValue  decimal.Decimal
	ProductsBought []string
}

// DailySales is one day of the sales trend.
type DailySales struct {
	Date             string
	Revenue          decimal.Decimal
	TransactionCount int
	UniqueCustomers  int
}

// PeakDay is the day with the highest revenue.
type PeakDay struct {
	Date             string
	Revenue          decimal.Decimal
	TransactionCount int
}

// =============================================================================
// TOTAL REVENUE
// =============================================================================

// TotalRevenue sums Amount over all transactions, rounded to 2 places.
func TotalRevenue(txns []types.Transaction) decimal.Decimal {
	return sumAmounts(txns).Round(2)
}

func sumAmounts(txns []types.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount())
	}
	return total
}

// =============================================================================
// REGION-WISE SALES
// =============================================================================

// RegionWiseSales groups by region, sorted by total sales descending.
// Percentage is the share of the total revenue of txns.
func RegionWiseSales(txns []types.Transaction) []RegionSales {
	type acc struct {
		total decimal.Decimal
		count int
	}
	groups := make(map[string]*acc)
	order := []string{}

	for _, t := range txns {
		g, ok := groups[t.Region]
		if !ok {
			g = &acc{total: decimal.Zero}
			groups[t.Region] = g
			order = append(order, t.Region)
		}
		g.total = g.total.Add(t.Amount())
		g.count++
	}

	// Rank on exact totals; rounding could tie regions a fraction of a cent apart.
	sort.SliceStable(order, func(i, j int) bool {
		return groups[order[i]].total.GreaterThan(groups[order[j]].total)
	})

	grand := sumAmounts(txns)
	result := make([]RegionSales, 0, len(order))
	for _, region := range order {
		g := groups[region]
		pct := decimal.Zero
		if !grand.IsZero() {
			pct = g.total.Div(grand).Mul(hundred).Round(2)
		}
		result = append(result, RegionSales{
			Region:           region,
			TotalSales:       g.total.Round(2),
			TransactionCount: g.count,
			Percentage:       pct,
		})
	}
	return result
}

// =============================================================================
// PRODUCTS
// =============================================================================

// productTotals is the single per-product grouping shared by the top and
// low-performer views. Rows are in first-seen order.
func productTotals(txns []types.Transaction) []ProductSales {
	index := make(map[string]int)
	rows := []ProductSales{}

	for _, t := range txns {
		i, ok := index[t.ProductName]
		if !ok {
			i = len(rows)
			index[t.ProductName] = i
			rows = append(rows, ProductSales{ProductName: t.ProductName, TotalRevenue: decimal.Zero})
		}
		rows[i].TotalQuantity += t.Quantity
		rows[i].TotalRevenue = rows[i].TotalRevenue.Add(t.Amount())
	}

	for i := range rows {
		rows[i].TotalRevenue = rows[i].TotalRevenue.Round(2)
	}
	return rows
}

// TopSellingProducts returns the n products with the highest total quantity.
// n <= 0 returns an empty slice.
func TopSellingProducts(txns []types.Transaction, n int) []ProductSales {
	if n <= 0 {
		return []ProductSales{}
	}
	rows := productTotals(txns)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalQuantity > rows[j].TotalQuantity
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// LowPerformingProducts returns products whose total quantity is strictly
// below threshold, sorted by quantity ascending.
func LowPerformingProducts(txns []types.Transaction, threshold int) []ProductSales {
	low := []ProductSales{}
	for _, p := range productTotals(txns) {
		if p.TotalQuantity < threshold {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		return low[i].TotalQuantity < low[j].TotalQuantity
	})
	return low
}

// =============================================================================
// CUSTOMERS
// =============================================================================

// CustomerAnalysis groups by customer, sorted by total spent descending.
// ProductsBought lists distinct product names in first-purchase order.
func CustomerAnalysis(txns []types.Transaction) []CustomerSummary {
	type acc struct {
		total    decimal.Decimal
		count    int
		products []string
		seen     map[string]struct{}
	}
	groups := make(map[string]*acc)
	order := []string{}

	for _, t := range txns {
		g, ok := groups[t.CustomerID]
		if !ok {
			g = &acc{total: decimal.Zero, seen: make(map[string]struct{})}
			groups[t.CustomerID] = g
			order = append(order, t.CustomerID)
		}
		g.total = g.total.Add(t.Amount())
		g.count++
		if _, dup := g.seen[t.ProductName]; !dup {
			g.seen[t.ProductName] = struct{}{}
			g.products = append(g.products, t.ProductName)
		}
	}

	result := make([]CustomerSummary, 0, len(order))
	for _, id := range order {
		g := groups[id]
		result = append(result, CustomerSummary{
			CustomerID:     id,
			TotalSpent:     g.total.Round(2),
			PurchaseCount:  g.count,
			AvgOrderValue:  g.total.Div(decimal.NewFromInt(int64(g.count))).Round(2),
			ProductsBought: g.products,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalSpent.GreaterThan(result[j].TotalSpent)
	})
	return result
}

// =============================================================================
// DAILY TREND
// =============================================================================

// DailySalesTrend groups by date, sorted by the date string ascending.
func DailySalesTrend(txns []types.Transaction) []DailySales {
	type acc struct {
		revenue   decimal.Decimal
		count     int
		customers map[string]struct{}
	}
	groups := make(map[string]*acc)
	dates := []string{}

	for _, t := range txns {
		g, ok := groups[t.Date]
		if !ok {
			g = &acc{revenue: decimal.Zero, customers: make(map[string]struct{})}
			groups[t.Date] = g
			dates = append(dates, t.Date)
		}
		g.revenue = g.revenue.Add(t.Amount())
		g.count++
		g.customers[t.CustomerID] = struct{}{}
	}

	sort.Strings(dates)

	result := make([]DailySales, 0, len(dates))
	for _, d := range dates {
		g := groups[d]
		result = append(result, DailySales{
			Date:             d,
			Revenue:          g.revenue.Round(2),
			TransactionCount: g.count,
			UniqueCustomers:  len(g.customers),
		})
	}
	return result
}

// FindPeakSalesDay returns the day with the highest revenue. On ties the
// earliest date wins. ok is false when txns is empty.
func FindPeakSalesDay(txns []types.Transaction) (PeakDay, bool) {
	return peakOf(DailySalesTrend(txns))
}

func peakOf(trend []DailySales) (PeakDay, bool) {
	if len(trend) == 0 {
		return PeakDay{}, false
	}
	best := trend[0]
	for _, d := range trend[1:] {
		if d.Revenue.GreaterThan(best.Revenue) {
			best = d
		}
	}
	return PeakDay{Date: best.Date, Revenue: best.Revenue, TransactionCount: best.TransactionCount}, true
}
