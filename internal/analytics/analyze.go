package analytics

import (
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/shopspring/decimal"
)

// Options parameterises Analyze. Values are taken as given: TopN 0 lists no
// products and LowThreshold 0 reports no low performers.
type Options struct {
	TopN         int
	LowThreshold int
}

// DefaultOptions returns DefaultTopN and DefaultLowThreshold.
func DefaultOptions() Options {
	return Options{TopN: DefaultTopN, LowThreshold: DefaultLowThreshold}
}

// Views holds every aggregation over one validated set.
type Views struct {
	TransactionCount int
	TotalRevenue     decimal.Decimal
	AvgOrderValue    decimal.Decimal

	// FirstDate and LastDate bound the trend; empty when there is no data.
	FirstDate string
	LastDate  string

	Regions       []RegionSales
	TopProducts   []ProductSales
	Customers     []CustomerSummary
	DailyTrend    []DailySales
	Peak          PeakDay
	HasPeak       bool
	LowPerformers []ProductSales

	// TopN and LowThreshold are the parameters the views were built with.
	TopN         int
	LowThreshold int
}

// Analyze computes all views over txns.
func Analyze(txns []types.Transaction, opts Options) Views {
	v := Views{
		TransactionCount: len(txns),
		TotalRevenue:     TotalRevenue(txns),
		AvgOrderValue:    decimal.Zero,
		Regions:          RegionWiseSales(txns),
		TopProducts:      TopSellingProducts(txns, opts.TopN),
		Customers:        CustomerAnalysis(txns),
		DailyTrend:       DailySalesTrend(txns),
		LowPerformers:    LowPerformingProducts(txns, opts.LowThreshold),
		TopN:             opts.TopN,
		LowThreshold:     opts.LowThreshold,
	}

	if len(txns) > 0 {
		v.AvgOrderValue = sumAmounts(txns).Div(decimal.NewFromInt(int64(len(txns)))).Round(2)
	}
	if n := len(v.DailyTrend); n > 0 {
		v.FirstDate = v.DailyTrend[0].Date
		v.LastDate = v.DailyTrend[n-1].Date
	}
	v.Peak, v.HasPeak = peakOf(v.DailyTrend)

	return v
}
