package models

import "time"

// Known advertising platforms. The source manifest may introduce others;
// platform names are matched case-insensitively after trimming.
const (
	PlatformFacebook = "facebook"
	PlatformGoogle   = "google"
	PlatformTikTok   = "tiktok"
)

type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

type CompareMode string

const (
	ComparePreviousPeriod     CompareMode = "previous"
	CompareSamePeriodLastYear CompareMode = "last_year"
)

// OperationsRecord is one day of business operations.
type OperationsRecord struct {
	Date         time.Time
	Revenue      float64
	COGS         float64
	GrossProfit  float64
	Orders       int
	NewOrders    int
	NewCustomers int
}

// AdvertisingRecord is one row of platform ad performance. Tactic and
// Region are optional dimensional tags ("" when the source lacks them).
type AdvertisingRecord struct {
	Date              time.Time
	Platform          string
	Tactic            string
	Region            string
	Impressions       int
	Clicks            int
	Spend             float64
	AttributedRevenue float64
}

// Measures is the set of additive quantities carried per date. Ratios are
// never stored here; they are derived only after summation.
type Measures struct {
	Revenue           float64
	COGS              float64
	GrossProfit       float64
	Orders            int
	NewOrders         int
	NewCustomers      int
	Impressions       int
	Clicks            int
	Spend             float64
	AttributedRevenue float64
}

func (m *Measures) Add(o Measures) {
	m.Revenue += o.Revenue
	m.COGS += o.COGS
	m.GrossProfit += o.GrossProfit
	m.Orders += o.Orders
	m.NewOrders += o.NewOrders
	m.NewCustomers += o.NewCustomers
	m.Impressions += o.Impressions
	m.Clicks += o.Clicks
	m.Spend += o.Spend
	m.AttributedRevenue += o.AttributedRevenue
}

// UnifiedRow reconciles one date's operations and advertising measures.
// Exactly one exists per distinct date seen in either source.
type UnifiedRow struct {
	Date time.Time
	Measures
}

// Bucket is a contiguous calendar interval (day, Monday-start week, or
// calendar month) identified by its canonical start date.
type Bucket struct {
	Start time.Time
	Measures
}

// PeriodWindow is an inclusive date range, End >= Start.
type PeriodWindow struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days the window spans.
func (w PeriodWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

func (w PeriodWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// KpiSet maps metric name to value for one window.
type KpiSet map[string]float64

// Metric names shared by the KPI deriver and the HTTP layer.
const (
	KPIRevenue           = "revenue"
	KPIGrossProfit       = "gross_profit"
	KPIOrders            = "orders"
	KPINewOrders         = "new_orders"
	KPINewCustomers      = "new_customers"
	KPIMarketingSpend    = "marketing_spend"
	KPIMarketingRevenue  = "marketing_revenue"
	KPIImpressions       = "impressions"
	KPIClicks            = "clicks"
	KPIMarginPct         = "margin_pct"
	KPIMarketingSharePct = "marketing_revenue_share_pct"
	KPIROAS              = "roas"
	KPIAvgOrderValue     = "avg_order_value"
	KPIRepeatRatePct     = "repeat_order_rate_pct"
	KPICTRPct            = "ctr_pct"
	KPICPC               = "cpc"
)

// Day truncates t to midnight UTC. All dates in the engine are day-resolution.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
