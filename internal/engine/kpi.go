package engine

import (
	"github.com/yaswanthrajeev/bi-dashboard/internal/models"
)

// safeDiv is the arithmetic guard shared by every ratio formula: a zero
// denominator yields 0, never NaN, Inf, or an error. Sparse or filtered
// windows make zero denominators a routine condition here.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// PercentChange returns the relative change from p to c in percent.
// A zero comparison value yields 0 so undefined ratios never reach the
// presentation layer.
func PercentChange(c, p float64) float64 {
	if p == 0 {
		return 0
	}
	return (c - p) / p * 100
}

// WindowRows filters rows to the window, inclusive on both ends.
func WindowRows(rows []models.UnifiedRow, w models.PeriodWindow) []models.UnifiedRow {
	out := make([]models.UnifiedRow, 0, len(rows))
	for _, r := range rows {
		if w.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

// DeriveKPIs sums the window's rows and derives the ratio metrics from the
// totals. Ratios are never evaluated per row: averaging per-row rates is
// mathematically wrong, so summation always happens first.
func DeriveKPIs(rows []models.UnifiedRow, w models.PeriodWindow) models.KpiSet {
	var t models.Measures
	for _, r := range WindowRows(rows, w) {
		t.Add(r.Measures)
	}

	orders := float64(t.Orders)
	return models.KpiSet{
		models.KPIRevenue:           t.Revenue,
		models.KPIGrossProfit:       t.GrossProfit,
		models.KPIOrders:            orders,
		models.KPINewOrders:         float64(t.NewOrders),
		models.KPINewCustomers:      float64(t.NewCustomers),
		models.KPIMarketingSpend:    t.Spend,
		models.KPIMarketingRevenue:  t.AttributedRevenue,
		models.KPIImpressions:       float64(t.Impressions),
		models.KPIClicks:            float64(t.Clicks),
		models.KPIMarginPct:         safeDiv(t.GrossProfit, t.Revenue) * 100,
		models.KPIMarketingSharePct: safeDiv(t.AttributedRevenue, t.Revenue) * 100,
		models.KPIROAS:              safeDiv(t.AttributedRevenue, t.Spend),
		models.KPIAvgOrderValue:     safeDiv(t.Revenue, orders),
		models.KPIRepeatRatePct:     safeDiv(orders-float64(t.NewOrders), orders) * 100,
		models.KPICTRPct:            safeDiv(float64(t.Clicks), float64(t.Impressions)) * 100,
		models.KPICPC:               safeDiv(t.Spend, float64(t.Clicks)),
	}
}

// Changes maps each metric to its change versus the comparison set.
// Margin is a percentage of summed totals, so its change is reported as an
// absolute percentage-point difference; running it through PercentChange
// would report a percent-of-a-percent, which is a different number.
func Changes(cur, prev models.KpiSet) map[string]float64 {
	out := make(map[string]float64, len(cur))
	for name, c := range cur {
		if name == models.KPIMarginPct {
			out[name] = c - prev[name]
			continue
		}
		out[name] = PercentChange(c, prev[name])
	}
	return out
}

// Comparison is the engine's externally consumed result for one analysis:
// both windows, both KPI sets, and the change map.
type Comparison struct {
	Window        models.PeriodWindow
	CompareWindow models.PeriodWindow
	Current       models.KpiSet
	Previous      models.KpiSet
	Changes       map[string]float64
}

// Compare runs the full KPI pipeline for a window and comparison mode.
func Compare(rows []models.UnifiedRow, w models.PeriodWindow, mode models.CompareMode) Comparison {
	cw := ComparisonWindow(w, mode)
	cur := DeriveKPIs(rows, w)
	prev := DeriveKPIs(rows, cw)
	return Comparison{
		Window:        w,
		CompareWindow: cw,
		Current:       cur,
		Previous:      prev,
		Changes:       Changes(cur, prev),
	}
}
