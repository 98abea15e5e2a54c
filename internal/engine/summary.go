package engine

import (
	"github.com/yaswanthrajeev/bi-dashboard/internal/models"
)

// ColumnStats summarizes one measure over a row set.
type ColumnStats struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Summarize computes per-measure descriptive statistics over the rows,
// keyed by metric name. An empty row set yields all-zero stats.
func Summarize(rows []models.UnifiedRow) map[string]ColumnStats {
	cols := map[string]func(models.UnifiedRow) float64{
		models.KPIRevenue:          func(r models.UnifiedRow) float64 { return r.Revenue },
		models.KPIGrossProfit:      func(r models.UnifiedRow) float64 { return r.GrossProfit },
		models.KPIOrders:           func(r models.UnifiedRow) float64 { return float64(r.Orders) },
		models.KPINewOrders:        func(r models.UnifiedRow) float64 { return float64(r.NewOrders) },
		models.KPINewCustomers:     func(r models.UnifiedRow) float64 { return float64(r.NewCustomers) },
		models.KPIImpressions:      func(r models.UnifiedRow) float64 { return float64(r.Impressions) },
		models.KPIClicks:           func(r models.UnifiedRow) float64 { return float64(r.Clicks) },
		models.KPIMarketingSpend:   func(r models.UnifiedRow) float64 { return r.Spend },
		models.KPIMarketingRevenue: func(r models.UnifiedRow) float64 { return r.AttributedRevenue },
	}

	out := make(map[string]ColumnStats, len(cols))
	for name, get := range cols {
		var s ColumnStats
		for i, r := range rows {
			v := get(r)
			s.Sum += v
			if i == 0 || v < s.Min {
				s.Min = v
			}
			if v > s.Max {
				s.Max = v
			}
		}
		s.Count = len(rows)
		s.Mean = safeDiv(s.Sum, float64(s.Count))
		out[name] = s
	}
	return out
}
