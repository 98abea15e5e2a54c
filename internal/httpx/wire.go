package httpx

import (
	"github.com/yaswanthrajeev/bi-dashboard/internal/engine"
	"github.com/yaswanthrajeev/bi-dashboard/internal/models"
)

// Wire shapes. Domain types stay tag-free; these own the JSON contract.

type periodJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func windowJSON(w models.PeriodWindow) periodJSON {
	return periodJSON{From: w.Start.Format(dateLayout), To: w.End.Format(dateLayout)}
}

type measuresWire struct {
	Revenue           float64 `json:"revenue"`
	COGS              float64 `json:"cogs"`
	GrossProfit       float64 `json:"gross_profit"`
	Orders            int     `json:"orders"`
	NewOrders         int     `json:"new_orders"`
	NewCustomers      int     `json:"new_customers"`
	Impressions       int     `json:"impressions"`
	Clicks            int     `json:"clicks"`
	Spend             float64 `json:"spend"`
	AttributedRevenue float64 `json:"attributed_revenue"`
}

func measuresJSON(m models.Measures) measuresWire {
	return measuresWire{
		Revenue:           m.Revenue,
		COGS:              m.COGS,
		GrossProfit:       m.GrossProfit,
		Orders:            m.Orders,
		NewOrders:         m.NewOrders,
		NewCustomers:      m.NewCustomers,
		Impressions:       m.Impressions,
		Clicks:            m.Clicks,
		Spend:             m.Spend,
		AttributedRevenue: m.AttributedRevenue,
	}
}

type bucketJSON struct {
	Date     string       `json:"date"`
	Measures measuresWire `json:"measures"`
}

type warningJSON struct {
	Platform string `json:"platform"`
	Reason   string `json:"reason"`
}

func warningsJSON(warns []engine.DataGapWarning) []warningJSON {
	out := make([]warningJSON, 0, len(warns))
	for _, w := range warns {
		out = append(out, warningJSON{Platform: w.Platform, Reason: w.Reason})
	}
	return out
}

// dedupeWarnings keeps the first warning per platform; loader warnings come
// first and carry the more specific reason.
func dedupeWarnings(groups ...[]engine.DataGapWarning) []engine.DataGapWarning {
	seen := make(map[string]struct{})
	var out []engine.DataGapWarning
	for _, g := range groups {
		for _, w := range g {
			if _, ok := seen[w.Platform]; ok {
				continue
			}
			seen[w.Platform] = struct{}{}
			out = append(out, w)
		}
	}
	return out
}

type kpiResponse struct {
	Window        periodJSON         `json:"window"`
	CompareWindow periodJSON         `json:"compare_window"`
	Current       models.KpiSet      `json:"current"`
	Previous      models.KpiSet      `json:"previous"`
	Changes       map[string]float64 `json:"changes"`
	Warnings      []warningJSON      `json:"warnings"`
}

type trendResponse struct {
	Granularity string        `json:"granularity"`
	Buckets     []bucketJSON  `json:"buckets"`
	Warnings    []warningJSON `json:"warnings"`
}

type rowsResponse struct {
	Rows     []bucketJSON  `json:"rows"`
	Warnings []warningJSON `json:"warnings"`
}

type summaryResponse struct {
	Window   periodJSON                    `json:"window"`
	Stats    map[string]engine.ColumnStats `json:"stats"`
	Warnings []warningJSON                 `json:"warnings"`
}

type reloadResponse struct {
	OperationsRows int           `json:"operations_rows"`
	Platforms      int           `json:"platforms"`
	Warnings       []warningJSON `json:"warnings"`
}
