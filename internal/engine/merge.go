// Package engine is the analytics core: merging operations and advertising
// streams onto one date axis, time-bucketed resampling, comparison-window
// arithmetic, and KPI derivation. Every function is pure; the engine holds
// no state between calls.
package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yaswanthrajeev/bi-dashboard/internal/models"
)

// DataGapWarning reports a platform whose contribution is all-zero because
// its source was absent or empty. It is surfaced, logged, and ignored —
// never fatal.
type DataGapWarning struct {
	Platform string
	Reason   string
}

func (w DataGapWarning) Error() string {
	return fmt.Sprintf("data gap: platform %q: %s", w.Platform, w.Reason)
}

// AdFilter restricts which advertising rows contribute to the merge.
// Empty slices mean no restriction on that dimension. Values are matched
// case-insensitively.
type AdFilter struct {
	Platforms []string
	Tactics   []string
	Regions   []string
}

func matchDim(allowed []string, v string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(a), v) {
			return true
		}
	}
	return false
}

func (f AdFilter) Match(r models.AdvertisingRecord) bool {
	return matchDim(f.Platforms, r.Platform) &&
		matchDim(f.Tactics, r.Tactic) &&
		matchDim(f.Regions, r.Region)
}

// Merge reconciles the operations stream with the union of per-platform
// advertising streams into one date-indexed table.
//
// Advertising tables are concatenated (union of rows, never a join), summed
// per date across platforms, then outer-joined with operations by date:
// a date present in only one source still yields a row, the other source's
// measures staying zero. Duplicate dates inside a source are summed, not
// overwritten. The result is sorted ascending by date with no duplicate
// dates. Zero advertising tables is a valid input.
func Merge(ops []models.OperationsRecord, ads map[string][]models.AdvertisingRecord, filter AdFilter) ([]models.UnifiedRow, []DataGapWarning) {
	byDate := make(map[time.Time]*models.UnifiedRow)
	row := func(d time.Time) *models.UnifiedRow {
		d = models.Day(d)
		r, ok := byDate[d]
		if !ok {
			r = &models.UnifiedRow{Date: d}
			byDate[d] = r
		}
		return r
	}

	for _, o := range ops {
		r := row(o.Date)
		r.Revenue += o.Revenue
		r.COGS += o.COGS
		r.GrossProfit += o.GrossProfit
		r.Orders += o.Orders
		r.NewOrders += o.NewOrders
		r.NewCustomers += o.NewCustomers
	}

	var warnings []DataGapWarning
	platforms := make([]string, 0, len(ads))
	for p := range ads {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms) // deterministic warning order

	for _, p := range platforms {
		rows := ads[p]
		if len(rows) == 0 {
			warnings = append(warnings, DataGapWarning{Platform: p, Reason: "no rows"})
			continue
		}
		for _, a := range rows {
			if !filter.Match(a) {
				continue
			}
			r := row(a.Date)
			r.Impressions += a.Impressions
			r.Clicks += a.Clicks
			r.Spend += a.Spend
			r.AttributedRevenue += a.AttributedRevenue
		}
	}

	out := make([]models.UnifiedRow, 0, len(byDate))
	for _, r := range byDate {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, warnings
}
