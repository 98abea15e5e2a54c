package engine

import (
	"github.com/yaswanthrajeev/bi-dashboard/internal/models"
)

// ComparisonWindow derives the comparison window for a current window.
//
// ComparePreviousPeriod yields the window of the same day-count ending the
// day before the current window starts. CompareSamePeriodLastYear shifts
// both ends back by a fixed 365 days; it does not align to the same
// calendar month/day across leap years, matching the observed behavior of
// the dashboards this engine replaces.
//
// The comparison window may fall partially or fully outside the loaded data
// range; sums over the missing dates are simply zero.
func ComparisonWindow(cur models.PeriodWindow, mode models.CompareMode) models.PeriodWindow {
	switch mode {
	case models.CompareSamePeriodLastYear:
		return models.PeriodWindow{
			Start: cur.Start.AddDate(0, 0, -365),
			End:   cur.End.AddDate(0, 0, -365),
		}
	default:
		span := cur.Days() - 1
		end := cur.Start.AddDate(0, 0, -1)
		return models.PeriodWindow{
			Start: end.AddDate(0, 0, -span),
			End:   end,
		}
	}
}
