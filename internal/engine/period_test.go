package engine

import (
	"testing"

	"github.com/yaswanthrajeev/bi-dashboard/internal/models"
)

func TestPreviousPeriodCrossesLeapBoundary(t *testing.T) {
	cur := models.PeriodWindow{Start: day("2024-03-10"), End: day("2024-03-19")}
	got := ComparisonWindow(cur, models.ComparePreviousPeriod)
	if !got.Start.Equal(day("2024-02-29")) || !got.End.Equal(day("2024-03-09")) {
		t.Fatalf("got [%s, %s]", got.Start.Format("2006-01-02"), got.End.Format("2006-01-02"))
	}
	if got.Days() != cur.Days() {
		t.Fatalf("comparison span %d days, want %d", got.Days(), cur.Days())
	}
}

func TestPreviousPeriodSingleDay(t *testing.T) {
	cur := models.PeriodWindow{Start: day("2024-01-10"), End: day("2024-01-10")}
	got := ComparisonWindow(cur, models.ComparePreviousPeriod)
	if !got.Start.Equal(day("2024-01-09")) || !got.End.Equal(day("2024-01-09")) {
		t.Fatalf("got [%v, %v]", got.Start, got.End)
	}
}

func TestSamePeriodLastYearFixedOffset(t *testing.T) {
	// Fixed 365-day shift: across the 2024 leap day this lands one calendar
	// day later than the same month/day of 2023.
	cur := models.PeriodWindow{Start: day("2024-03-10"), End: day("2024-03-19")}
	got := ComparisonWindow(cur, models.CompareSamePeriodLastYear)
	if !got.Start.Equal(day("2023-03-11")) || !got.End.Equal(day("2023-03-20")) {
		t.Fatalf("got [%s, %s]", got.Start.Format("2006-01-02"), got.End.Format("2006-01-02"))
	}
}

func TestComparisonWindowMayLeaveDataRange(t *testing.T) {
	rows := []models.UnifiedRow{
		{Date: day("2024-01-05"), Measures: models.Measures{Revenue: 100}},
	}
	cur := models.PeriodWindow{Start: day("2024-01-05"), End: day("2024-01-05")}
	cw := ComparisonWindow(cur, models.CompareSamePeriodLastYear)
	kpis := DeriveKPIs(rows, cw)
	if kpis[models.KPIRevenue] != 0 {
		t.Fatalf("out-of-range comparison must sum to zero, got %v", kpis[models.KPIRevenue])
	}
}
