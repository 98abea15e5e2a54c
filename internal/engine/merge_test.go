package engine

import (
	"testing"
	"time"

	"github.com/yaswanthrajeev/bi-dashboard/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMergeDisjointDatesUnion(t *testing.T) {
	ops := []models.OperationsRecord{
		{Date: day("2024-01-01"), Revenue: 100},
		{Date: day("2024-01-02"), Revenue: 200},
	}
	ads := map[string][]models.AdvertisingRecord{
		"facebook": {
			{Date: day("2024-01-03"), Platform: "facebook", Spend: 5},
			{Date: day("2024-01-04"), Platform: "facebook", Spend: 7},
		},
	}

	rows, warns := Merge(ops, ads, AdFilter{})
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if len(rows) != 4 {
		t.Fatalf("expected union of 4 dates, got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if !rows[i-1].Date.Before(rows[i].Date) {
			t.Fatalf("rows not sorted ascending or date duplicated at %d", i)
		}
	}
	// ops-only date: ad measures zero
	if rows[0].Spend != 0 || rows[0].Revenue != 100 {
		t.Fatalf("ops-only row wrong: %+v", rows[0])
	}
	// ads-only date: ops measures zero
	if rows[2].Revenue != 0 || rows[2].Spend != 5 {
		t.Fatalf("ads-only row wrong: %+v", rows[2])
	}
}

func TestMergeDuplicateDatesSummed(t *testing.T) {
	ops := []models.OperationsRecord{
		{Date: day("2024-01-01"), Revenue: 100, Orders: 2},
		{Date: day("2024-01-01"), Revenue: 50, Orders: 1},
	}
	ads := map[string][]models.AdvertisingRecord{
		"google": {
			{Date: day("2024-01-01"), Platform: "google", Spend: 5},
			{Date: day("2024-01-01"), Platform: "google", Spend: 3},
		},
		"tiktok": {
			{Date: day("2024-01-01"), Platform: "tiktok", Spend: 2},
		},
	}

	rows, _ := Merge(ops, ads, AdFilter{})
	if len(rows) != 1 {
		t.Fatalf("expected single row, got %d", len(rows))
	}
	if rows[0].Revenue != 150 || rows[0].Orders != 3 {
		t.Fatalf("duplicate operations dates must sum: %+v", rows[0])
	}
	if rows[0].Spend != 10 {
		t.Fatalf("spend must sum across duplicates and platforms, got %v", rows[0].Spend)
	}
}

func TestMergeNoAdvertisingTables(t *testing.T) {
	ops := []models.OperationsRecord{{Date: day("2024-01-01"), Revenue: 100}}

	rows, warns := Merge(ops, nil, AdFilter{})
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Spend != 0 || rows[0].AttributedRevenue != 0 || rows[0].Impressions != 0 {
		t.Fatalf("ad measures must default to zero: %+v", rows[0])
	}
}

func TestMergeEmptyPlatformWarns(t *testing.T) {
	ops := []models.OperationsRecord{{Date: day("2024-01-01"), Revenue: 100}}
	ads := map[string][]models.AdvertisingRecord{"tiktok": nil}

	rows, warns := Merge(ops, ads, AdFilter{})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if len(warns) != 1 || warns[0].Platform != "tiktok" {
		t.Fatalf("expected tiktok data gap warning, got %v", warns)
	}
}

func TestMergeAdFilter(t *testing.T) {
	ads := map[string][]models.AdvertisingRecord{
		"facebook": {
			{Date: day("2024-01-01"), Platform: "facebook", Tactic: "prospecting", Spend: 10},
			{Date: day("2024-01-01"), Platform: "facebook", Tactic: "retargeting", Spend: 4},
		},
		"google": {
			{Date: day("2024-01-01"), Platform: "google", Tactic: "prospecting", Spend: 6},
		},
	}

	rows, _ := Merge(nil, ads, AdFilter{Platforms: []string{"Facebook"}, Tactics: []string{"retargeting"}})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Spend != 4 {
		t.Fatalf("filter should keep only facebook retargeting, got spend=%v", rows[0].Spend)
	}
}
