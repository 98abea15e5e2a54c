package engine

import (
	"sort"
	"time"

	"github.com/yaswanthrajeev/bi-dashboard/internal/models"
)

// BucketStart returns the canonical start date of the bucket containing d:
// the date itself for Daily, the preceding (or same) Monday for Weekly, the
// first of the month for Monthly.
func BucketStart(d time.Time, g models.Granularity) time.Time {
	d = models.Day(d)
	switch g {
	case models.Weekly:
		offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
		return d.AddDate(0, 0, -offset)
	case models.Monthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

// Resample groups unified rows into ordered buckets for the granularity.
// Buckets partition the covered range: every row lands in exactly one
// bucket. A week that starts before the first row but contains in-range
// dates is still emitted (partial buckets are valid). Measures are summed
// with plain addition; no rate is computed at this stage.
func Resample(rows []models.UnifiedRow, g models.Granularity) []models.Bucket {
	byStart := make(map[time.Time]*models.Bucket)
	for _, r := range rows {
		start := BucketStart(r.Date, g)
		b, ok := byStart[start]
		if !ok {
			b = &models.Bucket{Start: start}
			byStart[start] = b
		}
		b.Add(r.Measures)
	}
	out := make([]models.Bucket, 0, len(byStart))
	for _, b := range byStart {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
