// Package httpx is the presentation boundary: it parses query parameters,
// asks the loader for a snapshot, runs the engine, and shapes JSON. All
// display formatting (currency, rounding, abbreviation) belongs to clients.
package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yaswanthrajeev/bi-dashboard/internal/engine"
	"github.com/yaswanthrajeev/bi-dashboard/internal/loader"
	"github.com/yaswanthrajeev/bi-dashboard/internal/models"
	"github.com/yaswanthrajeev/bi-dashboard/internal/utils"
)

const dateLayout = "2006-01-02"

type server struct {
	log *slog.Logger
	ld  *loader.Loader
}

func NewRouter(log *slog.Logger, ld *loader.Loader) http.Handler {
	s := &server{log: log, ld: ld}

	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(utils.Metrics)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Get("/api/kpis", s.handleKPIs)
	mux.Get("/api/trend", s.handleTrend)
	mux.Get("/api/rows", s.handleRows)
	mux.Get("/api/summary", s.handleSummary)
	mux.Post("/api/reload", s.handleReload)

	return mux
}

// unified loads a snapshot and merges it under the request's ad filter.
func (s *server) unified(q url.Values) ([]models.UnifiedRow, []engine.DataGapWarning, error) {
	ds, err := s.ld.Load()
	if err != nil {
		return nil, nil, err
	}
	rows, mergeWarns := engine.Merge(ds.Operations, ds.Advertising, adFilter(q))
	return rows, dedupeWarnings(ds.Warnings, mergeWarns), nil
}

func adFilter(q url.Values) engine.AdFilter {
	return engine.AdFilter{
		Platforms: csvList(q.Get("platform")),
		Tactics:   csvList(q.Get("tactic")),
		Regions:   csvList(q.Get("region")),
	}
}

func csvList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// window resolves from/to params, defaulting each missing end to the data's
// own range. ok=false means a malformed date was supplied (already handled).
func (s *server) window(w http.ResponseWriter, q url.Values, rows []models.UnifiedRow) (models.PeriodWindow, bool) {
	win := dataRange(rows)
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			http.Error(w, "bad from date (YYYY-MM-DD)", http.StatusBadRequest)
			return models.PeriodWindow{}, false
		}
		win.Start = models.Day(t)
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			http.Error(w, "bad to date (YYYY-MM-DD)", http.StatusBadRequest)
			return models.PeriodWindow{}, false
		}
		win.End = models.Day(t)
	}
	if win.End.Before(win.Start) {
		http.Error(w, "to precedes from", http.StatusBadRequest)
		return models.PeriodWindow{}, false
	}
	return win, true
}

func dataRange(rows []models.UnifiedRow) models.PeriodWindow {
	if len(rows) == 0 {
		return models.PeriodWindow{}
	}
	return models.PeriodWindow{Start: rows[0].Date, End: rows[len(rows)-1].Date}
}

func (s *server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, warns, err := s.unified(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	win, ok := s.window(w, q, rows)
	if !ok {
		return
	}
	mode := models.ComparePreviousPeriod
	switch q.Get("compare") {
	case "", string(models.ComparePreviousPeriod):
	case string(models.CompareSamePeriodLastYear):
		mode = models.CompareSamePeriodLastYear
	default:
		http.Error(w, "bad compare mode (previous|last_year)", http.StatusBadRequest)
		return
	}

	cmp := engine.Compare(rows, win, mode)
	writeJSON(w, kpiResponse{
		Window:        windowJSON(cmp.Window),
		CompareWindow: windowJSON(cmp.CompareWindow),
		Current:       cmp.Current,
		Previous:      cmp.Previous,
		Changes:       cmp.Changes,
		Warnings:      warningsJSON(warns),
	})
}

func (s *server) handleTrend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, warns, err := s.unified(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	win, ok := s.window(w, q, rows)
	if !ok {
		return
	}
	var g models.Granularity
	switch q.Get("granularity") {
	case "", string(models.Daily):
		g = models.Daily
	case string(models.Weekly):
		g = models.Weekly
	case string(models.Monthly):
		g = models.Monthly
	default:
		http.Error(w, "bad granularity (daily|weekly|monthly)", http.StatusBadRequest)
		return
	}

	buckets := engine.Resample(engine.WindowRows(rows, win), g)
	out := make([]bucketJSON, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, bucketJSON{Date: b.Start.Format(dateLayout), Measures: measuresJSON(b.Measures)})
	}
	writeJSON(w, trendResponse{Granularity: string(g), Buckets: out, Warnings: warningsJSON(warns)})
}

func (s *server) handleRows(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, warns, err := s.unified(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	win, ok := s.window(w, q, rows)
	if !ok {
		return
	}
	filtered := engine.WindowRows(rows, win)
	out := make([]bucketJSON, 0, len(filtered))
	for _, u := range filtered {
		out = append(out, bucketJSON{Date: u.Date.Format(dateLayout), Measures: measuresJSON(u.Measures)})
	}
	writeJSON(w, rowsResponse{Rows: out, Warnings: warningsJSON(warns)})
}

func (s *server) handleSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, warns, err := s.unified(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	win, ok := s.window(w, q, rows)
	if !ok {
		return
	}
	stats := engine.Summarize(engine.WindowRows(rows, win))
	writeJSON(w, summaryResponse{Window: windowJSON(win), Stats: stats, Warnings: warningsJSON(warns)})
}

func (s *server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.ld.Invalidate()
	ds, err := s.ld.Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, reloadResponse{
		OperationsRows: len(ds.Operations),
		Platforms:      len(ds.Advertising),
		Warnings:       warningsJSON(ds.Warnings),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
