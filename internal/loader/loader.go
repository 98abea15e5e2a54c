// Package loader reads the flat-file sources named by the manifest, feeds
// them through schema normalization, and hands the engine typed tables.
// It owns every file-path, format, and caching concern; the engine stays
// pure and cache-agnostic.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yaswanthrajeev/bi-dashboard/internal/engine"
	"github.com/yaswanthrajeev/bi-dashboard/internal/models"
	"github.com/yaswanthrajeev/bi-dashboard/internal/schema"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loader_cache_hits_total",
		Help: "Source table reads served from the in-memory cache.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loader_cache_misses_total",
		Help: "Source table reads that parsed the file from disk.",
	})
)

// Dataset is one fully loaded and normalized snapshot of all sources.
type Dataset struct {
	Operations  []models.OperationsRecord
	Advertising map[string][]models.AdvertisingRecord
	Warnings    []engine.DataGapWarning
}

// Loader caches parsed tables keyed by file identity (path, mtime, size).
// A touched or rewritten file is re-read on the next Load; an untouched one
// is served from memory. This replaces the process-wide memoized load of
// the dashboards this service supersedes, with an explicit invalidation key.
type Loader struct {
	manifest Manifest
	log      *slog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	modTime time.Time
	size    int64
	table   schema.RawTable
}

func New(m Manifest, log *slog.Logger) *Loader {
	return &Loader{manifest: m, log: log, cache: make(map[string]cacheEntry)}
}

// Invalidate drops every cached table; the next Load re-reads all sources.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]cacheEntry)
}

// Load returns a normalized snapshot of all manifest sources. A missing or
// corrupt operations file is fatal. A missing or empty platform file is a
// DataGapWarning: that platform contributes zeros and loading continues.
// A present but schema-broken platform file is fatal — proceeding would
// silently misreport spend.
func (l *Loader) Load() (*Dataset, error) {
	opsTable, err := l.readTable(l.manifest.Operations.Path)
	if err != nil {
		return nil, fmt.Errorf("load operations: %w", err)
	}
	ops, err := schema.NormalizeOperations(opsTable)
	if err != nil {
		return nil, fmt.Errorf("load operations: %w", err)
	}

	ds := &Dataset{
		Operations:  ops,
		Advertising: make(map[string][]models.AdvertisingRecord, len(l.manifest.Platforms)),
	}
	for _, p := range l.manifest.Platforms {
		name := strings.ToLower(strings.TrimSpace(p.Name))
		table, err := l.readTable(p.Path)
		if errors.Is(err, fs.ErrNotExist) {
			l.log.Warn("platform source missing", slog.String("platform", name), slog.String("path", p.Path))
			ds.Warnings = append(ds.Warnings, engine.DataGapWarning{Platform: name, Reason: "source file missing"})
			ds.Advertising[name] = nil
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load platform %s: %w", name, err)
		}
		if len(table.Rows) == 0 {
			l.log.Warn("platform source empty", slog.String("platform", name), slog.String("path", p.Path))
			ds.Warnings = append(ds.Warnings, engine.DataGapWarning{Platform: name, Reason: "source file empty"})
			ds.Advertising[name] = nil
			continue
		}
		rows, err := schema.NormalizeAdvertising(table, name)
		if err != nil {
			return nil, fmt.Errorf("load platform %s: %w", name, err)
		}
		ds.Advertising[name] = rows
	}

	l.log.Info("sources loaded",
		slog.Int("operations_rows", len(ds.Operations)),
		slog.Int("platforms", len(ds.Advertising)),
		slog.Int("warnings", len(ds.Warnings)))
	return ds, nil
}

func (l *Loader) readTable(path string) (schema.RawTable, error) {
	info, err := os.Stat(path)
	if err != nil {
		return schema.RawTable{}, err
	}

	l.mu.Lock()
	if e, ok := l.cache[path]; ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		l.mu.Unlock()
		cacheHits.Inc()
		return e.table, nil
	}
	l.mu.Unlock()

	cacheMisses.Inc()
	table, err := readCSV(path)
	if err != nil {
		return schema.RawTable{}, err
	}

	l.mu.Lock()
	l.cache[path] = cacheEntry{modTime: info.ModTime(), size: info.Size(), table: table}
	l.mu.Unlock()
	return table, nil
}

func readCSV(path string) (schema.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.RawTable{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows; missing cells coerce to zero
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return schema.RawTable{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return schema.RawTable{}, nil
	}
	return schema.RawTable{Columns: records[0], Rows: records[1:]}, nil
}
