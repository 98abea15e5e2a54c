package httpx

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaswanthrajeev/bi-dashboard/internal/loader"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	ops := write("business.csv",
		"date,total revenue,COGS,gross profit,# of orders,# of new orders,new customers\n"+
			"2024-01-01,100,90,10,2,1,1\n"+
			"2024-01-02,200,180,20,4,2,1\n"+
			"2024-01-03,300,270,30,6,3,2\n")
	fb := write("Facebook.csv",
		"date,impression,clicks,spend,attributed revenue\n"+
			"2024-01-01,1000,50,5,20\n"+
			"2024-01-02,1000,50,5,0\n"+
			"2024-01-03,1000,50,5,10\n")
	m := loader.Manifest{
		Operations: loader.Source{Path: ops},
		Platforms:  []loader.PlatformSource{{Name: "facebook", Path: fb}},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(log, loader.New(m, log))
}

func get(t *testing.T, h http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestKPIsEndpoint(t *testing.T) {
	h := testRouter(t)
	rec := get(t, h, "/api/kpis?from=2024-01-01&to=2024-01-03")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Current map[string]float64 `json:"current"`
		Changes map[string]float64 `json:"changes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Current["revenue"] != 600 {
		t.Fatalf("revenue = %v, want 600", resp.Current["revenue"])
	}
	if resp.Current["roas"] != 2 {
		t.Fatalf("roas = %v, want 2", resp.Current["roas"])
	}
	if resp.Current["margin_pct"] != 10 {
		t.Fatalf("margin_pct = %v, want 10", resp.Current["margin_pct"])
	}
	// The comparison window has no data. Percent-changes against zero are
	// defined as zero; margin is a point difference, so it reports +10.
	for name, v := range resp.Changes {
		if name == "margin_pct" {
			if v != 10 {
				t.Fatalf("margin change = %v, want +10 points", v)
			}
			continue
		}
		if v != 0 {
			t.Fatalf("change %s = %v, want 0 against empty comparison", name, v)
		}
	}
}

func TestKPIsIdenticalAcrossCalls(t *testing.T) {
	h := testRouter(t)
	a := get(t, h, "/api/kpis?from=2024-01-01&to=2024-01-03")
	b := get(t, h, "/api/kpis?from=2024-01-01&to=2024-01-03")
	if a.Body.String() != b.Body.String() {
		t.Fatal("identical requests must produce identical responses")
	}
}

func TestBadDateIs400(t *testing.T) {
	h := testRouter(t)
	if rec := get(t, h, "/api/kpis?from=notadate"); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if rec := get(t, h, "/api/rows?from=2024-01-03&to=2024-01-01"); rec.Code != http.StatusBadRequest {
		t.Fatalf("inverted window: status = %d, want 400", rec.Code)
	}
}

func TestTrendWeekly(t *testing.T) {
	h := testRouter(t)
	rec := get(t, h, "/api/trend?granularity=weekly")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Buckets []struct {
			Date     string `json:"date"`
			Measures struct {
				Revenue float64 `json:"revenue"`
			} `json:"measures"`
		} `json:"buckets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// 2024-01-01..03 all fall in the week of Monday 2024-01-01
	if len(resp.Buckets) != 1 {
		t.Fatalf("expected 1 weekly bucket, got %d", len(resp.Buckets))
	}
	if resp.Buckets[0].Date != "2024-01-01" || resp.Buckets[0].Measures.Revenue != 600 {
		t.Fatalf("bucket wrong: %+v", resp.Buckets[0])
	}
}

func TestBadGranularityIs400(t *testing.T) {
	h := testRouter(t)
	if rec := get(t, h, "/api/trend?granularity=hourly"); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPlatformFilterZerosSpend(t *testing.T) {
	h := testRouter(t)
	rec := get(t, h, "/api/kpis?platform=google")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Current map[string]float64 `json:"current"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Current["marketing_spend"] != 0 || resp.Current["roas"] != 0 {
		t.Fatalf("filtering to an absent platform must zero ad KPIs: %v", resp.Current)
	}
	if resp.Current["revenue"] != 600 {
		t.Fatalf("operations measures must survive the ad filter: %v", resp.Current["revenue"])
	}
}

func TestReload(t *testing.T) {
	h := testRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/reload", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		OperationsRows int `json:"operations_rows"`
		Platforms      int `json:"platforms"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.OperationsRows != 3 || resp.Platforms != 1 {
		t.Fatalf("reload response wrong: %+v", resp)
	}
}

func TestHealthz(t *testing.T) {
	h := testRouter(t)
	if rec := get(t, h, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
