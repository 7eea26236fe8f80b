package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ttfl-live/injury-report/internal/config"
	"github.com/ttfl-live/injury-report/internal/report"
	"github.com/ttfl-live/injury-report/internal/teams"
)

type fakeRunner struct {
	calls  int32
	result func() *report.Result
}

func (f *fakeRunner) Run(_ context.Context) *report.Result {
	atomic.AddInt32(&f.calls, 1)
	return f.result()
}

func okResult(pdfURL string) *report.Result {
	rows := []report.Row{
		{GameTime: "07:00 PM (ET)", Matchup: "BOS@NYK", Team: "Boston Celtics", Player: "Smith, John", Status: "Out", Reason: "Injury/Illness - Left Ankle; Sprain"},
		{GameTime: "07:00 PM (ET)", Matchup: "BOS@NYK", Team: "New York Knicks", Player: "Doe, Jane", Status: "Questionable", Reason: "Injury/Illness - Right Knee; Soreness"},
	}
	return &report.Result{
		OK:    true,
		Meta:  &report.Meta{PDFURL: pdfURL, PDFName: "Injury-Report_2025-01-15_06PM.pdf"},
		Stats: report.BuildStats(rows),
		Rows:  rows,
	}
}

// newTestServer wires a Server against a stub landing page that links to
// pdfName, so the newer-PDF probe sees a stable latest artifact.
func newTestServer(t *testing.T, runner *fakeRunner, pdfName string) (*Server, string) {
	t.Helper()
	landing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><a href="/%s">report</a></body></html>`, pdfName)
	}))
	t.Cleanup(landing.Close)

	cfg := &config.Config{
		LandingPage: landing.URL,
		CacheTTL:    time.Hour,
		Port:        0,
	}
	return New(cfg, runner), landing.URL
}

func doGet(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, *report.Result) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var result report.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v\n%s", err, rec.Body.String())
	}
	return rec, &result
}

func TestHandleReportHeaders(t *testing.T) {
	pdfName := "Injury-Report_2025-01-15_06PM.pdf"
	runner := &fakeRunner{}
	s, landingURL := newTestServer(t, runner, pdfName)
	runner.result = func() *report.Result { return okResult(landingURL + "/" + pdfName) }

	rec, result := doGet(t, s, "/api/injury-report")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header = %q, want *", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, s-maxage=300, stale-while-revalidate=900" {
		t.Errorf("Cache-Control = %q", got)
	}
	if !result.OK || len(result.Rows) != 2 {
		t.Errorf("result = %+v", result)
	}
}

func TestHandleReportCaching(t *testing.T) {
	pdfName := "Injury-Report_2025-01-15_06PM.pdf"
	runner := &fakeRunner{}
	s, landingURL := newTestServer(t, runner, pdfName)
	runner.result = func() *report.Result { return okResult(landingURL + "/" + pdfName) }

	doGet(t, s, "/api/injury-report")
	doGet(t, s, "/api/injury-report")
	if got := atomic.LoadInt32(&runner.calls); got != 1 {
		t.Errorf("pipeline ran %d times, want 1 (second request should hit cache)", got)
	}

	doGet(t, s, "/api/injury-report?refresh=1")
	if got := atomic.LoadInt32(&runner.calls); got != 2 {
		t.Errorf("pipeline ran %d times after refresh=1, want 2", got)
	}
}

func TestHandleReportNewerPDFBypassesCache(t *testing.T) {
	runner := &fakeRunner{}
	// Landing page links to a newer report than the one cached.
	s, landingURL := newTestServer(t, runner, "Injury-Report_2025-01-16_06AM.pdf")
	runner.result = func() *report.Result {
		return okResult(landingURL + "/Injury-Report_2025-01-15_06PM.pdf")
	}

	doGet(t, s, "/api/injury-report")
	doGet(t, s, "/api/injury-report")
	if got := atomic.LoadInt32(&runner.calls); got != 2 {
		t.Errorf("pipeline ran %d times, want 2 (newer PDF should bypass cache)", got)
	}
}

func TestRefreshDropsStaleEntry(t *testing.T) {
	pdfName := "Injury-Report_2025-01-15_06PM.pdf"
	runner := &fakeRunner{}
	s, landingURL := newTestServer(t, runner, pdfName)
	runner.result = func() *report.Result { return okResult(landingURL + "/" + pdfName) }

	doGet(t, s, "/api/injury-report")

	// A forced refresh that fails must not leave the old entry behind.
	runner.result = func() *report.Result { return report.Failure(report.StepFetch, "source down") }
	_, result := doGet(t, s, "/api/injury-report?refresh=1")
	if result.OK {
		t.Fatal("forced refresh should surface the failure")
	}

	doGet(t, s, "/api/injury-report")
	if got := atomic.LoadInt32(&runner.calls); got != 3 {
		t.Errorf("pipeline ran %d times, want 3 (refresh must invalidate the cache)", got)
	}
}

func TestHandleReportFailureNotCached(t *testing.T) {
	runner := &fakeRunner{
		result: func() *report.Result { return report.Failure(report.StepFetch, "landing page unreachable") },
	}
	s, _ := newTestServer(t, runner, "Injury-Report_2025-01-15_06PM.pdf")

	_, result := doGet(t, s, "/api/injury-report")
	if result.OK {
		t.Fatal("expected a failure result")
	}
	if result.Error.Step != report.StepFetch {
		t.Errorf("step = %q", result.Error.Step)
	}

	doGet(t, s, "/api/injury-report")
	if got := atomic.LoadInt32(&runner.calls); got != 2 {
		t.Errorf("pipeline ran %d times, want 2 (failures must not be cached)", got)
	}
}

func TestHandleReportQueryFilter(t *testing.T) {
	pdfName := "Injury-Report_2025-01-15_06PM.pdf"
	runner := &fakeRunner{}
	s, landingURL := newTestServer(t, runner, pdfName)
	runner.result = func() *report.Result { return okResult(landingURL + "/" + pdfName) }

	_, result := doGet(t, s, "/api/injury-report?team=Boston+Celtics")
	if len(result.Rows) != 1 || result.Rows[0].Team != "Boston Celtics" {
		t.Fatalf("filtered rows = %+v", result.Rows)
	}
	if result.Stats.TotalRows != 1 {
		t.Errorf("stats.totalRows = %d, want 1 (stats must follow the filter)", result.Stats.TotalRows)
	}

	// The cached result is served unfiltered afterwards.
	_, full := doGet(t, s, "/api/injury-report")
	if len(full.Rows) != 2 {
		t.Errorf("unfiltered rows = %d, want 2", len(full.Rows))
	}
}

func TestHandleReportRowDecoration(t *testing.T) {
	pdfName := "Injury-Report_2025-01-15_06PM.pdf"
	runner := &fakeRunner{}
	s, landingURL := newTestServer(t, runner, pdfName)
	runner.result = func() *report.Result { return okResult(landingURL + "/" + pdfName) }

	dir := t.TempDir()
	mapPath := filepath.Join(dir, "player_name_map.json")
	if err := os.WriteFile(mapPath, []byte(`{"Smith, John": "john-smith-12345.png"}`), 0644); err != nil {
		t.Fatal(err)
	}
	headshotDir := filepath.Join(dir, "player_headshots")
	if err := os.MkdirAll(headshotDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(headshotDir, "john-smith-12345.png"), []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}
	s.headshots = teams.LoadHeadshots(mapPath, headshotDir)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/injury-report", nil))

	var payload struct {
		Rows []struct {
			Team           string `json:"team"`
			Player         string `json:"player"`
			TeamLogo       string `json:"teamLogo"`
			PlayerHeadshot string `json:"playerHeadshot"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(payload.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(payload.Rows))
	}
	if got := payload.Rows[0].TeamLogo; got != "/assets/team_logos/bos.png" {
		t.Errorf("teamLogo = %q, want /assets/team_logos/bos.png", got)
	}
	if got := payload.Rows[0].PlayerHeadshot; got != "/assets/player_headshots/john-smith-12345.png" {
		t.Errorf("playerHeadshot = %q", got)
	}
	if got := payload.Rows[1].TeamLogo; got != "/assets/team_logos/ny.png" {
		t.Errorf("knicks teamLogo = %q, want /assets/team_logos/ny.png", got)
	}
	if payload.Rows[1].PlayerHeadshot != "" {
		t.Errorf("unexpected headshot for player without synced image: %q", payload.Rows[1].PlayerHeadshot)
	}
}

func TestHandleReportMethods(t *testing.T) {
	runner := &fakeRunner{result: func() *report.Result { return report.Failure(report.StepFetch, "x") }}
	s, _ := newTestServer(t, runner, "Injury-Report_2025-01-15_06PM.pdf")
	handler := s.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/injury-report", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("OPTIONS status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("preflight CORS header = %q, want *", got)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/injury-report", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	runner := &fakeRunner{result: func() *report.Result { return report.Failure(report.StepFetch, "x") }}
	s, _ := newTestServer(t, runner, "Injury-Report_2025-01-15_06PM.pdf")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload["status"] != "ok" {
		t.Errorf("status field = %v", payload["status"])
	}
	if _, ok := payload["cacheAgeSeconds"]; !ok {
		t.Error("missing cacheAgeSeconds field")
	}
}
