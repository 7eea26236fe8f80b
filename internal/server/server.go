// Package server exposes extraction results over HTTP for dashboard
// frontends and fronting caches.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ttfl-live/injury-report/internal/artifact"
	"github.com/ttfl-live/injury-report/internal/cache"
	"github.com/ttfl-live/injury-report/internal/config"
	"github.com/ttfl-live/injury-report/internal/discovery"
	"github.com/ttfl-live/injury-report/internal/fetcher"
	"github.com/ttfl-live/injury-report/internal/logger"
	"github.com/ttfl-live/injury-report/internal/pipeline"
	"github.com/ttfl-live/injury-report/internal/report"
	"github.com/ttfl-live/injury-report/internal/teams"
)

// cacheControl advertises a short fresh window to fronting caches and
// lets them serve stale while revalidating.
const cacheControl = "public, s-maxage=300, stale-while-revalidate=900"

// Server serves report results over HTTP. Results are cached between
// requests; a fresh cache entry is still checked against the landing
// page so a newly published PDF is picked up before the TTL lapses.
type Server struct {
	runner      pipeline.Runner
	cache       *cache.ResultCache
	fetcher     *fetcher.Fetcher
	headshots   *teams.Headshots
	landingPage string
	port        int
}

// New builds a Server from configuration.
func New(cfg *config.Config, runner pipeline.Runner) *Server {
	return &Server{
		runner:      runner,
		cache:       cache.New(cfg.CacheTTL),
		fetcher:     fetcher.New(),
		headshots:   teams.LoadHeadshots(teams.DefaultNameMapPath, teams.DefaultHeadshotDir),
		landingPage: cfg.LandingPage,
		port:        cfg.Port,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/injury-report", s.handleReport)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// ListenAndServe blocks serving requests until ctx is canceled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 3 * time.Minute, // a cold run fetches and parses the PDF inline
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", logger.Fields{"addr": httpServer.Addr})
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":          "ok",
		"cacheAgeSeconds": int(s.cache.Age().Seconds()),
		"metrics":         logger.GetMetricsSnapshot(),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	force := r.URL.Query().Get("refresh") == "1"
	result := s.currentResult(r.Context(), force)
	result = applyQueryFilter(result, r)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", cacheControl)
	if err := json.NewEncoder(w).Encode(s.decorate(result)); err != nil {
		logger.Error("encoding response", nil, err)
	}
}

// decoratedRow is a report row plus the asset paths frontends render
// next to it. Unknown teams and players without a synced headshot get
// empty paths, which json omits.
type decoratedRow struct {
	report.Row
	TeamLogo       string `json:"teamLogo,omitempty"`
	PlayerHeadshot string `json:"playerHeadshot,omitempty"`
}

// reportResponse is the wire shape of a result: the result itself with
// each row decorated.
type reportResponse struct {
	OK    bool                `json:"ok"`
	Meta  *report.Meta        `json:"meta,omitempty"`
	Stats *report.Stats       `json:"stats,omitempty"`
	Rows  []decoratedRow      `json:"rows,omitempty"`
	Error *report.ResultError `json:"error,omitempty"`
}

func (s *Server) decorate(result *report.Result) *reportResponse {
	resp := &reportResponse{
		OK:    result.OK,
		Meta:  result.Meta,
		Stats: result.Stats,
		Error: result.Error,
	}
	for _, row := range result.Rows {
		resp.Rows = append(resp.Rows, decoratedRow{
			Row:            row,
			TeamLogo:       teams.LogoSrc(row.Team),
			PlayerHeadshot: s.headshots.Src(row.Player),
		})
	}
	return resp
}

// currentResult serves from cache when possible and runs the pipeline
// otherwise. Failed runs are returned but never cached.
func (s *Server) currentResult(ctx context.Context, force bool) *report.Result {
	if force {
		// A stale entry must not be served later if the forced run fails.
		s.cache.Invalidate()
	} else {
		if cached := s.cache.Get(); cached != nil && !s.newerPublished(ctx, s.cache.PDFURL()) {
			logger.IncrCounter("server.cache_hit")
			return cached
		}
	}

	logger.IncrCounter("server.pipeline_run")
	result := s.runner.Run(ctx)
	s.cache.Set(result)
	return result
}

// newerPublished probes the landing page for a PDF newer than the one
// the cached result came from. Probe failures count as "nothing newer"
// so a flaky landing page cannot take down an otherwise fresh cache.
func (s *Server) newerPublished(ctx context.Context, cachedURL string) bool {
	opts := fetcher.DefaultOptions()
	opts.Retries = 0
	opts.Timeout = 5 * time.Second

	html, err := s.fetcher.Text(ctx, s.landingPage, opts)
	if err != nil {
		logger.Debug("newer-PDF probe failed", logger.Fields{"error": err.Error()})
		return false
	}
	latest := artifact.SelectLatest(discovery.PDFLinks(html, s.landingPage))
	if latest == nil {
		return false
	}
	if latest.URL != cachedURL && artifact.FileName(latest.URL) != artifact.FileName(cachedURL) {
		logger.Info("newer report published, bypassing cache", logger.Fields{
			"cached": artifact.FileName(cachedURL),
			"latest": artifact.FileName(latest.URL),
		})
		return true
	}
	return false
}

// applyQueryFilter narrows a successful result by player, team and
// status query parameters and sorts rows for display. The cached result
// is never mutated; stats are rebuilt over the filtered rows.
func applyQueryFilter(result *report.Result, r *http.Request) *report.Result {
	if result == nil || !result.OK {
		return result
	}
	query := r.URL.Query()
	filter := report.Filter{
		PlayerQuery: strings.TrimSpace(query.Get("player")),
		Teams:       query["team"],
		Statuses:    query["status"],
	}
	if filter.PlayerQuery == "" && len(filter.Teams) == 0 && len(filter.Statuses) == 0 {
		return result
	}
	filtered := report.SortForDisplay(filter.Apply(result.Rows))
	return &report.Result{
		OK:    true,
		Meta:  result.Meta,
		Stats: report.BuildStats(filtered),
		Rows:  filtered,
	}
}
