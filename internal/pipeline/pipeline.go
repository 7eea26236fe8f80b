// Package pipeline runs the end-to-end extraction: fetch the landing
// page, discover report PDFs, download the latest, extract its text and
// turn it into structured rows. Failures surface as Result errors tagged
// with the stage that failed, never as partial row sets.
package pipeline

import (
	"context"
	"time"

	"github.com/ttfl-live/injury-report/internal/artifact"
	"github.com/ttfl-live/injury-report/internal/config"
	"github.com/ttfl-live/injury-report/internal/discovery"
	"github.com/ttfl-live/injury-report/internal/fetcher"
	"github.com/ttfl-live/injury-report/internal/logger"
	"github.com/ttfl-live/injury-report/internal/parser"
	"github.com/ttfl-live/injury-report/internal/pdftext"
	"github.com/ttfl-live/injury-report/internal/report"
	"github.com/ttfl-live/injury-report/internal/storage"
)

// Runner produces one extraction result per call.
type Runner interface {
	Run(ctx context.Context) *report.Result
}

// NativeRunner is the in-process pipeline.
type NativeRunner struct {
	fetcher     *fetcher.Fetcher
	extractor   pdftext.Extractor
	store       *storage.Storage // optional, nil disables persistence
	landingPage string
}

// NewNativeRunner wires a pipeline against the given landing page.
// store may be nil when PDF/CSV persistence is not wanted.
func NewNativeRunner(landingPage string, store *storage.Storage) *NativeRunner {
	return &NativeRunner{
		fetcher:     fetcher.New(),
		extractor:   pdftext.NewExtractor(),
		store:       store,
		landingPage: landingPage,
	}
}

// FromConfig picks a runner based on configuration: the external-process
// path when selenium delegation is enabled, the native pipeline
// otherwise.
func FromConfig(cfg *config.Config, store *storage.Storage) Runner {
	if cfg.UseSelenium {
		return NewSubprocessRunner(cfg.SeleniumCommand)
	}
	return NewNativeRunner(cfg.LandingPage, store)
}

// Run executes the pipeline once.
func (r *NativeRunner) Run(ctx context.Context) *report.Result {
	started := time.Now()
	defer func() { logger.RecordTiming("pipeline.run", time.Since(started)) }()

	html, err := r.fetcher.Text(ctx, r.landingPage, fetcher.DefaultOptions())
	if err != nil {
		return report.Failure(report.StepFetch, err.Error())
	}

	links := discovery.PDFLinks(html, r.landingPage)
	latest := artifact.SelectLatest(links)
	if latest == nil {
		return report.Failure(report.StepParseLinks, "no injury report links found on landing page")
	}

	pdf, pdfURL, err := r.fetchPDF(ctx, latest.URL)
	if err != nil {
		return report.Failure(report.StepFetch, err.Error())
	}

	text, err := r.extractor.ExtractText(ctx, pdf)
	if err != nil {
		return report.Failure(report.StepParsePDF, err.Error())
	}

	rows := parser.ParseRows(text)
	if len(rows) == 0 {
		return report.Failure(report.StepParsePDF, "no rows extracted from PDF text")
	}

	result := &report.Result{
		OK: true,
		Meta: &report.Meta{
			PDFURL:      pdfURL,
			PDFName:     artifact.FileName(pdfURL),
			PublishedAt: artifact.PublishedAt(pdfURL),
			ReportTime:  artifact.TimeLabel(pdfURL),
			GameDate:    artifact.GameDate(pdfURL),
		},
		Stats: report.BuildStats(rows),
		Rows:  rows,
	}

	r.persist(result, pdf)
	return result
}

// fetchPDF downloads the report, falling back to the static CDN host
// when the primary URL fails. The URL that actually served the bytes is
// returned so metadata reflects the real source.
func (r *NativeRunner) fetchPDF(ctx context.Context, url string) ([]byte, string, error) {
	pdf, err := r.fetcher.Bytes(ctx, url, fetcher.PDFOptions(r.landingPage))
	if err == nil {
		return pdf, url, nil
	}

	fallback := artifact.FallbackURL(url)
	if fallback == "" || fallback == url {
		return nil, "", err
	}
	logger.Warn("primary PDF fetch failed, trying fallback host", logger.Fields{
		"url":      url,
		"fallback": fallback,
	})
	pdf, fbErr := r.fetcher.Bytes(ctx, fallback, fetcher.PDFOptions(r.landingPage))
	if fbErr != nil {
		return nil, "", err
	}
	return pdf, fallback, nil
}

// persist saves the PDF, its CSV projection and the result snapshot.
// Persistence failures are logged, not surfaced: the extraction itself
// succeeded.
func (r *NativeRunner) persist(result *report.Result, pdf []byte) {
	if r.store == nil {
		return
	}
	if _, err := r.store.SavePDF(result.Meta.PDFName, pdf); err != nil {
		logger.Error("saving PDF", logger.Fields{"name": result.Meta.PDFName}, err)
	}
	if _, err := r.store.SaveCSV(result.Meta.PDFName, result.Meta.GameDate, result.Rows); err != nil {
		logger.Error("saving CSV", logger.Fields{"name": result.Meta.PDFName}, err)
	}
	if err := r.store.SaveLastResult(result); err != nil {
		logger.Error("saving result snapshot", nil, err)
	}
}
