package cache

import (
	"testing"
	"time"

	"github.com/ttfl-live/injury-report/internal/report"
)

func okResult(pdfURL string) *report.Result {
	return &report.Result{
		OK:   true,
		Meta: &report.Meta{PDFURL: pdfURL, PDFName: "Injury-Report_2025-01-15_06PM.pdf"},
	}
}

func TestGetFreshAndExpired(t *testing.T) {
	c := New(time.Minute)
	clock := time.Now()
	c.now = func() time.Time { return clock }

	if c.Get() != nil {
		t.Fatal("empty cache returned a result")
	}

	c.Set(okResult("https://example.com/a.pdf"))
	if got := c.Get(); got == nil || got.Meta.PDFURL != "https://example.com/a.pdf" {
		t.Fatalf("fresh Get() = %+v", got)
	}

	clock = clock.Add(2 * time.Minute)
	if c.Get() != nil {
		t.Error("expired entry served")
	}
}

func TestSetIgnoresFailures(t *testing.T) {
	c := New(time.Minute)
	c.Set(nil)
	c.Set(report.Failure(report.StepFetch, "boom"))
	if c.Get() != nil {
		t.Error("failed result was cached")
	}
}

func TestPDFURL(t *testing.T) {
	c := New(time.Minute)
	if c.PDFURL() != "" {
		t.Error("empty cache has a PDF URL")
	}
	c.Set(okResult("https://example.com/a.pdf"))
	if got := c.PDFURL(); got != "https://example.com/a.pdf" {
		t.Errorf("PDFURL() = %q", got)
	}
}

func TestInvalidate(t *testing.T) {
	c := New(time.Minute)
	c.Set(okResult("https://example.com/a.pdf"))
	c.Invalidate()
	if c.Get() != nil {
		t.Error("invalidated entry served")
	}
}

func TestDefaultTTL(t *testing.T) {
	c := New(0)
	if c.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultTTL)
	}
}
