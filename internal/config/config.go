// Package config provides environment-driven configuration for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultPort        = 8050
	DefaultDataDir     = "data"
	DefaultCacheTTL    = time.Hour
	DefaultLandingPage = "https://official.nba.com/nba-injury-report-2025-26-season/"
)

// Config holds the runtime settings for the injury report service.
type Config struct {
	// Port is the HTTP listen port (PORT).
	Port int
	// LandingPage is the report landing page URL (INJURY_REPORT_PAGE).
	LandingPage string
	// DataDir is where downloaded PDFs and extracted CSVs are stored
	// (PDF_STORAGE_DIR).
	DataDir string
	// CacheTTL is how long a good result is served without re-checking
	// the source (CACHE_TTL_SECONDS).
	CacheTTL time.Duration
	// UseSelenium switches the pipeline to the external-process
	// delegation path (USE_SELENIUM: "1" or "true").
	UseSelenium bool
	// SeleniumCommand is the external command line, split on whitespace
	// (SELENIUM_COMMAND). Required when UseSelenium is set.
	SeleniumCommand string
	// Verbose lowers the log level to DEBUG (VERBOSE).
	Verbose bool
}

// FromEnv builds a Config from the environment, applying defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:            DefaultPort,
		LandingPage:     DefaultLandingPage,
		DataDir:         DefaultDataDir,
		CacheTTL:        DefaultCacheTTL,
		UseSelenium:     boolEnv("USE_SELENIUM"),
		SeleniumCommand: os.Getenv("SELENIUM_COMMAND"),
		Verbose:         boolEnv("VERBOSE"),
	}

	if page := os.Getenv("INJURY_REPORT_PAGE"); page != "" {
		cfg.LandingPage = page
	}
	if dir := os.Getenv("PDF_STORAGE_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if port := os.Getenv("PORT"); port != "" {
		parsed, err := strconv.Atoi(port)
		if err != nil || parsed < 1 || parsed > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", port)
		}
		cfg.Port = parsed
	}
	if ttl := os.Getenv("CACHE_TTL_SECONDS"); ttl != "" {
		parsed, err := strconv.Atoi(ttl)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("invalid CACHE_TTL_SECONDS %q", ttl)
		}
		cfg.CacheTTL = time.Duration(parsed) * time.Second
	}

	if cfg.UseSelenium && cfg.SeleniumCommand == "" {
		return nil, fmt.Errorf("USE_SELENIUM is set but SELENIUM_COMMAND is empty")
	}

	return cfg, nil
}

func boolEnv(name string) bool {
	switch os.Getenv(name) {
	case "1", "true", "TRUE", "True", "yes":
		return true
	}
	return false
}
