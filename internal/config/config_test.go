package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.DataDir != DefaultDataDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, DefaultDataDir)
	}
	if cfg.CacheTTL != DefaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", cfg.CacheTTL, DefaultCacheTTL)
	}
	if cfg.UseSelenium {
		t.Error("UseSelenium should default to false")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PDF_STORAGE_DIR", "/tmp/reports")
	t.Setenv("CACHE_TTL_SECONDS", "600")
	t.Setenv("INJURY_REPORT_PAGE", "https://mirror.test/injuries")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.DataDir != "/tmp/reports" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("CacheTTL = %v, want 10m", cfg.CacheTTL)
	}
	if cfg.LandingPage != "https://mirror.test/injuries" {
		t.Errorf("LandingPage = %q", cfg.LandingPage)
	}
}

func TestFromEnvSeleniumToggle(t *testing.T) {
	t.Setenv("USE_SELENIUM", "1")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error when USE_SELENIUM is set without SELENIUM_COMMAND")
	}

	t.Setenv("SELENIUM_COMMAND", "python3 scripts/selenium_report.py")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if !cfg.UseSelenium {
		t.Error("UseSelenium should be true")
	}
	if cfg.SeleniumCommand != "python3 scripts/selenium_report.py" {
		t.Errorf("SeleniumCommand = %q", cfg.SeleniumCommand)
	}
}

func TestFromEnvInvalidValues(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error for invalid PORT")
	}
	t.Setenv("PORT", "8050")
	t.Setenv("CACHE_TTL_SECONDS", "-5")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error for negative CACHE_TTL_SECONDS")
	}
}
