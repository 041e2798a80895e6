package domain

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.BaseURL = "" }},
		{"base url without host", func(c *Config) { c.BaseURL = "/just/a/path" }},
		{"empty listing path", func(c *Config) { c.ListingPath = "" }},
		{"empty user agent", func(c *Config) { c.UserAgent = "" }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"negative delay", func(c *Config) { c.Delay = -time.Second }},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"backoff above cap", func(c *Config) {
			c.RetryBackoff = time.Minute
			c.RetryBackoffMax = time.Second
		}},
		{"negative limit", func(c *Config) { c.Limit = -1 }},
		{"empty cache dir", func(c *Config) { c.CacheDir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestListingURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "https://example.test"
	cfg.ListingPath = "/wiki/Master_List"

	if got := cfg.ListingURL(); got != "https://example.test/wiki/Master_List" {
		t.Fatalf("listing url = %q", got)
	}
}

func TestPathsDeriveSkippedLedger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootPath = "/data"
	cfg.ProgressFile = "progress_urls.txt"

	p := NewPaths(cfg)
	if p.SkippedPath != "/data/progress_urls_skipped.txt" {
		t.Fatalf("skipped path = %q", p.SkippedPath)
	}
	if p.CacheDir != "/data/cache_html" {
		t.Fatalf("cache dir = %q", p.CacheDir)
	}
}

func TestPathsExtensionlessProgressFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootPath = "/data"
	cfg.ProgressFile = "progress"

	p := NewPaths(cfg)
	if p.SkippedPath != "/data/progress_skipped.txt" {
		t.Fatalf("skipped path = %q", p.SkippedPath)
	}
}
