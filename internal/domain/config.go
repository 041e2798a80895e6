package domain

import (
	"fmt"
	"net/url"
	"time"
)

type Config struct {
	BaseURL     string        `mapstructure:"base_url"`
	ListingPath string        `mapstructure:"listing_path"`
	UserAgent   string        `mapstructure:"user_agent"`
	Timeout     time.Duration `mapstructure:"timeout"`

	Delay           time.Duration `mapstructure:"delay"`
	RandomDelay     time.Duration `mapstructure:"random_delay"`
	BatchDelay      time.Duration `mapstructure:"batch_delay"`
	BatchSize       int           `mapstructure:"batch_size"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryBackoff    time.Duration `mapstructure:"retry_backoff"`
	RetryBackoffMax time.Duration `mapstructure:"retry_backoff_max"`

	Limit      int  `mapstructure:"limit"`
	Rebuild    bool `mapstructure:"rebuild"`
	Refresh    bool `mapstructure:"refresh"`
	SkipImages bool `mapstructure:"skip_images"`

	RootPath      string `mapstructure:"root_path"`
	CacheDir      string `mapstructure:"cache_dir"`
	ProgressFile  string `mapstructure:"progress_file"`
	ImagesDir     string `mapstructure:"images_dir"`
	DatasetFile   string `mapstructure:"dataset_file"`
	CSVFile       string `mapstructure:"csv_file"`
	HTMLFile      string `mapstructure:"html_file"`
	OverridesFile string `mapstructure:"overrides_file"`

	MetricsAddr string `mapstructure:"metrics_addr"`
}

// DefaultConfig returns polite defaults for the wiki target.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "https://squishmallowsquad.fandom.com",
		ListingPath:     "/wiki/Master_List",
		UserAgent:       "Squishmallowdex/1.0 (personal use)",
		Timeout:         30 * time.Second,
		Delay:           1200 * time.Millisecond,
		RandomDelay:     0,
		BatchDelay:      5 * time.Second,
		BatchSize:       10,
		MaxRetries:      2,
		RetryBackoff:    500 * time.Millisecond,
		RetryBackoffMax: 5 * time.Second,
		RootPath:        ".",
		CacheDir:        "cache_html",
		ProgressFile:    "progress_urls.txt",
		ImagesDir:       "squish_images",
		DatasetFile:     "squishmallowdex.json",
		CSVFile:         "squishmallowdex.csv",
		HTMLFile:        "squishmallowdex.html",
		OverridesFile:   "overrides.yaml",
	}
}

// Validate ensures the configuration is coherent before a run starts.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("base_url must include a host")
	}

	if c.ListingPath == "" {
		return fmt.Errorf("listing_path is required")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user_agent is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Delay < 0 || c.RandomDelay < 0 || c.BatchDelay < 0 {
		return fmt.Errorf("delays cannot be negative")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}
	if c.RetryBackoff < 0 || c.RetryBackoffMax < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if c.RetryBackoffMax > 0 && c.RetryBackoff > c.RetryBackoffMax {
		return fmt.Errorf("retry_backoff (%s) cannot exceed retry_backoff_max (%s)", c.RetryBackoff, c.RetryBackoffMax)
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if c.CacheDir == "" || c.ProgressFile == "" || c.DatasetFile == "" {
		return fmt.Errorf("cache_dir, progress_file and dataset_file are required")
	}

	return nil
}

// ListingURL resolves the listing path against the base URL.
func (c *Config) ListingURL() string {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return c.BaseURL + c.ListingPath
	}
	ref, err := url.Parse(c.ListingPath)
	if err != nil {
		return c.BaseURL + c.ListingPath
	}
	return base.ResolveReference(ref).String()
}
