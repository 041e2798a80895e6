package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adrianwedd/squishmallowdex/internal/domain"
	"github.com/adrianwedd/squishmallowdex/internal/logger"
)

var (
	version = "dev"
	commit  = ""
	date    = ""

	cfgFile   string
	verbosity int
	quiet     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "squishmallowdex",
	Short: "Catch 'em all, squishy style",
	Long: `Squishmallowdex crawls the Squishmallows fandom wiki, collects every
character page into a local dataset, and renders a browsable catalog.

Runs are resumable: pages already processed are recorded in a progress
file and skipped on the next run, and every fetched page is cached on
disk so reruns do not hit the network.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("root-path", ".", "the path where output is saved")
	rootCmd.PersistentFlags().String("cache-dir", "cache_html", "directory for caching wiki pages, relative to root-path")
	rootCmd.PersistentFlags().String("progress-file", "progress_urls.txt", "file tracking processed page URLs, relative to root-path")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v debug, -vv trace)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")

	// Bind flags to viper
	viper.BindPFlag("root_path", rootCmd.PersistentFlags().Lookup("root-path"))
	viper.BindPFlag("cache_dir", rootCmd.PersistentFlags().Lookup("cache-dir"))
	viper.BindPFlag("progress_file", rootCmd.PersistentFlags().Lookup("progress-file"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setDefaults()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Environment variables
	viper.SetEnvPrefix("SQUISHMALLOWDEX")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults seeds viper so unset flags fall back to the polite crawl
// defaults instead of flag zero values.
func setDefaults() {
	def := domain.DefaultConfig()
	viper.SetDefault("base_url", def.BaseURL)
	viper.SetDefault("listing_path", def.ListingPath)
	viper.SetDefault("user_agent", def.UserAgent)
	viper.SetDefault("timeout", def.Timeout)
	viper.SetDefault("delay", def.Delay)
	viper.SetDefault("random_delay", def.RandomDelay)
	viper.SetDefault("batch_delay", def.BatchDelay)
	viper.SetDefault("batch_size", def.BatchSize)
	viper.SetDefault("max_retries", def.MaxRetries)
	viper.SetDefault("retry_backoff", def.RetryBackoff)
	viper.SetDefault("retry_backoff_max", def.RetryBackoffMax)
	viper.SetDefault("root_path", def.RootPath)
	viper.SetDefault("cache_dir", def.CacheDir)
	viper.SetDefault("progress_file", def.ProgressFile)
	viper.SetDefault("images_dir", def.ImagesDir)
	viper.SetDefault("dataset_file", def.DatasetFile)
	viper.SetDefault("csv_file", def.CSVFile)
	viper.SetDefault("html_file", def.HTMLFile)
	viper.SetDefault("overrides_file", def.OverridesFile)
}

// loadConfig merges defaults, config file, env vars and flags into one Config.
func loadConfig() (*domain.Config, error) {
	cfg := &domain.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func newLogger() zerolog.Logger {
	return logger.NewLoggerWithVerbosity(verbosity, quiet)
}
