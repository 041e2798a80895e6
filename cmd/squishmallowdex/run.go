package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adrianwedd/squishmallowdex/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Crawl the wiki and update the local collection",
	Long: `Run performs a full crawl:
1. Fetches the master listing page
2. Visits every character page not yet in the progress file
3. Parses the infobox and bio of each page
4. Saves the dataset (JSON), spreadsheet (CSV) and catalog (HTML)
5. Mirrors character images for offline browsing

Interrupting with Ctrl-C is safe: progress is flushed and the next
run resumes where this one stopped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		application, err := app.NewApp(cfg, newLogger())
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := application.Run(ctx); err != nil {
			return fmt.Errorf("run failed: %w", err)
		}

		return nil
	},
}

func init() {
	runCmd.Flags().Int("limit", 0, "Stop after processing this many new pages (0 = no limit)")
	runCmd.Flags().Bool("rebuild", false, "Discard cache, progress and dataset and start from scratch")
	runCmd.Flags().Bool("refresh", false, "Refetch pages and images even when cached")
	runCmd.Flags().Bool("skip-images", false, "Do not download character images")
	runCmd.Flags().Int("batch-size", 10, "Pages per batch before saving progress")
	runCmd.Flags().Duration("batch-delay", 0, "Pause between batches (default 5s)")
	runCmd.Flags().Duration("delay", 0, "Pause between page fetches (default 1.2s)")
	runCmd.Flags().String("metrics-addr", "", "Expose Prometheus metrics on this address (e.g. :9090)")

	viper.BindPFlag("limit", runCmd.Flags().Lookup("limit"))
	viper.BindPFlag("rebuild", runCmd.Flags().Lookup("rebuild"))
	viper.BindPFlag("refresh", runCmd.Flags().Lookup("refresh"))
	viper.BindPFlag("skip_images", runCmd.Flags().Lookup("skip-images"))
	viper.BindPFlag("batch_size", runCmd.Flags().Lookup("batch-size"))
	viper.BindPFlag("batch_delay", runCmd.Flags().Lookup("batch-delay"))
	viper.BindPFlag("delay", runCmd.Flags().Lookup("delay"))
	viper.BindPFlag("metrics_addr", runCmd.Flags().Lookup("metrics-addr"))

	rootCmd.AddCommand(runCmd)
}
