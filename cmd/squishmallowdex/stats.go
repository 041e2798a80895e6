package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adrianwedd/squishmallowdex/internal/app"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the local collection without crawling",
	Long: `Stats reads the local dataset, progress files and page cache and
prints a breakdown of the collection by type, squad and year. No
network requests are made.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		application, err := app.NewApp(cfg, newLogger())
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		if err := application.Stats(cmd.Context()); err != nil {
			return fmt.Errorf("stats failed: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
