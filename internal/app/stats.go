package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/adrianwedd/squishmallowdex/internal/database"
	"github.com/adrianwedd/squishmallowdex/internal/ledger"
	"github.com/adrianwedd/squishmallowdex/internal/repository"
)

// Stats prints a summary of the collected dataset and cache without
// touching the network.
func (a *App) Stats(ctx context.Context) error {
	fileRepo := repository.NewFileRepository(a.log)

	records, err := fileRepo.Load(ctx, a.paths.DatasetPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	done := ledger.New(a.paths.ProgressPath, a.log)
	if err := done.Load(); err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}

	skipped := ledger.New(a.paths.SkippedPath, a.log)
	if err := skipped.Load(); err != nil {
		return fmt.Errorf("failed to load skipped pages: %w", err)
	}

	byType := make(map[string]int)
	byColor := make(map[string]int)
	bySquad := make(map[string]int)
	byYear := make(map[int]int)
	withImages := 0

	for _, r := range records {
		if r.Type != "" {
			byType[r.Type]++
		}
		// multi-color entries count once per color
		for _, c := range strings.Split(r.Color, ",") {
			if c = strings.TrimSpace(c); c != "" {
				byColor[c]++
			}
		}
		if r.Squad != "" {
			bySquad[r.Squad]++
		}
		if r.Year > 0 {
			byYear[r.Year]++
		}
		if r.ImageURL != "" {
			withImages++
		}
	}

	out := a.output()

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Records", len(records)})
	t.AppendRow(table.Row{"With images", withImages})
	t.AppendRow(table.Row{"Distinct types", len(byType)})
	t.AppendRow(table.Row{"Distinct colors", len(byColor)})
	t.AppendRow(table.Row{"Distinct squads", len(bySquad)})
	t.AppendRow(table.Row{"Pages done", done.Len()})
	t.AppendRow(table.Row{"Pages skipped", skipped.Len()})

	if db, err := database.NewDB(a.paths.DBPath, a.log); err == nil {
		cacheRepo := database.NewPageCacheRepo(a.log, db)
		if count, err := cacheRepo.Count(ctx); err == nil {
			t.AppendRow(table.Row{"Cached pages", count})
		}
		if bytes, err := cacheRepo.TotalBytes(ctx); err == nil {
			t.AppendRow(table.Row{"Cache size", formatBytes(bytes)})
		}
		if entry, err := cacheRepo.Get(ctx, a.cfg.ListingURL()); err == nil && entry != nil {
			t.AppendRow(table.Row{"Listing fetched", entry.FetchedAt.Format(time.RFC3339)})
		}
		db.Close()
	}

	t.SetStyle(table.StyleRounded)
	t.Render()

	renderCountTable(out, "Type", byType)
	renderCountTable(out, "Color", byColor)
	renderCountTable(out, "Squad", bySquad)
	renderYearTable(out, byYear)

	return nil
}

func renderCountTable(out io.Writer, label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	// highest count first, name breaks ties
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{label, "Count"})
	for _, k := range keys {
		t.AppendRow(table.Row{k, counts[k]})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func renderYearTable(out io.Writer, counts map[int]int) {
	if len(counts) == 0 {
		return
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Year", "Count"})
	for _, y := range years {
		t.AppendRow(table.Row{strconv.Itoa(y), counts[y]})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
