// Package app wires the configuration, storage, fetcher and pipeline into
// one runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/adrianwedd/squishmallowdex/internal/cachestore"
	"github.com/adrianwedd/squishmallowdex/internal/collection"
	"github.com/adrianwedd/squishmallowdex/internal/database"
	"github.com/adrianwedd/squishmallowdex/internal/domain"
	"github.com/adrianwedd/squishmallowdex/internal/fetch"
	"github.com/adrianwedd/squishmallowdex/internal/images"
	"github.com/adrianwedd/squishmallowdex/internal/ledger"
	"github.com/adrianwedd/squishmallowdex/internal/pipeline"
	"github.com/adrianwedd/squishmallowdex/internal/render"
	"github.com/adrianwedd/squishmallowdex/internal/repository"
)

// App represents the application with all dependencies initialized
type App struct {
	log   zerolog.Logger
	cfg   *domain.Config
	paths *domain.Paths

	// test seams: a fake transport for the fetcher, a capture buffer
	// for the stats tables
	transport http.RoundTripper
	out       io.Writer
}

// NewApp validates the configuration and resolves all paths.
func NewApp(cfg *domain.Config, log zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &App{
		log:   log,
		cfg:   cfg,
		paths: domain.NewPaths(cfg),
	}, nil
}

// Run executes a full scrape and writes every output artifact.
func (a *App) Run(ctx context.Context) error {
	store := cachestore.New(a.paths.CacheDir, a.log)
	done := ledger.New(a.paths.ProgressPath, a.log)
	skipped := ledger.New(a.paths.SkippedPath, a.log)
	fileRepo := repository.NewFileRepository(a.log)

	db, err := database.NewDB(a.paths.DBPath, a.log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	cacheRepo := database.NewPageCacheRepo(a.log, db)

	if a.cfg.Rebuild {
		if err := a.rebuild(ctx, store, done, skipped, cacheRepo); err != nil {
			return fmt.Errorf("rebuild failed: %w", err)
		}
	}

	if err := done.Load(); err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	defer done.Close()

	if err := skipped.Load(); err != nil {
		return fmt.Errorf("failed to load skipped pages: %w", err)
	}
	defer skipped.Close()

	acc := collection.NewAccumulator(a.log)
	if !a.cfg.Rebuild {
		existing, err := fileRepo.Load(ctx, a.paths.DatasetPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load dataset: %w", err)
		}
		acc.Seed(existing)
	}

	overrides, err := fileRepo.LoadOverrides(ctx, a.paths.OverridesPath)
	if err != nil {
		return fmt.Errorf("failed to load overrides: %w", err)
	}
	if len(overrides) > 0 {
		a.log.Info().Int("count", len(overrides)).Msg("loaded field overrides")
	}

	fetcher, err := fetch.New(a.cfg, store, cacheRepo, a.log)
	if err != nil {
		return fmt.Errorf("failed to initialize fetcher: %w", err)
	}
	if a.transport != nil {
		fetcher.WithTransport(a.transport)
	}

	metrics := pipeline.NewMetrics()
	a.serveMetrics(ctx, metrics)

	dl := images.NewDownloader(a.paths.ImagesDir, a.cfg.UserAgent, a.cfg.Timeout, a.cfg.Refresh, a.log)
	save := a.saveFunc(fileRepo, dl)

	p := pipeline.New(a.cfg, a.log, fetcher, done, skipped, acc, overrides, save, metrics)
	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	a.log.Info().
		Str("state", string(res.State)).
		Int("listed", res.Listed).
		Int("already_done", res.LedgerSkips).
		Int("processed", res.NewProcessed).
		Int("caught", res.Catches).
		Int("skipped_pages", res.PageSkips).
		Int("errors", res.Errors).
		Int("collection_size", acc.Len()).
		Msg("=== RUN COMPLETE ===")

	if res.State == pipeline.StateInterrupted {
		a.log.Warn().Msg("run was interrupted, progress saved; rerun to resume")
	}

	return nil
}

func (a *App) output() io.Writer {
	if a.out != nil {
		return a.out
	}
	return os.Stdout
}

// rebuild wipes all cached state so the next run starts from scratch.
func (a *App) rebuild(ctx context.Context, store *cachestore.Store, done, skipped *ledger.Ledger, cacheRepo domain.PageCacheRepo) error {
	a.log.Warn().Msg("rebuild requested, clearing cache and progress")

	if err := store.Clear(); err != nil {
		return err
	}
	if err := done.Reset(); err != nil {
		return err
	}
	if err := skipped.Reset(); err != nil {
		return err
	}
	if err := cacheRepo.Clear(ctx); err != nil {
		return err
	}
	for _, p := range []string{a.paths.DatasetPath, a.paths.CSVPath, a.paths.HTMLPath} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// saveFunc builds the persistence callback: JSON dataset first (the source
// of truth), then the derived CSV and HTML views.
func (a *App) saveFunc(fileRepo *repository.FileRepository, dl *images.Downloader) pipeline.SaveFunc {
	return func(ctx context.Context, snapshot domain.Snapshot) error {
		if err := fileRepo.Store(ctx, a.paths.DatasetPath, snapshot); err != nil {
			return fmt.Errorf("failed to store dataset: %w", err)
		}

		if err := render.WriteCSV(a.paths.CSVPath, snapshot); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}

		localImages := a.mirrorImages(ctx, dl, snapshot)

		if err := render.WriteHTML(a.paths.HTMLPath, "Squishmallowdex", snapshot, localImages); err != nil {
			return fmt.Errorf("failed to write html: %w", err)
		}

		return nil
	}
}

// mirrorImages downloads thumbnails for records that have one. A failed
// download falls back to the remote URL in the catalog, never an error.
func (a *App) mirrorImages(ctx context.Context, dl *images.Downloader, snapshot domain.Snapshot) map[string]string {
	localImages := make(map[string]string, len(snapshot))
	if a.cfg.SkipImages {
		return localImages
	}

	for _, r := range snapshot {
		if r.ImageURL == "" {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		path, err := dl.Mirror(ctx, r.ImageURL)
		if err != nil {
			a.log.Warn().Err(err).Str("name", r.Name).Msg("failed to mirror image")
			continue
		}
		localImages[r.ID] = path
	}

	return localImages
}

// serveMetrics exposes the run's counters over HTTP when an address is
// configured. The listener dies with the run context.
func (a *App) serveMetrics(ctx context.Context, metrics *pipeline.Metrics) {
	if a.cfg.MetricsAddr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: a.cfg.MetricsAddr, Handler: mux}

	go func() {
		a.log.Info().Str("addr", a.cfg.MetricsAddr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Warn().Err(err).Msg("metrics server stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		srv.Close()
	}()
}
