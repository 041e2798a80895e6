// Package pipeline drives one scrape run: load the listing, iterate the
// detail URLs not yet in the ledger, and accumulate parsed records with
// progress persisted after every step.
package pipeline

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/adrianwedd/squishmallowdex/internal/collection"
	"github.com/adrianwedd/squishmallowdex/internal/domain"
	"github.com/adrianwedd/squishmallowdex/internal/fetch"
	"github.com/adrianwedd/squishmallowdex/internal/ledger"
	"github.com/adrianwedd/squishmallowdex/internal/parse"
)

// State is the pipeline's position in its run lifecycle.
type State string

const (
	StateLoadingListing State = "loading_listing"
	StateIterating      State = "iterating"
	StateCompleted      State = "completed"
	StateInterrupted    State = "interrupted"
	StateAborted        State = "aborted"
)

// SaveFunc persists a snapshot to the output artifacts. The pipeline calls
// it at batch boundaries and once at the end of the run.
type SaveFunc func(ctx context.Context, snapshot domain.Snapshot) error

// Result summarizes one run.
type Result struct {
	State        State
	Listed       int
	LedgerSkips  int
	NewProcessed int
	Catches      int
	PageSkips    int
	Errors       int
}

type Pipeline struct {
	cfg       *domain.Config
	log       zerolog.Logger
	fetcher   *fetch.Fetcher
	done      *ledger.Ledger
	skipped   *ledger.Ledger
	acc       *collection.Accumulator
	overrides map[string]domain.FieldPatch
	save      SaveFunc
	metrics   *Metrics

	state State
}

func New(
	cfg *domain.Config,
	log zerolog.Logger,
	fetcher *fetch.Fetcher,
	done, skipped *ledger.Ledger,
	acc *collection.Accumulator,
	overrides map[string]domain.FieldPatch,
	save SaveFunc,
	metrics *Metrics,
) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		log:       log.With().Str("module", "pipeline").Logger(),
		fetcher:   fetcher,
		done:      done,
		skipped:   skipped,
		acc:       acc,
		overrides: overrides,
		save:      save,
		metrics:   metrics,
		state:     StateLoadingListing,
	}
}

// State returns the pipeline's current state.
func (p *Pipeline) State() State {
	return p.state
}

// Run executes the scrape. Only an unobtainable listing aborts; every
// per-URL failure is handled locally so the run keeps moving. Cancellation
// is honored between iterations: the fetch in flight completes, then the
// ledgers and outputs are flushed before returning.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	p.state = StateLoadingListing
	listingURL := p.cfg.ListingURL()
	p.log.Info().Str("url", listingURL).Msg("fetching listing")

	body, fromCache, err := p.fetcher.Fetch(ctx, listingURL)
	if err != nil {
		p.state = StateAborted
		res.State = p.state
		return res, errors.Wrap(err, "failed to fetch listing")
	}
	p.metrics.incFetch(fromCache)

	base, err := url.Parse(p.cfg.BaseURL)
	if err != nil {
		p.state = StateAborted
		res.State = p.state
		return res, errors.Wrap(err, "invalid base url")
	}

	urls, err := parse.Listing(body, base)
	if err != nil {
		p.state = StateAborted
		res.State = p.state
		return res, errors.Wrap(err, "failed to parse listing")
	}
	if len(urls) == 0 {
		p.state = StateAborted
		res.State = p.state
		return res, errors.New("no detail urls discovered in listing")
	}

	p.state = StateIterating
	seen := make(map[string]struct{}, len(urls))
	batch := 0
	batchNum := 1

	for _, u := range urls {
		if ctx.Err() != nil {
			p.log.Warn().Msg("cancellation requested, stopping early")
			return p.finish(StateInterrupted, res)
		}

		// the listing may link the same page more than once
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		res.Listed++

		if p.done.Contains(u) || p.skipped.Contains(u) {
			res.LedgerSkips++
			continue
		}

		if p.cfg.Limit > 0 && res.NewProcessed >= p.cfg.Limit {
			p.log.Info().Int("limit", p.cfg.Limit).Msg("limit reached")
			break
		}
		res.NewProcessed++

		body, fromCache, err := p.fetcher.Fetch(ctx, u)
		p.metrics.incFetch(fromCache)
		if err != nil {
			if ctx.Err() != nil {
				return p.finish(StateInterrupted, res)
			}
			// a permanently failing page is marked done so it is
			// never retried on future runs
			p.log.Error().Err(err).Str("url", u).Msg("fetch failed")
			p.markDone(u)
			p.metrics.incError("fetch")
			res.Errors++
			continue
		}

		record, err := parse.Detail(body, u)
		if err != nil {
			if errors.Is(err, parse.ErrNotCharacter) {
				p.log.Debug().Str("url", u).Msg("not a character page")
				p.markSkipped(u)
				p.metrics.incSkip("not_character")
				res.PageSkips++
				continue
			}
			p.log.Error().Err(err).Str("url", u).Msg("parse failed")
			p.markDone(u)
			p.metrics.incError("parse")
			res.Errors++
			continue
		}

		if patch, ok := p.overrides[record.ID]; ok {
			patch.Apply(record)
		}

		if p.acc.Add(*record) {
			p.metrics.incCatch()
			res.Catches++
			p.log.Info().
				Str("name", record.Name).
				Int("total", p.acc.Len()).
				Msg("caught")
		}
		p.markDone(u)

		batch++
		if batch >= p.cfg.BatchSize {
			p.log.Info().Int("batch", batchNum).Msg("batch complete, saving progress")
			if err := p.persist(ctx); err != nil {
				p.log.Error().Err(err).Msg("batch save failed")
			}
			batchNum++
			batch = 0

			if err := p.pause(ctx, p.cfg.BatchDelay); err != nil {
				return p.finish(StateInterrupted, res)
			}
		}
	}

	return p.finish(StateCompleted, res)
}

// finish flushes ledgers, saves outputs and stamps the final state.
// Partial progress survives an interrupt by design.
func (p *Pipeline) finish(state State, res *Result) (*Result, error) {
	p.state = state
	res.State = state

	// the run context may already be canceled; the final save must still
	// happen, so it gets a fresh one
	if err := p.persist(context.Background()); err != nil {
		p.log.Error().Err(err).Msg("final save failed")
		return res, err
	}
	return res, nil
}

func (p *Pipeline) persist(ctx context.Context) error {
	if err := p.done.Flush(); err != nil {
		p.log.Warn().Err(err).Msg("failed to flush ledger")
	}
	if err := p.skipped.Flush(); err != nil {
		p.log.Warn().Err(err).Msg("failed to flush skipped ledger")
	}
	if p.save == nil {
		return nil
	}
	return p.save(ctx, p.acc.Snapshot())
}

func (p *Pipeline) markDone(u string) {
	if err := p.done.MarkDone(u); err != nil {
		p.log.Warn().Err(err).Str("url", u).Msg("failed to mark done")
	}
}

func (p *Pipeline) markSkipped(u string) {
	if err := p.skipped.MarkDone(u); err != nil {
		p.log.Warn().Err(err).Str("url", u).Msg("failed to mark skipped")
	}
}

func (p *Pipeline) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
