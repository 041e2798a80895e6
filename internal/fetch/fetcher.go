// Package fetch implements the polite sequential page fetcher: cache
// first, then the network with bounded retries and a delay between
// requests.
package fetch

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/adrianwedd/squishmallowdex/internal/cachestore"
	"github.com/adrianwedd/squishmallowdex/internal/domain"
)

// Fetcher retrieves page bodies. It is single-threaded by contract: one
// pipeline owns one fetcher, and requests are issued strictly one at a
// time with the configured politeness delay between them.
type Fetcher struct {
	cfg       *domain.Config
	store     *cachestore.Store
	meta      domain.PageCacheRepo
	collector *colly.Collector
	log       zerolog.Logger

	// response state for the request in flight
	body   []byte
	status int
}

// New builds a fetcher from cfg. meta may be nil; metadata bookkeeping is
// best-effort either way.
func New(cfg *domain.Config, store *cachestore.Store, meta domain.PageCacheRepo, log zerolog.Logger) (*Fetcher, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if parsed.Host == "" {
		return nil, errors.New("base url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(cfg.UserAgent),
		// retries re-visit the same URL, so colly's own revisit guard
		// must stay out of the way
		colly.AllowURLRevisit(),
	)

	collector.SetRequestTimeout(cfg.Timeout)

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       cfg.Delay,
		RandomDelay: cfg.RandomDelay,
	}); err != nil {
		return nil, errors.Wrap(err, "configure rate limits")
	}

	f := &Fetcher{
		cfg:       cfg,
		store:     store,
		meta:      meta,
		collector: collector,
		log:       log.With().Str("module", "fetch").Logger(),
	}

	collector.OnRequest(func(r *colly.Request) {
		f.log.Debug().Str("url", r.URL.String()).Msg("visiting")
	})
	collector.OnResponse(func(r *colly.Response) {
		f.body = r.Body
		f.status = r.StatusCode
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			f.status = r.StatusCode
		}
	})

	return f, nil
}

// WithTransport swaps the underlying transport, used by tests.
func (f *Fetcher) WithTransport(transport http.RoundTripper) {
	f.collector.WithTransport(transport)
}

// Fetch returns the body for url, consulting the cache store first. The
// returned bool reports whether the body came from the cache. Transient
// failures are retried with exponential backoff; a permanent failure (or
// an exhausted retry budget) surfaces as a *PermanentError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, bool, error) {
	if !f.cfg.Refresh {
		if body, ok := f.store.Get(rawURL); ok {
			f.log.Debug().Str("url", rawURL).Msg("cache hit")
			return body, true, nil
		}
	} else if f.meta != nil && f.store.Has(rawURL) {
		// the stale metadata row goes away now; a successful refetch
		// writes a fresh one, a failed one leaves no lie behind
		if err := f.meta.Delete(ctx, rawURL); err != nil {
			f.log.Warn().Err(err).Str("url", rawURL).Msg("failed to drop stale cache metadata")
		}
	}
	f.log.Debug().Str("url", rawURL).Msg("cache miss")

	var lastErr error
	for attempt := 0; attempt <= f.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		if attempt > 0 {
			if err := f.sleep(ctx, f.backoff(attempt)); err != nil {
				return nil, false, err
			}
			f.log.Debug().Str("url", rawURL).Int("attempt", attempt).Msg("retrying")
		}

		f.body, f.status = nil, 0
		err := f.collector.Visit(rawURL)
		if err == nil {
			body := f.body
			f.cacheBody(ctx, rawURL, body)
			return body, false, nil
		}

		classified := classify(f.status, err)
		var transient *TransientError
		if !errors.As(classified, &transient) {
			return nil, false, classified
		}
		lastErr = classified
		f.log.Warn().Err(err).Str("url", rawURL).Int("status", f.status).Msg("transient fetch failure")
	}

	return nil, false, &PermanentError{Status: f.status, Err: errors.Wrap(lastErr, "retries exhausted")}
}

// cacheBody persists the body and its metadata row. Both writes degrade to
// a log line on failure; the caller still gets the in-memory body.
func (f *Fetcher) cacheBody(ctx context.Context, rawURL string, body []byte) {
	if err := f.store.Put(rawURL, body); err != nil {
		f.log.Warn().Err(err).Str("url", rawURL).Msg("cache write failed, page will be re-fetched next run")
		return
	}

	if f.meta == nil {
		return
	}
	entry := &domain.PageCacheEntry{
		URL:       rawURL,
		Key:       cachestore.Key(rawURL),
		Size:      int64(len(body)),
		Status:    f.status,
		FetchedAt: time.Now(),
	}
	if err := f.meta.Upsert(ctx, entry); err != nil {
		f.log.Warn().Err(err).Str("url", rawURL).Msg("cache metadata write failed")
	}
}

func (f *Fetcher) backoff(attempt int) time.Duration {
	base := f.cfg.RetryBackoff
	if base <= 0 {
		base = 100 * time.Millisecond
	}

	delay := base * time.Duration(1<<(attempt-1))
	if max := f.cfg.RetryBackoffMax; max > 0 && delay > max {
		delay = max
	}
	return delay
}

func (f *Fetcher) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
