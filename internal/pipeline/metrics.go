package pipeline

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles Prometheus collectors for one pipeline run on a
// dedicated registry.
type Metrics struct {
	Registry         *prometheus.Registry
	FetchesTotal     prometheus.Counter
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	CatchesTotal     prometheus.Counter
	SkipsTotal       *prometheus.CounterVec
	ErrorsTotal      *prometheus.CounterVec
}

// NewMetrics constructs and registers all collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "squishdex_fetches_total",
		Help: "Total page fetch attempts, cache hits included.",
	})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "squishdex_cache_hits_total",
		Help: "Fetches served from the on-disk cache.",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "squishdex_cache_misses_total",
		Help: "Fetches that had to contact the network.",
	})
	catches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "squishdex_records_total",
		Help: "Records appended to the collection.",
	})
	skips := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "squishdex_skips_total",
		Help: "URLs skipped, by reason.",
	}, []string{"reason"})
	errorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "squishdex_errors_total",
		Help: "Per-URL failures, by kind.",
	}, []string{"kind"})

	registry.MustRegister(fetches, cacheHits, cacheMisses, catches, skips, errorsTotal)

	return &Metrics{
		Registry:         registry,
		FetchesTotal:     fetches,
		CacheHitsTotal:   cacheHits,
		CacheMissesTotal: cacheMisses,
		CatchesTotal:     catches,
		SkipsTotal:       skips,
		ErrorsTotal:      errorsTotal,
	}
}

func (m *Metrics) incFetch(fromCache bool) {
	if m == nil {
		return
	}
	m.FetchesTotal.Inc()
	if fromCache {
		m.CacheHitsTotal.Inc()
	} else {
		m.CacheMissesTotal.Inc()
	}
}

func (m *Metrics) incCatch() {
	if m == nil {
		return
	}
	m.CatchesTotal.Inc()
}

func (m *Metrics) incSkip(reason string) {
	if m == nil {
		return
	}
	m.SkipsTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) incError(kind string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(kind).Inc()
}
