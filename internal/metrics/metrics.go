package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Generation outcomes besides the keywords error kinds.
const (
	OutcomeCacheHit  = "cache_hit"
	OutcomeGenerated = "generated"
)

var cachedURLsDesc = prometheus.NewDesc(
	"seokeys_cached_urls",
	"Number of distinct URLs in the result cache",
	nil,
	nil,
)

// URLCounter reports how many distinct URLs are cached.
type URLCounter interface {
	CountURLs(ctx context.Context) (int64, error)
}

// CacheCollector is a custom Prometheus collector that reads the cached URL
// count from the store on each scrape.
type CacheCollector struct {
	counter URLCounter
	timeout time.Duration
	log     zerolog.Logger
}

// NewCacheCollector returns a collector backed by counter.
func NewCacheCollector(counter URLCounter, log zerolog.Logger) *CacheCollector {
	return &CacheCollector{counter: counter, timeout: 5 * time.Second, log: log}
}

// Describe sends the metric descriptor to the channel.
func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cachedURLsDesc
}

// Collect queries the store and emits the count as a gauge.
func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	n, err := c.counter.CountURLs(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to collect cached url count")
		return
	}
	ch <- prometheus.MustNewConstMetric(cachedURLsDesc, prometheus.GaugeValue, float64(n))
}

// Metrics holds the pipeline's instruments. A nil *Metrics records nothing.
type Metrics struct {
	Generations *prometheus.CounterVec
	Extraction  *prometheus.HistogramVec
}

// New creates the pipeline instruments and registers them, together with a
// cache collector when counter is non-nil, on reg.
func New(reg prometheus.Registerer, counter URLCounter, log zerolog.Logger) *Metrics {
	m := &Metrics{
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seokeys_generations_total",
			Help: "Keyword generation requests by outcome",
		}, []string{"outcome"}),
		Extraction: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "seokeys_extraction_duration_seconds",
			Help:    "Time spent waiting on the extraction backend",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}, []string{"backend"}),
	}
	reg.MustRegister(m.Generations, m.Extraction)
	if counter != nil {
		reg.MustRegister(NewCacheCollector(counter, log))
	}
	return m
}

// ObserveGeneration counts one generate call.
func (m *Metrics) ObserveGeneration(outcome string) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(outcome).Inc()
}

// ObserveExtraction records one extraction call's duration.
func (m *Metrics) ObserveExtraction(backend string, d time.Duration) {
	if m == nil {
		return
	}
	m.Extraction.WithLabelValues(backend).Observe(d.Seconds())
}
