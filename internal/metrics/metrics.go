// Package metrics exposes scraper activity to Prometheus. The Recorder also
// tracks browser resources, so a leaked session shows up as a gauge that
// never returns to zero.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-linkedin-scraper/internal/browser"
)

const namespace = "linkedin_scraper"

// Recorder is safe for concurrent use. A nil Recorder records nothing.
type Recorder struct {
	active          *prometheus.GaugeVec
	allocated       *prometheus.CounterVec
	releaseFailures *prometheus.CounterVec
	cards           *prometheus.CounterVec
	excluded        prometheus.Counter
	invocations     *prometheus.CounterVec
	duration        *prometheus.HistogramVec
}

var _ browser.Tracker = (*Recorder)(nil)

func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		active: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "browser_resources_active",
			Help:      "Browser processes and profile directories currently held.",
		}, []string{"kind"}),
		allocated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "browser_resources_allocated_total",
			Help:      "Browser processes and profile directories allocated.",
		}, []string{"kind"}),
		releaseFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "browser_release_failures_total",
			Help:      "Cleanup steps that failed while releasing a session.",
		}, []string{"kind"}),
		cards: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_cards_total",
			Help:      "Result cards visited, by outcome.",
		}, []string{"outcome"}),
		excluded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "postings_excluded_total",
			Help:      "Postings dropped by the exclusion list.",
		}),
		invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Scrape invocations, by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invocation_duration_seconds",
			Help:      "Wall time of scrape invocations.",
			Buckets:   []float64{5, 10, 20, 30, 45, 60, 90, 120, 180},
		}, []string{"outcome"}),
	}
}

func (r *Recorder) Allocated(kind browser.ResourceKind, _ string) {
	if r == nil {
		return
	}
	r.active.WithLabelValues(string(kind)).Inc()
	r.allocated.WithLabelValues(string(kind)).Inc()
}

func (r *Recorder) Released(kind browser.ResourceKind, _ string, err error) {
	if r == nil {
		return
	}
	r.active.WithLabelValues(string(kind)).Dec()
	if err != nil {
		r.releaseFailures.WithLabelValues(string(kind)).Inc()
	}
}

func (r *Recorder) CardExtracted() {
	if r == nil {
		return
	}
	r.cards.WithLabelValues("extracted").Inc()
}

func (r *Recorder) CardFailed(error) {
	if r == nil {
		return
	}
	r.cards.WithLabelValues("failed").Inc()
}

func (r *Recorder) PostingExcluded(string) {
	if r == nil {
		return
	}
	r.cards.WithLabelValues("excluded").Inc()
	r.excluded.Inc()
}

// Invocation records one finished scrape.
func (r *Recorder) Invocation(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.invocations.WithLabelValues(outcome).Inc()
	r.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// Handler serves the exposition format for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
