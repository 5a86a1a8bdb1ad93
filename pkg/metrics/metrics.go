// Package metrics exposes Prometheus metrics of suggestion rounds, card
// enrichments and favorites.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements the recorders of the suggest and favorites use cases.
type Collector struct {
	rounds       *prometheus.CounterVec
	roundLatency prometheus.Histogram
	analyses     *prometheus.CounterVec
	avatars      *prometheus.CounterVec
	toggles      *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namer_generation_rounds_total",
			Help: "Generation rounds by outcome",
		}, []string{"outcome"}),
		roundLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "namer_generation_latency_seconds",
			Help:    "Time the backend took to answer a generation round",
			Buckets: prometheus.DefBuckets,
		}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namer_presence_checks_total",
			Help: "Availability analyses, by whether the default unknown analysis was used",
		}, []string{"degraded"}),
		avatars: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namer_avatars_total",
			Help: "Avatar requests by outcome",
		}, []string{"outcome"}),
		toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namer_favorite_toggles_total",
			Help: "Favorite toggles by action",
		}, []string{"action"}),
	}

	reg.MustRegister(
		c.rounds,
		c.roundLatency,
		c.analyses,
		c.avatars,
		c.toggles,
	)

	return c
}

func (c *Collector) RecordRound(outcome string, elapsed time.Duration) {
	c.rounds.WithLabelValues(outcome).Inc()
	c.roundLatency.Observe(elapsed.Seconds())
}

func (c *Collector) RecordAnalysis(degraded bool) {
	c.analyses.WithLabelValues(strconv.FormatBool(degraded)).Inc()
}

func (c *Collector) RecordAvatar(outcome string) {
	c.avatars.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordToggle(saved bool) {
	action := "removed"
	if saved {
		action = "saved"
	}
	c.toggles.WithLabelValues(action).Inc()
}

// Handler serves the registry for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
