// Package metrics exposes balance engine observations as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/groupledger/backend/internal/domain/entity"
)

const namespace = "groupledger"

// Prometheus implements adapter.BalanceMetrics on its own registry.
type Prometheus struct {
	registry        *prometheus.Registry
	summaries       *prometheus.CounterVec
	summaryDuration *prometheus.HistogramVec
	conversions     *prometheus.CounterVec
	issues          *prometheus.CounterVec
	rateLookups     *prometheus.CounterVec
}

// NewPrometheus creates and registers all balance engine collectors.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "balance",
			Name:      "summaries_total",
			Help:      "Balance summaries computed, by conversion mode.",
		}, []string{"mode"}),
		summaryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "balance",
			Name:      "summary_duration_seconds",
			Help:      "Time spent computing a balance summary.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "balance",
			Name:      "expense_conversions_total",
			Help:      "Included expenses by conversion result.",
		}, []string{"result"}),
		issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "balance",
			Name:      "issues_total",
			Help:      "Computation issues reported in summaries, by kind.",
		}, []string{"kind"}),
		rateLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fx",
			Name:      "rate_lookups_total",
			Help:      "Exchange rate lookups by source and outcome.",
		}, []string{"source", "outcome"}),
	}

	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.summaries,
		p.summaryDuration,
		p.conversions,
		p.issues,
		p.rateLookups,
	)
	return p
}

// ObserveSummary records one completed balance summary.
func (p *Prometheus) ObserveSummary(mode entity.ConversionMode, elapsed time.Duration, stats entity.ConversionStats, issues []entity.ComputationIssue) {
	p.summaries.WithLabelValues(string(mode)).Inc()
	p.summaryDuration.WithLabelValues(string(mode)).Observe(elapsed.Seconds())

	p.conversions.WithLabelValues("converted").Add(float64(stats.ConvertedCount))
	if failed := stats.TotalCount - stats.ConvertedCount; failed > 0 {
		p.conversions.WithLabelValues("failed").Add(float64(failed))
	}

	for _, issue := range issues {
		p.issues.WithLabelValues(string(issue.Kind)).Inc()
	}
}

// ObserveRateLookup records one exchange rate lookup.
func (p *Prometheus) ObserveRateLookup(source, outcome string) {
	p.rateLookups.WithLabelValues(source, outcome).Inc()
}

// Registry returns the registry the collectors live on.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Noop discards all observations.
type Noop struct{}

func (Noop) ObserveSummary(entity.ConversionMode, time.Duration, entity.ConversionStats, []entity.ComputationIssue) {
}

func (Noop) ObserveRateLookup(string, string) {}
