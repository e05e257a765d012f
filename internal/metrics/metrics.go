// Package metrics exposes Prometheus collectors for the study pipeline and
// its HTTP surface. Collectors register with the default registry on init.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "studybuddy"

var (
	// HTTPRequestTotal counts requests by method, route and status.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route, and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2.5, 10),
		},
		[]string{"method", "route"},
	)

	// PacketsTotal counts produced study packets by route taken and the
	// content source that finally served them.
	PacketsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_total",
			Help:      "Study packets produced by pipeline route and content source.",
		},
		[]string{"route", "source"},
	)

	// FallbacksTotal counts content sources that failed and handed over
	// to the next one in their chain.
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Content source failures that triggered a fallback.",
		},
		[]string{"chain", "source"},
	)

	// DemotionsTotal counts requests that left a route and fell through
	// to a lower-precedence one.
	DemotionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_demotions_total",
			Help:      "Requests demoted from one pipeline route to the next.",
		},
		[]string{"from"},
	)

	KnowledgeFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "knowledge_fetch_total",
			Help:      "Encyclopedia summary fetches by outcome.",
		},
		[]string{"outcome"},
	)

	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Generative model calls by purpose and outcome.",
		},
		[]string{"purpose", "outcome"},
	)

	LLMRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Generative model call latency in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 9),
		},
		[]string{"purpose"},
	)

	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_total",
			Help:      "Tokens consumed by direction (input/output).",
		},
		[]string{"direction"},
	)

	HistoryWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_writes_total",
			Help:      "History entry writes by outcome.",
		},
		[]string{"outcome"},
	)

	HistoryQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_queue_depth",
			Help:      "History entries waiting to be written.",
		},
	)
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
