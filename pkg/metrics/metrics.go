// Package metrics defines the Prometheus collectors for index builds and
// queries. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "parindex"

// Query outcomes used as the "result" label of QueriesTotal.
const (
	QueryMatched = "matched"
	QueryEmpty   = "empty"
)

type Metrics struct {
	Registry *prometheus.Registry

	DocumentsIndexed   prometheus.Counter
	PartitionDocuments *prometheus.GaugeVec
	BuildDuration      prometheus.Histogram
	BuildFailures      prometheus.Counter
	IndexTerms         prometheus.Gauge
	QueriesTotal       *prometheus.CounterVec
	QueryCacheHits     prometheus.Counter
	QueryCacheMisses   prometheus.Counter
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		DocumentsIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_indexed_total",
			Help:      "Documents folded into a global index.",
		}),
		PartitionDocuments: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "partition_documents",
			Help:      "Documents assigned to each worker in the last build.",
		}, []string{"worker"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Wall time of complete index builds.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
		BuildFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_failures_total",
			Help:      "Index builds aborted by a partition error.",
		}),
		IndexTerms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_terms",
			Help:      "Distinct terms in the last built index.",
		}),
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Queries by outcome (matched, empty).",
		}, []string{"result"}),
		QueryCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_cache_hits_total",
			Help:      "Queries answered from the result cache.",
		}),
		QueryCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_cache_misses_total",
			Help:      "Queries looked up in the index.",
		}),
	}

	m.Registry.MustRegister(
		m.DocumentsIndexed,
		m.PartitionDocuments,
		m.BuildDuration,
		m.BuildFailures,
		m.IndexTerms,
		m.QueriesTotal,
		m.QueryCacheHits,
		m.QueryCacheMisses,
	)
	return m
}

func (m *Metrics) ObservePartition(worker, docs int) {
	if m == nil {
		return
	}
	m.PartitionDocuments.WithLabelValues(strconv.Itoa(worker)).Set(float64(docs))
}

func (m *Metrics) ObserveBuild(docs, terms int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.DocumentsIndexed.Add(float64(docs))
	m.IndexTerms.Set(float64(terms))
	m.BuildDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveBuildFailure() {
	if m == nil {
		return
	}
	m.BuildFailures.Inc()
}

func (m *Metrics) ObserveQuery(matched bool, cached bool) {
	if m == nil {
		return
	}
	if cached {
		m.QueryCacheHits.Inc()
	} else {
		m.QueryCacheMisses.Inc()
	}
	if matched {
		m.QueriesTotal.WithLabelValues(QueryMatched).Inc()
	} else {
		m.QueriesTotal.WithLabelValues(QueryEmpty).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
