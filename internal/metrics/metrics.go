// Package metrics holds the Prometheus collectors shared by the extractor, the
// processing pipeline and the job queue.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "docextract"

// Metrics groups every collector the service exports.
type Metrics struct {
	StrategyHits       *prometheus.CounterVec
	StrategyPanics     *prometheus.CounterVec
	EmptyExtractions   prometheus.Counter
	RejectedCandidates *prometheus.CounterVec
	HeaderFieldsFound  *prometheus.CounterVec
	ExtractionDuration prometheus.Histogram
	JobsProcessed      *prometheus.CounterVec
	JobDuration        prometheus.Histogram
	QueueDepth         prometheus.Gauge
	DroppedSubmissions prometheus.Counter
	BatchDocuments     prometheus.Counter
}

// Singleton pattern for the default registry (avoid double registration in tests).
var (
	defaultInstance *Metrics
	defaultOnce     sync.Once
)

// Default returns the collectors registered with prometheus.DefaultRegisterer.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultInstance = New(prometheus.DefaultRegisterer)
	})
	return defaultInstance
}

// New registers a fresh set of collectors with reg. Tests pass their own registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StrategyHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "strategy_hits_total",
			Help:      "Extractions whose items came from the given strategy",
		}, []string{"strategy"}),
		StrategyPanics: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "strategy_panics_total",
			Help:      "Panics recovered inside an extraction strategy",
		}, []string{"strategy"}),
		EmptyExtractions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_extractions_total",
			Help:      "Extractions where no strategy produced any item",
		}),
		RejectedCandidates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "text_candidates_rejected_total",
			Help:      "Text-pattern candidates dropped by the exclusion list",
		}, []string{"reason"}),
		HeaderFieldsFound: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "header_fields_found_total",
			Help:      "Header fields populated, by field and source",
		}, []string{"field", "source"}),
		ExtractionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Time spent in one extractor run",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		JobsProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_processed_total",
			Help:      "Extract jobs finished, by final status",
		}, []string{"status"}),
		JobDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Wall time of a full extract job including persistence",
			Buckets:   prometheus.DefBuckets,
		}),
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Submissions waiting for a worker",
		}),
		DroppedSubmissions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_dropped_total",
			Help:      "Submissions rejected because the queue was full or closed",
		}),
		BatchDocuments: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_documents_total",
			Help:      "Documents processed through chunked batches",
		}),
	}
}
