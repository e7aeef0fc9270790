package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Posting metrics
	PostingsCreated prometheus.Counter
	PostingsEdited  prometheus.Counter
	PostingsDeleted prometheus.Counter
	PostingAmount   prometheus.Histogram

	// Transfer metrics
	TransfersCreated prometheus.Counter
	TransfersDeleted prometheus.Counter
	TransferErrors   *prometheus.CounterVec

	// Settlement metrics
	Settlements      *prometheus.CounterVec
	SettlementAmount *prometheus.HistogramVec

	// Snapshot metrics
	SnapshotsTaken   prometheus.Counter
	SnapshotDuration prometheus.Histogram

	// Consistency metrics
	ConsistencyChecks     prometheus.Counter
	ConsistencyMismatches prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		PostingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealbook_postings_created_total",
			Help: "Total number of cash flow postings created",
		}),
		PostingsEdited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealbook_postings_edited_total",
			Help: "Total number of cash flow postings edited",
		}),
		PostingsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealbook_postings_deleted_total",
			Help: "Total number of cash flow postings deleted",
		}),
		PostingAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dealbook_posting_amount",
			Help:    "Absolute posting amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		TransfersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealbook_transfers_created_total",
			Help: "Total number of money transfers created",
		}),
		TransfersDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealbook_transfers_deleted_total",
			Help: "Total number of money transfers deleted",
		}),
		TransferErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealbook_transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),

		Settlements: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealbook_settlements_total",
				Help: "Total number of debt settlements by kind",
			},
			[]string{"kind"},
		),
		SettlementAmount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dealbook_settlement_amount",
				Help:    "Settlement amounts by kind",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"kind"},
		),

		SnapshotsTaken: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealbook_snapshots_taken_total",
			Help: "Total number of monthly capital snapshots taken",
		}),
		SnapshotDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dealbook_snapshot_duration_seconds",
			Help:    "Duration of capital snapshot computation",
			Buckets: prometheus.DefBuckets,
		}),

		ConsistencyChecks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealbook_consistency_checks_total",
			Help: "Total number of balance consistency checks run",
		}),
		ConsistencyMismatches: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "dealbook_consistency_mismatches",
			Help: "Number of balance mismatches found by the last consistency check",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealbook_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dealbook_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealbook_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
