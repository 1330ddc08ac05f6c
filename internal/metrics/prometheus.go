package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypertracker_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hypertracker_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"worker"},
	)

	WorkerLastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hypertracker_worker_last_run_timestamp",
			Help: "Unix timestamp of last worker execution",
		},
		[]string{"worker"},
	)

	// Snapshot metrics
	SnapshotsSaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypertracker_snapshots_saved_total",
			Help: "Total number of heatmap snapshots persisted",
		},
		[]string{"coin"},
	)

	SnapshotBins = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hypertracker_snapshot_bins_count",
			Help: "Number of bins retained by the last persisted snapshot",
		},
		[]string{"coin"},
	)

	// Notification metrics
	NotificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypertracker_notifications_sent_total",
			Help: "Total number of per-recipient notification deliveries",
		},
		[]string{"coin", "status"}, // status: success|error
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)
	prometheus.MustRegister(WorkerLastRun)
	prometheus.MustRegister(SnapshotsSaved)
	prometheus.MustRegister(SnapshotBins)
	prometheus.MustRegister(NotificationsSent)
}

// Handler returns the HTTP handler for the /metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordWorkerExecution records a worker execution
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	WorkerExecutions.WithLabelValues(worker, status).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
	WorkerLastRun.WithLabelValues(worker).SetToCurrentTime()
}

// RecordSnapshot records a persisted snapshot
func RecordSnapshot(coin string, bins int) {
	SnapshotsSaved.WithLabelValues(coin).Inc()
	SnapshotBins.WithLabelValues(coin).Set(float64(bins))
}

// RecordNotification records one per-recipient delivery outcome
func RecordNotification(coin string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	NotificationsSent.WithLabelValues(coin, status).Inc()
}
