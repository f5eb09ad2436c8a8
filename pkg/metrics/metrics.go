package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "txn_atlas",
			Name:      "http_requests_total",
			Help:      "Total number of dashboard API requests, partitioned by route and status code.",
		},
		[]string{"route", "code"},
	)

	requestDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "txn_atlas",
			Name:      "http_request_seconds",
			Help:      "Dashboard API request latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
	)

	artifactRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "txn_atlas",
			Name:      "artifact_rows",
			Help:      "Row count of the last loaded artifact, partitioned by artifact name.",
		},
		[]string{"artifact"},
	)
)

// Register attaches txn-atlas collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		requestsTotal,
		requestDurationSeconds,
		artifactRows,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveRequest records one served dashboard request.
func ObserveRequest(route, code string, duration time.Duration) {
	requestsTotal.WithLabelValues(route, code).Inc()
	if duration < 0 {
		duration = 0
	}
	requestDurationSeconds.Observe(duration.Seconds())
}

// SetArtifactRows publishes the size of an artifact after a read.
func SetArtifactRows(artifact string, rows int) {
	artifactRows.WithLabelValues(artifact).Set(float64(rows))
}
