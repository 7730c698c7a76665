package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Delivery results used as the "result" label.
const (
	ResultSent   = "sent"
	ResultFailed = "failed"
)

// Metrics holds the reminder collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Scans        prometheus.Counter
	Due          prometheus.Counter
	Deliveries   *prometheus.CounterVec
	StoreSize    prometheus.Gauge
	ScanDuration prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Scans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deadline_scans_total",
			Help: "Number of completed scan cycles.",
		}),
		Due: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deadline_due_total",
			Help: "Number of deadlines found inside their active window, summed over cycles.",
		}),
		Deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deadline_deliveries_total",
			Help: "Reminder delivery attempts by result.",
		}, []string{"result"}),
		StoreSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "deadline_store_size",
			Help: "Number of deadlines in the registry at the last scan.",
		}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "deadline_scan_duration_seconds",
			Help:    "Wall time of a scan cycle including delivery.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(m.Scans, m.Due, m.Deliveries, m.StoreSize, m.ScanDuration)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
