package assistoff

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors of one agent. Each agent owns its registry so
// tests can build as many agents as they like.
type Metrics struct {
	registry *prometheus.Registry

	// Notifications counts handled notifications by Result.
	Notifications *prometheus.CounterVec

	// Corrections counts key presses that completed without error.
	Corrections prometheus.Counter

	// HandleDuration observes the pipeline latency, including the key hold.
	HandleDuration prometheus.Histogram

	// State is 1 while a notification is being handled, 0 while idle.
	State prometheus.Gauge

	// WatcherErrors counts errors reported by fsnotify.
	WatcherErrors prometheus.Counter

	// DroppedReports counts telemetry reports dropped because the queue was full.
	DroppedReports prometheus.Counter
}

// NewMetrics creates the collectors and registers them, together with the Go
// runtime and process collectors, on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistoff_notifications_total",
				Help: "Status file notifications by outcome.",
			},
			[]string{"result"},
		),
		Corrections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assistoff_corrections_total",
			Help: "Corrective key presses sent.",
		}),
		HandleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "assistoff_handle_duration_seconds",
			Help:    "Time spent handling one status file notification.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .15, .25, .5, 1},
		}),
		State: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "assistoff_agent_state",
			Help: "1 while a notification is being handled, 0 while idle.",
		}),
		WatcherErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assistoff_watcher_errors_total",
			Help: "Errors reported by the file system watcher.",
		}),
		DroppedReports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assistoff_dropped_reports_total",
			Help: "Telemetry reports dropped because the publish queue was full.",
		}),
	}

	reg.MustRegister(
		m.Notifications,
		m.Corrections,
		m.HandleDuration,
		m.State,
		m.WatcherErrors,
		m.DroppedReports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) observe(result Result, elapsed time.Duration) {
	m.Notifications.WithLabelValues(string(result)).Inc()
	if result != ResultIgnored {
		m.HandleDuration.Observe(elapsed.Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
