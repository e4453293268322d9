package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
)

type SyncMetrics struct {
	registry *prometheus.Registry

	runsTotal            *prometheus.CounterVec
	runDuration          *prometheus.HistogramVec
	runsInFlight         prometheus.Gauge
	documentsFetched     prometheus.Counter
	documentsStored      prometheus.Counter
	notificationsCreated prometheus.Counter
	fetchDuration        *prometheus.HistogramVec
}

func NewSyncMetrics(service string) *SyncMetrics {
	registry := prometheus.NewRegistry()

	runsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hakivo",
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Total sync runs by trigger and status.",
		},
		[]string{"service", "sync_type", "status"},
	)
	runDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hakivo",
			Subsystem: "sync",
			Name:      "run_duration_seconds",
			Help:      "Sync run duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	runsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hakivo",
			Subsystem: "sync",
			Name:      "runs_in_flight",
			Help:      "Number of sync runs currently executing.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	documentsFetched := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   "hakivo",
			Subsystem:   "sync",
			Name:        "documents_fetched_total",
			Help:        "Documents returned by the federal register feed.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	documentsStored := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   "hakivo",
			Subsystem:   "sync",
			Name:        "documents_stored_total",
			Help:        "Documents persisted for the first time.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	notificationsCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   "hakivo",
			Subsystem:   "sync",
			Name:        "notifications_created_total",
			Help:        "Notification records created by fan-out.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	fetchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hakivo",
			Subsystem: "sync",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Per-category feed fetch duration in seconds by outcome.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"service", "category", "status"},
	)

	registry.MustRegister(runsTotal, runDuration, runsInFlight, documentsFetched, documentsStored, notificationsCreated, fetchDuration)

	return &SyncMetrics{
		registry:             registry,
		runsTotal:            runsTotal,
		runDuration:          runDuration,
		runsInFlight:         runsInFlight,
		documentsFetched:     documentsFetched,
		documentsStored:      documentsStored,
		notificationsCreated: notificationsCreated,
		fetchDuration:        fetchDuration,
	}
}

func (m *SyncMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *SyncMetrics) StartRun() {
	if m == nil {
		return
	}
	m.runsInFlight.Inc()
}

func (m *SyncMetrics) FinishRun(service string, run *domain.SyncRun, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.runsInFlight.Dec()

	status := string(domain.SyncStatusCompleted)
	if err != nil {
		status = string(domain.SyncStatusFailed)
	}
	syncType := ""
	if run != nil {
		syncType = string(run.SyncType)
		m.documentsFetched.Add(float64(run.DocumentsFetched))
		m.documentsStored.Add(float64(run.DocumentsStored))
		m.notificationsCreated.Add(float64(run.NotificationsCreated))
	}

	m.runsTotal.WithLabelValues(service, syncType, status).Inc()
	m.runDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *SyncMetrics) ObserveFetch(service, category string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.fetchDuration.WithLabelValues(service, category, status).Observe(duration.Seconds())
}
