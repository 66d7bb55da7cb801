package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests       *prometheus.CounterVec
	CounterProjectedDays  *prometheus.CounterVec
	CounterSessionsClosed prometheus.Counter
	CounterReports        *prometheus.CounterVec
	CounterCacheHits      prometheus.Counter
	CounterCacheMisses    prometheus.Counter

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("kinevo", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("kinevo", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterProjectedDays := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "projected_days",
		Help:      "The total number of calendar days projected, by status",
	}, []string{"status"})
	counterSessionsClosed := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_completed",
		Help:      "The total number of completed training sessions",
	})
	counterReports := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "adherence_reports",
		Help:      "The total number of exported adherence reports",
	}, []string{"format"})
	counterCacheHits := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "progress_cache_hits",
		Help:      "Progress lookups served from cache",
	})
	counterCacheMisses := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "progress_cache_misses",
		Help:      "Progress lookups that had to be projected",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})

	return &Manager{
		CounterRequests:          counterRequests,
		CounterProjectedDays:     counterProjectedDays,
		CounterSessionsClosed:    counterSessionsClosed,
		CounterReports:           counterReports,
		CounterCacheHits:         counterCacheHits,
		CounterCacheMisses:       counterCacheMisses,
		GaugeRequests:            gaugeRequests,
		HistogramRequestDuration: histogramRequestDuration,
	}
}
