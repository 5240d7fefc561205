package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	Requests          *prometheus.CounterVec
	UpstreamErrors    *prometheus.CounterVec
	MemoryLogErrors   prometheus.Counter
	RequestLatency    prometheus.Histogram
	ConversationTurns prometheus.Gauge

	stages *stageWindow
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Chat requests by the route that produced the reply.",
		}, []string{"route"}),
		UpstreamErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Upstream failures by source (translation or generative).",
		}, []string{"source"}),
		MemoryLogErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memory_log_errors_total",
			Help:      "Memory log appends that failed after a reply was produced.",
		}),
		RequestLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_latency_ms",
			Help:      "End-to-end chat request latency in milliseconds.",
			Buckets:   []float64{1, 5, 25, 100, 300, 700, 1500, 3000, 8000},
		}),
		ConversationTurns: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "conversation_turns",
			Help:      "Turns held in the process-wide conversation session.",
		}),
		stages: newStageWindow(256),
	}
}

func (m *Metrics) ObserveRequest(route string, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(route).Inc()
	m.RequestLatency.Observe(float64(d.Milliseconds()))
}

func (m *Metrics) ObserveUpstreamError(source string) {
	if m == nil {
		return
	}
	m.UpstreamErrors.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveMemoryLogError() {
	if m == nil {
		return
	}
	m.MemoryLogErrors.Inc()
}

func (m *Metrics) SetConversationTurns(n int) {
	if m == nil {
		return
	}
	m.ConversationTurns.Set(float64(n))
}

// ObserveStage records one dispatch stage duration in the rolling window.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stages.Observe(stage, float64(d.Microseconds())/1000)
}

func (m *Metrics) SnapshotStages() StageSnapshot {
	if m == nil {
		return StageSnapshot{GeneratedAt: time.Now().UTC(), Stages: []StageStats{}}
	}
	return m.stages.Snapshot()
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
