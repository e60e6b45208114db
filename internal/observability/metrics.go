package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline metrics
	pipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translation_gateway_pipeline_runs_total",
		Help: "Total number of pipeline runs by terminal outcome",
	}, []string{"outcome"}) // outcome: done, blocked, failed

	pipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "translation_gateway_pipeline_duration_seconds",
		Help:    "End-to-end pipeline run duration in seconds",
		Buckets: []float64{0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
	})

	// Per-stage metrics
	stageRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translation_gateway_stage_requests_total",
		Help: "Total number of external service calls per stage",
	}, []string{"stage", "status"}) // stage: moderation, translation, synthesis, recognition

	stageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "translation_gateway_stage_latency_seconds",
		Help:    "External service call latency per stage in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
	}, []string{"stage"})

	// Moderation metrics
	flaggedCategories = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translation_gateway_flagged_categories_total",
		Help: "Total number of moderation flags by category",
	}, []string{"category"})

	// Audio metrics
	audioBytesProduced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "translation_gateway_audio_bytes_total",
		Help: "Total synthesized audio bytes returned to callers",
	})

	// Circuit breaker metrics
	circuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "translation_gateway_circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
	}, []string{"service"})

	circuitBreakerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translation_gateway_circuit_breaker_failures_total",
		Help: "Total circuit breaker failures",
	}, []string{"service"})
)

// RunMetrics tracks metrics for a single pipeline run.
type RunMetrics struct {
	mu         sync.Mutex
	start      time.Time
	stageStart time.Time
}

// NewRunMetrics starts tracking a pipeline run.
func NewRunMetrics() *RunMetrics {
	return &RunMetrics{start: time.Now()}
}

// StageStart marks the start of an external service call.
func (m *RunMetrics) StageStart() {
	m.mu.Lock()
	m.stageStart = time.Now()
	m.mu.Unlock()
}

// StageEnd records the outcome and latency of an external service call.
func (m *RunMetrics) StageEnd(stage string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.stageStart.IsZero() {
		stageLatency.WithLabelValues(stage).Observe(time.Since(m.stageStart).Seconds())
		m.stageStart = time.Time{}
	}

	status := "success"
	if !success {
		status = "error"
	}
	stageRequests.WithLabelValues(stage, status).Inc()
}

// End records the terminal outcome of the run.
func (m *RunMetrics) End(outcome string) {
	pipelineRuns.WithLabelValues(outcome).Inc()
	pipelineDuration.Observe(time.Since(m.start).Seconds())
}

// RecordFlaggedCategories records the categories a moderation flag reported.
func RecordFlaggedCategories(categories []string) {
	for _, category := range categories {
		flaggedCategories.WithLabelValues(category).Inc()
	}
}

// RecordAudioBytes records synthesized audio bytes returned to a caller.
func RecordAudioBytes(n int) {
	audioBytesProduced.Add(float64(n))
}

// RecordStage records a standalone external service call outside a pipeline
// run, such as a speech recognition request.
func RecordStage(stage string, start time.Time, success bool) {
	stageLatency.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	status := "success"
	if !success {
		status = "error"
	}
	stageRequests.WithLabelValues(stage, status).Inc()
}

// UpdateCircuitBreakerState updates the circuit breaker state metric.
func UpdateCircuitBreakerState(service string, state int) {
	circuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// IncrementCircuitBreakerFailures increments the circuit breaker failure counter.
func IncrementCircuitBreakerFailures(service string) {
	circuitBreakerFailures.WithLabelValues(service).Inc()
}
