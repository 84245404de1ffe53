package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds the advisory pipeline instruments.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Pipeline
	AnalysesTotal        CounterVec
	StageDuration        HistogramVec
	ExtractionsTotal     CounterVec
	CategorizationsTotal CounterVec
	InvariantViolations  CounterVec
	AdvisoryDiscards     CounterVec
	FallbacksTotal       CounterVec

	// LLM layer
	LLMRequestsTotal   CounterVec
	LLMRequestDuration HistogramVec

	ErrorsTotal CounterVec
}

var (
	httpDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	stageDurationBuckets = []float64{.01, .05, .1, .5, 1, 5, 15, 30, 60, 120}
	llmDurationBuckets   = []float64{.5, 1, 2, 5, 10, 30, 60, 120}
)

// NewAppMetrics registers every instrument against the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", httpDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	m.AnalysesTotal = collector.RegisterCounter("analyses_total", "Soil report analyses", "outcome")
	m.StageDuration = collector.RegisterHistogram("stage_duration_seconds", "Pipeline stage duration", stageDurationBuckets, "stage")
	m.ExtractionsTotal = collector.RegisterCounter("extractions_total", "Parameter extractions", "parameter", "source")
	m.CategorizationsTotal = collector.RegisterCounter("categorizations_total", "Parameter categorizations", "parameter", "basis")
	m.InvariantViolations = collector.RegisterCounter("invariant_violations_total", "Hard safety invariant violations", "code")
	m.AdvisoryDiscards = collector.RegisterCounter("advisory_discards_total", "AI advisories discarded by validation", "reason")
	m.FallbacksTotal = collector.RegisterCounter("fallbacks_total", "Deterministic fallbacks taken", "stage")

	m.LLMRequestsTotal = collector.RegisterCounter("llm_requests_total", "LLM requests", "operation", "status")
	m.LLMRequestDuration = collector.RegisterHistogram("llm_request_duration_seconds", "LLM request duration", llmDurationBuckets, "operation")

	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "code")

	return m
}

// RecordLLMCall satisfies the completion client's telemetry hook.
func (m *AppMetrics) RecordLLMCall(operation string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.LLMRequestsTotal.WithLabelValues(operation, status).Inc()
	m.LLMRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordHTTPRequest records one served request.
func (m *AppMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAnalysis records a completed analysis by outcome
// ("success", "degraded", "error").
func (m *AppMetrics) RecordAnalysis(outcome string, duration time.Duration) {
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
	m.StageDuration.WithLabelValues("total").Observe(duration.Seconds())
}

// StageTimer starts a timer for one pipeline stage.
func (m *AppMetrics) StageTimer(stage string) *Timer {
	return NewTimer(m.StageDuration.WithLabelValues(stage))
}

// RecordInvariantViolation counts a hard safety breach by error code.
func (m *AppMetrics) RecordInvariantViolation(code string) {
	m.InvariantViolations.WithLabelValues(code).Inc()
}

// RecordError counts a component error by code.
func (m *AppMetrics) RecordError(component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}
