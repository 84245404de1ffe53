package prometheus

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmchain/soiladvisor/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test"}, logging.NewNop())
	require.NoError(t, err)
	return c
}

func TestNewMetricsCollectorRequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, logging.NewNop())
	require.Error(t, err)
}

func TestRegisterCounterIsIdempotent(t *testing.T) {
	c := newTestCollector(t)

	first := c.RegisterCounter("things_total", "things", "kind")
	second := c.RegisterCounter("things_total", "things", "kind")

	first.WithLabelValues("a").Inc()
	second.WithLabelValues("a").Inc()

	body := scrape(t, c)
	assert.Contains(t, body, `test_things_total{kind="a"} 2`)
}

func TestRegisterHistogramAndTimer(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("op_duration_seconds", "durations", nil, "op")

	timer := NewTimer(h.WithLabelValues("extract"))
	time.Sleep(time.Millisecond)
	timer.ObserveDuration()

	body := scrape(t, c)
	assert.Contains(t, body, `test_op_duration_seconds_count{op="extract"} 1`)
}

func TestRegisterMismatchedTypeFallsBackToNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("dual_total", "first", "kind")

	// Same name, different type: must not panic, must degrade to no-op.
	g := c.RegisterGauge("dual_total", "second", "kind")
	g.WithLabelValues("x").Set(42)

	body := scrape(t, c)
	assert.NotContains(t, body, "42")
}

func TestAppMetricsRecorders(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.RecordLLMCall("json", true, 50*time.Millisecond)
	m.RecordLLMCall("json", false, 10*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/soil-reports/analyze", 200, 5*time.Millisecond)
	m.RecordAnalysis("success", 100*time.Millisecond)
	m.RecordInvariantViolation("SOIL_003")
	m.RecordError("recommender", "REC_001")

	body := scrape(t, c)
	assert.Contains(t, body, `test_llm_requests_total{operation="json",status="success"} 1`)
	assert.Contains(t, body, `test_llm_requests_total{operation="json",status="failure"} 1`)
	assert.Contains(t, body, `test_http_requests_total{method="POST",path="/api/v1/soil-reports/analyze",status_code="200"} 1`)
	assert.Contains(t, body, `test_analyses_total{outcome="success"} 1`)
	assert.Contains(t, body, `test_invariant_violations_total{code="SOIL_003"} 1`)
	assert.Contains(t, body, `test_errors_total{code="REC_001",component="recommender"} 1`)
}

func TestStageTimer(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	timer := m.StageTimer("categorize")
	timer.ObserveDuration()

	body := scrape(t, c)
	assert.Contains(t, body, `test_stage_duration_seconds_count{stage="categorize"} 1`)
}

func scrape(t *testing.T, c MetricsCollector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	c.Handler().ServeHTTP(rec, req)
	data, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(data)
}
