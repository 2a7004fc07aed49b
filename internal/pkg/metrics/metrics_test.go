package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector("test")

	c.ObserveRisk("chat", "crisis")
	c.ObserveRisk("chat", "crisis")
	c.ObserveRisk("post", "low")
	c.ObserveCrisis("booked")
	c.ObserveRejection("reply")
	c.ObserveHTTP(http.MethodPost, "/api/v1/ai-chat", 200, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.RiskClassifications.WithLabelValues("chat", "crisis")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RiskClassifications.WithLabelValues("post", "low")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CrisisInterventions.WithLabelValues("booked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ContentRejections.WithLabelValues("reply")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/ai-chat", "200")))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveRisk("chat", "low")
		c.ObserveCrisis("failed")
		c.ObserveRejection("post")
		c.ObserveHTTP("GET", "/", 200, time.Second)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector("mindcare")
	c.ObserveCrisis("no_slot")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `mindcare_crisis_interventions_total{outcome="no_slot"} 1`))
}
