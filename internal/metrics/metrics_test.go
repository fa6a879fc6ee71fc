package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("GET", "/api/leads", 200, 10*time.Millisecond)
	m.ObserveRequest("GET", "/api/leads", 200, 10*time.Millisecond)
	m.AuthFailure("token_expired")
	err := m.ObserveGeneration("research", time.Now(), errors.New("boom"))

	assert.EqualError(t, err, "boom")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/leads", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authFailures.WithLabelValues("token_expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("research", "failure")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", "", 500, time.Second)
	m.AuthFailure("invalid_token")
	assert.NoError(t, m.ObserveGeneration("email", time.Now(), nil))
}
