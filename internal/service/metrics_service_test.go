package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, m *MetricsService, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metrics
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestMetricsServiceRecordsSubmissionsAndClassifications(t *testing.T) {
	m := NewMetricsService()

	m.RecordSubmission(true, "High")
	m.RecordSubmission(true, "High")
	m.RecordSubmission(false, "")
	m.ObserveClassification(OutcomeMalformedResponse, 120*time.Millisecond)

	assert.Equal(t, float64(2), counterValue(t, m, "complaint_submissions_total", map[string]string{"result": "succeeded", "priority": "High"}))
	assert.Equal(t, float64(1), counterValue(t, m, "complaint_submissions_total", map[string]string{"result": "failed"}))
	assert.Equal(t, float64(1), counterValue(t, m, "complaint_classifications_total", map[string]string{"outcome": OutcomeMalformedResponse}))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.RecordSubmission(true, "Low")
		m.ObserveClassification(OutcomeSuccess, time.Second)
		m.ObserveHTTPRequest("GET", "/health", 200, time.Millisecond)
		m.RecordQuotaRejection()
		m.SetActiveSessions(4)
	})
	assert.Nil(t, m.Registry())
	assert.NotNil(t, m.Handler())
}
