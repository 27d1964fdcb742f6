package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-complaints-api/internal/handler"
	"github.com/noah-isme/campus-complaints-api/internal/repository"
	"github.com/noah-isme/campus-complaints-api/internal/service"
	"github.com/noah-isme/campus-complaints-api/pkg/config"
	"github.com/noah-isme/campus-complaints-api/pkg/gemini"
)

const classifierReply = `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"priority\":\"High\",\"category\":\"Wi-Fi Outage in Library\",\"department\":\"IT Services\"}"}]}}]}`

func newTestRouter(t *testing.T, perMinute int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(classifierReply))
	}))
	t.Cleanup(upstream.Close)

	cfg := &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api/v1", Metrics: config.MetricsConfig{Enabled: true}}
	metrics := service.NewMetricsService()
	logr := zap.NewNop()

	generator, err := gemini.NewGenerator(context.Background(), gemini.Config{BaseURL: upstream.URL, APIKey: "test", Model: "test-model", Timeout: 5 * time.Second})
	require.NoError(t, err)
	classifier, err := service.NewClassifierService(generator, service.ClassifierOptions{}, metrics, logr)
	require.NoError(t, err)

	sessions := service.NewSessionStore(time.Hour, metrics, logr)
	quota := service.NewQuotaService(repository.NewMemoryQuotaRepository(), perMinute, metrics, logr)
	submissions := service.NewSubmissionService(sessions, classifier, quota, nil, service.SubmissionConfig{}, nil, metrics, logr)

	return newRouter(cfg, logr, routeDeps{
		complaints: handler.NewComplaintHandler(submissions),
		ops:        handler.NewMetricsHandler(metrics, nil),
		metrics:    metrics,
	})
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := do(r, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Data struct {
			SessionID  string `json:"sessionId"`
			ActiveView string `json:"activeView"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "student", body.Data.ActiveView)
	return body.Data.SessionID
}

var complaintForm = map[string]interface{}{
	"text": "The Wi-Fi in the library has been down all day.",
	"studentDetails": map[string]string{
		"name": "Asha Rao", "class": "TE", "division": "A", "rollNo": "17",
	},
}

func TestSubmitFlowEndToEnd(t *testing.T) {
	r := newTestRouter(t, 10)
	sessionID := createSession(t, r)
	base := "/api/v1/sessions/" + sessionID

	w := do(r, http.MethodPost, base+"/complaints", complaintForm)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"department":"IT Services"`)
	assert.Contains(t, w.Body.String(), `"activeView":"admin"`)

	w = do(r, http.MethodGet, base+"/complaints?priority=High", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_count":1`)
	assert.Contains(t, w.Body.String(), `"filters"`)

	w = do(r, http.MethodGet, base+"/complaints/export?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Wi-Fi Outage in Library")

	w = do(r, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isSubmitting":false`)

	w = do(r, http.MethodGet, base+"/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Complaint submitted and analyzed successfully!")
}

func TestSubmitBlankFormRejected(t *testing.T) {
	r := newTestRouter(t, 10)
	sessionID := createSession(t, r)

	w := do(r, http.MethodPost, "/api/v1/sessions/"+sessionID+"/complaints", map[string]interface{}{
		"text":           "   ",
		"studentDetails": map[string]string{"name": "Asha", "class": "TE", "division": "A", "rollNo": "17"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "text is required")
}

func TestSubmitQuotaExceeded(t *testing.T) {
	r := newTestRouter(t, 1)
	sessionID := createSession(t, r)
	path := "/api/v1/sessions/" + sessionID + "/complaints"

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, path, complaintForm).Code)
	w := do(r, http.MethodPost, path, complaintForm)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}

func TestRejectedSubmissionsDoNotConsumeQuota(t *testing.T) {
	r := newTestRouter(t, 1)
	sessionID := createSession(t, r)
	path := "/api/v1/sessions/" + sessionID + "/complaints"

	blank := map[string]interface{}{
		"text":           "  ",
		"studentDetails": map[string]string{"name": "Asha", "class": "TE", "division": "A", "rollNo": "17"},
	}
	require.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, path, blank).Code)
	require.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/v1/sessions/unknown/complaints", complaintForm).Code)

	w := do(r, http.MethodPost, path, complaintForm)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestUnknownSession(t *testing.T) {
	r := newTestRouter(t, 10)

	w := do(r, http.MethodGet, "/api/v1/sessions/does-not-exist/complaints", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOpsEndpoints(t *testing.T) {
	r := newTestRouter(t, 10)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ready", nil).Code)
	w := do(r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "complaint_sessions_active")
}
