package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartridge/experience/internal/events"
	"github.com/cartridge/experience/internal/metrics"
	"github.com/cartridge/experience/internal/replay"
	"github.com/cartridge/experience/internal/service"
)

func newTestServer(t *testing.T, capacity int) *Server {
	t.Helper()
	buf, err := replay.New(capacity, replay.WithRand(rand.New(rand.NewSource(42))))
	require.NoError(t, err)

	logger := zerolog.New(io.Discard)
	svc := service.NewReplayService(buf, events.NoopPublisher{}, metrics.NewCollector(logger), logger)
	return NewServer(svc, logger)
}

func postJSON(t *testing.T, server *Server, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	server.Routes().ServeHTTP(res, req)
	return res
}

func appendTransitions(t *testing.T, server *Server, rewards ...float32) {
	t.Helper()
	ts := make([]map[string]any, len(rewards))
	for i, r := range rewards {
		ts[i] = map[string]any{
			"state":      []float32{r, r},
			"action":     i,
			"reward":     r,
			"next_state": []float32{r + 1, r + 1},
			"done":       false,
		}
	}
	res := postJSON(t, server, "/api/v1/transitions", map[string]any{"transitions": ts})
	require.Equal(t, http.StatusAccepted, res.Code)
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t, 8)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	server.Routes().ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
}

func TestAppendAndSample(t *testing.T) {
	server := newTestServer(t, 8)
	appendTransitions(t, server, 1, 2, 3, 4, 5)

	res := postJSON(t, server, "/api/v1/sample", map[string]any{"batch_size": 3})
	require.Equal(t, http.StatusOK, res.Code)

	var result service.SampleResult
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &result))
	assert.Equal(t, 3, result.BatchSize)
	assert.Equal(t, 5, result.Available)
	assert.Len(t, result.States, 3)
	assert.Len(t, result.Actions, 3)
	assert.Len(t, result.Rewards, 3)
	assert.Len(t, result.NextStates, 3)
	assert.Len(t, result.Dones, 3)
}

func TestAppendRejectsBadPayload(t *testing.T) {
	server := newTestServer(t, 8)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transitions", bytes.NewReader([]byte("{not json")))
	res := httptest.NewRecorder()
	server.Routes().ServeHTTP(res, req)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = postJSON(t, server, "/api/v1/transitions", map[string]any{"transitions": []any{}})
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestSampleInsufficient(t *testing.T) {
	server := newTestServer(t, 8)
	appendTransitions(t, server, 1, 2)

	res := postJSON(t, server, "/api/v1/sample", map[string]any{"batch_size": 5})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)

	var errBody map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &errBody))
	assert.Contains(t, errBody["error"], "insufficient samples")

	res = postJSON(t, server, "/api/v1/sample", map[string]any{"batch_size": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
}

func TestStatsAndReset(t *testing.T) {
	server := newTestServer(t, 3)
	appendTransitions(t, server, 1, 2, 3, 4)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	res := httptest.NewRecorder()
	server.Routes().ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	var stats service.Stats
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.Size)
	assert.Equal(t, 3, stats.Capacity)
	assert.Equal(t, "full", stats.State)
	assert.Equal(t, uint64(4), stats.TotalAppends)
	assert.Equal(t, uint64(1), stats.TotalEvictions)

	resetReq := httptest.NewRequest(http.MethodPost, "/api/v1/reset", nil)
	resetRes := httptest.NewRecorder()
	server.Routes().ServeHTTP(resetRes, resetReq)
	assert.Equal(t, http.StatusNoContent, resetRes.Code)

	res = httptest.NewRecorder()
	server.Routes().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.Size)
	assert.Equal(t, "empty", stats.State)
}

func TestCorrelationIDHeader(t *testing.T) {
	server := newTestServer(t, 4)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	server.Routes().ServeHTTP(res, req)
	assert.NotEmpty(t, res.Header().Get("X-Correlation-ID"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Correlation-ID", "corr-123")
	res = httptest.NewRecorder()
	server.Routes().ServeHTTP(res, req)
	assert.Equal(t, "corr-123", res.Header().Get("X-Correlation-ID"))
}
