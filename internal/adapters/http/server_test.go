package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/exitintent"
	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/aretw0/exitintent/pkg/observability"
	"github.com/aretw0/exitintent/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	manager := session.NewManager(session.WithEngineOptions(exitintent.WithLifecycleHooks(metrics.Hooks())))
	t.Cleanup(func() { manager.Close(context.Background()) })
	return NewHandler(manager, reg, nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeStatus(t *testing.T, rr *httptest.ResponseRecorder) session.Status {
	t.Helper()
	var st session.Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	return st
}

func TestGetHealth(t *testing.T) {
	h := newTestHandler(t)
	rr := do(t, h, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, exitintent.Version, resp["version"])
}

func TestSessionLifecycle(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodPut, "/sessions/abc", `{
		"title": "Cart",
		"width": 1280,
		"height": 800,
		"options": {"triggerScroll": {"desktop": true}}
	}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	st := decodeStatus(t, rr)
	assert.True(t, st.Active)
	assert.Equal(t, "Cart", st.Title)

	rr = do(t, h, http.MethodPost, "/sessions/abc/events", `{"events": [
		{"kind": "pointermove", "x": 640, "y": 400},
		{"kind": "pointermove", "x": 20, "y": 20}
	]}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	st = decodeStatus(t, rr)
	assert.True(t, st.Triggered)
	assert.Equal(t, 1, st.Triggers)

	rr = do(t, h, http.MethodGet, "/sessions/abc", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decodeStatus(t, rr).Triggered)

	rr = do(t, h, http.MethodGet, "/sessions", "")
	assert.Contains(t, rr.Body.String(), `"abc"`)

	rr = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `exitintent_triggers_total{heuristic="pointer_corner",viewport="desktop"} 1`)

	rr = do(t, h, http.MethodDelete, "/sessions/abc?end=true", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodGet, "/sessions/abc", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestErrors(t *testing.T) {
	h := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/sessions/nope/events", `{"events": []}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodPut, "/sessions/x", `{"options": {"triggerScroll": {"percentThreshold": 500}}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "invalid config"))

	rr = do(t, h, http.MethodPut, "/sessions/x", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPut, "/sessions/x", `{"width": 1280, "height": 800}`)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, h, http.MethodPost, "/sessions/x/events", `{"events": [{"kind": "click"}]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodDelete, "/sessions/ghost", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWithDefaults(t *testing.T) {
	manager := session.NewManager()
	t.Cleanup(func() { manager.Close(context.Background()) })

	base := domain.DefaultConfig()
	base.TriggerMouseMove = false
	h := NewHandler(manager, nil, nil, WithDefaults(base))

	rr := do(t, h, http.MethodPut, "/sessions/quiet", `{"width": 1280, "height": 800}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.NotContains(t, decodeStatus(t, rr).Attached, domain.EventPointerMove)

	rr = do(t, h, http.MethodPost, "/sessions/quiet/events", `{"events": [{"kind": "pointermove", "x": 20, "y": 20}]}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.False(t, decodeStatus(t, rr).Triggered)

	rr = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
