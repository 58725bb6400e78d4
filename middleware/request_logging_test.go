package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/upb/observability-platform/internal/observability"
)

func newTestMiddleware(buf *bytes.Buffer, excludePaths []string) *RequestLogging {
	logger := observability.NewLogger("http", observability.WithSink(buf))
	return NewRequestLogging(logger, zap.NewNop(), excludePaths)
}

func entries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	out := []map[string]any{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestRequestWithoutMarkerGetsGeneratedID(t *testing.T) {
	var buf bytes.Buffer
	m := newTestMiddleware(&buf, nil)

	var seenInHandler string
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenInHandler = observability.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/records", nil))

	got := entries(t, &buf)
	require.Len(t, got, 1)
	entry := got[0]
	assert.Equal(t, "http_request", entry["event"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/v1/records", entry["path"])
	assert.Equal(t, float64(http.StatusNoContent), entry["status"])
	assert.NotEmpty(t, entry["correlation_id"])
	assert.Equal(t, entry["correlation_id"], seenInHandler, "handler must observe the same id that is logged")
}

func TestRequestWithMarkerReusesIDVerbatim(t *testing.T) {
	var buf bytes.Buffer
	m := newTestMiddleware(&buf, nil)

	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("x-CoRrElAtIoN-iD", "abc-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	got := entries(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "abc-123", got[0]["correlation_id"])
}

func TestExcludedPathProducesNoEntries(t *testing.T) {
	var buf bytes.Buffer
	m := newTestMiddleware(&buf, []string{"/healthz"})

	called := false
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Empty(t, observability.CorrelationIDFromContext(r.Context()), "excluded calls get no correlation id")
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.True(t, called, "excluded requests must still reach the handler")
	assert.Empty(t, buf.String())
}

func TestUpgradeRequestPassesThroughUnobserved(t *testing.T) {
	var buf bytes.Buffer
	m := newTestMiddleware(&buf, nil)

	called := false
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Connection", "keep-alive, Upgrade")
	req.Header.Set("Upgrade", "websocket")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, called)
	assert.Empty(t, buf.String())
}

func TestPanicIsLoggedThenReRaisedUnchanged(t *testing.T) {
	var buf bytes.Buffer
	m := newTestMiddleware(&buf, nil)

	sentinel := "handler exploded"
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(sentinel)
	}))

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	}()

	require.Equal(t, sentinel, recovered, "original failure must surface unchanged")

	got := entries(t, &buf)
	require.Len(t, got, 1, "exactly one error-shaped entry")
	entry := got[0]
	assert.Equal(t, "http_request_failed", entry["event"])
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, sentinel, entry["error"])
	assert.Equal(t, "/boom", entry["path"])
	assert.NotContains(t, entry, "status")
	assert.Contains(t, entry, "duration_ms")
	assert.NotEmpty(t, entry["correlation_id"])
}

func TestStatusDefaultsTo200WhenHandlerWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	m := newTestMiddleware(&buf, nil)

	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	got := entries(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, float64(http.StatusOK), got[0]["status"])
}

func TestImplicit200OnBodyWrite(t *testing.T) {
	var buf bytes.Buffer
	m := newTestMiddleware(&buf, nil)

	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "hello", rec.Body.String(), "response body must pass through")
	got := entries(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, float64(http.StatusOK), got[0]["status"])
}

func TestDurationIsMeasured(t *testing.T) {
	var buf bytes.Buffer
	m := newTestMiddleware(&buf, nil)

	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	got := entries(t, &buf)
	require.Len(t, got, 1)
	duration, ok := got[0]["duration_ms"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, duration, 20.0)
	assert.Less(t, duration, 5000.0)
}

func TestRoundMillis(t *testing.T) {
	assert.Equal(t, 12.35, roundMillis(12_345_600*time.Nanosecond))
	assert.Equal(t, 0.0, roundMillis(0))
	assert.Equal(t, 1500.0, roundMillis(1500*time.Millisecond))
}
