package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/upb/observability-platform/internal/observability"
)

// statusRecorder wraps http.ResponseWriter to capture the status code the
// wrapped handler produces. Status stays 0 until the handler writes one.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *statusRecorder) WriteHeader(code int) {
	if !w.written {
		w.status = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if !w.written {
		w.status = http.StatusOK
		w.written = true
	}
	return w.ResponseWriter.Write(b)
}

// Unwrap returns the underlying ResponseWriter for middleware compatibility.
func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// RequestLogging observes request lifecycles without altering their
// externally visible behavior: it resolves a correlation id per request,
// measures latency, and emits exactly one structured entry per observed
// request. Handler panics are logged and re-raised unchanged.
type RequestLogging struct {
	logger       *observability.Logger
	ops          *zap.Logger
	excludePaths map[string]struct{}
}

// NewRequestLogging creates a RequestLogging middleware. excludePaths lists
// request paths forwarded without observation (health probes, typically).
func NewRequestLogging(logger *observability.Logger, ops *zap.Logger, excludePaths []string) *RequestLogging {
	excluded := make(map[string]struct{}, len(excludePaths))
	for _, p := range excludePaths {
		excluded[p] = struct{}{}
	}
	return &RequestLogging{
		logger:       logger,
		ops:          ops,
		excludePaths: excluded,
	}
}

// Handler wraps next with request observation.
func (m *RequestLogging) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Pass through protocol upgrades and excluded paths untouched:
		// no id, no entry, no wrapping.
		if !isObservable(r) {
			next.ServeHTTP(w, r)
			return
		}
		if _, excluded := m.excludePaths[r.URL.Path]; excluded {
			next.ServeHTTP(w, r)
			return
		}

		// Reuse the caller's correlation marker verbatim, or generate one.
		correlationID := r.Header.Get(observability.CorrelationHeader)
		if correlationID == "" {
			correlationID = observability.NewCorrelationID()
		}

		// The id is bound to the derived context only; it is released on
		// every exit path when this call unwinds.
		ctx := observability.WithCorrelationID(r.Context(), correlationID)
		r = r.WithContext(ctx)

		method := r.Method
		path := r.URL.Path
		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()

		defer func() {
			durationMS := roundMillis(time.Since(start))

			if rec := recover(); rec != nil {
				if err := m.logger.Error(ctx, "http_request_failed", map[string]any{
					"method":      method,
					"path":        path,
					"error":       fmt.Sprint(rec),
					"duration_ms": durationMS,
				}); err != nil {
					m.ops.Error("failed to emit request error entry", zap.Error(err))
				}
				// Observation must not mask the failure.
				panic(rec)
			}

			status := recorder.status
			if status == 0 {
				// The handler returned without writing; net/http sends 200.
				status = http.StatusOK
			}
			if err := m.logger.Info(ctx, "http_request", map[string]any{
				"method":      method,
				"path":        path,
				"status":      status,
				"duration_ms": durationMS,
			}); err != nil {
				m.ops.Error("failed to emit request entry", zap.Error(err))
			}
		}()

		next.ServeHTTP(recorder, r)
	})
}

// isObservable reports whether the inbound call is an ordinary HTTP request.
// Protocol upgrades (WebSocket handshakes) are forwarded unobserved.
func isObservable(r *http.Request) bool {
	if r.Header.Get("Upgrade") != "" {
		return false
	}
	for _, v := range r.Header.Values("Connection") {
		for _, token := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(token), "upgrade") {
				return false
			}
		}
	}
	return true
}

// roundMillis converts an elapsed duration to milliseconds rounded to two
// decimal places.
func roundMillis(d time.Duration) float64 {
	ms := float64(d.Microseconds()) / 1000.0
	return math.Round(ms*100) / 100
}
