package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/upb/observability-platform/app"
	"github.com/upb/observability-platform/utils"
)

// HealthCheck returns a simple health check handler
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// ReadinessCheck verifies the event log destination is writable
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{}
		status := "ready"

		if err := deps.Store.EnsureDirectory(); err != nil {
			status = "not_ready"
			checks["event_log"] = "unwritable"
			deps.Logger.Error("event log readiness check failed", zap.Error(err))
		} else {
			checks["event_log"] = "healthy"
		}

		response := map[string]any{
			"status": status,
			"checks": checks,
		}
		if status == "ready" {
			_ = utils.WriteJSON(w, http.StatusOK, response)
			return
		}
		_ = utils.WriteJSON(w, http.StatusServiceUnavailable, response)
	}
}

// StatusHandler returns application status information
func StatusHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := map[string]any{
			"version":         "0.1.0",
			"environment":     deps.Config.Environment,
			"log_destination": deps.Store.Path(),
			"pending_records": deps.Recorder.Pending(),
		}
		_ = utils.WriteJSON(w, http.StatusOK, response)
	}
}
