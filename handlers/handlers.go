// Package handlers implements the gateway's HTTP surface: health probes,
// synchronous record appends, log validation, and architecture snapshots.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/upb/observability-platform/app"
	"github.com/upb/observability-platform/catalog"
	"github.com/upb/observability-platform/eventlog"
	"github.com/upb/observability-platform/utils"
)

// AppendRecordRequest is the body for a single record append.
type AppendRecordRequest struct {
	Record map[string]any `json:"record" validate:"required,min=1"`
}

// AppendRecordsRequest is the body for a batch append.
type AppendRecordsRequest struct {
	Records []map[string]any `json:"records" validate:"required,min=1"`
}

// AppendRecordHandler appends one record synchronously. Append errors
// surface immediately as a 500; there is no retry.
func AppendRecordHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AppendRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			_ = utils.WriteBadRequest(w, "invalid request body", nil)
			return
		}
		if err := validateRequest(w, req); err != nil {
			return
		}

		recordID, stamped := req.Record["record_id"].(string)
		if !stamped || recordID == "" {
			recordID = eventlog.NewID("rec")
			req.Record["record_id"] = recordID
		}

		if err := deps.Store.Append(req.Record); err != nil {
			deps.Logger.Error("record append failed", zap.Error(err))
			_ = utils.WriteInternalServerError(w, "failed to append record")
			return
		}

		_ = utils.WriteCreated(w, map[string]any{"record_id": recordID})
	}
}

// AppendRecordsHandler appends a batch of records in a single
// open-append-close cycle, preserving order.
func AppendRecordsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AppendRecordsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			_ = utils.WriteBadRequest(w, "invalid request body", nil)
			return
		}
		if err := validateRequest(w, req); err != nil {
			return
		}

		records := make([]any, len(req.Records))
		for i, record := range req.Records {
			records[i] = record
		}

		if err := deps.Store.AppendAll(records); err != nil {
			deps.Logger.Error("batch append failed", zap.Error(err))
			_ = utils.WriteInternalServerError(w, "failed to append records")
			return
		}

		_ = utils.WriteCreated(w, map[string]any{"appended": len(records)})
	}
}

// ValidateLogHandler runs a full validation pass over the event log and
// returns the integrity report.
func ValidateLogHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := deps.Store.Validate()
		if err != nil {
			deps.Logger.Error("log validation failed", zap.Error(err))
			_ = utils.WriteInternalServerError(w, "failed to validate log")
			return
		}
		_ = utils.WriteOK(w, report)
	}
}

// ArchitectureSnapshotHandler enqueues the platform's architecture context
// through the background recorder.
func ArchitectureSnapshotHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := catalog.Snapshot()
		if err := deps.Recorder.RecordAll(records); err != nil {
			deps.Logger.Error("architecture snapshot enqueue failed", zap.Error(err))
			_ = utils.WriteServiceUnavailable(w, "failed to enqueue snapshot")
			return
		}
		_ = utils.WriteAccepted(w, map[string]any{"accepted": len(records)})
	}
}

// validateRequest validates a request struct and writes the 400 on failure.
// A non-nil return means the response has been written.
func validateRequest(w http.ResponseWriter, req any) error {
	err := utils.ValidateStruct(req)
	if err == nil {
		return nil
	}

	var vErr *utils.ValidationError
	if errors.As(err, &vErr) {
		_ = utils.WriteBadRequest(w, vErr.Error(), vErr.FieldDetails())
		return err
	}
	_ = utils.WriteBadRequest(w, err.Error(), nil)
	return err
}
