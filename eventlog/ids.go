package eventlog

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersion identifies the record schema emitted into the log.
	SchemaVersion = "1.0.0"

	// GeneratorID identifies this writer in meta records.
	GeneratorID = "observability_gateway_v1"
)

// NewID generates a unique id of the form "prefix_<16 lowercase hex chars>",
// derived from a fresh 128-bit random value. Collision probability is
// negligible across a process lifetime.
func NewID(prefix string) string {
	u := uuid.New()
	return prefix + "_" + hex.EncodeToString(u[:8])
}

// NowISO returns the current UTC instant truncated to millisecond precision,
// formatted as YYYY-MM-DDTHH:MM:SS.mmmZ (exactly 24 characters).
func NowISO() string {
	return time.Now().UTC().Truncate(time.Millisecond).Format("2006-01-02T15:04:05.000Z07:00")
}
