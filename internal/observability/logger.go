package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a structured log entry.
// Levels are numerically ordered so a minimum threshold can filter them.
type Level int

const (
	LevelDebug    Level = 10
	LevelInfo     Level = 20
	LevelWarning  Level = 30
	LevelError    Level = 40
	LevelCritical Level = 50
)

// timestampLayout renders a UTC instant at millisecond precision as exactly
// 24 characters, e.g. "2026-08-30T12:34:56.789Z".
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// String returns the lower-case name used on the wire.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelCritical:
		return "critical"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel maps a level name to its Level, case-insensitively.
// Unknown names map to LevelInfo, matching the logger's default threshold.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warning", "warn":
		return LevelWarning
	case "error":
		return LevelError
	case "critical":
		return LevelCritical
	default:
		return LevelInfo
	}
}

// Logger emits single-line JSON log entries with a fixed field set
// (timestamp, level, logger, event) plus the correlation id bound to the
// caller's context and any caller-supplied fields.
//
// Logger is safe for concurrent use. Write failures are returned to the
// caller unchanged; there is no retry.
type Logger struct {
	name  string
	level Level
	mu    sync.Mutex
	sink  io.Writer
}

// Option configures a Logger.
type Option func(*Logger)

// WithSink sets the output sink. The default is os.Stdout.
func WithSink(w io.Writer) Option {
	return func(l *Logger) {
		l.sink = w
	}
}

// WithLevel sets the minimum level threshold. Entries below it perform no
// work and no I/O.
func WithLevel(level Level) Option {
	return func(l *Logger) {
		l.level = level
	}
}

// NewLogger creates a structured logger with the given name.
func NewLogger(name string, opts ...Option) *Logger {
	l := &Logger{
		name:  name,
		level: LevelInfo,
		sink:  os.Stdout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the logger name stamped on every entry.
func (l *Logger) Name() string {
	return l.name
}

// Emit writes one structured entry at the given level.
//
// Caller-supplied fields may shadow every fixed field except "timestamp",
// so downstream parsers can always rely on its 24-character format. The
// correlation id is read from ctx at emit time and omitted when unset.
func (l *Logger) Emit(ctx context.Context, level Level, event string, fields map[string]any) error {
	if level < l.level {
		return nil
	}

	entry := map[string]any{
		"level":  level.String(),
		"logger": l.name,
		"event":  event,
	}
	if id := CorrelationIDFromContext(ctx); id != "" {
		entry["correlation_id"] = id
	}
	for k, v := range fields {
		entry[k] = v
	}
	entry["timestamp"] = time.Now().UTC().Truncate(time.Millisecond).Format(timestampLayout)

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode log entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.sink.Write(append(line, '\n'))
	return err
}

// Debug emits an entry at DEBUG level.
func (l *Logger) Debug(ctx context.Context, event string, fields map[string]any) error {
	return l.Emit(ctx, LevelDebug, event, fields)
}

// Info emits an entry at INFO level.
func (l *Logger) Info(ctx context.Context, event string, fields map[string]any) error {
	return l.Emit(ctx, LevelInfo, event, fields)
}

// Warning emits an entry at WARNING level.
func (l *Logger) Warning(ctx context.Context, event string, fields map[string]any) error {
	return l.Emit(ctx, LevelWarning, event, fields)
}

// Error emits an entry at ERROR level.
func (l *Logger) Error(ctx context.Context, event string, fields map[string]any) error {
	return l.Emit(ctx, LevelError, event, fields)
}

// Critical emits an entry at CRITICAL level.
func (l *Logger) Critical(ctx context.Context, event string, fields map[string]any) error {
	return l.Emit(ctx, LevelCritical, event, fields)
}
