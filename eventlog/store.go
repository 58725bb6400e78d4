// Package eventlog provides the durable append-only event record store:
// newline-delimited compact JSON, one record per line, plus id/timestamp
// utilities and offline validation of a log's structural integrity.
package eventlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultLogFile is the standard event log destination, relative to the
// working directory.
const DefaultLogFile = "logs/system_observability_log.jsonl"

// Store appends event records to a single JSONL destination.
//
// The destination is fixed at construction; SetPath and ResetPath exist so
// isolated test runs can redirect it, and concurrent swaps are the caller's
// responsibility to serialize. Store does not serialize concurrent
// appenders either: it relies on the OS guarantee that small appends to the
// same file do not interleave. Where that guarantee is absent, interleaved
// writers may corrupt a line.
type Store struct {
	path string
}

// NewStore creates a store for the given destination path.
// An empty path selects DefaultLogFile.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultLogFile
	}
	return &Store{path: path}
}

// Path returns the current destination path.
func (s *Store) Path() string {
	return s.path
}

// SetPath redirects the store to a different destination. Prior records are
// neither merged nor migrated. Intended for test isolation.
func (s *Store) SetPath(path string) {
	s.path = path
}

// ResetPath restores the default destination.
func (s *Store) ResetPath() {
	s.path = DefaultLogFile
}

// EnsureDirectory idempotently creates the destination's parent directory
// chain. Safe to call repeatedly; a no-op when already present.
func (s *Store) EnsureDirectory() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to ensure log directory %s: %w", dir, err)
	}
	return nil
}

// Append serializes record to one line of compact JSON and appends it to
// the destination, creating the file if absent. Each call is one
// open-append-close cycle. I/O errors surface immediately; there is no
// retry.
func (s *Store) Append(record any) error {
	line, err := marshalRecord(record)
	if err != nil {
		return err
	}

	if err := s.EnsureDirectory(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

// AppendAll appends every record in order within a single open-append-close
// cycle. Behaviorally equivalent to repeated Append, but the single cycle
// narrows the window in which an interleaving external writer could split a
// record mid-write.
func (s *Store) AppendAll(records []any) error {
	if len(records) == 0 {
		return nil
	}

	lines := make([][]byte, 0, len(records))
	for i, record := range records {
		line, err := marshalRecord(record)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		lines = append(lines, line)
	}

	if err := s.EnsureDirectory(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	for _, line := range lines {
		if _, err := f.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("failed to append record: %w", err)
		}
	}
	return nil
}

// marshalRecord serializes a record as compact JSON. For map records whose
// values have no JSON representation (channels, functions, NaN floats), the
// offending values fall back to their string form instead of failing the
// append.
func marshalRecord(record any) ([]byte, error) {
	line, err := json.Marshal(record)
	if err == nil {
		return line, nil
	}

	m, ok := record.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("failed to serialize record: %w", err)
	}

	safe := make(map[string]any, len(m))
	for k, v := range m {
		if _, verr := json.Marshal(v); verr != nil {
			safe[k] = fmt.Sprint(v)
		} else {
			safe[k] = v
		}
	}

	line, err = json.Marshal(safe)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize record: %w", err)
	}
	return line, nil
}
