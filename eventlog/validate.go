package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// errorContentLimit caps how much of a malformed line each LineError
// retains, so validation memory stays bounded while still reporting every
// failure.
const errorContentLimit = 100

// LineError describes one line that failed to parse as JSON.
type LineError struct {
	// Line is the 1-based line number within the log file.
	Line int `json:"line"`

	// Err is the parse error message.
	Err string `json:"error"`

	// Content holds the first 100 characters of the offending line.
	Content string `json:"content"`
}

// Report summarizes a validation pass over the event log.
type Report struct {
	// TotalRecords counts well-formed records.
	TotalRecords int `json:"total_records"`

	// RecordTypes maps each distinct record_type value to its count.
	// Records without a string record_type count under "unknown".
	RecordTypes map[string]int `json:"record_types"`

	// ErrorCount counts lines that failed to parse.
	ErrorCount int `json:"error_count"`

	// Errors details every parse failure.
	Errors []LineError `json:"errors"`
}

// Validate reads the full current destination and reports integrity
// statistics. Blank lines are skipped. A malformed line is recorded as an
// error and processing continues with the next line. A missing destination
// yields an all-zero report rather than an error.
func (s *Store) Validate() (*Report, error) {
	report := &Report{
		RecordTypes: make(map[string]int),
		Errors:      []LineError{},
	}

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return report, nil
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	// A plain line loop rather than bufio.Scanner: appended records have no
	// size ceiling, and a Scanner token limit would abort the pass instead
	// of counting the record.
	reader := bufio.NewReader(f)
	lineNum := 0
	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, fmt.Errorf("failed to read log file: %w", readErr)
		}

		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lineNum++

			var record map[string]any
			if err := json.Unmarshal([]byte(trimmed), &record); err != nil {
				report.ErrorCount++
				report.Errors = append(report.Errors, LineError{
					Line:    lineNum,
					Err:     err.Error(),
					Content: truncate(trimmed, errorContentLimit),
				})
			} else {
				report.TotalRecords++
				report.RecordTypes[recordType(record)]++
			}
		} else if line != "" {
			lineNum++
		}

		if readErr == io.EOF {
			break
		}
	}

	return report, nil
}

// recordType extracts the record_type discriminator, defaulting to
// "unknown" when absent or not a string.
func recordType(record map[string]any) string {
	if rt, ok := record["record_type"].(string); ok && rt != "" {
		return rt
	}
	return "unknown"
}

// truncate keeps the first limit characters, never splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
