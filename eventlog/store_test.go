package eventlog

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "logs", "test.jsonl"))
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestNewStoreDefaultsPath(t *testing.T) {
	assert.Equal(t, DefaultLogFile, NewStore("").Path())
	assert.Equal(t, "custom.jsonl", NewStore("custom.jsonl").Path())
}

func TestSetPathAndResetPath(t *testing.T) {
	s := NewStore("")
	s.SetPath("other.jsonl")
	assert.Equal(t, "other.jsonl", s.Path())
	s.ResetPath()
	assert.Equal(t, DefaultLogFile, s.Path())
}

func TestEnsureDirectoryIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.EnsureDirectory())
	require.NoError(t, s.EnsureDirectory())

	info, err := os.Stat(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestAppendWritesOneCompactLine(t *testing.T) {
	s := newTestStore(t)

	record := map[string]any{"record_type": "component", "name": "gateway", "nested": map[string]any{"ok": true}}
	require.NoError(t, s.Append(record))

	lines := readLines(t, s.Path())
	require.Len(t, lines, 1)
	assert.NotContains(t, lines[0], "\n")
	assert.NotContains(t, lines[0], ": ", "output must be compact")

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, "component", got["record_type"])
	assert.Equal(t, "gateway", got["name"])
	assert.Equal(t, map[string]any{"ok": true}, got["nested"])
}

func TestAppendAppendsToExistingFile(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Append(map[string]any{"id": 1}))
	require.NoError(t, s.Append(map[string]any{"id": 2}))

	lines := readLines(t, s.Path())
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, float64(2), second["id"])
}

func TestAppendFallsBackToStringForm(t *testing.T) {
	s := newTestStore(t)

	ch := make(chan int)
	record := map[string]any{
		"record_type": "component",
		"bad_channel": ch,
		"bad_float":   math.NaN(),
		"good":        "kept",
	}
	require.NoError(t, s.Append(record))

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(readLines(t, s.Path())[0]), &got))
	assert.Equal(t, "kept", got["good"])
	assert.Equal(t, "NaN", got["bad_float"])
	assert.IsType(t, "", got["bad_channel"], "unserializable values are rendered as strings")
}

func TestAppendAllPreservesOrder(t *testing.T) {
	s := newTestStore(t)

	records := make([]any, 0, 5)
	for i := 0; i < 5; i++ {
		records = append(records, map[string]any{"seq": i})
	}
	require.NoError(t, s.AppendAll(records))

	lines := readLines(t, s.Path())
	require.Len(t, lines, 5)
	for i, line := range lines {
		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &got))
		assert.Equal(t, float64(i), got["seq"])
	}
}

func TestAppendAllEmptyIsNoop(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AppendAll(nil))
	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "no file should be created for an empty batch")
}

func TestAppendSurfacesIOErrors(t *testing.T) {
	// A destination whose parent is a regular file cannot be created.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := NewStore(filepath.Join(blocker, "nested", "log.jsonl"))
	err := s.Append(map[string]any{"id": 1})
	require.Error(t, err)
}

func TestNewID(t *testing.T) {
	pattern := regexp.MustCompile(`^trc_[0-9a-f]{16}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewID("trc")
		require.Regexp(t, pattern, id)

		_, dup := seen[id]
		require.False(t, dup, "ids must be distinct")
		seen[id] = struct{}{}
	}
}

func TestNowISO(t *testing.T) {
	for i := 0; i < 10; i++ {
		ts := NowISO()
		assert.Len(t, ts, 24)
		assert.True(t, strings.HasSuffix(ts, "Z"))
		assert.Equal(t, 1, strings.Count(ts, "T"))
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`, ts)
	}
}
