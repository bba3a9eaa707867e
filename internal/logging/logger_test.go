package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "decode %q", line)
		entries = append(entries, entry)
	}
	return entries
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "json", Output: &buf})

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error(errors.New("boom"), "also shown")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2, buf.String())
	assert.Equal(t, "shown", entries[0]["message"])
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "boom", entries[1]["error"])
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "loud", Output: &buf})

	logger.Debug("hidden")
	logger.Info("shown")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["message"])
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Format: "text", Output: &buf})

	logger.Info("console line")

	assert.Contains(t, buf.String(), "console line")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"), "expected non-JSON output, got %q", buf.String())
}

func TestWithContextAddsSessionID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "debug", Output: &buf})

	ctx := NewSession(context.Background())
	logger.WithContext(ctx).Info().Msg("hello")
	logger.WithContext(context.Background()).Info().Msg("no session")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	id, ok := entries[0]["session_id"].(string)
	require.True(t, ok, "missing session_id")
	assert.Len(t, id, 36)
	assert.NotContains(t, entries[1], "session_id")
}

func TestPlaylistOpLevels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		soft  bool
		level string
	}{
		{name: "success", level: "debug"},
		{name: "soft failure", err: errors.New("full"), soft: true, level: "warn"},
		{name: "hard failure", err: errors.New("empty"), level: "error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: "debug", Output: &buf})

			logger.PlaylistOp(context.Background(), "add", 2, time.Millisecond, tc.err, tc.soft)

			entries := decodeLines(t, &buf)
			require.Len(t, entries, 1)
			assert.Equal(t, tc.level, entries[0]["level"])
			assert.Equal(t, "add", entries[0]["op"])
			assert.Equal(t, float64(2), entries[0]["playlist"])
		})
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Output: &buf})

	logger.WithFields(map[string]interface{}{"playlist_name": "Road Trip"}).Info().Msg("saved")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "Road Trip", entries[0]["playlist_name"])
}
