package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Component: ComponentLedger, Format: "json", Output: &buf})

	logger.WithSession("abc").Info("transaction added", FieldAmount, "12.50")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, ComponentLedger, record[FieldComponent])
	assert.Equal(t, "abc", record[FieldSessionID])
	assert.Equal(t, "12.50", record[FieldAmount])
}

func TestWithComponent(t *testing.T) {
	logger := New(Config{Output: &bytes.Buffer{}})
	assert.Equal(t, ComponentApp, logger.Component())
	assert.Equal(t, ComponentHTTP, logger.WithComponent(ComponentHTTP).Component())
}

func TestFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: "json", Output: &buf})

	logger.Failure(context.Background(), "undo failed", errors.New("boom"))

	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
