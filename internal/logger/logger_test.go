package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, "json", "warn")

	l.Info("dropped")
	l.Warn("kept", "recipe_id", 7)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, float64(7), line["recipe_id"])
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	newWithWriter(&buf, "text", "debug").Debug("hello", "user", "alice")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "user=alice")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
