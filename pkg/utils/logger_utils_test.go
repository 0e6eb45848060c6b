package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_JSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	InitLogger(LoggerOptions{Level: "warn", Format: "json", Out: &buf})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	LogInfo("hidden")
	LogError(errors.New("boom"), "backup failed")
	LogError(nil, "nothing to report")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "backup failed", entry["message"])
}

func TestInitLogger_UnknownLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	InitLogger(LoggerOptions{Level: "loud", Format: "json", Out: &buf})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	LogWarn("store not file-backed", map[string]interface{}{"driver": "postgres"})
	assert.Contains(t, buf.String(), `"driver":"postgres"`)
}
