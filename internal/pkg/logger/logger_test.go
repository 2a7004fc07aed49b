package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureWritesJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	lgr := Configure(Config{Level: DebugLevel, Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: InfoLevel}) })

	chatLogger := Component(lgr, "chat")
	chatLogger.Info().Str("userID", "u1").Msg("message handled")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "chat", line["component"])
	assert.Equal(t, "u1", line["userID"])
	assert.Equal(t, "message handled", line["message"])
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom("WARN", "text")
	assert.Equal(t, WarnLevel, cfg.Level)
	assert.True(t, cfg.Pretty)

	assert.False(t, ConfigFrom("info", "json").Pretty)
}
