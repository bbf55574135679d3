package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info"}) })

	Info().Msg("hidden")
	Warn().Str("file", "cv.pdf").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "cv.pdf", entry["file"])
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestInit_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "loud", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info"}) })

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info"}) })

	assert.Equal(t, &Logger, Ctx(context.Background()))

	ctx := WithContext(context.Background())
	Ctx(ctx).Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")
}
