package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestNewFallsBackToInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, New("svc", "chatty").GetLevel())
	assert.Equal(t, zerolog.DebugLevel, New("svc", " DEBUG ").GetLevel())
}

func TestStackIsAttachedToPlainErrors(t *testing.T) {
	New("svc", "info")

	var buf bytes.Buffer
	log := zerolog.New(&buf)
	log.Error().Stack().Err(errors.New("disk full")).Msg("write failed")

	line := buf.String()
	require.True(t, gjson.Valid(line), line)
	assert.Equal(t, "disk full", gjson.Get(line, "error").String())
	assert.True(t, gjson.Get(line, "stack").IsArray())
	assert.NotZero(t, gjson.Get(line, "stack.#").Int())
}
