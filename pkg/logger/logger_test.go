package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	Init("mainstreet", false)
	var buf bytes.Buffer
	SetOutput(&buf)

	SetLevel("debug")
	Debug().Msg("debug enabled")
	assert.Contains(t, buf.String(), "debug enabled")
	assert.Contains(t, buf.String(), `"service":"mainstreet"`)

	buf.Reset()
	SetLevel("warn")
	Info().Msg("info hidden")
	Warn().Msg("warn shown")
	assert.NotContains(t, buf.String(), "info hidden")
	assert.Contains(t, buf.String(), "warn shown")

	buf.Reset()
	SetLevel("bogus")
	Debug().Msg("debug hidden")
	Info().Msg("info shown")
	assert.NotContains(t, buf.String(), "debug hidden")
	assert.Contains(t, buf.String(), "info shown")
}
