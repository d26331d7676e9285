package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewJSONLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{})

	l.Debug().Msg("hidden")
	l.Info().Str("branch", "direct_lookup").Msg("routed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"branch":"direct_lookup"`)
	assert.Contains(t, out, `"level":"info"`)
}

func TestNewDebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Debug: true})

	l.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
