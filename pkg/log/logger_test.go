package log

import (
	"bytes"
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := New("velocity-ledger", WithWriter(&buf), WithLogLevel("warn"))

	l.Info().Msg("dropped")
	l.Warn().Str("account", "VB0000000001").Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "velocity-ledger", entry["service"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "VB0000000001", entry["account"])
	assert.Equal(t, "kept", entry["message"])
}

func TestWithLogLevelUnknown(t *testing.T) {
	var buf bytes.Buffer
	l := New("velocity-ledger", WithWriter(&buf), WithLogLevel("loud"))

	l.Info().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
