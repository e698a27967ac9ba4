package util

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   LogLevel
		want zerolog.Level
	}{
		{TraceLevel, zerolog.TraceLevel},
		{DebugLevel, zerolog.DebugLevel},
		{InfoLevel, zerolog.InfoLevel},
		{WarnLevel, zerolog.WarnLevel},
		{ErrorLevel, zerolog.ErrorLevel},
		{42, zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ZerologLevel(tt.in), "level %d", tt.in)
	}
}

// Not parallel: replaces the global logger.
func TestNewLogLogger(t *testing.T) {
	var buf bytes.Buffer
	InitializeLoggerTo(&buf, DebugLevel)
	t.Cleanup(func() { InitializeLoggerTo(&bytes.Buffer{}, InfoLevel) })

	l := NewLogLogger("FuseServer", WarnLevel)
	l.Println("12:00:00.000000 rx 2: LOOKUP n1 [\"x\"]")

	out := buf.String()
	assert.Contains(t, out, "LOOKUP n1")
	assert.Contains(t, out, "FuseServer")
	assert.NotContains(t, out, "12:00:00.000000 rx 2: ", "stdlog prefix is stripped")

	buf.Reset()
	NewLogLogger("FuseServer", TraceLevel).Println("dropped")
	assert.Empty(t, buf.String(), "below the global level")
}
