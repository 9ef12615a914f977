//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	for _, l := range []LogLevel{LogDisabled, LogFatal, LogError, LogWarn, LogInfo, LogDebug, LogMsg, LogTrace, LogAll} {
		got, ok := ParseLogLevel(l.String())
		assert.True(t, ok, l.String())
		assert.Equal(t, l, got)
	}

	got, ok := ParseLogLevel("6")
	assert.True(t, ok)
	assert.Equal(t, LogDebug, got)

	_, ok = ParseLogLevel("loud")
	assert.False(t, ok)
	_, ok = ParseLogLevel("-1")
	assert.False(t, ok)
}

func TestLogLevelUnmarshalText(t *testing.T) {
	var l LogLevel
	assert.NoError(t, l.UnmarshalText([]byte("trace")))
	assert.Equal(t, LogTrace, l)
	assert.ErrorIs(t, l.UnmarshalText([]byte("loud")), ErrInvalidParam)
}
