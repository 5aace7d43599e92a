// ABOUTME: Tests for logger construction.
// ABOUTME: Covers mode selection and the no-op logger.
package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"", "dev", "prod", "PRODUCTION", "nop"} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		require.NotNil(t, l.SugaredLogger)
		l.With("mode", mode).Debug("hello")
	}
}

func TestNewUnknownMode(t *testing.T) {
	_, err := New("verbose")
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("discarded", "k", 1)
	l.Warn("discarded")
	l.Error("discarded")
	l.Sync()
}
