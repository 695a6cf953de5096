package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		l, err := New(tt.level)
		require.NoError(t, err, "New(%q)", tt.level)
		assert.True(t, l.Core().Enabled(tt.want), "New(%q) does not log at %v", tt.level, tt.want)
		if tt.want > zapcore.DebugLevel {
			assert.False(t, l.Core().Enabled(tt.want-1), "New(%q) logs at %v", tt.level, tt.want-1)
		}
	}
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New("loud")
	require.Error(t, err)
}
