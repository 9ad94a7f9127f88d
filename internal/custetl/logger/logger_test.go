package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger_Levels(t *testing.T) {
	t.Cleanup(func() { logger = nil })

	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			require.NoError(t, InitLogger(tt.level))
			assert.True(t, L().Desugar().Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, L().Desugar().Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestInitLogger_UnknownLevel(t *testing.T) {
	assert.Error(t, InitLogger("verbose"))
}

func TestL_DefaultsWhenUninitialised(t *testing.T) {
	logger = nil
	t.Cleanup(func() { logger = nil })

	l := L()
	require.NotNil(t, l)
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
}

func TestSet(t *testing.T) {
	t.Cleanup(func() { logger = nil })

	nop := zap.NewNop().Sugar()
	Set(nop)
	assert.Same(t, nop, L())
}
