package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		debug bool
		want  zapcore.Level
	}{
		{debug: true, want: zapcore.DebugLevel},
		{debug: false, want: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		logger, err := New(tt.debug)
		require.NoError(t, err)
		assert.True(t, logger.Desugar().Core().Enabled(tt.want))
		assert.False(t, logger.Desugar().Core().Enabled(tt.want-1))
	}
}

func TestNop(t *testing.T) {
	assert.False(t, Nop().Desugar().Core().Enabled(zapcore.ErrorLevel))
}
