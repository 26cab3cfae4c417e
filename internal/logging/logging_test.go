package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		verbose   bool
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		"default": {verbose: false, wantDebug: false, wantInfo: false, wantWarn: true},
		"verbose": {verbose: true, wantDebug: true, wantInfo: true, wantWarn: true},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			logger, err := New(Options{Verbose: tt.verbose})
			require.NoError(t, err)

			core := logger.Core()
			assert.Equal(t, tt.wantDebug, core.Enabled(zapcore.DebugLevel))
			assert.Equal(t, tt.wantInfo, core.Enabled(zapcore.InfoLevel))
			assert.Equal(t, tt.wantWarn, core.Enabled(zapcore.WarnLevel))
		})
	}
}

func TestNew_OutputPaths(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bumpver.log")
	logger, err := New(Options{JSON: true, OutputPaths: []string{path}})
	require.NoError(t, err)

	logger.Warn("tag already pushed", zap.String("tag", "v1.0.100"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"tag already pushed"`)
	assert.Contains(t, string(data), `"tag":"v1.0.100"`)
}

func TestPrintf(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	debugf := Printf(zap.New(core))

	debugf("pushing %s to %s", "v1.2.3", "origin")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "pushing v1.2.3 to origin", entries[0].Message)
}
