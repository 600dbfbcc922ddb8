package logging

import (
	"testing"

	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		level       string
	}{
		{name: "production info", environment: "production", level: "info"},
		{name: "development debug", environment: "development", level: "debug"},
		{name: "error level", environment: "production", level: "error"},
		{name: "invalid level falls back to default", environment: "production", level: "shouting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, cleanup, err := New("trellis-api", tt.environment, tt.level)
			require.NoError(t, err)
			require.NotNil(t, log)
			cleanup()
		})
	}
}

func TestZapSinkPreservesLevels(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	log := zapadapter.NewZapEctoLogger(zap.New(core), nil)

	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e")

	entries := observed.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestConfiguredLevelDropsLowerEntries(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	log := zapadapter.NewZapEctoLogger(zap.New(core), nil)

	log.Debug("dropped")
	log.Info("dropped")
	log.Warn("kept")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
}
