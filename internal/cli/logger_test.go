package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/kodarch/internal/constants"
)

func TestSelectLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, zerolog.DebugLevel, selectLevel(true, false))
	assert.Equal(t, zerolog.WarnLevel, selectLevel(false, true))
	assert.Equal(t, zerolog.InfoLevel, selectLevel(false, false))
	assert.Equal(t, zerolog.DebugLevel, selectLevel(true, true), "verbose wins")
}

func TestInitLoggerWithWriter_FlagsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLoggerWithWriter(false, false, &buf)
	logger.Info().Msg("token sk-live-abcdef0123456789")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, true, entry["contains_filtered_data"])
}

func TestInitLoggerWithWriter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLoggerWithWriter(false, true, &buf)
	logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	logger.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogFilePath_HonorsHomeEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	path, err := LogFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, constants.LogsDir, constants.CLILogFileName), path)
}

func TestInitLogger_WritesLogFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	logger := InitLogger(false, false)
	logger.Info().Msg("hello from the cli")
	CloseLogFile()

	assert.FileExists(t, filepath.Join(home, constants.LogsDir, constants.CLILogFileName))
}
