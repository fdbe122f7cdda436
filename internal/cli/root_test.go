package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/kodarch/internal/errors"
)

func TestRootCmd_Help(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, want := range []string{"kodarch", "--output", "--verbose", "--quiet", "build", "batch", "styles"} {
		assert.Contains(t, output, want)
	}
}

func TestFormatVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info BuildInfo
		want string
	}{
		{"full", BuildInfo{Version: "1.0.0", Commit: "abc1234", Date: "2025-01-01"}, "1.0.0 (commit: abc1234, built: 2025-01-01)"},
		{"empty", BuildInfo{}, "dev (commit: none, built: unknown)"},
		{"partial", BuildInfo{Version: "2.0.0-beta"}, "2.0.0-beta (commit: none, built: unknown)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, formatVersion(tc.info))
		})
	}
}

func TestRootCmd_InvalidOutputFormat(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"styles", "-o", "yaml"})

	err := cmd.Execute()
	require.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"exit code 2 wrapper", errors.NewExitCode2Error(fmt.Errorf("bad config")), ExitInvalidInput},
		{"empty prompt", fmt.Errorf("build: %w", errors.ErrEmptyPrompt), ExitInvalidInput},
		{"output format", errors.ErrInvalidOutputFormat, ExitInvalidInput},
		{"unknown flag", fmt.Errorf("unknown flag: --nope"), ExitInvalidInput},
		{"arg count", fmt.Errorf("accepts 1 arg(s), received 0"), ExitInvalidInput},
		{"packaging", errors.ErrPackagingFailed, ExitError},
		{"batch", errors.ErrBatchFailed, ExitError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExitCodeForError(tc.err))
		})
	}
}

func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()
	assert.True(t, IsValidOutputFormat("text"))
	assert.True(t, IsValidOutputFormat("json"))
	assert.False(t, IsValidOutputFormat("yaml"))
	assert.False(t, IsValidOutputFormat(""))
}
