package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/kodarch/internal/constants"
	kerrors "github.com/mrz1836/kodarch/internal/errors"
)

func TestNewOutput(t *testing.T) {
	assert.IsType(t, &JSONOutput{}, NewOutput(&bytes.Buffer{}, "json"))
	assert.IsType(t, &TTYOutput{}, NewOutput(&bytes.Buffer{}, "text"))
}

func TestTTYOutput_Messages(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Success("archive created")
	out.Warning("tests unavailable")
	out.Info("3 styles")

	got := buf.String()
	assert.Contains(t, got, "✓ archive created")
	assert.Contains(t, got, "⚠ tests unavailable")
	assert.Contains(t, got, "ℹ 3 styles")
}

func TestTTYOutput_ErrorWithAction(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	NewTTYOutput(&buf).Error(fmt.Errorf("build: %w", kerrors.ErrPackagingFailed))

	got := buf.String()
	assert.Contains(t, got, "✗ The build finished but the archive could not be written.")
	assert.Contains(t, got, "▸ Try:")
}

func TestTTYOutput_Table(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	NewTTYOutput(&buf).Table([]string{"NAME", "PM"}, [][]string{{"artisan", "poetry"}, {"hyperforge", "pnpm"}})

	got := buf.String()
	for _, s := range []string{"NAME", "PM", "artisan", "poetry", "hyperforge", "pnpm"} {
		assert.Contains(t, got, s)
	}

	buf.Reset()
	NewTTYOutput(&buf).Table(nil, nil)
	assert.Empty(t, buf.String())
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)

	out.Success("done")
	out.Error(kerrors.ErrEmptyPrompt)
	out.Table([]string{"name", "pm"}, [][]string{{"zenith"}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var msg map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &msg))
	assert.Equal(t, map[string]string{"type": "success", "message": "done"}, msg)

	var e map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &e))
	assert.Equal(t, "error", e["type"])
	assert.Contains(t, e["message"], "prompt is empty")
	assert.Equal(t, kerrors.ErrEmptyPrompt.Error(), e["details"])
	assert.NotEmpty(t, e["suggestion"])

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &rows))
	assert.Equal(t, []map[string]string{{"name": "zenith", "pm": ""}}, rows)
}

func TestActionableError(t *testing.T) {
	err := NewActionableError("nothing to prune", "Run: kodarch sessions").Wrap(kerrors.ErrRecordNotFound)
	assert.Equal(t, "nothing to prune", err.Error())
	assert.ErrorIs(t, err, kerrors.ErrRecordNotFound)

	msg, action := describe(fmt.Errorf("outer: %w", err))
	assert.Equal(t, "nothing to prune", msg)
	assert.Equal(t, "Run: kodarch sessions", action)
}

func TestStatusAndSeverityIcons(t *testing.T) {
	assert.Equal(t, "✓", StatusIcon(constants.BuildStatusCompleted))
	assert.Equal(t, "✗", StatusIcon(constants.BuildStatusFailed))
	assert.Equal(t, "○", StatusIcon(constants.BuildStatusPending))
	assert.Equal(t, "✗", SeverityIcon(constants.SeverityError))
	assert.Equal(t, "⚠", SeverityIcon(constants.SeverityWarning))
	assert.Equal(t, "✓", SeverityIcon(constants.SeveritySuccess))
	assert.Equal(t, ColorError, SeverityColor(constants.SeverityError))
}

func TestHasColorSupport(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.False(t, HasColorSupport())
}

func TestRenderMarkdown_NoColorPassthrough(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	md := "# Build summary\n\n- ok\n"
	assert.Equal(t, md, RenderMarkdown(md))
}
