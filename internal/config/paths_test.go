package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/kodarch/internal/constants"
)

func TestGlobalConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := GlobalConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, constants.KodarchHome), dir)

	path, err := GlobalConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, constants.KodarchHome, "config.yaml"), path)
}

func TestProjectConfigPath(t *testing.T) {
	assert.Equal(t, ".kodarch", ProjectConfigDir())
	assert.Equal(t, filepath.Join(".kodarch", "config.yaml"), ProjectConfigPath())
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/builds", filepath.Join(home, "builds")},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
		{"~other/x", "~other/x"},
	}
	for _, tc := range tests {
		got, err := ExpandHome(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
