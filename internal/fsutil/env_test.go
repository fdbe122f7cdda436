package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactEnv(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "api_key=abc123", "api_key=REPLACE_WITH_LIVE_API_KEY"},
		{"comment kept", "# DATABASE_URL=postgres://x", "# DATABASE_URL=postgres://x"},
		{"blank kept", "\n\n", "\n\n"},
		{"no equals kept", "JUSTTEXT", "JUSTTEXT"},
		{"export prefix", "export TOKEN=xyz", "export TOKEN=REPLACE_WITH_LIVE_TOKEN"},
		{"crlf", "A=1\r\nB=2\r\n", "A=REPLACE_WITH_LIVE_A\r\nB=REPLACE_WITH_LIVE_B\r\n"},
		{"value with equals", "URL=a=b", "URL=REPLACE_WITH_LIVE_URL"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RedactEnv(tc.in))
		})
	}
}

func TestRedactEnv_Idempotent(t *testing.T) {
	inputs := []string{
		"SUPABASE_URL=https://x.supabase.co\n# comment\n\nSUPABASE_ANON_KEY=eyJ\n",
		"  spaced_key = value  ",
		"export A=1\r\nB=\r\n",
	}
	for _, in := range inputs {
		once := RedactEnv(in)
		assert.Equal(t, once, RedactEnv(once))
	}
}

func TestSanitizeEnvFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SECRET=hunter2\n"), 0o600))

	found, err := SanitizeEnvFile(path)
	require.NoError(t, err)
	assert.True(t, found)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SECRET=REPLACE_WITH_LIVE_SECRET\n", string(data))

	found, err = SanitizeEnvFile(filepath.Join(root, ".env.local"))
	require.NoError(t, err)
	assert.False(t, found)
}
