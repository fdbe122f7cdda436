package fsutil

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/kodarch/internal/errors"
)

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSafeJoin(t *testing.T) {
	root := t.TempDir()

	path, err := SafeJoin(root, "src/index.ts")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src", "index.ts"), path)

	_, err = SafeJoin(root, "../escape.txt")
	require.ErrorIs(t, err, errors.ErrPathTraversal)

	_, err = SafeJoin(root, "/etc/passwd")
	require.ErrorIs(t, err, errors.ErrPathTraversal)
}

func TestWriteFile_CreatesParents(t *testing.T) {
	root := t.TempDir()
	path, err := WriteFile(root, "db/migrations/0001_init.sql", []byte("-- init"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "-- init", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteIfMissing(t *testing.T) {
	root := t.TempDir()

	wrote, err := WriteIfMissing(root, "BUILD_LOGS/build.log", []byte("placeholder"))
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = WriteIfMissing(root, "BUILD_LOGS/build.log", []byte("other"))
	require.NoError(t, err)
	assert.False(t, wrote)

	data, err := os.ReadFile(filepath.Join(root, "BUILD_LOGS", "build.log"))
	require.NoError(t, err)
	assert.Equal(t, "placeholder", string(data))
}

func TestCopyTree(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "copy")
	_, err := WriteFile(src, "a.txt", []byte("a"))
	require.NoError(t, err)
	_, err = WriteFile(src, "nested/b.txt", []byte("b"))
	require.NoError(t, err)

	require.NoError(t, CopyTree(src, dst))

	files, err := ListFiles(dst, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "nested/b.txt"}, files)
}

func TestChecksumAndSize(t *testing.T) {
	root := t.TempDir()
	path, err := WriteFile(root, "f.txt", []byte("hello"))
	require.NoError(t, err)

	sum := sha256.Sum256([]byte("hello"))
	got, err := Checksum(path)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(sum[:]), got)
	assert.Equal(t, got, ChecksumBytes([]byte("hello")))

	size, err := Size(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	_, err = Checksum(filepath.Join(root, "missing"))
	require.Error(t, err)
}

func TestListFiles_Excludes(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"README.md",
		"src/index.ts",
		"node_modules/left-pad/index.js",
		".git/HEAD",
		"api/__pycache__/routes.pyc",
		"target/release/app",
	} {
		_, err := WriteFile(root, rel, []byte("x"))
		require.NoError(t, err)
	}

	files, err := ListFiles(root, []string{"node_modules/**", ".git/**", "target/**", "**/__pycache__/**"})
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "src/index.ts"}, files)
}

func TestMatcher_DropsInvalidPatterns(t *testing.T) {
	m := NewMatcher([]string{"[", "", "*.log"})
	assert.True(t, m.Excluded("build.log"))
	assert.False(t, m.Excluded("build.txt"))
}

func TestRenderTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	for _, rel := range []string{"README.md", "src/index.ts", "node_modules/x.js"} {
		_, err := WriteFile(root, rel, []byte("x"))
		require.NoError(t, err)
	}

	tree, err := RenderTree(root, []string{"node_modules/**"})
	require.NoError(t, err)
	assert.Equal(t, "demo/\n├── src/\n│   └── index.ts\n└── README.md\n", tree)
}
