// Package fsutil provides the idempotent file and directory primitives used by
// every build stage. It holds no business logic.
package fsutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrz1836/kodarch/internal/errors"
)

const (
	// DirPerm is the permission used for every directory kodarch creates.
	DirPerm os.FileMode = 0o750

	// FilePerm is the permission used for every file kodarch writes.
	FilePerm os.FileMode = 0o600
)

// EnsureDir creates path and any missing parents. Existing directories are left alone.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, DirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// SafeJoin joins rel onto root and rejects results that escape root.
func SafeJoin(root, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("%s: %w", rel, errors.ErrPathTraversal)
	}
	joined := filepath.Join(root, filepath.FromSlash(rel))
	back, err := filepath.Rel(root, joined)
	if err != nil || back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", rel, errors.ErrPathTraversal)
	}
	return joined, nil
}

// WriteFile writes data to root/rel, creating parent directories as needed.
func WriteFile(root, rel string, data []byte) (string, error) {
	path, err := SafeJoin(root, rel)
	if err != nil {
		return "", err
	}
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}
	if err := AtomicWrite(path, data, FilePerm); err != nil {
		return "", err
	}
	return path, nil
}

// WriteIfMissing writes data to root/rel only when nothing exists there yet.
// It reports whether a file was written.
func WriteIfMissing(root, rel string, data []byte) (bool, error) {
	path, err := SafeJoin(root, rel)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if _, err := WriteFile(root, rel, data); err != nil {
		return false, err
	}
	return true, nil
}

// AtomicWrite writes data to a temp file, syncs it, and renames it over path.
// Readers never observe a partially written file.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}

// CopyFile copies src to dst, creating dst's parent directory.
func CopyFile(src, dst string) error {
	in, err := os.Open(src) //#nosec G304 -- src comes from a walk of a trusted root
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FilePerm) //#nosec G304 -- dst is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

// CopyTree recursively copies the contents of src into dst.
func CopyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return EnsureDir(target)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return CopyFile(path, target)
	})
}

// Checksum returns the hex-encoded SHA-256 digest of the file at path.
func Checksum(path string) (string, error) {
	f, err := os.Open(path) //#nosec G304 -- path comes from a walk of a trusted root
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ChecksumBytes returns the hex-encoded SHA-256 digest of data.
func ChecksumBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Size returns the byte size of the file at path.
func Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.Size(), nil
}

// Exists reports whether anything exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
