// Package workspace manages isolated build sessions under a workspace root.
//
// Every build gets its own session directory named by a generated UUID, so two
// builds that derive the same project name never share a path. A session is
// held with an exclusive file lock for as long as the build runs.
package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/ctxutil"
	kerrors "github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/fsutil"
)

// CurrentSchemaVersion is the current version of the session metadata schema.
const CurrentSchemaVersion = 1

// validNameRegex matches valid session IDs (alphanumeric, dash, underscore).
var validNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`) //nolint:gochecknoglobals // compiled once

// Info is the persisted metadata of one build session.
type Info struct {
	ID            string    `json:"id"`
	Path          string    `json:"path"`
	Label         string    `json:"label,omitempty"`
	PID           int       `json:"pid"`
	CreatedAt     time.Time `json:"created_at"`
	SchemaVersion int       `json:"schema_version"`
}

// writeInfo persists session metadata atomically.
func writeInfo(dir string, info *Info) error {
	info.SchemaVersion = CurrentSchemaVersion
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session '%s': %w", info.ID, err)
	}
	if err := fsutil.AtomicWrite(filepath.Join(dir, constants.SessionFileName), data, fsutil.FilePerm); err != nil {
		return fmt.Errorf("failed to write session '%s': %w", info.ID, err)
	}
	return nil
}

// readInfo loads session metadata from dir.
func readInfo(ctx context.Context, dir string) (*Info, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, constants.SessionFileName)) //#nosec G304 -- path is constructed from a validated session ID
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("session '%s': %w", filepath.Base(dir), kerrors.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to read session '%s': %w", filepath.Base(dir), err)
	}

	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("session '%s' has corrupted metadata: %w. Consider deleting %s/", filepath.Base(dir), kerrors.ErrRecordCorrupted, dir)
	}
	return &info, nil
}

// ValidateName checks that a session ID is safe to use as a directory name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("session name cannot be empty: %w", kerrors.ErrInvalidName)
	}
	if len(name) > 255 {
		return fmt.Errorf("session name too long (max 255 characters): %w", kerrors.ErrInvalidName)
	}
	if !validNameRegex.MatchString(name) {
		return fmt.Errorf("session name contains invalid characters (use alphanumeric, dash, underscore): %w", kerrors.ErrInvalidName)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("session name contains invalid path characters: %w", kerrors.ErrInvalidName)
	}
	return nil
}
