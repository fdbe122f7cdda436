package domain

import (
	"time"

	"github.com/mrz1836/kodarch/internal/constants"
)

// LogEntry is one append-only build log event.
type LogEntry struct {
	Timestamp time.Time          `json:"timestamp"`
	Phase     constants.Phase    `json:"phase"`
	Severity  constants.Severity `json:"severity"`
	Message   string             `json:"message"`
	Detail    map[string]any     `json:"detail,omitempty"`
}

// FileEntry describes one file bundled into an artifact.
type FileEntry struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// Manifest is the final record of every file, checksum, and log entry in an artifact.
// It is written as artifact_manifest.json and does not list itself.
type Manifest struct {
	SchemaVersion string      `json:"schema_version"`
	Project       string      `json:"project"`
	Version       string      `json:"version"`
	CreatedAt     time.Time   `json:"created_at"`
	Plan          Plan        `json:"plan"`
	Style         string      `json:"style"`
	Files         []FileEntry `json:"files"`
	Logs          []LogEntry  `json:"logs"`
	DeployTargets []string    `json:"deploy_targets"`
}
