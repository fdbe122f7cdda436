package domain

import (
	"time"

	"github.com/mrz1836/kodarch/internal/constants"
)

// ProjectRecord is the persisted lifecycle record of one build.
//
// Example JSON representation:
//
//	{
//	    "id": "2b0c7a4e-...",
//	    "owner_id": "local",
//	    "prompt": "Build a chat app",
//	    "plan": {...},
//	    "style": "hyperforge",
//	    "status": "completed",
//	    "archive_path": "dist/chat-v1.0.0.zip",
//	    "created_at": "2025-12-27T10:00:00Z",
//	    "updated_at": "2025-12-27T10:05:00Z",
//	    "schema_version": 1
//	}
type ProjectRecord struct {
	ID            string                `json:"id"`
	OwnerID       string                `json:"owner_id"`
	Prompt        string                `json:"prompt"`
	Plan          Plan                  `json:"plan"`
	Style         string                `json:"style"`
	Status        constants.BuildStatus `json:"status"`
	ArchivePath   string                `json:"archive_path,omitempty"`
	Error         string                `json:"error,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	SchemaVersion int                   `json:"schema_version"`
}

// LogRecord is one build log entry keyed to its project.
type LogRecord struct {
	ProjectID string   `json:"project_id"`
	Seq       int      `json:"seq"`
	Entry     LogEntry `json:"entry"`
}

// ArtifactRecord describes the archive produced by a completed build.
type ArtifactRecord struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Version     string    `json:"version"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	SHA256      string    `json:"sha256"`
	Manifest    *Manifest `json:"manifest,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
