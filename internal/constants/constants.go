// Package constants provides centralized constant values used throughout kodarch.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by kodarch for its own data.
const (
	// KodarchHome is the hidden directory name where kodarch stores its data.
	// This directory is created in the user's home directory.
	KodarchHome = ".kodarch"

	// WorkspacesDir is the directory under KodarchHome holding build sessions.
	WorkspacesDir = "workspaces"

	// RecordsDir is the directory under KodarchHome holding persisted build records.
	RecordsDir = "records"

	// LogsDir is the directory name where CLI log files are stored.
	LogsDir = "logs"

	// DistDir is the default output directory for archives, relative to the working directory.
	DistDir = "dist"
)

// Timeouts and limits.
const (
	// DefaultPhaseTimeout bounds each install, build, and test subprocess.
	DefaultPhaseTimeout = 5 * time.Minute

	// LockTimeout is the maximum duration to wait for a file lock.
	LockTimeout = 5 * time.Second

	// LockRetryInterval is the wait between lock acquisition attempts.
	LockRetryInterval = 50 * time.Millisecond

	// DefaultParallelism is the number of builds BuildMany runs at once.
	DefaultParallelism = 2

	// MaxDescriptionLength is the maximum rune length of a plan description.
	MaxDescriptionLength = 150

	// TruncationSuffix is appended to descriptions cut at MaxDescriptionLength.
	TruncationSuffix = "..."
)

// Plan defaults used when the prompt yields nothing usable.
const (
	// DefaultStyleName is the catalog entry used for missing or unknown styles.
	DefaultStyleName = "hyperforge"

	// DefaultProjectName is used when no name can be extracted from the prompt.
	DefaultProjectName = "untitled-project"

	// DefaultDescription is used when the prompt has no usable first sentence.
	DefaultDescription = "A new project generated from a natural-language prompt"

	// DefaultStack is used when no stack technology is detected.
	DefaultStack = "Next.js + Node"

	// DefaultLicense is used when the prompt carries no license tag.
	DefaultLicense = "MIT"

	// DefaultDatabaseType is used when the database is enabled but no engine is named.
	DefaultDatabaseType = "postgres"

	// AuthProvider is the fixed authentication provider recorded in every plan.
	AuthProvider = "supabase"

	// PlaceholderFeature is the single feature used when no feature keyword matches.
	PlaceholderFeature = "core-functionality"

	// DefaultArtifactVersion is the version stamped into manifests and archive names.
	DefaultArtifactVersion = "1.0.0"
)

// Schema version constants for data migration support.
const (
	// RecordSchemaVersion is the current version of the persisted record schema.
	RecordSchemaVersion = 1

	// ManifestSchemaVersion is the current version of artifact_manifest.json.
	ManifestSchemaVersion = "1.0"
)
