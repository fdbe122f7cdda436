// Package errors provides centralized error handling for kodarch.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrEmptyPrompt indicates the caller supplied an empty or whitespace-only prompt.
	// It is returned before any pipeline work begins.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrStyleNotFound indicates a style name is not part of the catalog.
	// The catalog never surfaces this to the caller; it substitutes the default style.
	ErrStyleNotFound = errors.New("style not found")

	// ErrStyleInvalid indicates a catalog entry failed to decode or validate.
	ErrStyleInvalid = errors.New("invalid style definition")

	// ErrTemplateManifestMissing indicates a style template directory has no manifest.
	ErrTemplateManifestMissing = errors.New("template manifest not found")

	// ErrTemplateParseError indicates a template manifest has invalid YAML/JSON syntax.
	ErrTemplateParseError = errors.New("template manifest parse error")

	// ErrTemplateSourceMissing indicates a manifest references a template file that does not exist.
	ErrTemplateSourceMissing = errors.New("template source file not found")

	// ErrPathTraversal indicates an attempt to escape the project root with a relative path.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrCommandFailed indicates that an external command exited non-zero or failed to spawn.
	ErrCommandFailed = errors.New("command failed")

	// ErrCommandTimeout indicates a command exceeded its timeout duration.
	ErrCommandTimeout = errors.New("command timeout exceeded")

	// ErrCommandMissing indicates a phase has no command configured.
	ErrCommandMissing = errors.New("no command configured")

	// ErrCommandNotConfigured indicates that a mock command was not configured in tests.
	ErrCommandNotConfigured = errors.New("command not configured")

	// ErrWorkDirMissing indicates the working directory for a command does not exist.
	ErrWorkDirMissing = errors.New("work directory missing")

	// ErrPackagingFailed indicates that archive compression or the output directory failed.
	// This is the only pipeline failure that is terminal for a build.
	ErrPackagingFailed = errors.New("artifact packaging failed")

	// ErrBatchFailed indicates at least one build in a batch did not produce an archive.
	ErrBatchFailed = errors.New("one or more builds failed")

	// ErrProjectUnreadable indicates the project directory could not be read at packaging time.
	ErrProjectUnreadable = errors.New("project directory unreadable")

	// ErrSessionExists indicates an attempt to create a build session that already exists.
	ErrSessionExists = errors.New("build session already exists")

	// ErrSessionLocked indicates another process holds the build session lock.
	ErrSessionLocked = errors.New("build session locked")

	// ErrLockTimeout indicates a file lock could not be acquired within the timeout period.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrRecordNotFound indicates a persisted project record does not exist.
	ErrRecordNotFound = errors.New("record not found")

	// ErrRecordCorrupted indicates a persisted record could not be decoded.
	ErrRecordCorrupted = errors.New("record corrupted")

	// ErrInvalidTransition indicates an attempt to make an invalid status transition.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidName indicates an identifier contains characters outside [a-zA-Z0-9_-].
	ErrInvalidName = errors.New("invalid name")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidWorkspace indicates an invalid workspace configuration value.
	ErrConfigInvalidWorkspace = errors.New("invalid workspace configuration")

	// ErrConfigInvalidPipeline indicates an invalid pipeline configuration value.
	ErrConfigInvalidPipeline = errors.New("invalid pipeline configuration")

	// ErrConfigInvalidArtifact indicates an invalid artifact configuration value.
	ErrConfigInvalidArtifact = errors.New("invalid artifact configuration")

	// ErrConfigInvalidBuild indicates an invalid build configuration value.
	ErrConfigInvalidBuild = errors.New("invalid build configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInteractiveRequired indicates that interactive prompts are required but not available.
	ErrInteractiveRequired = errors.New("interactive prompt required")

	// ErrOperationCanceled indicates the user canceled an operation.
	ErrOperationCanceled = errors.New("operation canceled by user")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
