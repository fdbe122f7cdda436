package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Input
	// ===================
	{
		err: ErrEmptyPrompt,
		info: ErrorInfo{
			Message: "The prompt is empty. Describe the project you want to build.",
			Action:  "Run 'kodarch build \"Build a todo app with login\"'.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Unknown output format.",
			Action:  "Use '--output text' or '--output json'.",
		},
	},
	{
		err: ErrInteractiveRequired,
		info: ErrorInfo{
			Message: "This option needs an interactive terminal.",
			Action:  "Pass the style with '--style <name>' instead of '--pick'.",
		},
	},

	// ===================
	// Packaging
	// ===================
	{
		err: ErrPackagingFailed,
		info: ErrorInfo{
			Message: "The build finished but the archive could not be written.",
			Action:  "Check that the output directory exists and is writable, or pass '--output-dir'.",
		},
	},
	{
		err: ErrProjectUnreadable,
		info: ErrorInfo{
			Message: "The generated project directory could not be read for packaging.",
			Action:  "Check disk space and permissions under the workspace root.",
		},
	},

	// ===================
	// Sessions & records
	// ===================
	{
		err: ErrSessionLocked,
		info: ErrorInfo{
			Message: "Another build is using this session directory.",
			Action:  "Wait for the other build to finish or choose a different workspace root.",
		},
	},
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "Timed out waiting for a file lock.",
		},
	},
	{
		err: ErrRecordCorrupted,
		info: ErrorInfo{
			Message: "A stored build record is corrupted.",
			Action:  "Delete the record directory under the records dir and rebuild.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigInvalidWorkspace,
		info: ErrorInfo{
			Message: "The workspace configuration is invalid.",
			Action:  "Check 'workspace.root' in your kodarch config.",
		},
	},
	{
		err: ErrConfigInvalidPipeline,
		info: ErrorInfo{
			Message: "The pipeline configuration is invalid.",
			Action:  "Check 'pipeline.timeout' in your kodarch config.",
		},
	},
	{
		err: ErrConfigInvalidArtifact,
		info: ErrorInfo{
			Message: "The artifact configuration is invalid.",
			Action:  "Check 'artifact.version' and 'artifact.exclude' in your kodarch config.",
		},
	},
	{
		err: ErrConfigInvalidBuild,
		info: ErrorInfo{
			Message: "The build configuration is invalid.",
			Action:  "Check 'build.parallelism' in your kodarch config.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

// buildErrorInfoMap creates a map from the errorInfoEntries slice.
func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It tries a direct map lookup first, then errors.Is() traversal for wrapped errors.
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
// The action is empty when there is nothing obvious to suggest.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
