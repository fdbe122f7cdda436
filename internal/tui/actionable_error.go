package tui

// ActionableError wraps an error with a suggestion for what to do next.
//
//	err := NewActionableError("no sessions to prune", "Run: kodarch sessions")
//	output.Error(err)
//	// ✗ no sessions to prune
//	//   ▸ Try: kodarch sessions
type ActionableError struct {
	// Message is the primary error message.
	Message string

	// Suggestion should start with a verb.
	Suggestion string

	// Err is the underlying error, if any.
	Err error
}

// NewActionableError creates a new ActionableError.
func NewActionableError(msg, suggestion string) *ActionableError {
	return &ActionableError{Message: msg, Suggestion: suggestion}
}

// Wrap attaches an underlying error for errors.Is and errors.As.
func (e *ActionableError) Wrap(err error) *ActionableError {
	e.Err = err
	return e
}

// Error implements the error interface.
func (e *ActionableError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ActionableError) Unwrap() error {
	return e.Err
}
