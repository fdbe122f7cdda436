package process

import "time"

// Result captures the outcome of one command.
type Result struct {
	Command     string        `json:"command"`
	Success     bool          `json:"success"`
	ExitCode    int           `json:"exit_code"`
	Stdout      string        `json:"stdout"`
	Stderr      string        `json:"stderr"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
	TimedOut    bool          `json:"timed_out,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
}

// DurationMs returns the elapsed time in milliseconds.
func (r *Result) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
