package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/mrz1836/kodarch/internal/errors"
)

// Response is the scripted outcome of one command.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
	Delay    time.Duration
}

// Call records one invocation of a FakeRunner.
type Call struct {
	WorkDir string
	Command string
}

// FakeRunner is a deterministic command runner. Commands without a scripted
// response succeed with empty output unless Strict is set.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []Call

	// Strict makes unscripted commands fail with ErrCommandNotConfigured.
	Strict bool
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string]Response)}
}

// Set scripts the response for command.
func (f *FakeRunner) Set(command string, r Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[command] = r
	return f
}

// Fail scripts command to exit with exitCode and stderr.
func (f *FakeRunner) Fail(command string, exitCode int, stderr string) *FakeRunner {
	return f.Set(command, Response{Stderr: stderr, ExitCode: exitCode, Err: ErrMockExit})
}

// Run implements the command runner contract.
func (f *FakeRunner) Run(ctx context.Context, workDir, command string) (stdout, stderr string, exitCode int, err error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{WorkDir: workDir, Command: command})
	resp, ok := f.responses[command]
	strict := f.Strict
	f.mu.Unlock()

	if !ok && strict {
		return "", "command not configured", 1, errors.ErrCommandNotConfigured
	}

	if resp.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", "context canceled", 1, ctx.Err()
		case <-time.After(resp.Delay):
		}
	}

	return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Err
}

// Calls returns every recorded invocation in order.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Commands returns the recorded commands in order.
func (f *FakeRunner) Commands() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Command
	}
	return out
}
