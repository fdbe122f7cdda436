package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/kodarch/internal/clock"
	"github.com/mrz1836/kodarch/internal/constants"
	kerrors "github.com/mrz1836/kodarch/internal/errors"
)

// Executor runs single commands with a timeout and classifies the outcome.
type Executor struct {
	runner     CommandRunner
	timeout    time.Duration
	clock      clock.Clock
	liveOutput io.Writer
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRunner replaces the shell runner.
func WithRunner(r CommandRunner) ExecutorOption {
	return func(e *Executor) {
		e.runner = r
	}
}

// WithClock sets the clock used for start and completion times.
func WithClock(c clock.Clock) ExecutorOption {
	return func(e *Executor) {
		e.clock = c
	}
}

// WithLiveOutput streams command output to w when the runner supports it.
func WithLiveOutput(w io.Writer) ExecutorOption {
	return func(e *Executor) {
		e.liveOutput = w
	}
}

// NewExecutor creates an Executor. A non-positive timeout uses the default.
func NewExecutor(timeout time.Duration, opts ...ExecutorOption) *Executor {
	if timeout <= 0 {
		timeout = constants.DefaultPhaseTimeout
	}
	e := &Executor{
		runner:  &ShellRunner{},
		timeout: timeout,
		clock:   clock.RealClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Timeout returns the per-command timeout.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

// Run executes command in workDir. The returned Result is non-nil whenever the
// command was attempted. Errors:
//   - ErrCommandMissing when command is empty
//   - ErrWorkDirMissing when workDir does not exist
//   - ErrCommandTimeout when the timeout elapsed
//   - ErrCommandFailed on a non-zero exit or spawn failure
//   - the parent context's error when it was canceled
func (e *Executor) Run(ctx context.Context, command, workDir string) (*Result, error) {
	log := zerolog.Ctx(ctx)

	if strings.TrimSpace(command) == "" {
		return nil, kerrors.ErrCommandMissing
	}

	if _, err := os.Stat(workDir); err != nil {
		log.Error().
			Str("work_dir", workDir).
			Str("command", command).
			Msg("work directory missing before command")
		return &Result{
			Command: command,
			Error:   fmt.Sprintf("work directory missing: %s", workDir),
		}, fmt.Errorf("%s: %w", workDir, kerrors.ErrWorkDirMissing)
	}

	log.Debug().
		Str("command", command).
		Str("work_dir", workDir).
		Dur("timeout", e.timeout).
		Msg("executing command")

	cmdCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	started := e.clock.Now()
	stdout, stderr, exitCode, runErr := e.execute(cmdCtx, command, workDir)
	completed := e.clock.Now()

	result := &Result{
		Command:     command,
		ExitCode:    exitCode,
		Stdout:      stdout,
		Stderr:      stderr,
		Duration:    completed.Sub(started),
		StartedAt:   started,
		CompletedAt: completed,
	}

	return e.classify(ctx, cmdCtx, result, runErr, log)
}

func (e *Executor) execute(ctx context.Context, command, workDir string) (stdout, stderr string, exitCode int, err error) {
	if e.liveOutput != nil {
		if live, ok := e.runner.(LiveOutputRunner); ok {
			return live.RunWithLiveOutput(ctx, workDir, command, e.liveOutput)
		}
	}
	return e.runner.Run(ctx, workDir, command)
}

func (e *Executor) classify(ctx, cmdCtx context.Context, result *Result, runErr error, log *zerolog.Logger) (*Result, error) {
	if ctx.Err() != nil {
		result.Error = "context canceled"
		return result, ctx.Err()
	}

	if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		result.Error = fmt.Sprintf("command timed out after %s", e.timeout)
		if result.ExitCode == 0 {
			result.ExitCode = -1
		}
		log.Warn().
			Str("command", result.Command).
			Dur("timeout", e.timeout).
			Msg("command timed out")
		return result, fmt.Errorf("%s: %w", result.Command, kerrors.ErrCommandTimeout)
	}

	if runErr != nil || result.ExitCode != 0 {
		if runErr != nil {
			result.Error = runErr.Error()
		} else {
			result.Error = fmt.Sprintf("exit code %d", result.ExitCode)
		}
		if result.ExitCode == 0 {
			result.ExitCode = 1
		}
		log.Warn().
			Str("command", result.Command).
			Int("exit_code", result.ExitCode).
			Dur("duration", result.Duration).
			Msg("command failed")
		return result, fmt.Errorf("%s: %w", result.Command, kerrors.ErrCommandFailed)
	}

	result.Success = true
	log.Debug().
		Str("command", result.Command).
		Dur("duration", result.Duration).
		Msg("command completed")
	return result, nil
}
