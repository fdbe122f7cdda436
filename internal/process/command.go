// Package process runs the external install, build, and test commands of a
// generated project.
//
// SECURITY NOTE: commands come from the fixed package-manager table or from
// the user's own configuration, and run inside a freshly generated project
// directory. The sh -c invocation is intentional so table entries may use
// shell features.
package process

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
)

// CommandRunner executes a shell command and returns its captured output.
// Tests inject a fake so no subprocess is spawned.
type CommandRunner interface {
	Run(ctx context.Context, workDir, command string) (stdout, stderr string, exitCode int, err error)
}

// LiveOutputRunner is a CommandRunner that can also stream output as it is produced.
type LiveOutputRunner interface {
	CommandRunner
	RunWithLiveOutput(ctx context.Context, workDir, command string, liveOut io.Writer) (stdout, stderr string, exitCode int, err error)
}

// ShellRunner implements CommandRunner and LiveOutputRunner using sh -c.
type ShellRunner struct{}

// Run executes command in workDir.
func (r *ShellRunner) Run(ctx context.Context, workDir, command string) (stdout, stderr string, exitCode int, err error) {
	return r.run(ctx, workDir, command, nil)
}

// RunWithLiveOutput executes command and copies its output to liveOut while capturing it.
func (r *ShellRunner) RunWithLiveOutput(ctx context.Context, workDir, command string, liveOut io.Writer) (stdout, stderr string, exitCode int, err error) {
	return r.run(ctx, workDir, command, liveOut)
}

func (r *ShellRunner) run(ctx context.Context, workDir, command string, liveOut io.Writer) (stdout, stderr string, exitCode int, err error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = workDir

	var outBuf, errBuf bytes.Buffer
	if liveOut != nil {
		cmd.Stdout = io.MultiWriter(&outBuf, liveOut)
		cmd.Stderr = io.MultiWriter(&errBuf, liveOut)
	} else {
		cmd.Stdout = &outBuf
		cmd.Stderr = &errBuf
	}

	err = cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = 1
		}
	}

	return stdout, stderr, exitCode, err
}

var (
	_ CommandRunner    = (*ShellRunner)(nil)
	_ LiveOutputRunner = (*ShellRunner)(nil)
)
