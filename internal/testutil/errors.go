// Package testutil provides testing utilities for kodarch.
//
// This package contains mock errors and fakes used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
var (
	// ErrMockSpawn simulates a command that could not be started.
	ErrMockSpawn = errors.New("exec: \"pnpm\": executable file not found in $PATH")

	// ErrMockExit simulates the error a runner returns alongside a non-zero exit code.
	ErrMockExit = errors.New("exit status 1")

	// ErrMockDiskFull simulates an I/O failure.
	ErrMockDiskFull = errors.New("no space left on device")
)
