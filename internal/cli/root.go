package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

//nolint:gochecknoglobals // CLI logger requires global access
var (
	globalLogger   = zerolog.Nop()
	globalLoggerMu sync.RWMutex
)

// GetLogger returns the logger initialized by the root command's
// PersistentPreRunE. Before that runs it returns a Nop logger.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// commandContext returns cmd's context carrying the CLI logger.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := GetLogger()
	return logger.WithContext(ctx)
}

// newRootCmd creates the root command for the kodarch CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kodarch",
		Short: "kodarch - prompt-to-project build pipeline",
		Long: `kodarch turns a natural-language project description into a packaged,
ready-to-run project archive.

A build parses the prompt into a plan, scaffolds the project in the chosen
style, runs install, build, and test, writes reports and documentation, and
packages everything into a versioned zip with a checksummed manifest.`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			globalLoggerMu.Lock()
			globalLogger = InitLogger(flags.Verbose, flags.Quiet)
			globalLoggerMu.Unlock()
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddBuildCommand(cmd, flags)
	AddBatchCommand(cmd, flags)
	AddParseCommand(cmd, flags)
	AddStylesCommand(cmd, flags)
	AddSessionsCommand(cmd, flags)
	AddHistoryCommand(cmd, flags)
	AddConfigCommand(cmd, flags)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
// Errors are printed to stderr in the selected output format and returned
// so the caller can map them with ExitCodeForError.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	defer CloseLogFile()

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		format := flags.Output
		if !IsValidOutputFormat(format) {
			format = OutputText
		}
		tui.NewOutput(cmd.ErrOrStderr(), format).Error(err)
	}
	return err
}
