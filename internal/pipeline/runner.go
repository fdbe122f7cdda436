// Package pipeline runs the install, build, and test phases of a generated
// project and writes the build reports under BUILD_LOGS/.
//
// Phase failures never abort a build. Each outcome is recorded in the build
// log and the runner moves on; only context cancellation is returned.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/kodarch/internal/buildlog"
	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/domain"
	kerrors "github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/fsutil"
	"github.com/mrz1836/kodarch/internal/logging"
	"github.com/mrz1836/kodarch/internal/process"
	"github.com/mrz1836/kodarch/internal/toolchain"
)

// TestsUnavailableMessage is logged when the test phase fails or has no command.
const TestsUnavailableMessage = "tests not available or failed"

// Runner executes the pipeline phases for one build.
type Runner struct {
	executor     *process.Executor
	log          *buildlog.Log
	excludes     []string
	skipCommands bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithExcludes sets the glob patterns left out of the rendered file tree.
func WithExcludes(patterns []string) Option {
	return func(r *Runner) {
		r.excludes = patterns
	}
}

// WithSkipCommands disables the install, build, and test subprocesses.
// Reports are still written.
func WithSkipCommands(skip bool) Option {
	return func(r *Runner) {
		r.skipCommands = skip
	}
}

// New creates a Runner that runs commands through executor and records outcomes in log.
func New(executor *process.Executor, log *buildlog.Log, opts ...Option) *Runner {
	r := &Runner{
		executor: executor,
		log:      log,
		excludes: constants.DefaultExcludes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunAll runs install, build, test (when the style asks for tests), and the
// reports phase against projectPath.
func (r *Runner) RunAll(ctx context.Context, projectPath string, s *domain.Style) error {
	logger := zerolog.Ctx(ctx).With().
		Str("component", "pipeline").
		Str("project_path", projectPath).
		Logger()
	ctx = logger.WithContext(ctx)

	cmds := toolchain.Resolve(s.Toolchain.PackageManager)
	logger.Info().
		Str("package_manager", cmds.PackageManager).
		Bool("skip_commands", r.skipCommands).
		Msg("pipeline starting")

	if r.skipCommands {
		for _, phase := range []constants.Phase{constants.PhaseInstall, constants.PhaseBuild, constants.PhaseTest} {
			r.log.Warning(phase, "skipped by configuration", map[string]any{"package_manager": cmds.PackageManager})
		}
	} else {
		if err := r.install(ctx, projectPath, cmds); err != nil {
			return err
		}
		if err := r.build(ctx, projectPath, cmds); err != nil {
			return err
		}
		if err := r.test(ctx, projectPath, s, cmds); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	r.reports(ctx, projectPath, s)

	logger.Info().Int("entries", r.log.Len()).Msg("pipeline finished")
	return nil
}

func (r *Runner) install(ctx context.Context, projectPath string, cmds toolchain.Commands) error {
	res, err := r.runPhase(ctx, constants.PhaseInstall, constants.InstallLogFileName, projectPath, cmds.Install)
	if isCanceled(ctx, err) {
		return ctx.Err()
	}
	if err != nil {
		r.log.Error(constants.PhaseInstall, "dependency install failed", phaseDetail(cmds.Install, res, err))
		return nil
	}
	r.log.Success(constants.PhaseInstall, "dependencies installed", phaseDetail(cmds.Install, res, nil))
	return nil
}

func (r *Runner) build(ctx context.Context, projectPath string, cmds toolchain.Commands) error {
	res, err := r.runPhase(ctx, constants.PhaseBuild, constants.BuildLogFileName, projectPath, cmds.Build)
	if isCanceled(ctx, err) {
		return ctx.Err()
	}
	if err != nil {
		r.log.Warning(constants.PhaseBuild, "build failed", phaseDetail(cmds.Build, res, err))
		return nil
	}
	r.log.Success(constants.PhaseBuild, "build completed", phaseDetail(cmds.Build, res, nil))
	return nil
}

func (r *Runner) test(ctx context.Context, projectPath string, s *domain.Style, cmds toolchain.Commands) error {
	if !s.RunsTests() {
		r.log.Success(constants.PhaseTest, "tests skipped for minimal testing preference", map[string]any{
			"testing": s.Preferences.Testing,
		})
		return nil
	}

	res, err := r.runPhase(ctx, constants.PhaseTest, constants.TestLogFileName, projectPath, cmds.Test)
	if isCanceled(ctx, err) {
		return ctx.Err()
	}
	if err != nil {
		r.log.Warning(constants.PhaseTest, TestsUnavailableMessage, phaseDetail(cmds.Test, res, err))
		return nil
	}
	r.log.Success(constants.PhaseTest, "tests passed", phaseDetail(cmds.Test, res, nil))
	return nil
}

// runPhase runs command and writes BUILD_LOGS/<logName>. A missing command
// returns ErrCommandMissing without touching the log directory.
func (r *Runner) runPhase(ctx context.Context, phase constants.Phase, logName, projectPath, command string) (*process.Result, error) {
	if strings.TrimSpace(command) == "" {
		return nil, kerrors.ErrCommandMissing
	}

	res, runErr := r.executor.Run(ctx, command, projectPath)
	if res == nil {
		return nil, runErr
	}

	if _, err := fsutil.WriteFile(projectPath, filepath.Join(constants.BuildLogsDir, logName), []byte(formatPhaseLog(phase, res))); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("phase", phase.String()).
			Msg("failed to write phase log")
	}
	return res, runErr
}

func isCanceled(ctx context.Context, err error) bool {
	if ctx.Err() == nil {
		return false
	}
	return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func phaseDetail(command string, res *process.Result, err error) map[string]any {
	detail := map[string]any{"command": command}
	if res != nil {
		detail["exit_code"] = res.ExitCode
		detail["duration_ms"] = res.DurationMs()
		if res.TimedOut {
			detail["timed_out"] = true
		}
	}
	if err != nil {
		detail["error"] = logging.FilterSensitiveValue(err.Error())
	}
	return detail
}

func formatPhaseLog(phase constants.Phase, res *process.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "phase: %s\n", phase)
	fmt.Fprintf(&b, "command: %s\n", res.Command)
	fmt.Fprintf(&b, "exit_code: %d\n", res.ExitCode)
	fmt.Fprintf(&b, "duration: %s\n", res.Duration)
	if res.TimedOut {
		b.WriteString("timed_out: true\n")
	}
	if res.Error != "" {
		fmt.Fprintf(&b, "error: %s\n", logging.FilterSensitiveValue(res.Error))
	}
	b.WriteString("\n--- stdout ---\n")
	b.WriteString(logging.FilterSensitiveValue(res.Stdout))
	b.WriteString("\n--- stderr ---\n")
	b.WriteString(logging.FilterSensitiveValue(res.Stderr))
	b.WriteString("\n")
	return b.String()
}
