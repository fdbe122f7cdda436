package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/kodarch/internal/build"
	"github.com/mrz1836/kodarch/internal/config"
	"github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/record"
	"github.com/mrz1836/kodarch/internal/template"
	"github.com/mrz1836/kodarch/internal/tui"
	"github.com/mrz1836/kodarch/internal/workspace"
)

// loadConfig loads layered configuration with overrides from command flags.
// Configuration errors exit with code 2.
func loadConfig(ctx context.Context, overrides *config.Config) (*config.Config, error) {
	cfg, err := config.LoadWithOverrides(ctx, overrides)
	if err != nil {
		return nil, errors.NewExitCode2Error(err)
	}
	return cfg, nil
}

// newSessions creates the workspace manager described by cfg.
func newSessions(cfg *config.Config) (*workspace.Manager, error) {
	root, err := config.ExpandHome(cfg.Workspace.Root)
	if err != nil {
		return nil, err
	}
	return workspace.NewManager(root, workspace.WithKeep(cfg.Workspace.Keep))
}

// newRecords opens the record store, or returns nil when records are disabled.
func newRecords(cfg *config.Config) (*record.FileStore, error) {
	if !cfg.Records.Enabled {
		return nil, nil //nolint:nilnil // nil store means records are off
	}
	dir, err := config.ExpandHome(cfg.Records.Dir)
	if err != nil {
		return nil, err
	}
	return record.NewFileStore(dir)
}

// newService wires a build service from cfg. live, when non-nil, receives
// phase subprocess output as it is produced.
func newService(cfg *config.Config, live io.Writer) (*build.Service, error) {
	sessions, err := newSessions(cfg)
	if err != nil {
		return nil, err
	}

	outputDir, err := config.ExpandHome(cfg.Output.Dir)
	if err != nil {
		return nil, err
	}

	opts := []build.Option{
		build.WithOutputDir(outputDir),
		build.WithDefaultStyle(cfg.Style.Default),
		build.WithPhaseTimeout(cfg.Pipeline.Timeout),
		build.WithSkipCommands(cfg.Pipeline.SkipCommands),
		build.WithArtifactVersion(cfg.Artifact.Version),
		build.WithExcludes(cfg.Artifact.Exclude),
		build.WithParallelism(cfg.Build.Parallelism),
	}
	if live != nil {
		opts = append(opts, build.WithLiveOutput(live))
	}

	if cfg.Templates.Dir != "" {
		dir, err := config.ExpandHome(cfg.Templates.Dir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, build.WithTemplates(template.Layered{template.NewDirStore(dir), template.Builtin()}))
	}

	records, err := newRecords(cfg)
	if err != nil {
		return nil, err
	}
	if records != nil {
		opts = append(opts, build.WithRecords(records))
	}

	return build.NewService(sessions, opts...), nil
}

// output returns the formatter for the --output flag.
func output(cmd *cobra.Command, flags *GlobalFlags) tui.Output {
	return tui.NewOutput(cmd.OutOrStdout(), flags.Output)
}
