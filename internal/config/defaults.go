package config

import (
	"slices"

	"github.com/mrz1836/kodarch/internal/constants"
)

// DefaultConfig returns a new Config with default values.
// These defaults are the base layer that config files, environment
// variables, and CLI flags override.
func DefaultConfig() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			// Root: empty means ~/.kodarch/workspaces.
			Root: "",
			Keep: false,
		},
		Output: OutputConfig{
			Dir: constants.DistDir,
		},
		Style: StyleConfig{
			Default: constants.DefaultStyleName,
		},
		Templates: TemplatesConfig{
			Dir: "",
		},
		Pipeline: PipelineConfig{
			Timeout:      constants.DefaultPhaseTimeout,
			SkipCommands: false,
		},
		Artifact: ArtifactConfig{
			Version: constants.DefaultArtifactVersion,
			Exclude: slices.Clone(constants.DefaultExcludes),
		},
		Records: RecordsConfig{
			Enabled: true,
			Dir:     "",
		},
		Build: BuildConfig{
			Parallelism: constants.DefaultParallelism,
		},
	}
}
