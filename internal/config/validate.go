package config

import (
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mrz1836/kodarch/internal/errors"
)

const (
	minPipelineTimeout = time.Second
	maxPipelineTimeout = 2 * time.Hour
	maxParallelism     = 32
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - output.dir must not be empty
//   - style.default must not be empty
//   - pipeline.timeout must be between 1 second and 2 hours
//   - artifact.version must be a non-empty single path segment
//   - artifact.exclude entries must be valid doublestar patterns
//   - build.parallelism must be between 1 and 32
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateWorkspaceConfig(cfg); err != nil {
		return err
	}

	if err := validatePipelineConfig(&cfg.Pipeline); err != nil {
		return err
	}

	if err := validateArtifactConfig(&cfg.Artifact); err != nil {
		return err
	}

	if cfg.Build.Parallelism < 1 || cfg.Build.Parallelism > maxParallelism {
		return errors.Wrapf(errors.ErrConfigInvalidBuild,
			"build.parallelism must be between 1 and %d, got %d", maxParallelism, cfg.Build.Parallelism)
	}

	return nil
}

// validateWorkspaceConfig checks the directory and style settings.
func validateWorkspaceConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.Output.Dir) == "" {
		return errors.Wrap(errors.ErrConfigInvalidWorkspace, "output.dir must not be empty")
	}
	if strings.TrimSpace(cfg.Style.Default) == "" {
		return errors.Wrap(errors.ErrConfigInvalidWorkspace, "style.default must not be empty")
	}
	return nil
}

// validatePipelineConfig checks phase settings.
func validatePipelineConfig(cfg *PipelineConfig) error {
	if cfg.Timeout < minPipelineTimeout || cfg.Timeout > maxPipelineTimeout {
		return errors.Wrapf(errors.ErrConfigInvalidPipeline,
			"pipeline.timeout must be between %s and %s, got %s",
			minPipelineTimeout, maxPipelineTimeout, cfg.Timeout)
	}
	return nil
}

// validateArtifactConfig checks the version string and exclusion globs.
func validateArtifactConfig(cfg *ArtifactConfig) error {
	v := strings.TrimSpace(cfg.Version)
	if v == "" {
		return errors.Wrap(errors.ErrConfigInvalidArtifact, "artifact.version must not be empty")
	}
	if strings.ContainsAny(v, `/\`) || v == "." || v == ".." {
		return errors.Wrapf(errors.ErrConfigInvalidArtifact,
			"artifact.version must not contain path separators, got %q", v)
	}

	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Wrapf(errors.ErrConfigInvalidArtifact,
				"artifact.exclude has an invalid pattern %q", pattern)
		}
	}
	return nil
}
