// Package config provides configuration management for kodarch with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (KODARCH_* prefix)
//  3. Project config (.kodarch/config.yaml in the working directory)
//  4. Global config (~/.kodarch/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for kodarch.
type Config struct {
	// Workspace contains settings for build session directories.
	Workspace WorkspaceConfig `yaml:"workspace" mapstructure:"workspace"`

	// Output contains settings for where archives are written.
	Output OutputConfig `yaml:"output" mapstructure:"output"`

	// Style contains settings for style selection.
	Style StyleConfig `yaml:"style" mapstructure:"style"`

	// Templates contains settings for on-disk template overrides.
	Templates TemplatesConfig `yaml:"templates" mapstructure:"templates"`

	// Pipeline contains settings for the install, build, and test phases.
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`

	// Artifact contains settings for manifests and archives.
	Artifact ArtifactConfig `yaml:"artifact" mapstructure:"artifact"`

	// Records contains settings for persisted build records.
	Records RecordsConfig `yaml:"records" mapstructure:"records"`

	// Build contains settings for batch builds.
	Build BuildConfig `yaml:"build" mapstructure:"build"`
}

// WorkspaceConfig contains settings for build session directories.
type WorkspaceConfig struct {
	// Root is the directory holding one subdirectory per build session.
	// Default: "" (~/.kodarch/workspaces)
	Root string `yaml:"root" mapstructure:"root"`

	// Keep leaves session directories in place after a build finishes.
	// Default: false
	Keep bool `yaml:"keep" mapstructure:"keep"`
}

// OutputConfig contains settings for where archives are written.
type OutputConfig struct {
	// Dir is the directory archives are written to.
	// Default: "dist"
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// StyleConfig contains settings for style selection.
type StyleConfig struct {
	// Default is used when neither --style nor a style: tag names a style.
	// Default: "hyperforge"
	Default string `yaml:"default" mapstructure:"default"`
}

// TemplatesConfig contains settings for on-disk template overrides.
type TemplatesConfig struct {
	// Dir is a directory of <style>/manifest.yaml trees layered over the
	// built-in templates. Empty uses only the built-in templates.
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// PipelineConfig contains settings for the install, build, and test phases.
type PipelineConfig struct {
	// Timeout bounds each phase subprocess.
	// Default: 5 minutes
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// SkipCommands records every phase as skipped instead of running it.
	// Default: false
	SkipCommands bool `yaml:"skip_commands" mapstructure:"skip_commands"`
}

// ArtifactConfig contains settings for manifests and archives.
type ArtifactConfig struct {
	// Version is stamped into the manifest and the archive name.
	// Default: "1.0.0"
	Version string `yaml:"version" mapstructure:"version"`

	// Exclude lists doublestar globs kept out of manifests and archives.
	// Default: constants.DefaultExcludes
	Exclude []string `yaml:"exclude" mapstructure:"exclude"`
}

// RecordsConfig contains settings for persisted build records.
type RecordsConfig struct {
	// Enabled turns on the project, log, and artifact record store.
	// Default: true
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Dir is the record store root.
	// Default: "" (~/.kodarch/records)
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// BuildConfig contains settings for batch builds.
type BuildConfig struct {
	// Parallelism is the number of builds a batch runs at once.
	// Default: 2, Valid range: 1-32
	Parallelism int `yaml:"parallelism" mapstructure:"parallelism"`
}
