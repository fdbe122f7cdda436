package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/errors"
)

// EnvPrefix is the prefix for environment variable overrides.
// KODARCH_PIPELINE_TIMEOUT maps to pipeline.timeout.
const EnvPrefix = "KODARCH"

// newViperInstance creates a new Viper instance with the kodarch environment
// prefix, key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence:
//  1. Environment variables (KODARCH_* prefix)
//  2. Project config (.kodarch/config.yaml)
//  3. Global config (~/.kodarch/config.yaml)
//  4. Built-in defaults
//
// For CLI flag overrides, use LoadWithOverrides instead.
// Missing config files are not an error.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "config").
		Str("output.dir", cfg.Output.Dir).
		Str("style.default", cfg.Style.Default).
		Dur("pipeline.timeout", cfg.Pipeline.Timeout).
		Bool("records.enabled", cfg.Records.Enabled).
		Msg("configuration loaded")
	return cfg, nil
}

// loadGlobalConfig attempts to load ~/.kodarch/config.yaml.
// Returns nil if the file doesn't exist or the home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	path, err := GlobalConfigPath()
	if err != nil || !fileExists(path) {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// loadProjectConfig attempts to load .kodarch/config.yaml from the working directory.
// Returns nil if the file doesn't exist.
func loadProjectConfig(v *viper.Viper) error {
	path := ProjectConfigPath()
	if !fileExists(path) {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths.
// projectConfigPath has higher priority than globalConfigPath.
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// These defaults match DefaultConfig(). Every key must have a default so
// AutomaticEnv can bind it.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("workspace.root", d.Workspace.Root)
	v.SetDefault("workspace.keep", d.Workspace.Keep)

	v.SetDefault("output.dir", d.Output.Dir)

	v.SetDefault("style.default", d.Style.Default)

	v.SetDefault("templates.dir", d.Templates.Dir)

	v.SetDefault("pipeline.timeout", constants.DefaultPhaseTimeout.String())
	v.SetDefault("pipeline.skip_commands", d.Pipeline.SkipCommands)

	v.SetDefault("artifact.version", d.Artifact.Version)
	v.SetDefault("artifact.exclude", d.Artifact.Exclude)

	v.SetDefault("records.enabled", d.Records.Enabled)
	v.SetDefault("records.dir", d.Records.Dir)

	v.SetDefault("build.parallelism", d.Build.Parallelism)
}

// applyOverrides merges non-zero override values into the config.
//
// IMPORTANT: Boolean fields (Workspace.Keep, Pipeline.SkipCommands,
// Records.Enabled) are only ever switched on here, since Go's zero value
// for bool cannot express "explicitly false". The CLI checks
// cmd.Flags().Changed for flags that switch a setting off.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Workspace.Root != "" {
		cfg.Workspace.Root = overrides.Workspace.Root
	}
	if overrides.Workspace.Keep {
		cfg.Workspace.Keep = true
	}
	if overrides.Output.Dir != "" {
		cfg.Output.Dir = overrides.Output.Dir
	}
	if overrides.Style.Default != "" {
		cfg.Style.Default = overrides.Style.Default
	}
	if overrides.Templates.Dir != "" {
		cfg.Templates.Dir = overrides.Templates.Dir
	}

	applyPipelineOverrides(cfg, overrides)

	if overrides.Artifact.Version != "" {
		cfg.Artifact.Version = overrides.Artifact.Version
	}
	if len(overrides.Artifact.Exclude) > 0 {
		cfg.Artifact.Exclude = overrides.Artifact.Exclude
	}
	if overrides.Records.Dir != "" {
		cfg.Records.Dir = overrides.Records.Dir
	}
	if overrides.Build.Parallelism != 0 {
		cfg.Build.Parallelism = overrides.Build.Parallelism
	}
}

// applyPipelineOverrides applies pipeline-related overrides to the config.
func applyPipelineOverrides(cfg, overrides *Config) {
	if overrides.Pipeline.Timeout != 0 {
		cfg.Pipeline.Timeout = overrides.Pipeline.Timeout
	}
	if overrides.Pipeline.SkipCommands {
		cfg.Pipeline.SkipCommands = true
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// Durations decode from strings like "90s"; lists decode from
// comma-separated environment values.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
