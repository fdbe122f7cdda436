package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/kodarch/internal/errors"
)

func TestValidate_Defaults(t *testing.T) {
	require.NoError(t, Validate(DefaultConfig()))
}

func TestValidate_Nil(t *testing.T) {
	require.ErrorIs(t, Validate(nil), errors.ErrConfigNil)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		wantMsg string
	}{
		{"empty output dir", func(c *Config) { c.Output.Dir = " " }, errors.ErrConfigInvalidWorkspace, "output.dir"},
		{"empty default style", func(c *Config) { c.Style.Default = "" }, errors.ErrConfigInvalidWorkspace, "style.default"},
		{"timeout too short", func(c *Config) { c.Pipeline.Timeout = 500 * time.Millisecond }, errors.ErrConfigInvalidPipeline, "pipeline.timeout"},
		{"timeout too long", func(c *Config) { c.Pipeline.Timeout = 3 * time.Hour }, errors.ErrConfigInvalidPipeline, "pipeline.timeout"},
		{"empty version", func(c *Config) { c.Artifact.Version = "" }, errors.ErrConfigInvalidArtifact, "artifact.version"},
		{"version with slash", func(c *Config) { c.Artifact.Version = "1/2" }, errors.ErrConfigInvalidArtifact, "path separators"},
		{"version dot-dot", func(c *Config) { c.Artifact.Version = ".." }, errors.ErrConfigInvalidArtifact, "path separators"},
		{"bad glob", func(c *Config) { c.Artifact.Exclude = []string{"[unclosed"} }, errors.ErrConfigInvalidArtifact, "invalid pattern"},
		{"zero parallelism", func(c *Config) { c.Build.Parallelism = 0 }, errors.ErrConfigInvalidBuild, "build.parallelism"},
		{"huge parallelism", func(c *Config) { c.Build.Parallelism = 33 }, errors.ErrConfigInvalidBuild, "build.parallelism"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := Validate(cfg)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestValidate_AcceptsEdges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pipeline.Timeout = time.Second
	cfg.Build.Parallelism = 32
	cfg.Artifact.Exclude = nil
	cfg.Artifact.Version = "2.0.0-rc.1"
	require.NoError(t, Validate(cfg))
}
