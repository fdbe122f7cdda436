// Package artifact finalizes a generated project and packages it as a
// checksummed zip archive.
//
// Create runs five steps in order: log placeholder, secret sanitization,
// documentation, manifest, and packaging. Only packaging can fail the build;
// every earlier problem is recorded in the build log.
package artifact

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/kodarch/internal/buildlog"
	"github.com/mrz1836/kodarch/internal/clock"
	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/domain"
	"github.com/mrz1836/kodarch/internal/fsutil"
)

// Result describes a packaged archive.
type Result struct {
	ArchivePath string           `json:"archive_path"`
	Size        int64            `json:"size"`
	SHA256      string           `json:"sha256"`
	Manifest    *domain.Manifest `json:"manifest"`
}

// Artifactizer turns a project directory into a release archive.
type Artifactizer struct {
	log      *buildlog.Log
	clock    clock.Clock
	version  string
	excludes []string
	holder   string
}

// Option configures an Artifactizer.
type Option func(*Artifactizer)

// WithClock sets the clock used for the manifest timestamp, archive entry
// times, and the license year.
func WithClock(c clock.Clock) Option {
	return func(a *Artifactizer) {
		a.clock = c
	}
}

// WithVersion sets the version stamped into the manifest and archive name.
func WithVersion(v string) Option {
	return func(a *Artifactizer) {
		if v != "" {
			a.version = v
		}
	}
}

// WithExcludes sets the doublestar patterns kept out of the manifest and archive.
func WithExcludes(patterns []string) Option {
	return func(a *Artifactizer) {
		a.excludes = patterns
	}
}

// WithLicenseHolder sets the copyright holder written into LICENSE.
func WithLicenseHolder(holder string) Option {
	return func(a *Artifactizer) {
		a.holder = holder
	}
}

// New creates an Artifactizer that records its progress in log.
func New(log *buildlog.Log, opts ...Option) *Artifactizer {
	a := &Artifactizer{
		log:      log,
		clock:    clock.RealClock{},
		version:  constants.DefaultArtifactVersion,
		excludes: constants.DefaultExcludes,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Version returns the version stamped into archives.
func (a *Artifactizer) Version() string {
	return a.version
}

// ArchiveName returns "<project>-v<version>.zip".
func (a *Artifactizer) ArchiveName(project string) string {
	return project + "-v" + a.version + ".zip"
}

// Create finalizes projectPath and writes the archive into outputDir.
// The only error is ErrPackagingFailed (or context cancellation).
func (a *Artifactizer) Create(ctx context.Context, projectPath string, plan *domain.Plan, s *domain.Style, outputDir string) (*Result, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("component", "artifact").
		Str("project", plan.Project).
		Logger()
	ctx = logger.WithContext(ctx)
	now := a.clock.Now().UTC().Truncate(time.Second)

	a.ensureBuildLog(&logger, projectPath)
	a.sanitize(&logger, projectPath)
	a.writeDocuments(&logger, projectPath, plan, s, now)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	manifest := a.writeManifest(ctx, projectPath, plan, s, now)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	archivePath := filepath.Join(outputDir, a.ArchiveName(plan.Project))
	size, sum, err := a.pack(ctx, projectPath, plan.Project, archivePath, now)
	if err != nil {
		logger.Error().Err(err).Str("archive", archivePath).Msg("packaging failed")
		a.log.Error(constants.PhaseArtifactize, "packaging failed", map[string]any{
			"archive": archivePath,
			"error":   err.Error(),
		})
		return nil, err
	}

	a.log.Success(constants.PhaseArtifactize, "archive created", map[string]any{
		"archive": archivePath,
		"size":    size,
		"sha256":  sum,
	})
	logger.Info().
		Str("archive", archivePath).
		Int64("size", size).
		Str("sha256", sum).
		Msg("archive created")

	return &Result{
		ArchivePath: archivePath,
		Size:        size,
		SHA256:      sum,
		Manifest:    manifest,
	}, nil
}

// ensureBuildLog creates BUILD_LOGS/build.log when the pipeline left none.
func (a *Artifactizer) ensureBuildLog(logger *zerolog.Logger, projectPath string) {
	rel := filepath.Join(constants.BuildLogsDir, constants.BuildLogFileName)
	created, err := fsutil.WriteIfMissing(projectPath, rel, []byte("No build output was captured for this project.\n"))
	if err != nil {
		logger.Warn().Err(err).Msg("failed to create placeholder build log")
		a.log.Warning(constants.PhaseArtifactize, "placeholder build log not written", map[string]any{"error": err.Error()})
		return
	}
	if created {
		logger.Debug().Msg("created placeholder build log")
	}
}

// sanitize rewrites secret values in the project's environment files.
func (a *Artifactizer) sanitize(logger *zerolog.Logger, projectPath string) {
	var sanitized []string
	for _, name := range constants.EnvFileNames {
		found, err := fsutil.SanitizeEnvFile(filepath.Join(projectPath, name))
		if err != nil {
			logger.Warn().Err(err).Str("file", name).Msg("failed to sanitize env file")
			a.log.Warning(constants.PhaseArtifactize, "env file not sanitized", map[string]any{
				"file":  name,
				"error": err.Error(),
			})
			continue
		}
		if found {
			sanitized = append(sanitized, name)
		}
	}
	a.log.Success(constants.PhaseArtifactize, "environment files sanitized", map[string]any{"files": sanitized})
}
