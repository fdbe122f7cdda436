package artifact

import (
	"context"
	"encoding/json"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/domain"
	"github.com/mrz1836/kodarch/internal/fsutil"
)

// BuildManifest lists and hashes every non-excluded file under projectPath.
// Hashing runs concurrently; the returned entries are in sorted path order.
// The manifest file itself is never listed.
func BuildManifest(ctx context.Context, projectPath string, excludes []string) ([]domain.FileEntry, error) {
	files, err := fsutil.ListFiles(projectPath, excludes)
	if err != nil {
		return nil, err
	}

	rels := files[:0]
	for _, rel := range files {
		if rel != constants.ManifestFileName {
			rels = append(rels, rel)
		}
	}

	entries := make([]domain.FileEntry, len(rels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, rel := range rels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(projectPath, filepath.FromSlash(rel))
			size, err := fsutil.Size(path)
			if err != nil {
				return err
			}
			sum, err := fsutil.Checksum(path)
			if err != nil {
				return err
			}
			entries[i] = domain.FileEntry{Path: rel, Size: size, SHA256: sum}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// writeManifest assembles and writes artifact_manifest.json. A failure is
// logged and leaves the project without a manifest.
func (a *Artifactizer) writeManifest(ctx context.Context, projectPath string, plan *domain.Plan, s *domain.Style, now time.Time) *domain.Manifest {
	logger := zerolog.Ctx(ctx)

	files, err := BuildManifest(ctx, projectPath, a.excludes)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build manifest")
		a.log.Error(constants.PhaseArtifactize, "manifest not built", map[string]any{"error": err.Error()})
		return nil
	}

	a.log.Success(constants.PhaseArtifactize, "manifest assembled", map[string]any{"files": len(files)})

	m := &domain.Manifest{
		SchemaVersion: constants.ManifestSchemaVersion,
		Project:       plan.Project,
		Version:       a.version,
		CreatedAt:     now,
		Plan:          plan.Clone(),
		Style:         s.Name,
		Files:         files,
		Logs:          a.log.Entries(),
		DeployTargets: append([]string(nil), plan.Artifact.DeployTargets...),
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err == nil {
		_, err = fsutil.WriteFile(projectPath, constants.ManifestFileName, append(data, '\n'))
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to write manifest")
		a.log.Error(constants.PhaseArtifactize, "manifest not written", map[string]any{"error": err.Error()})
		return nil
	}
	return m
}
