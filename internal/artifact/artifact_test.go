package artifact_test

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/kodarch/internal/artifact"
	"github.com/mrz1836/kodarch/internal/buildlog"
	"github.com/mrz1836/kodarch/internal/clock"
	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/domain"
	kerrors "github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/fsutil"
	"github.com/mrz1836/kodarch/internal/style"
)

var fixedTime = time.Date(2025, 12, 27, 10, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // test fixture

func testContext() context.Context {
	logger := zerolog.Nop()
	return logger.WithContext(context.Background())
}

func testPlan(license string) *domain.Plan {
	return &domain.Plan{
		Project:     "demo",
		Description: "A demo project",
		Stack:       "Next.js + Node",
		Style:       "hyperforge",
		Features:    []string{"authentication"},
		Auth:        domain.AuthSpec{Enabled: true, Provider: constants.AuthProvider},
		Artifact:    domain.ArtifactSpec{Zip: true, License: license, DeployTargets: []string{"vercel", "docker", "render"}},
	}
}

func testStyle(t *testing.T) *domain.Style {
	t.Helper()
	s, err := style.Builtin().Lookup("hyperforge")
	require.NoError(t, err)
	return s
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	_, err := fsutil.WriteFile(root, rel, []byte(content))
	require.NoError(t, err)
}

func setupProject(t *testing.T) string {
	t.Helper()
	project := filepath.Join(t.TempDir(), "demo")
	writeFile(t, project, "package.json", `{"name":"demo"}`)
	writeFile(t, project, "src/index.ts", "export {}\n")
	writeFile(t, project, ".env", "# local\nDATABASE_URL=postgres://u:p@localhost/demo\nport=3000\n")
	writeFile(t, project, ".env.example", "API_KEY=changeme\n")
	writeFile(t, project, "node_modules/left-pad/index.js", "module.exports = 1\n")
	return project
}

func newArtifactizer(log *buildlog.Log, opts ...artifact.Option) *artifact.Artifactizer {
	opts = append([]artifact.Option{artifact.WithClock(clock.NewSteppingClock(fixedTime, 0))}, opts...)
	return artifact.New(log, opts...)
}

func TestCreate_PackagesProject(t *testing.T) {
	project := setupProject(t)
	out := filepath.Join(t.TempDir(), "dist")
	log := buildlog.New()

	res, err := newArtifactizer(log).Create(testContext(), project, testPlan("MIT"), testStyle(t), out)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "demo-v1.0.0.zip"), res.ArchivePath)
	assert.Positive(t, res.Size)
	sum, err := fsutil.Checksum(res.ArchivePath)
	require.NoError(t, err)
	assert.Equal(t, sum, res.SHA256)

	for _, name := range []string{
		constants.BuildSummaryFileName, constants.DeployPlaybookFileName,
		constants.SecurityNotesFileName, constants.LicenseFileName, constants.ManifestFileName,
		filepath.Join(constants.BuildLogsDir, constants.BuildLogFileName),
	} {
		assert.FileExists(t, filepath.Join(project, name))
	}

	zr, err := zip.OpenReader(res.ArchivePath)
	require.NoError(t, err)
	defer func() { _ = zr.Close() }()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
		assert.True(t, strings.HasPrefix(f.Name, "demo/"), f.Name)
		assert.Equal(t, zip.Deflate, f.Method)
	}
	assert.Contains(t, names, "demo/"+constants.ManifestFileName)
	assert.Contains(t, names, "demo/src/index.ts")
	assert.NotContains(t, names, "demo/node_modules/left-pad/index.js")

	for _, f := range zr.File {
		if f.Name != "demo/.env" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		require.NoError(t, err)
		assert.Contains(t, string(data), "DATABASE_URL=REPLACE_WITH_LIVE_DATABASE_URL")
	}

	assert.Equal(t, constants.SeveritySuccess, log.Worst(constants.PhaseArtifactize))
}

func TestCreate_ManifestIsComplete(t *testing.T) {
	project := setupProject(t)
	log := buildlog.New()
	log.Success(constants.PhaseParse, "plan parsed", nil)

	res, err := newArtifactizer(log).Create(testContext(), project, testPlan("MIT"), testStyle(t), t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, res.Manifest)

	data, err := os.ReadFile(filepath.Join(project, constants.ManifestFileName))
	require.NoError(t, err)
	var m domain.Manifest
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Equal(t, "demo", m.Project)
	assert.Equal(t, constants.DefaultArtifactVersion, m.Version)
	assert.Equal(t, fixedTime, m.CreatedAt)
	assert.Equal(t, "hyperforge", m.Style)
	assert.Equal(t, []string{"vercel", "docker", "render"}, m.DeployTargets)
	assert.Equal(t, "demo", m.Plan.Project)
	require.NotEmpty(t, m.Logs)
	assert.Equal(t, "plan parsed", m.Logs[0].Message)

	paths := make([]string, 0, len(m.Files))
	for _, f := range m.Files {
		paths = append(paths, f.Path)
	}
	assert.True(t, sort.StringsAreSorted(paths))
	assert.NotContains(t, paths, constants.ManifestFileName)
	assert.NotContains(t, paths, "node_modules/left-pad/index.js")
	assert.Contains(t, paths, constants.LicenseFileName)
	assert.Contains(t, paths, ".env")

	// Checksums reflect the sanitized content.
	for _, f := range m.Files {
		sum, err := fsutil.Checksum(filepath.Join(project, filepath.FromSlash(f.Path)))
		require.NoError(t, err)
		assert.Equal(t, sum, f.SHA256, f.Path)
	}
}

func TestCreate_SanitizesEnvFiles(t *testing.T) {
	project := setupProject(t)

	_, err := newArtifactizer(buildlog.New()).Create(testContext(), project, testPlan("MIT"), testStyle(t), t.TempDir())
	require.NoError(t, err)

	env, err := os.ReadFile(filepath.Join(project, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "# local\nDATABASE_URL=REPLACE_WITH_LIVE_DATABASE_URL\nport=REPLACE_WITH_LIVE_PORT\n", string(env))

	example, err := os.ReadFile(filepath.Join(project, ".env.example"))
	require.NoError(t, err)
	assert.Equal(t, "API_KEY=REPLACE_WITH_LIVE_API_KEY\n", string(example))
}

func TestCreate_NonMITLicenseWarns(t *testing.T) {
	project := setupProject(t)
	log := buildlog.New()

	_, err := newArtifactizer(log).Create(testContext(), project, testPlan("Apache-2.0"), testStyle(t), t.TempDir())
	require.NoError(t, err)

	body, err := os.ReadFile(filepath.Join(project, constants.LicenseFileName))
	require.NoError(t, err)
	assert.Contains(t, string(body), "Apache-2.0")
	assert.Contains(t, string(body), "https://spdx.org/licenses/Apache-2.0.html")
	assert.Equal(t, constants.SeverityWarning, log.Worst(constants.PhaseArtifactize))
}

func TestCreate_KeepsExistingBuildLog(t *testing.T) {
	project := setupProject(t)
	writeFile(t, project, filepath.Join(constants.BuildLogsDir, constants.BuildLogFileName), "real output\n")

	_, err := newArtifactizer(buildlog.New()).Create(testContext(), project, testPlan("MIT"), testStyle(t), t.TempDir())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(project, constants.BuildLogsDir, constants.BuildLogFileName))
	require.NoError(t, err)
	assert.Equal(t, "real output\n", string(data))
}

func TestCreate_PackagingFailure(t *testing.T) {
	project := setupProject(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	log := buildlog.New()

	res, err := newArtifactizer(log).Create(testContext(), project, testPlan("MIT"), testStyle(t), filepath.Join(blocker, "dist"))
	require.ErrorIs(t, err, kerrors.ErrPackagingFailed)
	assert.Nil(t, res)
	assert.Equal(t, constants.SeverityError, log.Worst(constants.PhaseArtifactize))

	// Everything before packaging still happened.
	assert.FileExists(t, filepath.Join(project, constants.ManifestFileName))
}

func TestCreate_CustomVersionAndExcludes(t *testing.T) {
	project := setupProject(t)
	writeFile(t, project, "coverage/lcov.info", "TN:\n")
	a := newArtifactizer(buildlog.New(),
		artifact.WithVersion("2.3.4"),
		artifact.WithExcludes(append([]string{"coverage/**"}, constants.DefaultExcludes...)))

	res, err := a.Create(testContext(), project, testPlan("MIT"), testStyle(t), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "demo-v2.3.4.zip", filepath.Base(res.ArchivePath))
	for _, f := range res.Manifest.Files {
		assert.NotEqual(t, "coverage/lcov.info", f.Path)
	}
}

func TestBuildManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.txt", "bb")
	writeFile(t, root, "a/a.txt", "a")
	writeFile(t, root, constants.ManifestFileName, "{}")
	writeFile(t, root, ".git/HEAD", "ref")

	entries, err := artifact.BuildManifest(testContext(), root, constants.DefaultExcludes)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.FileEntry{Path: "a/a.txt", Size: 1, SHA256: fsutil.ChecksumBytes([]byte("a"))}, entries[0])
	assert.Equal(t, "b.txt", entries[1].Path)
	assert.Equal(t, int64(2), entries[1].Size)
}
