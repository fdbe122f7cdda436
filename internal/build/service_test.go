package build_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/kodarch/internal/build"
	"github.com/mrz1836/kodarch/internal/clock"
	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/domain"
	kerrors "github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/fsutil"
	"github.com/mrz1836/kodarch/internal/record"
	"github.com/mrz1836/kodarch/internal/testutil"
	"github.com/mrz1836/kodarch/internal/workspace"
)

func testContext() context.Context {
	logger := zerolog.Nop()
	return logger.WithContext(context.Background())
}

type fixture struct {
	service  *build.Service
	runner   *testutil.FakeRunner
	records  *record.FileStore
	sessions *workspace.Manager
	output   string
}

func newFixture(t *testing.T, keep bool, opts ...build.Option) *fixture {
	t.Helper()
	base := t.TempDir()

	sessions, err := workspace.NewManager(filepath.Join(base, "workspaces"), workspace.WithKeep(keep))
	require.NoError(t, err)
	records, err := record.NewFileStore(filepath.Join(base, "records"))
	require.NoError(t, err)

	f := &fixture{
		runner:   testutil.NewFakeRunner(),
		records:  records,
		sessions: sessions,
		output:   filepath.Join(base, "dist"),
	}
	all := append([]build.Option{
		build.WithRunner(f.runner),
		build.WithRecords(records),
		build.WithOutputDir(f.output),
		build.WithClock(clock.NewSteppingClock(time.Date(2025, 12, 27, 10, 0, 0, 0, time.UTC), time.Second)),
	}, opts...)
	f.service = build.NewService(sessions, all...)
	return f
}

func TestBuild_EmptyPrompt(t *testing.T) {
	f := newFixture(t, false)

	res, err := f.service.Build(testContext(), build.Request{Prompt: "  \n\t "})
	require.ErrorIs(t, err, kerrors.ErrEmptyPrompt)
	assert.Nil(t, res)
	assert.Empty(t, f.runner.Commands())

	sessions, err := f.sessions.List(testContext())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestBuild_ChatApp(t *testing.T) {
	f := newFixture(t, false)
	ctx := testContext()

	res, err := f.service.Build(ctx, build.Request{Prompt: "Build a chat app"})
	require.NoError(t, err)

	assert.Equal(t, constants.BuildStatusCompleted, res.Status)
	assert.Equal(t, "chat", res.Plan.Project)
	assert.Equal(t, "hyperforge", res.Plan.Style)
	assert.Equal(t, filepath.Join(f.output, "chat-v1.0.0.zip"), res.ArchivePath)
	assert.FileExists(t, res.ArchivePath)
	assert.Positive(t, res.ArchiveSize)
	assert.Len(t, res.ArchiveSHA256, 64)
	require.NotNil(t, res.Manifest)

	// hyperforge is pnpm with minimal testing.
	assert.Equal(t, []string{"pnpm install", "pnpm build"}, f.runner.Commands())

	require.NotEmpty(t, res.Logs)
	assert.Equal(t, constants.PhaseInit, res.Logs[0].Phase)
	assert.Equal(t, constants.PhaseComplete, res.Logs[len(res.Logs)-1].Phase)
	for i := 1; i < len(res.Logs); i++ {
		assert.False(t, res.Logs[i].Timestamp.Before(res.Logs[i-1].Timestamp))
	}

	rec, err := f.records.GetProject(ctx, res.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, constants.BuildStatusCompleted, rec.Status)
	assert.Equal(t, res.ArchivePath, rec.ArchivePath)
	assert.Equal(t, build.DefaultOwnerID, rec.OwnerID)

	logs, err := f.records.Logs(ctx, res.ProjectID)
	require.NoError(t, err)
	require.Len(t, logs, len(res.Logs))
	for i, l := range logs {
		assert.Equal(t, i, l.Seq)
		assert.Equal(t, res.Logs[i].Message, l.Entry.Message)
	}

	art, err := f.records.GetArtifact(ctx, res.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, res.ArchiveSHA256, art.SHA256)

	assert.NoDirExists(t, filepath.Join(f.sessions.Root(), res.SessionID), "session removed after release")
}

func TestBuild_StyleOverrideUsesTemplate(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.service.Build(testContext(), build.Request{Prompt: "Build a recipe site named cookbook", Style: "artisan"})
	require.NoError(t, err)

	assert.Equal(t, "artisan", res.Plan.Style)
	assert.Equal(t, []string{"poetry install", "poetry build", "poetry run pytest"}, f.runner.Commands())
	assert.FileExists(t, filepath.Join(res.ProjectPath, "backend", "main.py"))

	env, err := os.ReadFile(filepath.Join(res.ProjectPath, ".env"))
	require.NoError(t, err)
	assert.Contains(t, string(env), fsutil.RedactedPrefix)
}

func TestBuild_PipelineFailuresAreNotFatal(t *testing.T) {
	f := newFixture(t, false)
	f.runner.Fail("pnpm install", 1, "network down").Fail("pnpm build", 1, "tsc error")

	res, err := f.service.Build(testContext(), build.Request{Prompt: "Build a chat app"})
	require.NoError(t, err)
	assert.Equal(t, constants.BuildStatusCompleted, res.Status)
	assert.FileExists(t, res.ArchivePath)
}

func TestBuild_PackagingFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	f := newFixture(t, false, build.WithOutputDir(filepath.Join(blocker, "dist")))
	ctx := testContext()

	res, err := f.service.Build(ctx, build.Request{Prompt: "Build a chat app"})
	require.ErrorIs(t, err, kerrors.ErrPackagingFailed)
	require.NotNil(t, res)
	assert.Equal(t, constants.BuildStatusFailed, res.Status)
	assert.Empty(t, res.ArchivePath)

	rec, err := f.records.GetProject(ctx, res.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, constants.BuildStatusFailed, rec.Status)
	assert.NotEmpty(t, rec.Error)
}

func TestBuild_Canceled(t *testing.T) {
	f := newFixture(t, false)
	f.runner.Set("pnpm install", testutil.Response{Delay: time.Minute})

	ctx, cancel := context.WithCancel(testContext())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	res, err := f.service.Build(ctx, build.Request{Prompt: "Build a chat app"})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Equal(t, constants.BuildStatusFailed, res.Status)

	rec, err := f.records.GetProject(testContext(), res.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, constants.BuildStatusFailed, rec.Status)
}

func TestBuild_WithoutRecords(t *testing.T) {
	sessions, err := workspace.NewManager(t.TempDir())
	require.NoError(t, err)
	svc := build.NewService(sessions,
		build.WithRunner(testutil.NewFakeRunner()),
		build.WithOutputDir(t.TempDir()),
		build.WithSkipCommands(true))

	res, err := svc.Build(testContext(), build.Request{Prompt: "Build a chat app"})
	require.NoError(t, err)
	assert.Equal(t, constants.BuildStatusCompleted, res.Status)
}

func TestBuildMany_IndependentSessions(t *testing.T) {
	f := newFixture(t, true, build.WithParallelism(2))

	outcomes := f.service.BuildMany(testContext(), []build.Request{
		{Prompt: "Build a chat app"},
		{Prompt: "Build a chat app"},
		{Prompt: ""},
	})
	require.Len(t, outcomes, 3)

	require.True(t, outcomes[0].Succeeded())
	require.True(t, outcomes[1].Succeeded())
	assert.NotEqual(t, outcomes[0].Result.SessionID, outcomes[1].Result.SessionID)
	assert.NotEqual(t, outcomes[0].Result.ProjectPath, outcomes[1].Result.ProjectPath)
	assert.Equal(t, "chat", outcomes[0].Result.Plan.Project)
	assert.Equal(t, "chat", outcomes[1].Result.Plan.Project)

	assert.False(t, outcomes[2].Succeeded())
	assert.ErrorIs(t, outcomes[2].Err, kerrors.ErrEmptyPrompt)
}

func TestBuild_DefaultStyle(t *testing.T) {
	f := newFixture(t, false, build.WithDefaultStyle("zenith"))

	res, err := f.service.Build(testContext(), build.Request{Prompt: "Build a chat app"})
	require.NoError(t, err)
	assert.Equal(t, "zenith", res.Plan.Style)

	res, err = f.service.Build(testContext(), build.Request{Prompt: "Build a chat app style:genesis"})
	require.NoError(t, err)
	assert.Equal(t, "genesis", res.Plan.Style, "prompt tag beats configured default")

	res, err = f.service.Build(testContext(), build.Request{Prompt: "Build a chat app style:genesis", Style: "sentinel"})
	require.NoError(t, err)
	assert.Equal(t, "sentinel", res.Plan.Style, "request style beats prompt tag")
}

func TestBuild_UnknownStyleIsLogged(t *testing.T) {
	tests := []struct {
		name      string
		req       build.Request
		wantStyle string
		requested string
	}{
		{"request style", build.Request{Prompt: "Build a todo app", Style: "nonexistent-style"}, "hyperforge", "nonexistent-style"},
		{"prompt tag", build.Request{Prompt: "Build a todo app style:bogus"}, "hyperforge", "bogus"},
		{"unknown request style keeps a known tag", build.Request{Prompt: "Build a todo app style:artisan", Style: "bogus"}, "artisan", "bogus"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, false)

			res, err := f.service.Build(testContext(), tc.req)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStyle, res.Plan.Style)
			assert.Equal(t, tc.wantStyle, res.Style.Name)

			var warnings []domain.LogEntry
			for _, e := range res.Logs {
				if e.Phase == constants.PhaseParse && e.Severity == constants.SeverityWarning {
					warnings = append(warnings, e)
				}
			}
			require.Len(t, warnings, 1)
			assert.Equal(t, "unknown style, using default", warnings[0].Message)
			assert.Equal(t, tc.requested, warnings[0].Detail["requested"])
			assert.Equal(t, tc.wantStyle, warnings[0].Detail["fallback"])
		})
	}

	t.Run("known style logs nothing", func(t *testing.T) {
		f := newFixture(t, false)
		res, err := f.service.Build(testContext(), build.Request{Prompt: "Build a todo app", Style: "zenith"})
		require.NoError(t, err)
		for _, e := range res.Logs {
			assert.False(t, e.Phase == constants.PhaseParse && e.Severity == constants.SeverityWarning)
		}
	})
}
