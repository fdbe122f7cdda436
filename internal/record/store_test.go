package record_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/kodarch/internal/clock"
	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/domain"
	kerrors "github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/record"
)

var start = time.Date(2025, 12, 27, 10, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // test fixture

func testContext() context.Context {
	logger := zerolog.Nop()
	return logger.WithContext(context.Background())
}

func newStore(t *testing.T) (*record.FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := record.NewFileStore(dir, record.WithClock(clock.NewSteppingClock(start, time.Minute)))
	require.NoError(t, err)
	return s, dir
}

func newRecord(id string) *domain.ProjectRecord {
	return &domain.ProjectRecord{
		ID:      id,
		OwnerID: "local",
		Prompt:  "Build a chat app",
		Plan:    domain.Plan{Project: "chat"},
		Style:   "hyperforge",
	}
}

func TestFileStore_CreateAndGet(t *testing.T) {
	s, dir := newStore(t)
	ctx := testContext()

	require.NoError(t, s.CreateProject(ctx, newRecord("p1")))
	assert.FileExists(t, filepath.Join(dir, "p1", constants.ProjectRecordFileName))

	rec, err := s.GetProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, constants.BuildStatusPending, rec.Status)
	assert.Equal(t, "chat", rec.Plan.Project)
	assert.Equal(t, start, rec.CreatedAt)
	assert.Equal(t, constants.RecordSchemaVersion, rec.SchemaVersion)

	err = s.CreateProject(ctx, newRecord("p1"))
	require.ErrorIs(t, err, kerrors.ErrSessionExists)
}

func TestFileStore_GetMissing(t *testing.T) {
	s, dir := newStore(t)

	_, err := s.GetProject(testContext(), "nope")
	require.ErrorIs(t, err, kerrors.ErrRecordNotFound)
	assert.NoDirExists(t, filepath.Join(dir, "nope"))

	_, err = s.GetArtifact(testContext(), "nope")
	require.ErrorIs(t, err, kerrors.ErrRecordNotFound)
}

func TestFileStore_InvalidID(t *testing.T) {
	s, _ := newStore(t)
	err := s.CreateProject(testContext(), newRecord("../escape"))
	require.ErrorIs(t, err, kerrors.ErrInvalidName)
}

func TestFileStore_Corrupted(t *testing.T) {
	s, dir := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bad"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad", constants.ProjectRecordFileName), []byte("{"), 0o600))

	_, err := s.GetProject(testContext(), "bad")
	require.ErrorIs(t, err, kerrors.ErrRecordCorrupted)
}

func TestFileStore_Transition(t *testing.T) {
	s, _ := newStore(t)
	ctx := testContext()
	require.NoError(t, s.CreateProject(ctx, newRecord("p1")))

	rec, err := s.Transition(ctx, "p1", constants.BuildStatusBuilding, nil)
	require.NoError(t, err)
	assert.Equal(t, constants.BuildStatusBuilding, rec.Status)

	rec, err = s.Transition(ctx, "p1", constants.BuildStatusCompleted, func(r *domain.ProjectRecord) {
		r.ArchivePath = "dist/chat-v1.0.0.zip"
	})
	require.NoError(t, err)
	assert.Equal(t, "dist/chat-v1.0.0.zip", rec.ArchivePath)
	assert.True(t, rec.UpdatedAt.After(rec.CreatedAt))

	_, err = s.Transition(ctx, "p1", constants.BuildStatusFailed, nil)
	require.ErrorIs(t, err, kerrors.ErrInvalidTransition)

	stored, err := s.GetProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, constants.BuildStatusCompleted, stored.Status)
}

func TestFileStore_Logs(t *testing.T) {
	s, _ := newStore(t)
	ctx := testContext()
	require.NoError(t, s.CreateProject(ctx, newRecord("p1")))

	logs, err := s.Logs(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, logs)

	for i, msg := range []string{"parsed", "scaffolded", "packaged"} {
		require.NoError(t, s.AppendLog(ctx, domain.LogRecord{
			ProjectID: "p1",
			Seq:       i,
			Entry:     domain.LogEntry{Phase: constants.PhaseParse, Severity: constants.SeveritySuccess, Message: msg},
		}))
	}

	logs, err = s.Logs(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "parsed", logs[0].Entry.Message)
	assert.Equal(t, 2, logs[2].Seq)
}

func TestFileStore_Artifact(t *testing.T) {
	s, _ := newStore(t)
	ctx := testContext()
	require.NoError(t, s.CreateProject(ctx, newRecord("p1")))

	require.NoError(t, s.SaveArtifact(ctx, &domain.ArtifactRecord{
		ID:          "a1",
		ProjectID:   "p1",
		Version:     "1.0.0",
		StoragePath: "dist/chat-v1.0.0.zip",
		Size:        42,
		SHA256:      "abc",
	}))

	got, err := s.GetArtifact(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Size)
	assert.Equal(t, "dist/chat-v1.0.0.zip", got.StoragePath)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestFileStore_ListProjects(t *testing.T) {
	s, dir := newStore(t)
	ctx := testContext()

	empty, err := s.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, s.CreateProject(ctx, newRecord("first")))
	require.NoError(t, s.CreateProject(ctx, newRecord("second")))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "orphan"), 0o750))

	recs, err := s.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "first", recs[0].ID)
	assert.Equal(t, "second", recs[1].ID)
}
