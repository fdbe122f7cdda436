// Package record persists build lifecycle records: one directory per project
// holding project.json, logs.jsonl, and artifact.json.
//
// Writes are atomic (write-then-rename) and every operation on a project
// directory holds that project's file lock.
package record

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mrz1836/kodarch/internal/clock"
	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/ctxutil"
	"github.com/mrz1836/kodarch/internal/domain"
	kerrors "github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/flock"
	"github.com/mrz1836/kodarch/internal/fsutil"
	"github.com/mrz1836/kodarch/internal/workspace"
)

const lockFileName = ".record.lock"

// Store defines the persistence operations used by the build service.
type Store interface {
	// CreateProject persists a new record. Returns ErrSessionExists if the ID is taken.
	CreateProject(ctx context.Context, rec *domain.ProjectRecord) error

	// GetProject loads a record. Returns ErrRecordNotFound if missing.
	GetProject(ctx context.Context, id string) (*domain.ProjectRecord, error)

	// ListProjects returns every readable record, oldest first.
	ListProjects(ctx context.Context) ([]*domain.ProjectRecord, error)

	// Transition moves a record to next. Returns ErrInvalidTransition for an
	// illegal lifecycle step.
	Transition(ctx context.Context, id string, next constants.BuildStatus, mutate func(*domain.ProjectRecord)) (*domain.ProjectRecord, error)

	// AppendLog appends one log record.
	AppendLog(ctx context.Context, rec domain.LogRecord) error

	// Logs returns a project's log records in sequence order.
	Logs(ctx context.Context, projectID string) ([]domain.LogRecord, error)

	// SaveArtifact persists the artifact record of a completed build.
	SaveArtifact(ctx context.Context, rec *domain.ArtifactRecord) error

	// GetArtifact loads the artifact record. Returns ErrRecordNotFound if missing.
	GetArtifact(ctx context.Context, projectID string) (*domain.ArtifactRecord, error)
}

// FileStore implements Store on the local file system.
type FileStore struct {
	baseDir string
	clock   clock.Clock
}

// Compile-time interface check.
var _ Store = (*FileStore)(nil)

// Option configures a FileStore.
type Option func(*FileStore)

// WithClock sets the clock used for UpdatedAt timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *FileStore) {
		s.clock = c
	}
}

// NewFileStore creates a FileStore. An empty baseDir uses ~/.kodarch/records.
func NewFileStore(baseDir string, opts ...Option) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		baseDir = filepath.Join(home, constants.KodarchHome, constants.RecordsDir)
	}
	s := &FileStore{baseDir: baseDir, clock: clock.RealClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateProject persists a new project record.
func (s *FileStore) CreateProject(ctx context.Context, rec *domain.ProjectRecord) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if err := workspace.ValidateName(rec.ID); err != nil {
		return fmt.Errorf("failed to create record '%s': %w", rec.ID, err)
	}

	file := s.file(rec.ID, constants.ProjectRecordFileName)
	if _, err := os.Stat(file); err == nil {
		return fmt.Errorf("failed to create record '%s': %w", rec.ID, kerrors.ErrSessionExists)
	}

	return s.withLock(ctx, rec.ID, func() error {
		rec.SchemaVersion = constants.RecordSchemaVersion
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = s.clock.Now()
		}
		if rec.UpdatedAt.IsZero() {
			rec.UpdatedAt = rec.CreatedAt
		}
		if rec.Status == "" {
			rec.Status = constants.BuildStatusPending
		}
		return writeJSON(file, rec)
	})
}

// GetProject loads a project record.
func (s *FileStore) GetProject(ctx context.Context, id string) (*domain.ProjectRecord, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := workspace.ValidateName(id); err != nil {
		return nil, fmt.Errorf("failed to read record '%s': %w", id, err)
	}
	if err := s.requireDir(id); err != nil {
		return nil, err
	}

	var rec *domain.ProjectRecord
	err := s.withLock(ctx, id, func() error {
		var err error
		rec, err = s.readProject(id)
		return err
	})
	return rec, err
}

// ListProjects returns every readable project record, oldest first.
func (s *FileStore) ListProjects(ctx context.Context) ([]*domain.ProjectRecord, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.ProjectRecord{}, nil
		}
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	records := make([]*domain.ProjectRecord, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := ctxutil.Canceled(ctx); err != nil {
			return nil, err
		}
		rec, err := s.GetProject(ctx, entry.Name())
		if err != nil {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// Transition moves a record to next and applies mutate before saving.
func (s *FileStore) Transition(ctx context.Context, id string, next constants.BuildStatus, mutate func(*domain.ProjectRecord)) (*domain.ProjectRecord, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := workspace.ValidateName(id); err != nil {
		return nil, fmt.Errorf("failed to update record '%s': %w", id, err)
	}
	if err := s.requireDir(id); err != nil {
		return nil, err
	}

	var rec *domain.ProjectRecord
	err := s.withLock(ctx, id, func() error {
		current, err := s.readProject(id)
		if err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(next) {
			return fmt.Errorf("record '%s' %s -> %s: %w", id, current.Status, next, kerrors.ErrInvalidTransition)
		}
		current.Status = next
		current.UpdatedAt = s.clock.Now()
		if mutate != nil {
			mutate(current)
		}
		if err := writeJSON(s.file(id, constants.ProjectRecordFileName), current); err != nil {
			return err
		}
		rec = current
		return nil
	})
	return rec, err
}

// AppendLog appends one JSON line to logs.jsonl.
func (s *FileStore) AppendLog(ctx context.Context, rec domain.LogRecord) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if err := workspace.ValidateName(rec.ProjectID); err != nil {
		return fmt.Errorf("failed to append log for '%s': %w", rec.ProjectID, err)
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode log record: %w", err)
	}
	line = append(line, '\n')

	return s.withLock(ctx, rec.ProjectID, func() error {
		f, err := os.OpenFile(s.file(rec.ProjectID, constants.LogRecordsFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, fsutil.FilePerm) //#nosec G304 -- path is constructed from a validated ID
		if err != nil {
			return fmt.Errorf("failed to open log records: %w", err)
		}
		if _, err := f.Write(line); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to append log record: %w", err)
		}
		return f.Close()
	})
}

// Logs returns the project's log records sorted by sequence number.
func (s *FileStore) Logs(ctx context.Context, projectID string) ([]domain.LogRecord, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := workspace.ValidateName(projectID); err != nil {
		return nil, fmt.Errorf("failed to read logs for '%s': %w", projectID, err)
	}
	if err := s.requireDir(projectID); err != nil {
		return nil, err
	}

	var records []domain.LogRecord
	err := s.withLock(ctx, projectID, func() error {
		f, err := os.Open(s.file(projectID, constants.LogRecordsFileName)) //#nosec G304 -- path is constructed from a validated ID
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("failed to open log records: %w", err)
		}
		defer func() { _ = f.Close() }()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			if len(scanner.Bytes()) == 0 {
				continue
			}
			var rec domain.LogRecord
			if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
				return fmt.Errorf("log records for '%s': %w", projectID, kerrors.ErrRecordCorrupted)
			}
			records = append(records, rec)
		}
		return scanner.Err()
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].Seq < records[j].Seq })
	return records, nil
}

// SaveArtifact persists artifact.json.
func (s *FileStore) SaveArtifact(ctx context.Context, rec *domain.ArtifactRecord) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if err := workspace.ValidateName(rec.ProjectID); err != nil {
		return fmt.Errorf("failed to save artifact for '%s': %w", rec.ProjectID, err)
	}
	return s.withLock(ctx, rec.ProjectID, func() error {
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = s.clock.Now()
		}
		return writeJSON(s.file(rec.ProjectID, constants.ArtifactRecordFileName), rec)
	})
}

// GetArtifact loads artifact.json.
func (s *FileStore) GetArtifact(ctx context.Context, projectID string) (*domain.ArtifactRecord, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := workspace.ValidateName(projectID); err != nil {
		return nil, fmt.Errorf("failed to read artifact for '%s': %w", projectID, err)
	}
	if err := s.requireDir(projectID); err != nil {
		return nil, err
	}

	var rec domain.ArtifactRecord
	err := s.withLock(ctx, projectID, func() error {
		return readJSON(s.file(projectID, constants.ArtifactRecordFileName), projectID, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *FileStore) readProject(id string) (*domain.ProjectRecord, error) {
	var rec domain.ProjectRecord
	if err := readJSON(s.file(id, constants.ProjectRecordFileName), id, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *FileStore) dir(id string) string {
	return filepath.Join(s.baseDir, id)
}

func (s *FileStore) file(id, name string) string {
	return filepath.Join(s.dir(id), name)
}

// requireDir returns ErrRecordNotFound when the project has no directory,
// so reads never create one.
func (s *FileStore) requireDir(id string) error {
	if _, err := os.Stat(s.dir(id)); os.IsNotExist(err) {
		return fmt.Errorf("record '%s': %w", id, kerrors.ErrRecordNotFound)
	}
	return nil
}

// withLock runs fn while holding the project's exclusive file lock.
func (s *FileStore) withLock(ctx context.Context, id string, fn func() error) error {
	if err := fsutil.EnsureDir(s.dir(id)); err != nil {
		return fmt.Errorf("failed to create record directory: %w", err)
	}
	lock, err := flock.Acquire(ctx, s.file(id, lockFileName), constants.LockTimeout)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()
	return fn()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return fsutil.AtomicWrite(path, data, fsutil.FilePerm)
}

func readJSON(path, id string, v any) error {
	data, err := os.ReadFile(path) //#nosec G304 -- path is constructed from a validated ID
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("record '%s': %w", id, kerrors.ErrRecordNotFound)
		}
		return fmt.Errorf("failed to read record '%s': %w", id, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("record '%s' has a corrupted %s: %w. Consider deleting %s/", id, filepath.Base(path), kerrors.ErrRecordCorrupted, filepath.Dir(path))
	}
	return nil
}
