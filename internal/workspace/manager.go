package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/kodarch/internal/clock"
	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/ctxutil"
	kerrors "github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/flock"
	"github.com/mrz1836/kodarch/internal/fsutil"
)

// Session is a locked, isolated directory for one build.
type Session struct {
	Info

	lock *flock.Lock
}

// Dir returns the session directory. Projects are generated inside it.
func (s *Session) Dir() string {
	return s.Path
}

// Manager creates, releases, and prunes build sessions under a root directory.
type Manager struct {
	root        string
	keep        bool
	clock       clock.Clock
	newID       func() string
	lockTimeout time.Duration
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithKeep leaves session directories on disk after Release.
func WithKeep(keep bool) ManagerOption {
	return func(m *Manager) {
		m.keep = keep
	}
}

// WithClock sets the clock used for session timestamps.
func WithClock(c clock.Clock) ManagerOption {
	return func(m *Manager) {
		m.clock = c
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) ManagerOption {
	return func(m *Manager) {
		m.newID = fn
	}
}

// WithLockTimeout bounds how long Create waits for the session lock.
func WithLockTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.lockTimeout = d
	}
}

// NewManager creates a Manager rooted at root. An empty root uses
// ~/.kodarch/workspaces.
func NewManager(root string, opts ...ManagerOption) (*Manager, error) {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, constants.KodarchHome, constants.WorkspacesDir)
	}
	m := &Manager{
		root:        root,
		clock:       clock.RealClock{},
		newID:       uuid.NewString,
		lockTimeout: constants.LockTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Root returns the workspace root directory.
func (m *Manager) Root() string {
	return m.root
}

// Create makes a new session directory and locks it. label is stored in the
// session metadata for listing.
func (m *Manager) Create(ctx context.Context, label string) (*Session, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	id := m.newID()
	if err := ValidateName(id); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	dir := filepath.Join(m.root, id)
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("failed to create session '%s': %w", id, kerrors.ErrSessionExists)
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create session directory '%s': %w", id, err)
	}

	lock, err := flock.Acquire(ctx, filepath.Join(dir, constants.SessionLockFileName), m.lockTimeout)
	if err != nil {
		_ = os.RemoveAll(dir)
		if errors.Is(err, kerrors.ErrLockTimeout) {
			return nil, fmt.Errorf("failed to lock session '%s': %w", id, kerrors.ErrSessionLocked)
		}
		return nil, fmt.Errorf("failed to lock session '%s': %w", id, err)
	}

	s := &Session{
		Info: Info{
			ID:        id,
			Path:      dir,
			Label:     label,
			PID:       os.Getpid(),
			CreatedAt: m.clock.Now(),
		},
		lock: lock,
	}
	if err := writeInfo(dir, &s.Info); err != nil {
		_ = lock.Release()
		_ = os.RemoveAll(dir)
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "workspace").
		Str("session_id", id).
		Str("path", dir).
		Msg("session created")
	return s, nil
}

// Release unlocks the session and removes its directory unless the manager
// keeps sessions. Releasing a nil session is a no-op.
func (m *Manager) Release(ctx context.Context, s *Session) error {
	if s == nil {
		return nil
	}
	logger := zerolog.Ctx(ctx).With().
		Str("component", "workspace").
		Str("session_id", s.ID).
		Logger()

	var errs []error
	if err := s.lock.Release(); err != nil {
		errs = append(errs, err)
	}
	s.lock = nil

	if m.keep {
		if err := os.Remove(filepath.Join(s.Path, constants.SessionLockFileName)); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
		logger.Debug().Str("path", s.Path).Msg("session released and kept")
		return errors.Join(errs...)
	}

	if err := os.RemoveAll(s.Path); err != nil {
		errs = append(errs, fmt.Errorf("failed to remove session '%s': %w", s.ID, err))
	}
	logger.Debug().Msg("session released and removed")
	return errors.Join(errs...)
}

// List returns the metadata of every session under the root, oldest first.
// Directories without readable metadata are skipped.
func (m *Manager) List(ctx context.Context) ([]*Info, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(m.root)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Info{}, nil
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*Info, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || ValidateName(entry.Name()) != nil {
			continue
		}
		info, err := readInfo(ctx, filepath.Join(m.root, entry.Name()))
		if err != nil {
			if ctxErr := ctxutil.Canceled(ctx); ctxErr != nil {
				return nil, ctxErr
			}
			zerolog.Ctx(ctx).Debug().Err(err).Str("session_id", entry.Name()).Msg("skipping session")
			continue
		}
		sessions = append(sessions, info)
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// Prune removes kept sessions created before cutoff. Sessions whose lock is
// still held by a running build are left alone. It returns the removed IDs.
func (m *Manager) Prune(ctx context.Context, cutoff time.Time) ([]string, error) {
	sessions, err := m.List(ctx)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, info := range sessions {
		if !info.CreatedAt.Before(cutoff) {
			continue
		}
		dir := filepath.Join(m.root, info.ID)
		lock, err := flock.Acquire(ctx, filepath.Join(dir, constants.SessionLockFileName), 0)
		if err != nil {
			if ctxErr := ctxutil.Canceled(ctx); ctxErr != nil {
				return removed, ctxErr
			}
			continue
		}
		_ = lock.Release()
		if err := os.RemoveAll(dir); err != nil {
			return removed, fmt.Errorf("failed to remove session '%s': %w", info.ID, err)
		}
		removed = append(removed, info.ID)
	}
	return removed, nil
}
