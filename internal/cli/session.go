package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/menube/pkg/domain"
	"github.com/aretw0/menube/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed console keeps a session locked.
const DefaultLockTTL = time.Hour

// Restorer is the part of the engine a session resumes into.
type Restorer interface {
	Restore(path domain.Path) error
	Snapshot() domain.Snapshot
}

// Session persists the selection of one console session.
type Session struct {
	ID     string
	store  ports.PathStore
	locker ports.SessionLocker
	logger *slog.Logger
	unlock ports.UnlockFunc
}

// NewSession binds a session ID to a store. locker may be nil.
func NewSession(id string, store ports.PathStore, locker ports.SessionLocker, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{ID: id, store: store, locker: locker, logger: logger}
}

// Acquire takes the session lock when a locker is configured.
func (s *Session) Acquire(ctx context.Context, wait time.Duration) error {
	if s.locker == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	unlock, err := s.locker.Lock(ctx, "session:"+s.ID, DefaultLockTTL)
	if err != nil {
		return fmt.Errorf("session %q is in use: %w", s.ID, err)
	}
	s.unlock = unlock
	return nil
}

// Release drops the lock taken by Acquire.
func (s *Session) Release(ctx context.Context) error {
	if s.unlock == nil {
		return nil
	}
	err := s.unlock(ctx)
	s.unlock = nil
	return err
}

// Resume restores the saved selection into r. It reports false when there
// was nothing to restore or the saved path no longer fits the menu.
func (s *Session) Resume(ctx context.Context, r Restorer) (bool, error) {
	snap, err := s.store.Load(ctx, s.ID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load session %q: %w", s.ID, err)
	}
	if err := r.Restore(snap.Path); err != nil {
		s.logger.Warn("saved path no longer matches the menu, starting fresh",
			"session_id", s.ID, "path", snap.Path.String(), "err", err)
		return false, nil
	}
	s.logger.Info("session resumed", "session_id", s.ID, "path", snap.Path.String())
	return true, nil
}

// Save stores the current selection of r.
func (s *Session) Save(ctx context.Context, r Restorer) error {
	return s.store.Save(ctx, s.ID, r.Snapshot())
}

// Reset forgets the saved selection.
func (s *Session) Reset(ctx context.Context) error {
	return s.store.Delete(ctx, s.ID)
}
