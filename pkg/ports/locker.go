package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a SessionLocker.
type UnlockFunc func(ctx context.Context) error

// SessionLocker serializes access to a session across processes, so two
// front-ends never drive and save the same session at once.
type SessionLocker interface {
	// Lock blocks until the lock is held or ctx is done. The lock expires
	// after ttl if it is never released.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
