package locker

import (
	"context"
	"errors"
	"time"
)

// ErrLockBusy reports that the wait budget elapsed before the lock freed up.
var ErrLockBusy = errors.New("lock busy")

// Locker serializes work on a single key. Acquire blocks at most `wait`
// before giving up with ErrLockBusy; the returned release function must be
// called exactly once.
type Locker interface {
	Acquire(ctx context.Context, key string, wait time.Duration) (func(), error)
}
