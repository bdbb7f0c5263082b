package ports

import (
	"context"
	"time"
)

// Clock supplies the engine's notion of time; injected for deterministic tests.
type Clock interface {
	Now() time.Time
}

// Notifier delivers fire-and-forget messages. Implementations must not block
// the caller and their failure must never fail the triggering transition.
type Notifier interface {
	Notify(ctx context.Context, userID, message string)
}

// EntityLocker serializes operations per entity (per project id, per review
// id). Acquire blocks until the key's lease is held or ctx is done; the
// returned release function must always be called.
type EntityLocker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
