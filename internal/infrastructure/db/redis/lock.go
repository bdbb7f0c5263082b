package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	leaseTTL      = 30 * time.Second
	retryInterval = 50 * time.Millisecond
)

// releaseScript deletes the lease only while we still own it, so an expired
// lease re-acquired by another process is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// EntityLocker serializes per-entity operations across processes with Redis
// leases. Key format: lock:<entity_key>
type EntityLocker struct {
	client *redis.Client
}

// NewEntityLocker creates an EntityLocker wrapping the given Redis client.
func NewEntityLocker(client *redis.Client) *EntityLocker {
	return &EntityLocker{client: client}
}

// Acquire blocks until the key's lease is held or ctx is done. The returned
// release function must always be called.
func (l *EntityLocker) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := "lock:" + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, leaseTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lease %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire lease %s: %w", key, ctx.Err())
		case <-time.After(retryInterval):
		}
	}

	release := func() {
		// Release uses a background context: the operation's ctx may already
		// be done by the time the deferred release runs.
		releaseCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		_, _ = releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Result()
	}
	return release, nil
}
