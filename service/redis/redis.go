package redis

import (
	"errors"
	"time"

	"github.com/x-xyz/settlement/base/ctx"
)

const (
	// Forever keeps the key without expiration
	Forever time.Duration = -1
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis key not found")
	// ErrNoPool is returned when no pool is configured for the command
	ErrNoPool = errors.New("redis pool not configured")
)

// Service wraps the redis commands the engine relies on
type Service interface {
	Get(context ctx.Ctx, key string) ([]byte, error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	Exists(context ctx.Ctx, key string) (bool, error)
	Incrby(context ctx.Ctx, key string, val int) (int64, error)
	// TTL returns the remaining seconds, -1 without expiration, -2 when missing
	TTL(context ctx.Ctx, key string) (int, error)
	Del(context ctx.Ctx, ks ...string) (int, error)

	// Publish posts msg on channel and returns the number of receiving subscribers
	Publish(context ctx.Ctx, channel string, msg []byte) (int, error)
}
