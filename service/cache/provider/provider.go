package provider

import (
	"errors"
	"time"

	"github.com/x-xyz/settlement/base/ctx"
)

// ErrNotFound is returned by Get on a miss or an expired key
var ErrNotFound = errors.New("cache key not found")

// Provider is one cache layer storing raw bytes.
// Get reports the remaining ttl of the key so compound layers can backfill with it;
// a ttl <= 0 in Set keeps the value until it is evicted.
type Provider interface {
	Get(c ctx.Ctx, key string) (value []byte, ttl time.Duration, err error)
	Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error
	Del(c ctx.Ctx, key string) error
}
