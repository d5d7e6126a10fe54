// Package backoff paces retries of calls that may fail transiently.
package backoff

import (
	"context"
	"fmt"
	"time"
)

// Strategy returns the wait before retry number attempt, counted from 0
type Strategy func(attempt int, start time.Duration) time.Duration

func Exponential(attempt int, start time.Duration) time.Duration {
	return start << uint(attempt)
}

func Linear(attempt int, start time.Duration) time.Duration {
	return start * time.Duration(attempt+1)
}

// ParseStrategy maps a config name to its Strategy, empty means exponential
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "exponential":
		return Exponential, nil
	case "linear":
		return Linear, nil
	}
	return nil, fmt.Errorf("unknown backoff strategy %q", name)
}

type Backoff struct {
	strategy Strategy
	start    time.Duration
	limit    time.Duration
	attempt  int
}

// New creates a Backoff whose waits never exceed limit, 0 means unbounded
func New(strategy Strategy, start, limit time.Duration) *Backoff {
	return &Backoff{strategy: strategy, start: start, limit: limit}
}

func NewExponential(start, limit time.Duration) *Backoff {
	return New(Exponential, start, limit)
}

// Next returns the upcoming wait without consuming it
func (b *Backoff) Next() time.Duration {
	d := b.strategy(b.attempt, b.start)
	if b.limit > 0 && (d > b.limit || d <= 0) {
		d = b.limit
	}
	return d
}

// Wait sleeps for Next, or returns ctx.Err() if ctx is done first
func (b *Backoff) Wait(ctx context.Context) error {
	t := time.NewTimer(b.Next())
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		b.attempt++
		return nil
	}
}

// Retry calls fn up to attempts times, waiting between calls. It returns the last error of fn,
// or ctx.Err() when ctx ends while waiting.
func Retry(ctx context.Context, b *Backoff, attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if werr := b.Wait(ctx); werr != nil {
				return werr
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
