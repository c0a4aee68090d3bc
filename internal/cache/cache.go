// Package cache provides the short-lived response cache used by the price
// feed. Entries are keyed by string, expire independently and are stored
// JSON-encoded so the in-memory and Redis backends behave the same.
package cache

import (
	"context"
	"time"

	"hypeindex/pkg/errors"
)

// Store is a TTL key-value store
type Store interface {
	// Get decodes the value for key into dest or returns errors.ErrCacheMiss
	Get(ctx context.Context, key string, dest interface{}) error
	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Delete removes keys; missing keys are ignored
	Delete(ctx context.Context, keys ...string) error
	// Clear removes every key starting with prefix
	Clear(ctx context.Context, prefix string) error
	// Health reports backend reachability
	Health(ctx context.Context) error
}

// Outcome describes how GetOrLoad produced its value
type Outcome string

const (
	OutcomeHit   Outcome = "hit"
	OutcomeMiss  Outcome = "miss"
	OutcomeError Outcome = "error" // backend failed, value loaded directly
)

// GetOrLoad returns the cached value for key, or calls load and stores its
// result for ttl. Values for which keep returns false are returned but not
// stored. Backend failures never hide a successful load.
func GetOrLoad[T any](
	ctx context.Context,
	store Store,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
	keep func(T) bool,
) (T, Outcome, error) {
	var cached T
	err := store.Get(ctx, key, &cached)
	if err == nil {
		return cached, OutcomeHit, nil
	}

	outcome := OutcomeMiss
	if !errors.Is(err, errors.ErrCacheMiss) {
		outcome = OutcomeError
	}

	value, err := load(ctx)
	if err != nil {
		return value, outcome, err
	}

	if keep == nil || keep(value) {
		if setErr := store.Set(ctx, key, value, ttl); setErr != nil {
			outcome = OutcomeError
		}
	}
	return value, outcome, nil
}
