package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypeindex/pkg/clock"
	"hypeindex/pkg/errors"
)

var epoch = time.Date(2026, time.October, 16, 15, 0, 0, 0, time.UTC)

func TestMemoryStore_ExpiresPerKey(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(epoch)
	store := NewMemoryStore(clk)

	require.NoError(t, store.Set(ctx, "price:TSLA", []int{1, 2}, time.Minute))
	clk.Advance(30 * time.Second)
	require.NoError(t, store.Set(ctx, "price:NVDA", []int{3}, time.Minute))

	var got []int
	require.NoError(t, store.Get(ctx, "price:TSLA", &got))
	assert.Equal(t, []int{1, 2}, got)

	clk.Advance(30 * time.Second)
	err := store.Get(ctx, "price:TSLA", &got)
	assert.True(t, errors.Is(err, errors.ErrCacheMiss), "TSLA expired at exactly ttl")

	require.NoError(t, store.Get(ctx, "price:NVDA", &got))
	assert.Equal(t, []int{3}, got)

	clk.Advance(30 * time.Second)
	assert.ErrorIs(t, store.Get(ctx, "price:NVDA", &got), errors.ErrCacheMiss)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(clock.NewFake(epoch))

	require.NoError(t, store.Set(ctx, "price:A", 1, time.Minute))
	require.NoError(t, store.Set(ctx, "price:B", 2, time.Minute))
	require.NoError(t, store.Set(ctx, "other:C", 3, time.Minute))

	require.NoError(t, store.Delete(ctx, "price:A", "missing"))
	var v int
	assert.ErrorIs(t, store.Get(ctx, "price:A", &v), errors.ErrCacheMiss)

	require.NoError(t, store.Clear(ctx, "price:"))
	assert.ErrorIs(t, store.Get(ctx, "price:B", &v), errors.ErrCacheMiss)
	require.NoError(t, store.Get(ctx, "other:C", &v))
	assert.Equal(t, 3, v)
	assert.NoError(t, store.Health(ctx))
}

func TestGetOrLoad_LoadsOnceWithinTTL(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(epoch)
	store := NewMemoryStore(clk)

	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{fmt.Sprintf("v%d", calls)}, nil
	}

	v, outcome, err := GetOrLoad(ctx, store, "k", time.Minute, load, nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMiss, outcome)
	assert.Equal(t, []string{"v1"}, v)

	v, outcome, err = GetOrLoad(ctx, store, "k", time.Minute, load, nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeHit, outcome)
	assert.Equal(t, []string{"v1"}, v)
	assert.Equal(t, 1, calls)

	clk.Advance(time.Minute)
	v, _, err = GetOrLoad(ctx, store, "k", time.Minute, load, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, v)
	assert.Equal(t, 2, calls)
}

func TestGetOrLoad_KeepFilterSkipsStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(clock.NewFake(epoch))

	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return nil, nil
	}
	nonEmpty := func(v []string) bool { return len(v) > 0 }

	_, _, err := GetOrLoad(ctx, store, "k", time.Minute, load, nonEmpty)
	require.NoError(t, err)
	_, outcome, err := GetOrLoad(ctx, store, "k", time.Minute, load, nonEmpty)
	require.NoError(t, err)

	assert.Equal(t, OutcomeMiss, outcome)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, store.Len())
}

func TestGetOrLoad_LoadErrorNotCached(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(clock.NewFake(epoch))

	_, _, err := GetOrLoad(ctx, store, "k", time.Minute, func(context.Context) (int, error) {
		return 0, errors.ErrUpstreamMalformed
	}, nil)
	assert.ErrorIs(t, err, errors.ErrUpstreamMalformed)
	assert.Equal(t, 0, store.Len())
}

type brokenStore struct{ *MemoryStore }

func (b *brokenStore) Get(context.Context, string, interface{}) error {
	return fmt.Errorf("connection refused")
}

func TestGetOrLoad_BackendFailureStillLoads(t *testing.T) {
	ctx := context.Background()
	store := &brokenStore{MemoryStore: NewMemoryStore(clock.NewFake(epoch))}

	v, outcome, err := GetOrLoad(ctx, store, "k", time.Minute, func(context.Context) (int, error) {
		return 42, nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, OutcomeError, outcome)
}
