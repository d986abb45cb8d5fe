package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/sharevault/pkg/cache"
	"github.com/yeisme/sharevault/pkg/configs"
	"github.com/yeisme/sharevault/pkg/internal/storage/kv"
)

// TestUser 测试用的用户结构体.
type TestUser struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newCache(t *testing.T) *cache.Cache {
	t.Helper()

	store, err := kv.New(context.Background(), &configs.KVConfig{Type: configs.KVTypeMemory})
	require.NoError(t, err)

	return cache.New(store, cache.Options{Prefix: "sv", Name: "test"})
}

func TestGetSet(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	_, err := cache.Get[TestUser](ctx, c, c.Key("user", "1"))
	require.ErrorIs(t, err, cache.ErrMiss)

	require.NoError(t, cache.Set(ctx, c, c.Key("user", "1"), TestUser{ID: 1, Name: "Alice"}, time.Minute))

	got, err := cache.Get[TestUser](ctx, c, c.Key("user", "1"))
	require.NoError(t, err)
	assert.Equal(t, TestUser{ID: 1, Name: "Alice"}, got)
	assert.Equal(t, "sv:user:1", c.Key("user", "1"))

	require.NoError(t, c.Delete(ctx, c.Key("user", "1")))
	_, err = cache.Get[TestUser](ctx, c, c.Key("user", "1"))
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestGetOrSet(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	var calls atomic.Int32

	load := func(context.Context) ([]string, error) {
		calls.Add(1)
		return []string{"a.txt", "b.txt"}, nil
	}

	for range 3 {
		got, err := cache.GetOrSet(ctx, c, "k", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.txt", "b.txt"}, got)
	}

	assert.Equal(t, int32(1), calls.Load())

	// 回源失败不写缓存
	_, err := cache.GetOrSet(ctx, c, "bad", time.Minute, func(context.Context) (int, error) {
		return 0, errors.New("db down")
	})
	require.Error(t, err)

	_, err = cache.Get[int](ctx, c, "bad")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestGetOrSetConcurrent(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	var (
		calls atomic.Int32
		wg    sync.WaitGroup
	)

	release := make(chan struct{})

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			v, err := cache.GetOrSet(ctx, c, "hot", time.Minute, func(context.Context) (int, error) {
				calls.Add(1)
				<-release

				return 42, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(8))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestGeneration(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	first, err := c.Generation(ctx, "default")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	again, err := c.Generation(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, c.Bump(ctx, "default"))

	bumped, err := c.Generation(ctx, "default")
	require.NoError(t, err)
	assert.NotEqual(t, first, bumped)

	other, err := c.Generation(ctx, "team")
	require.NoError(t, err)
	assert.NotEqual(t, bumped, other)
}

func TestDisabled(t *testing.T) {
	ctx := context.Background()
	c := cache.New(nil, cache.Options{})
	assert.False(t, c.Enabled())

	var calls int

	for range 2 {
		v, err := cache.GetOrSet(ctx, c, "k", time.Minute, func(context.Context) (int, error) {
			calls++
			return calls, nil
		})
		require.NoError(t, err)
		assert.Equal(t, calls, v)
	}

	assert.Equal(t, 2, calls)

	gen, err := c.Generation(ctx, "default")
	require.NoError(t, err)
	assert.Empty(t, gen)
	assert.NoError(t, c.Clear(ctx))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	require.NoError(t, cache.Set(ctx, c, c.Key("a"), 1, 0))
	require.NoError(t, cache.Set(ctx, c, c.Key("b"), 2, 0))
	require.NoError(t, c.Clear(ctx))

	_, err := cache.Get[int](ctx, c, c.Key("a"))
	assert.ErrorIs(t, err, cache.ErrMiss)
}
