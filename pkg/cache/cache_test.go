package cache_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sloopymg1/ghana-creative-platform/pkg/cache"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/kv"
)

// testItem 测试用的缓存值.
type testItem struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func newCache(t testing.TB, ns string) (*cache.Cache, kv.KVStore) {
	t.Helper()

	store, err := kv.NewMemoryKV(context.Background(), nil)
	require.NoError(t, err)

	return cache.NewCache(store, ns), store
}

// TestCacheGetSet 测试读写与命名空间前缀.
func TestCacheGetSet(t *testing.T) {
	c, store := newCache(t, "recommend")
	ctx := context.Background()

	_, err := cache.Get[testItem](ctx, c, "missing")
	require.ErrorIs(t, err, kv.ErrKeyNotFound)

	item := testItem{ID: "c1", Title: "Adowa", Tags: []string{"dance"}}
	require.NoError(t, cache.Set(ctx, c, "item:c1", item, 0))

	got, err := cache.Get[testItem](ctx, c, "item:c1")
	require.NoError(t, err)
	assert.Equal(t, item, got)

	raw, err := store.Exists(ctx, "recommend:item:c1")
	require.NoError(t, err)
	assert.True(t, raw, "键应带命名空间前缀")

	ok, err := c.Exists(ctx, "item:c1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "item:c1"))

	ok, err = c.Exists(ctx, "item:c1")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestGetOrSet 测试命中与未命中.
func TestGetOrSet(t *testing.T) {
	c, _ := newCache(t, "")
	ctx := context.Background()

	calls := 0
	getter := func() ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	v, hit, err := cache.GetOrSet(ctx, c, "k", getter, time.Minute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"a", "b"}, v)

	v, hit, err = cache.GetOrSet(ctx, c, "k", getter, time.Minute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a", "b"}, v)
	assert.Equal(t, 1, calls)
}

// TestGetOrSetGetterError 测试回源错误原样返回且不写缓存.
func TestGetOrSetGetterError(t *testing.T) {
	c, _ := newCache(t, "x")
	ctx := context.Background()
	boom := errors.New("getter error")

	_, hit, err := cache.GetOrSet(ctx, c, "k", func() (int, error) { return 0, boom }, 0)
	require.ErrorIs(t, err, boom)
	assert.False(t, hit)

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestGetOrSetConcurrent 测试并发未命中时只回源一次.
func TestGetOrSetConcurrent(t *testing.T) {
	c, _ := newCache(t, "x")
	ctx := context.Background()

	var (
		calls   atomic.Int32
		release = make(chan struct{})
		wg      sync.WaitGroup
	)

	getter := func() (int, error) {
		calls.Add(1)
		<-release

		return 42, nil
	}

	const n = 8
	results := make([]int, n)

	for i := range n {
		wg.Add(1)

		go func() {
			defer wg.Done()

			v, _, err := cache.GetOrSet(ctx, c, "hot", getter, 0)
			assert.NoError(t, err)

			results[i] = v
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(n))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))

	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

// TestClear 测试只清理自己的命名空间.
func TestClear(t *testing.T) {
	c, store := newCache(t, "trending")
	ctx := context.Background()

	for i := range 3 {
		require.NoError(t, cache.Set(ctx, c, fmt.Sprintf("k%d", i), i, 0))
	}

	require.NoError(t, store.Set(ctx, "other:k", []byte("1"), 0))
	require.NoError(t, c.Clear(ctx))

	keys, err := store.Keys(ctx, "*")
	require.NoError(t, err)
	assert.Equal(t, []string{"other:k"}, keys)
}

// TestKey 测试键稳定且区分片段.
func TestKey(t *testing.T) {
	assert.Equal(t, cache.Key("similar", "c1", 10), cache.Key("similar", "c1", 10))
	assert.NotEqual(t, cache.Key("similar", "c1", 10), cache.Key("similar", "c1", 5))
	assert.NotEqual(t, cache.Key("ab", "c"), cache.Key("a", "bc"))
}

// BenchmarkGetOrSet 基准测试缓存命中路径.
func BenchmarkGetOrSet(b *testing.B) {
	c, _ := newCache(b, "bench")
	ctx := context.Background()
	item := testItem{ID: "c1", Title: "Kente", Tags: []string{"crafts", "weaving"}}

	_ = cache.Set(ctx, c, "item", item, 0)

	b.ResetTimer()

	for b.Loop() {
		_, _, _ = cache.GetOrSet(ctx, c, "item", func() (testItem, error) { return item, nil }, 0)
	}
}
