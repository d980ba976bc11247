// Package cache 提供基于键值存储的泛型缓存实现.
//
// 值使用 sonic 编码为 JSON，所有键都带有 Cache 的命名空间前缀，
// 同一进程内对同一个键的并发回源通过 singleflight 合并。
//
// 基本用法:
//
//	c := cache.NewCache(kvClient, "recommend")
//
//	items, hit, err := cache.GetOrSet(ctx, c, cache.Key("popular", limit), func() ([]content.Item, error) {
//	    return loadPopular(ctx, limit)
//	}, 10*time.Minute)
//
//	// 内容变更后清理整个命名空间
//	_ = c.Clear(ctx)
//
// 缓存未命中不视为错误；写缓存失败时仍返回回源得到的值.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/kv"
)

// Cache 基于 KV 存储的缓存.
type Cache struct {
	kvStore   kv.KVStore
	namespace string
	group     singleflight.Group
}

// NewCache 创建缓存实例，namespace 为空时不加前缀.
func NewCache(kvStore kv.KVStore, namespace string) *Cache {
	return &Cache{
		kvStore:   kvStore,
		namespace: namespace,
	}
}

// Key 将若干片段拼接后取 xxhash，得到定长缓存键.
func Key(parts ...any) string {
	var b strings.Builder

	for i, p := range parts {
		if i > 0 {
			b.WriteByte('|')
		}

		fmt.Fprint(&b, p)
	}

	return strconv.FormatUint(xxhash.Sum64String(b.String()), 16)
}

func (c *Cache) key(k string) string {
	if c.namespace == "" {
		return k
	}

	return c.namespace + ":" + k
}

// Get 泛型获取缓存值.
func Get[T any](ctx context.Context, c *Cache, key string) (T, error) {
	var zero T

	data, err := c.kvStore.Get(ctx, c.key(key))
	if err != nil {
		return zero, err
	}

	var value T
	if err := sonic.Unmarshal(data, &value); err != nil {
		return zero, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return value, nil
}

// Set 泛型设置缓存值.
func Set[T any](ctx context.Context, c *Cache, key string, value T, ttl time.Duration) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return c.kvStore.Set(ctx, c.key(key), data, ttl)
}

// Delete 删除缓存键.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.kvStore.Delete(ctx, c.key(key))
}

// Exists 检查缓存键是否存在.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	return c.kvStore.Exists(ctx, c.key(key))
}

// GetOrSet 获取缓存值，未命中时调用 getter 回源并写回。第二个返回值表示是否命中.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, getter func() (T, error), ttl time.Duration) (T, bool, error) {
	if value, err := Get[T](ctx, c, key); err == nil {
		return value, true, nil
	}

	v, err, _ := c.group.Do(c.key(key), func() (any, error) {
		value, err := getter()
		if err != nil {
			return nil, err
		}

		// 写缓存失败不影响返回值
		_ = Set(ctx, c, key, value, ttl)

		return value, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}

	return v.(T), false, nil
}

// Clear 删除命名空间下的全部键.
func (c *Cache) Clear(ctx context.Context) error {
	keys, err := c.kvStore.Keys(ctx, c.key("*"))
	if err != nil {
		return err
	}

	for _, key := range keys {
		if delErr := c.kvStore.Delete(ctx, key); delErr != nil {
			return delErr
		}
	}

	return nil
}
