package kv

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang/groupcache"

	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
)

// genSep 分隔业务键与写入代数；groupcache 条目不可变，每次写入换一个代数即可绕开旧值.
const genSep = "\x00"

// GroupcacheKV 基于 Groupcache 的 KV 实现.
//
// 本地 data 是权威副本，groupcache 只做读缓存与对等节点间的分发.
type GroupcacheKV struct {
	cache  *groupcache.Group    // Groupcache 缓存组
	peers  *groupcache.HTTPPool // 对等节点池
	getter groupcache.Getter    // 获取器
	data   map[string][]byte    // 本地存储数据（可能带 TTL 包装）
	gen    map[string]uint64    // 每个键的写入代数
	seq    uint64
	mu     sync.RWMutex // 保护 data/gen 的读写锁
}

// groupcacheGetter 实现 groupcache.Getter 接口.
type groupcacheGetter struct {
	kv *GroupcacheKV
}

func (g *groupcacheGetter) Get(_ context.Context, key string, dest groupcache.Sink) error {
	base, _, _ := strings.Cut(key, genSep)

	g.kv.mu.RLock()
	value, exists := g.kv.data[base]
	g.kv.mu.RUnlock()

	if !exists {
		return notFound(base)
	}

	if err := dest.SetBytes(value); err != nil {
		return fmt.Errorf("failed to set bytes to sink: %w", err)
	}

	return nil
}

// groups groupcache 的组名全局唯一，重复创建同名组会 panic，这里按名复用.
var (
	groups   = make(map[string]*GroupcacheKV)
	groupsMu sync.Mutex
)

// NewGroupcacheKV 创建 Groupcache KV 实例，同名实例在进程内共享.
func NewGroupcacheKV(_ context.Context, config any) (KVStore, error) {
	gcConfig, ok := config.(*configs.GroupcacheKVConfig)
	if !ok {
		return nil, fmt.Errorf("invalid Groupcache config: %T", config)
	}

	groupsMu.Lock()
	defer groupsMu.Unlock()

	if kv, ok := groups[gcConfig.Name]; ok {
		return kv, nil
	}

	kv := &GroupcacheKV{
		data: make(map[string][]byte),
		gen:  make(map[string]uint64),
	}

	// 创建 getter
	kv.getter = &groupcacheGetter{kv: kv}

	// 创建缓存组
	kv.cache = groupcache.NewGroup(gcConfig.Name, gcConfig.CacheBytes, kv.getter)

	// 如果有对等节点，设置 HTTP 池
	if len(gcConfig.Peers) > 0 {
		kv.peers = groupcache.NewHTTPPoolOpts(gcConfig.Self, &groupcache.HTTPPoolOptions{})
		kv.peers.Set(gcConfig.Peers...)
	}

	groups[gcConfig.Name] = kv

	return kv, nil
}

// versioned 返回带代数的缓存键，键不存在时 ok 为 false.
func (g *GroupcacheKV) versioned(key string) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	gen, ok := g.gen[key]
	if !ok {
		return "", false
	}

	return key + genSep + strconv.FormatUint(gen, 10), true
}

// Get 获取键的值.
func (g *GroupcacheKV) Get(ctx context.Context, key string) ([]byte, error) {
	vkey, ok := g.versioned(key)
	if !ok {
		return nil, notFound(key)
	}

	var data []byte

	if err := g.cache.Get(ctx, vkey, groupcache.AllocatingByteSliceSink(&data)); err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	val, expired, err := open(data, time.Now())
	if err != nil {
		return nil, err
	}

	if expired {
		_ = g.Delete(ctx, key)
		return nil, notFound(key)
	}

	// 返回副本
	result := make([]byte, len(val))
	copy(result, val)

	return result, nil
}

// Set 设置键的值.
func (g *GroupcacheKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	encoded, err := seal(value, ttl, time.Now())
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.seq++
	g.data[key] = encoded
	g.gen[key] = g.seq

	return nil
}

// Delete 删除键.
func (g *GroupcacheKV) Delete(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.data, key)
	delete(g.gen, key)

	return nil
}

// Exists 检查键是否存在.
func (g *GroupcacheKV) Exists(_ context.Context, key string) (bool, error) {
	g.mu.RLock()
	raw, exists := g.data[key]
	g.mu.RUnlock()

	if !exists {
		return false, nil
	}

	_, expired, err := open(raw, time.Now())
	if err != nil {
		return false, err
	}

	return !expired, nil
}

// Keys 获取匹配模式的键.
func (g *GroupcacheKV) Keys(_ context.Context, pattern string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	now := time.Now()
	keys := make([]string, 0, len(g.data))

	for key, raw := range g.data {
		if !matchKey(pattern, key) {
			continue
		}

		if _, expired, err := open(raw, now); err == nil && expired {
			continue
		}

		keys = append(keys, key)
	}

	return keys, nil
}

// Close 关闭缓存.
func (g *GroupcacheKV) Close() error {
	// Groupcache 没有显式的关闭方法
	return nil
}

func init() {
	RegisterKVFactory(KVTypeGroupcache, NewGroupcacheKV)
}
