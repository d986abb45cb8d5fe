package kv

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/groupcache"

	"github.com/yeisme/sharevault/pkg/configs"
)

var (
	groupSeq  atomic.Uint64
	poolOnce  sync.Once
	groupPool *groupcache.HTTPPool
)

type versioned struct {
	version uint64
	value   []byte // 已经过 encodeWithTTL 包装
}

// GroupcacheKV 基于 Groupcache 的 KV 实现.
// groupcache 中的条目不可变，因此每次写入都会生成新版本，
// 读取时以 "key#version" 作为 groupcache 键，旧版本自然失效.
type GroupcacheKV struct {
	group   *groupcache.Group
	data    map[string]versioned
	version uint64
	mu      sync.RWMutex
	now     func() time.Time
}

// NewGroupcacheKV 创建 Groupcache KV 实例.
func NewGroupcacheKV(_ context.Context, cfg *configs.KVConfig) (Store, error) {
	gcCfg := cfg.Groupcache

	kv := &GroupcacheKV{
		data: make(map[string]versioned),
		now:  time.Now,
	}

	// 同一进程内重复创建时组名追加序号，groupcache 不允许重名注册
	name := gcCfg.Name
	if seq := groupSeq.Add(1); seq > 1 {
		name = fmt.Sprintf("%s-%d", name, seq)
	}

	kv.group = groupcache.NewGroup(name, gcCfg.CacheBytes, groupcache.GetterFunc(kv.load))

	if len(gcCfg.Peers) > 0 {
		poolOnce.Do(func() {
			groupPool = groupcache.NewHTTPPoolOpts(gcCfg.Self, &groupcache.HTTPPoolOptions{})
			groupPool.Set(gcCfg.Peers...)
		})
	}

	return kv, nil
}

// load 是 groupcache 未命中时的回源函数.
func (g *GroupcacheKV) load(_ context.Context, versionedKey string, dest groupcache.Sink) error {
	idx := strings.LastIndexByte(versionedKey, '#')
	if idx < 0 {
		return ErrKeyNotFound
	}

	key := versionedKey[:idx]

	version, err := strconv.ParseUint(versionedKey[idx+1:], 10, 64)
	if err != nil {
		return ErrKeyNotFound
	}

	g.mu.RLock()
	entry, ok := g.data[key]
	g.mu.RUnlock()

	if !ok || entry.version != version {
		return ErrKeyNotFound
	}

	return dest.SetBytes(entry.value)
}

func (g *GroupcacheKV) current(key string) (uint64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	entry, ok := g.data[key]

	return entry.version, ok
}

// Get 获取键的值.
func (g *GroupcacheKV) Get(ctx context.Context, key string) ([]byte, error) {
	version, ok := g.current(key)
	if !ok {
		return nil, ErrKeyNotFound
	}

	var raw []byte
	if err := g.group.Get(ctx, key+"#"+strconv.FormatUint(version, 10), groupcache.AllocatingByteSliceSink(&raw)); err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, ErrKeyNotFound
		}

		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	value, expired, err := decodeWithTTL(raw, g.now())
	if err != nil {
		return nil, err
	}

	if expired {
		g.deleteVersion(key, version)
		return nil, ErrKeyNotFound
	}

	return cloneBytes(value), nil
}

func (g *GroupcacheKV) deleteVersion(key string, version uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if entry, ok := g.data[key]; ok && entry.version == version {
		delete(g.data, key)
	}
}

// Set 设置键的值.
func (g *GroupcacheKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	encoded, err := encodeWithTTL(cloneBytes(value), ttl, g.now())
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.version++
	g.data[key] = versioned{version: g.version, value: encoded}

	return nil
}

// Delete 删除键.
func (g *GroupcacheKV) Delete(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.data, key)

	return nil
}

// Exists 检查键是否存在.
func (g *GroupcacheKV) Exists(ctx context.Context, key string) (bool, error) {
	_, err := g.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}

	return err == nil, err
}

// Keys 获取匹配的键.
func (g *GroupcacheKV) Keys(_ context.Context, pattern string) ([]string, error) {
	now := g.now()

	g.mu.RLock()
	defer g.mu.RUnlock()

	keys := make([]string, 0, len(g.data))

	for key, entry := range g.data {
		if !matchKey(pattern, key) {
			continue
		}

		if _, expired, err := decodeWithTTL(entry.value, now); err == nil && !expired {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

// Stats 返回 groupcache 主缓存统计.
func (g *GroupcacheKV) Stats() groupcache.CacheStats {
	return g.group.CacheStats(groupcache.MainCache)
}

// Ping 进程内实现始终可用.
func (g *GroupcacheKV) Ping(context.Context) error { return nil }

// Close 清空本地数据，groupcache 组本身没有关闭方法.
func (g *GroupcacheKV) Close() error {
	g.mu.Lock()
	g.data = make(map[string]versioned)
	g.mu.Unlock()

	return nil
}

func init() {
	RegisterFactory(configs.KVTypeGroupcache, NewGroupcacheKV)
}
