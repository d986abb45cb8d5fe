package kv

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/yeisme/sharevault/pkg/configs"
)

// LRUKV 容量受限的进程内 KV，超出容量时淘汰最久未使用的键.
// 每个键可以有各自的 TTL，过期键在访问时删除.
type LRUKV struct {
	cache *lru.Cache[string, memoryEntry]
	now   func() time.Time
}

// NewLRUKV 创建 LRU KV 实例.
func NewLRUKV(_ context.Context, cfg *configs.KVConfig) (Store, error) {
	size := cfg.LRU.Size
	if size <= 0 {
		size = 1
	}

	cache, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}

	return &LRUKV{cache: cache, now: time.Now}, nil
}

func (l *LRUKV) load(key string) (memoryEntry, bool) {
	e, ok := l.cache.Get(key)
	if !ok {
		return memoryEntry{}, false
	}

	if e.expired(l.now()) {
		l.cache.Remove(key)

		return memoryEntry{}, false
	}

	return e, true
}

// Get 获取键的值.
func (l *LRUKV) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := l.load(key)
	if !ok {
		return nil, ErrKeyNotFound
	}

	return cloneBytes(e.value), nil
}

// Set 设置键的值.
func (l *LRUKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{value: cloneBytes(value)}
	if ttl > 0 {
		e.expireAt = l.now().Add(ttl)
	}

	l.cache.Add(key, e)

	return nil
}

// Delete 删除键.
func (l *LRUKV) Delete(_ context.Context, key string) error {
	l.cache.Remove(key)
	return nil
}

// Exists 检查键是否存在，不影响淘汰顺序.
func (l *LRUKV) Exists(_ context.Context, key string) (bool, error) {
	e, ok := l.cache.Peek(key)
	if !ok {
		return false, nil
	}

	return !e.expired(l.now()), nil
}

// Keys 获取匹配的键，按从旧到新排列.
func (l *LRUKV) Keys(_ context.Context, pattern string) ([]string, error) {
	now := l.now()
	keys := make([]string, 0)

	for _, key := range l.cache.Keys() {
		e, ok := l.cache.Peek(key)
		if !ok || e.expired(now) || !matchKey(pattern, key) {
			continue
		}

		keys = append(keys, key)
	}

	return keys, nil
}

// Len 返回当前键数量（含未清理的过期键）.
func (l *LRUKV) Len() int {
	return l.cache.Len()
}

// Ping 进程内实现始终可用.
func (l *LRUKV) Ping(context.Context) error { return nil }

// Close 清空缓存.
func (l *LRUKV) Close() error {
	l.cache.Purge()
	return nil
}

func init() {
	RegisterFactory(configs.KVTypeLRU, NewLRUKV)
}
