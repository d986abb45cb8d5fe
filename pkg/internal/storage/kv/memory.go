package kv

import (
	"context"
	"sync"
	"time"

	"github.com/yeisme/sharevault/pkg/configs"
)

type memoryEntry struct {
	value    []byte
	expireAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}

// MemoryKV 基于 sync.Map 的内存 KV 实现，过期键在访问时惰性删除.
type MemoryKV struct {
	data sync.Map // key -> memoryEntry
	now  func() time.Time
}

// NewMemoryKV 创建内存 KV 实例.
func NewMemoryKV(_ context.Context, _ *configs.KVConfig) (Store, error) {
	return &MemoryKV{now: time.Now}, nil
}

func (m *MemoryKV) load(key string) (memoryEntry, bool) {
	v, ok := m.data.Load(key)
	if !ok {
		return memoryEntry{}, false
	}

	e, _ := v.(memoryEntry)
	if e.expired(m.now()) {
		m.data.CompareAndDelete(key, v)

		return memoryEntry{}, false
	}

	return e, true
}

// Get 获取键的值.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := m.load(key)
	if !ok {
		return nil, ErrKeyNotFound
	}

	return cloneBytes(e.value), nil
}

// Set 设置键的值.
func (m *MemoryKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{value: cloneBytes(value)}
	if ttl > 0 {
		e.expireAt = m.now().Add(ttl)
	}

	m.data.Store(key, e)

	return nil
}

// Delete 删除键.
func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.data.Delete(key)
	return nil
}

// Exists 检查键是否存在.
func (m *MemoryKV) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.load(key)
	return ok, nil
}

// Keys 获取匹配的键.
func (m *MemoryKV) Keys(_ context.Context, pattern string) ([]string, error) {
	keys := make([]string, 0)

	m.data.Range(func(k, _ any) bool {
		key, ok := k.(string)
		if !ok {
			return true
		}

		if _, live := m.load(key); live && matchKey(pattern, key) {
			keys = append(keys, key)
		}

		return true
	})

	return keys, nil
}

// Ping 内存实现始终可用.
func (m *MemoryKV) Ping(context.Context) error { return nil }

// Close 关闭存储（内存实现无需操作）.
func (m *MemoryKV) Close() error {
	return nil
}

func init() {
	RegisterFactory(configs.KVTypeMemory, NewMemoryKV)
}
