// Package kv 提供用于键值存储的接口和实现.
//
// 列表缓存、元数据缓存与缓存代际令牌都存放在 KV 中，
// 后端可以是进程内实现（memory、lru、groupcache）或外部服务（redis、nats）.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/yeisme/sharevault/pkg/configs"
)

// ErrKeyNotFound 键不存在或已过期.
var ErrKeyNotFound = errors.New("kv: key not found")

// Store 定义键值存储接口.
type Store interface {
	// Get 获取键的值，键不存在时返回 ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set 设置键的值，ttl<=0 表示永不过期.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete 删除键，键不存在不是错误.
	Delete(ctx context.Context, key string) error
	// Exists 检查键是否存在.
	Exists(ctx context.Context, key string) (bool, error)
	// Keys 返回匹配 glob 模式的键，空模式返回全部.
	Keys(ctx context.Context, pattern string) ([]string, error)
	// Ping 检查后端可用性.
	Ping(ctx context.Context) error
	// Close 关闭存储连接.
	Close() error
}

// Client 包装具体的 Store 并记录其类型.
type Client struct {
	Store

	kvType configs.KVType
}

// Type 返回后端类型.
func (c *Client) Type() configs.KVType {
	return c.kvType
}

// Factory 定义创建 Store 的工厂函数类型.
type Factory func(ctx context.Context, cfg *configs.KVConfig) (Store, error)

// factories 存储 KV 类型到工厂的映射.
var factories = make(map[configs.KVType]Factory)

// RegisterFactory 注册 KV 工厂函数.
func RegisterFactory(kvType configs.KVType, factory Factory) {
	factories[kvType] = factory
}

// GetRegisteredKVTypes 返回已注册的 KV 类型列表.
func GetRegisteredKVTypes() []configs.KVType {
	types := make([]configs.KVType, 0, len(factories))
	for kvType := range factories {
		types = append(types, kvType)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// New 根据配置创建 KV 客户端.
func New(ctx context.Context, cfg *configs.KVConfig) (*Client, error) {
	factory, ok := factories[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported KV type: %s", cfg.Type)
	}

	store, err := factory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create %s kv: %w", cfg.Type, err)
	}

	return &Client{Store: store, kvType: cfg.Type}, nil
}

// matchKey 使用 glob 语义匹配键，空模式匹配全部.
func matchKey(pattern, key string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	ok, err := path.Match(pattern, key)

	return err == nil && ok
}

// cloneBytes 返回值的副本，避免调用方修改内部数据.
func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)

	return out
}
