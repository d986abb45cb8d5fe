// Package cache 提供基于键值存储的泛型缓存实现.
//
// 值使用 sonic 序列化为 JSON 后写入 KV，并按需设置 TTL.
// 同一进程内对同一个键的并发回源通过 singleflight 合并.
//
// 基本用法:
//
//	c := cache.New(kvClient, cache.Options{Prefix: "sv", Name: "meta"})
//
//	rec, err := cache.GetOrSet(ctx, c, c.Key("files", "meta", ws, gen, id), time.Minute,
//		func(ctx context.Context) (model.FileRecord, error) {
//			return repo.Get(ctx, ws, id)
//		})
//
// 列表类缓存通过代际令牌整体失效：键中包含 Generation 返回的令牌，
// 写操作调用 Bump 更换令牌，旧键不再被读取并随 TTL 过期.
//
// 缓存未命中返回 ErrMiss；KV 故障时 GetOrSet 退化为直接回源.
package cache

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/oklog/ulid"
	"golang.org/x/sync/singleflight"

	"github.com/yeisme/sharevault/pkg/internal/storage/kv"
	nlog "github.com/yeisme/sharevault/pkg/log"
	"github.com/yeisme/sharevault/pkg/metrics"
)

// ErrMiss 缓存未命中.
var ErrMiss = errors.New("cache: miss")

// Options 缓存选项.
type Options struct {
	Prefix   string // 所有键的公共前缀
	Name     string // 指标中的缓存名称
	Disabled bool   // 为 true 时所有读取都回源
}

// Cache 基于KV存储的缓存实现.
type Cache struct {
	store kv.Store
	opts  Options
	group singleflight.Group
}

// New 创建一个新的缓存实例，store 为 nil 时等同于禁用.
func New(store kv.Store, opts Options) *Cache {
	if store == nil {
		opts.Disabled = true
	}

	return &Cache{store: store, opts: opts}
}

// Enabled 返回缓存是否生效.
func (c *Cache) Enabled() bool {
	return c != nil && !c.opts.Disabled
}

// Key 用冒号拼接前缀与各段.
func (c *Cache) Key(parts ...string) string {
	if c.opts.Prefix == "" {
		return strings.Join(parts, ":")
	}

	return c.opts.Prefix + ":" + strings.Join(parts, ":")
}

// Get 泛型获取缓存值.
func Get[T any](ctx context.Context, c *Cache, key string) (T, error) {
	var zero T

	if !c.Enabled() {
		return zero, ErrMiss
	}

	data, err := c.store.Get(ctx, key)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return zero, ErrMiss
	}

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
	if !c.Enabled() {
		return nil
	}

	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return c.store.Set(ctx, key, data, ttl)
}

// Delete 删除缓存键.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() {
		return nil
	}

	var errs []error
	for _, key := range keys {
		errs = append(errs, c.store.Delete(ctx, key))
	}

	return errors.Join(errs...)
}

// GetOrSet 获取缓存值，未命中时调用 load 回源并写回缓存.
// 缓存读写失败只记录日志，不影响返回值.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if !c.Enabled() {
		return load(ctx)
	}

	value, err := Get[T](ctx, c, key)
	if err == nil {
		metrics.ObserveCache(c.opts.Name, true)
		return value, nil
	}

	metrics.ObserveCache(c.opts.Name, false)

	if !errors.Is(err, ErrMiss) {
		nlog.Logger().Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		loaded, err := load(ctx)
		if err != nil {
			return loaded, err
		}

		if setErr := Set(ctx, c, key, loaded, ttl); setErr != nil {
			nlog.Logger().Warn().Err(setErr).Str("key", key).Msg("cache write failed")
		}

		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return v.(T), nil
}

// Generation 返回作用域当前的代际令牌，不存在时创建.
func (c *Cache) Generation(ctx context.Context, scope string) (string, error) {
	if !c.Enabled() {
		return "", nil
	}

	key := c.Key("gen", scope)

	data, err := c.store.Get(ctx, key)
	if err == nil {
		return string(data), nil
	}

	if !errors.Is(err, kv.ErrKeyNotFound) {
		return "", err
	}

	return c.bump(ctx, key)
}

// Bump 更换作用域的代际令牌，使基于旧令牌的键全部失效.
func (c *Cache) Bump(ctx context.Context, scope string) error {
	if !c.Enabled() {
		return nil
	}

	_, err := c.bump(ctx, c.Key("gen", scope))

	return err
}

func (c *Cache) bump(ctx context.Context, key string) (string, error) {
	token := strings.ToLower(ulid.MustNew(ulid.Now(), rand.Reader).String())
	if err := c.store.Set(ctx, key, []byte(token), 0); err != nil {
		return "", err
	}

	return token, nil
}

// Clear 删除当前前缀下的所有键.
func (c *Cache) Clear(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	keys, err := c.store.Keys(ctx, c.Key("*"))
	if err != nil {
		return err
	}

	return c.Delete(ctx, keys...)
}
