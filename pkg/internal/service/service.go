// Package service 实现共享工作区的业务逻辑：文件生命周期、列表、账户、同步与对账.
// 服务不处理 HTTP 细节，错误以本包的哨兵错误返回，由 handle 层映射.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/yeisme/sharevault/pkg/cache"
	"github.com/yeisme/sharevault/pkg/configs"
	ctxPkg "github.com/yeisme/sharevault/pkg/context"
	"github.com/yeisme/sharevault/pkg/internal/storage/blob"
	"github.com/yeisme/sharevault/pkg/internal/storage/db"
	"github.com/yeisme/sharevault/pkg/internal/storage/kv"
	nlog "github.com/yeisme/sharevault/pkg/log"
	"github.com/yeisme/sharevault/pkg/queue"
)

// DefaultWorkspace 未配置工作区时使用.
const DefaultWorkspace = "default"

// Deps 服务依赖.Cache 与 Events 可以为 nil.
type Deps struct {
	DB        *db.Client
	Blob      blob.Store
	Cache     *cache.Cache
	Events    *queue.Emitter
	Workspace string
	ListTTL   time.Duration
	MetaTTL   time.Duration
	// Now 仅测试中替换
	Now func() time.Time
}

func (d Deps) normalize() Deps {
	if d.Workspace == "" {
		d.Workspace = DefaultWorkspace
	}

	if d.Now == nil {
		d.Now = time.Now
	}

	if d.Cache == nil {
		d.Cache = cache.New(nil, cache.Options{})
	}

	return d
}

// DepsFromContext 从 context 中的存储管理器组装依赖.
func DepsFromContext(c context.Context) Deps {
	mgr := ctxPkg.GetManager(c)

	// 依赖缺失说明启动流程有误，直接退出，调用方无需再判空
	if mgr == nil || mgr.DB == nil || mgr.Blob == nil {
		nlog.Logger().Fatal().Msg("storage clients not initialized")
	}

	cfg := configs.GetConfig()

	d := Deps{
		DB:        mgr.DB,
		Blob:      mgr.Blob,
		Workspace: cfg.Workspace.Default,
		ListTTL:   cfg.Cache.ListTTL,
		MetaTTL:   cfg.Cache.MetaTTL,
		Cache:     sharedCache(mgr.KV, cfg.Cache),
	}

	if mgr.MQ != nil {
		d.Events = queue.NewEmitter(mgr.MQ, cfg.Events)
	}

	return d.normalize()
}

var caches sync.Map // *kv.Client -> *cache.Cache

// sharedCache 每个 KV 客户端复用同一个 Cache，使 singleflight 跨请求生效.
func sharedCache(client *kv.Client, cfg configs.CacheConfig) *cache.Cache {
	if client == nil || !cfg.Enabled {
		return cache.New(nil, cache.Options{})
	}

	if c, ok := caches.Load(client); ok {
		return c.(*cache.Cache)
	}

	c, _ := caches.LoadOrStore(client, cache.New(client, cache.Options{Prefix: cfg.Prefix, Name: "files"}))

	return c.(*cache.Cache)
}
