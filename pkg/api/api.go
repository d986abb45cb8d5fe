// Package api 组装 HTTP 引擎：中间件链、业务路由与指标端点.
package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/sharevault/pkg/configs"
	"github.com/yeisme/sharevault/pkg/internal/router"
	"github.com/yeisme/sharevault/pkg/internal/storage"
	"github.com/yeisme/sharevault/pkg/metrics"
	"github.com/yeisme/sharevault/pkg/middleware"
	"github.com/yeisme/sharevault/pkg/scheduler"
	"github.com/yeisme/sharevault/pkg/token"
)

// downloadPaths 文件内容按原始长度返回，不做压缩.
var downloadPaths = []string{`^` + router.APIPrefix + `/files/[^/]+$`}

// Options 引擎依赖，Scheduler 与 Tokens 可以为 nil.
type Options struct {
	Config    *configs.AppConfig
	Storage   *storage.Manager
	Scheduler *scheduler.Scheduler
	Tokens    *token.Manager
}

// NewEngine 创建注册好中间件与路由的 gin 引擎.
func NewEngine(opts Options) *gin.Engine {
	cfg := opts.Config
	engine := gin.New()

	engine.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.TracingMiddleware(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(cfg.Server),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs(downloadPaths)),
		middleware.PrometheusMiddleware(),
		middleware.BodyLimitMiddleware(cfg.Server.MaxUploadBytes()),
		middleware.StorageMiddleware(opts.Storage),
	)

	if opts.Scheduler != nil {
		engine.Use(middleware.SchedulerMiddleware(opts.Scheduler))
	}

	// 限流按用户区分时依赖认证结果
	engine.Use(
		middleware.AuthMiddleware(cfg.Auth, opts.Tokens),
		middleware.RateLimitMiddleware(cfg.RateLimit),
		middleware.CircuitBreakerMiddleware(cfg.CircuitBreaker),
	)

	if cfg.Metrics.Enabled {
		_ = metrics.StartMetricsServer(cfg.Metrics, engine)
	}

	router.Register(engine)

	return engine
}
