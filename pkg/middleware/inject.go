package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/sharevault/pkg/context"
	"github.com/yeisme/sharevault/pkg/internal/storage"
	"github.com/yeisme/sharevault/pkg/scheduler"
)

// inject 为每个请求的 context 附加同一个值.
func inject(with func(ctx context.Context) context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(with(c.Request.Context()))
		c.Next()
	}
}

// StorageMiddleware 注入存储管理器，service 通过 DepsFromContext 取用.
func StorageMiddleware(mgr *storage.Manager) gin.HandlerFunc {
	return inject(func(ctx context.Context) context.Context {
		return ctxPkg.WithStorageManager(ctx, mgr)
	})
}

// SchedulerMiddleware 注入调度器，供任务管理接口使用.
func SchedulerMiddleware(s *scheduler.Scheduler) gin.HandlerFunc {
	return inject(func(ctx context.Context) context.Context {
		return ctxPkg.WithScheduler(ctx, s)
	})
}
