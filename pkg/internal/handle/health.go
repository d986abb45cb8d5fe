package handle

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/sharevault/pkg/context"
	"github.com/yeisme/sharevault/pkg/internal/storage"
	"github.com/yeisme/sharevault/pkg/internal/types"
)

const timeout = 2 * time.Second

var errNotInitialized = errors.New("client not initialized")

// healthCheck 执行单个组件的检查，check 返回 nil 表示组件未初始化.
func healthCheck(c *gin.Context, component string, check func(m *storage.Manager) func(context.Context) error) {
	var fn func(context.Context) error
	if m := ctxPkg.GetManager(c.Request.Context()); m != nil {
		fn = check(m)
	}

	if fn == nil {
		c.JSON(http.StatusServiceUnavailable, types.HealthResponse{
			Component: component, Status: "unhealthy", Error: component + " " + errNotInitialized.Error(),
		})

		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, types.HealthResponse{Component: component, Status: "unhealthy", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.HealthResponse{Component: component, Status: "ok"})
}

// HealthDB 数据库健康检查.
//
//	@Summary	数据库健康检查
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	types.HealthResponse
//	@Failure	503	{object}	types.HealthResponse
//	@Router		/api/v1/health/db [get]
func HealthDB(c *gin.Context) {
	healthCheck(c, "db", func(m *storage.Manager) func(context.Context) error {
		if m.DB == nil {
			return nil
		}

		return m.DB.Ping
	})
}

// HealthBlob 文件内容存储健康检查.
//
//	@Summary	文件存储健康检查
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	types.HealthResponse
//	@Failure	503	{object}	types.HealthResponse
//	@Router		/api/v1/health/blob [get]
func HealthBlob(c *gin.Context) {
	healthCheck(c, "blob", func(m *storage.Manager) func(context.Context) error {
		if m.Blob == nil {
			return nil
		}

		return m.Blob.HealthCheck
	})
}

// HealthKV KV 存储健康检查.
//
//	@Summary	KV 健康检查
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	types.HealthResponse
//	@Failure	503	{object}	types.HealthResponse
//	@Router		/api/v1/health/kv [get]
func HealthKV(c *gin.Context) {
	healthCheck(c, "kv", func(m *storage.Manager) func(context.Context) error {
		if m.KV == nil {
			return nil
		}

		return m.KV.Ping
	})
}

// HealthMQ 消息队列健康检查.
//
//	@Summary	消息队列健康检查
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	types.HealthResponse
//	@Failure	503	{object}	types.HealthResponse
//	@Router		/api/v1/health/mq [get]
func HealthMQ(c *gin.Context) {
	healthCheck(c, "mq", func(m *storage.Manager) func(context.Context) error {
		if m.MQ == nil {
			return nil
		}

		return m.MQ.HealthCheck
	})
}
