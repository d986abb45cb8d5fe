package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/sharevault/pkg/internal/handle"
)

// RegisterOpsRoutes 注册运维路由：各存储组件的健康检查与定时任务管理.
// 健康检查在认证配置中免认证.
func RegisterOpsRoutes(g *gin.RouterGroup) {
	health := g.Group("/health")
	for component, h := range map[string]gin.HandlerFunc{
		"db":   handle.HealthDB,
		"blob": handle.HealthBlob,
		"kv":   handle.HealthKV,
		"mq":   handle.HealthMQ,
	} {
		health.GET("/"+component, h)
	}

	jobs := g.Group("/scheduler/jobs")
	jobs.GET("", handle.SchedulerJobs)
	jobs.POST("/:name/run", handle.SchedulerRunJob)
}
