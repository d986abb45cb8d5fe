package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/sharevault/pkg/internal/handle"
)

// RegisterSyncRoutes 注册客户端同步路由.
func RegisterSyncRoutes(g *gin.RouterGroup) {
	syncRoutes := g.Group("/sync")
	{
		syncRoutes.POST("/compare", handle.SyncCompare)
		syncRoutes.GET("/files", handle.SyncFiles)
	}
}
