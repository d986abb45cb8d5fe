package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/sharevault/pkg/internal/handle"
)

// RegisterFilesRoutes 注册文件操作相关路由.
func RegisterFilesRoutes(g *gin.RouterGroup) {
	filesRoutes := g.Group("/files")
	{
		filesRoutes.GET("", handle.ListFiles)
		filesRoutes.POST("", handle.UploadFile)

		// 单个文件操作
		singleGroup := filesRoutes.Group("/:id")
		{
			// 按 Accept 返回元数据或文件内容
			singleGroup.GET("", handle.GetFile)
			singleGroup.PUT("", handle.ReplaceFile)
			singleGroup.DELETE("", handle.DeleteFile)
		}
	}
}
