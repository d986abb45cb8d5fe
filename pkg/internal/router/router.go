// Package router 把请求处理器绑定到 gin 引擎，业务路由统一挂在 /api/v1 下.
package router

import (
	"github.com/gin-gonic/gin"
)

// APIPrefix 业务路由前缀.
const APIPrefix = "/api/v1"

// Register 注册全部路由.
func Register(r *gin.Engine) {
	api := r.Group(APIPrefix)

	RegisterAuthRoutes(api)
	RegisterFilesRoutes(api)
	RegisterSyncRoutes(api)
	RegisterOpsRoutes(api)

	RegisterSwaggerRoute(r)
}
