package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/sharevault/pkg/internal/service"
	"github.com/yeisme/sharevault/pkg/internal/types"
)

// Register 注册账户.
//
//	@Summary		注册
//	@Description	创建账户并返回访问令牌
//	@Tags			认证
//	@Accept			json
//	@Produce		json
//	@Param			body	body		types.RegisterRequest	true	"注册信息"
//	@Success		200		{object}	types.AuthResponse		"访问令牌"
//	@Failure		400		{object}	types.ErrorResponse		"参数错误或用户名已存在"
//	@Router			/api/v1/auth/register [post]
func Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := service.NewAuthService(c.Request.Context()).Register(c.Request.Context(), &req)
	if err != nil {
		writeError(c, "register", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Login 登录.
//
//	@Summary		登录
//	@Description	校验用户名与密码并返回访问令牌
//	@Tags			认证
//	@Accept			json
//	@Produce		json
//	@Param			body	body		types.LoginRequest	true	"登录信息"
//	@Success		200		{object}	types.AuthResponse	"访问令牌"
//	@Failure		400		{object}	types.ErrorResponse	"用户名或密码错误"
//	@Router			/api/v1/auth/login [post]
func Login(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := service.NewAuthService(c.Request.Context()).Login(c.Request.Context(), &req)
	if err != nil {
		writeError(c, "login", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Validate 返回当前令牌对应的身份.
//
//	@Summary		校验令牌
//	@Tags			认证
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	types.ValidateResponse	"令牌有效"
//	@Failure		401	{object}	types.ErrorResponse		"未认证或令牌无效"
//	@Router			/api/v1/auth/validate [get]
func Validate(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, types.ValidateResponse{Valid: true, Username: who.Username, UserID: who.UserID})
}
