package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/sharevault/pkg/configs"
	ctxPkg "github.com/yeisme/sharevault/pkg/context"
	"github.com/yeisme/sharevault/pkg/internal/types"
	"github.com/yeisme/sharevault/pkg/token"
)

// AnonymousIdentity 认证关闭时注入的身份.
var AnonymousIdentity = ctxPkg.Identity{UserID: 0, Username: "anonymous"}

// AuthMiddleware 校验 Authorization: Bearer <jwt> 并把 (user_id, username) 注入 request.Context.
//   - 支持通过配置跳过某些路径（如 /metrics, /api/v1/health）
//   - 认证关闭时所有请求使用 AnonymousIdentity
func AuthMiddleware(conf configs.AuthConfig, tm *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !conf.Enabled {
			setIdentity(c, AnonymousIdentity)
			c.Next()

			return
		}

		if isSkippedPath(c.Request.URL.Path, conf.SkipPaths) {
			c.Next()
			return
		}

		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "Authentication required")
			return
		}

		if tm == nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		claims, err := tm.Parse(raw)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				abortUnauthorized(c, "Token expired")
				return
			}

			abortUnauthorized(c, "Invalid token")

			return
		}

		setIdentity(c, ctxPkg.Identity{UserID: claims.UserID, Username: claims.Username})
		c.Next()
	}
}

func setIdentity(c *gin.Context, id ctxPkg.Identity) {
	c.Request = c.Request.WithContext(ctxPkg.WithIdentity(c.Request.Context(), id))
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="sharevault"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, types.ErrorResponse{Error: msg, Code: "Unauthorized"})
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "

	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	raw := strings.TrimSpace(header[len(prefix):])

	return raw, raw != ""
}

func isSkippedPath(path string, skips []string) bool {
	if path == "" || len(skips) == 0 {
		return false
	}

	for _, p := range skips {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
