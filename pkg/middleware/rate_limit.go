package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/yeisme/sharevault/pkg/configs"
	ctxPkg "github.com/yeisme/sharevault/pkg/context"
	"github.com/yeisme/sharevault/pkg/internal/types"
)

// RateLimitMiddleware 令牌桶限流，超限返回 429.
// 非 global 维度为每个键维护一个 limiter，闲置或超出 MaxKeys 的键被淘汰.
func RateLimitMiddleware(cfg configs.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	mode, header := cfg.KeyMode()
	newLimiter := func() *rate.Limiter { return rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst) }

	if mode == configs.RateLimitKeyGlobal {
		limiter := newLimiter()

		return func(c *gin.Context) {
			if !limiter.Allow() {
				abortRateLimited(c)
				return
			}

			c.Next()
		}
	}

	size := cfg.MaxKeys
	if size <= 0 {
		size = 10000
	}

	limiters := expirable.NewLRU[string, *rate.Limiter](size, nil, cfg.IdleTTL())

	return func(c *gin.Context) {
		key := rateLimitKey(c, mode, header)

		l, ok := limiters.Get(key)
		if !ok {
			l = newLimiter()
			limiters.Add(key, l)
		}

		if !l.Allow() {
			abortRateLimited(c)
			return
		}

		c.Next()
	}
}

// rateLimitKey 取不到指定维度的值时退回客户端 IP.
func rateLimitKey(c *gin.Context, mode configs.RateLimitKey, header string) string {
	switch mode {
	case configs.RateLimitKeyUser:
		if id, ok := ctxPkg.GetIdentity(c.Request.Context()); ok {
			return "user:" + strconv.FormatUint(uint64(id.UserID), 10)
		}
	case configs.RateLimitKeyHeaderPrefix:
		if v := c.GetHeader(header); v != "" {
			return "header:" + v
		}
	}

	if ip := c.ClientIP(); ip != "" {
		return "ip:" + ip
	}

	return "ip:" + c.Request.RemoteAddr
}

func abortRateLimited(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, types.ErrorResponse{Error: "rate limit exceeded", Code: "RateLimited"})
}
