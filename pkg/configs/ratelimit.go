package configs

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// RateLimitKey 限流维度.
type RateLimitKey string

const (
	RateLimitKeyGlobal RateLimitKey = "global"
	RateLimitKeyIP     RateLimitKey = "ip"
	RateLimitKeyUser   RateLimitKey = "user"
	// RateLimitKeyHeaderPrefix 形如 header:X-Client-Id，按请求头取值.
	RateLimitKeyHeaderPrefix = "header:"
)

// RateLimitConfig 按令牌桶限制请求速率.
type RateLimitConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	RPS         float64 `mapstructure:"rps"   rule:"gte=0"`
	Burst       int     `mapstructure:"burst" rule:"gte=0"`
	Key         string  `mapstructure:"key"`
	MaxKeys     int     `mapstructure:"max_keys"     rule:"gte=0"` // 同时跟踪的限流键上限
	IdleSeconds int     `mapstructure:"idle_seconds" rule:"gte=0"` // 键闲置多久后回收
}

func (c *RateLimitConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.rps", 50.0)
	v.SetDefault("rate_limit.burst", 100)
	v.SetDefault("rate_limit.key", string(RateLimitKeyIP))
	v.SetDefault("rate_limit.max_keys", 10000)
	v.SetDefault("rate_limit.idle_seconds", 600)
}

// KeyMode 返回规范化的限流维度，header 模式同时返回请求头名.
func (c RateLimitConfig) KeyMode() (RateLimitKey, string) {
	k := strings.TrimSpace(c.Key)

	if len(k) > len(RateLimitKeyHeaderPrefix) && strings.EqualFold(k[:len(RateLimitKeyHeaderPrefix)], RateLimitKeyHeaderPrefix) {
		return RateLimitKeyHeaderPrefix, k[len(RateLimitKeyHeaderPrefix):]
	}

	switch mode := RateLimitKey(strings.ToLower(k)); mode {
	case RateLimitKeyGlobal, RateLimitKeyUser:
		return mode, ""
	case "":
		return RateLimitKeyGlobal, ""
	default:
		return RateLimitKeyIP, ""
	}
}

// IdleTTL 闲置键的回收时间.
func (c RateLimitConfig) IdleTTL() time.Duration {
	if c.IdleSeconds <= 0 {
		return 10 * time.Minute
	}

	return time.Duration(c.IdleSeconds) * time.Second
}
