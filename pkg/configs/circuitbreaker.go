package configs

import (
	"time"

	"github.com/spf13/viper"
)

// CircuitBreakerConfig HTTP 层熔断，5xx 计为失败.
type CircuitBreakerConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	FailureRate       float64 `mapstructure:"failure_rate" rule:"gte=0,lte=1"`
	MinRequests       uint32  `mapstructure:"min_requests"`         // 窗口内请求数达到后才判断失败率
	IntervalSeconds   int     `mapstructure:"interval_seconds"`     // 关闭状态下计数清零周期
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`      // 打开后多久进入半开
	MaxRequestsInHalf uint32  `mapstructure:"max_requests_in_half"` // 半开状态放行的请求数
}

func (c *CircuitBreakerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("circuit_breaker.enabled", false)
	v.SetDefault("circuit_breaker.failure_rate", 0.5)
	v.SetDefault("circuit_breaker.min_requests", 20)
	v.SetDefault("circuit_breaker.interval_seconds", 60)
	v.SetDefault("circuit_breaker.timeout_seconds", 30)
	v.SetDefault("circuit_breaker.max_requests_in_half", 5)
}

// Interval 计数周期，0 表示不清零.
func (c CircuitBreakerConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Timeout 打开状态持续时间.
func (c CircuitBreakerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ShouldTrip 按失败率判断是否打开熔断.
func (c CircuitBreakerConfig) ShouldTrip(requests, failures uint32) bool {
	if requests == 0 || requests < c.MinRequests {
		return false
	}

	return float64(failures)/float64(requests) >= c.FailureRate
}
