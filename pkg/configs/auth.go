package configs

import "github.com/spf13/viper"

const (
	DefaultAuthAlgorithm   = "HS512"
	DefaultAuthExpiryHours = 24 * 7 // 令牌有效期 7 天
	DefaultAuthIssuer      = "sharevault"
)

// AuthConfig 控制 JWT 认证：令牌签发参数与免认证路径.
type AuthConfig struct {
	Enabled     bool     `mapstructure:"enabled"`                                      // 开启认证校验
	Secret      string   `mapstructure:"secret"       rule:"required_if=Enabled true"` // HMAC 签名密钥
	Algorithm   string   `mapstructure:"algorithm"    rule:"oneof=HS256 HS384 HS512"`  // 签名算法
	ExpiryHours int      `mapstructure:"expiry_hours" rule:"min=1,max=8760"`           // 令牌有效期（小时）
	Issuer      string   `mapstructure:"issuer"`                                       // iss 声明
	SkipPaths   []string `mapstructure:"skip_paths"`                                   // 跳过认证的路径前缀
}

func (c *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.enabled", true)
	// 仅用于本地开发，生产环境必须通过 SHAREVAULT_AUTH_SECRET 覆盖
	v.SetDefault("auth.secret", "sharevault-dev-secret-change-me")
	v.SetDefault("auth.algorithm", DefaultAuthAlgorithm)
	v.SetDefault("auth.expiry_hours", DefaultAuthExpiryHours)
	v.SetDefault("auth.issuer", DefaultAuthIssuer)
	v.SetDefault("auth.skip_paths", []string{
		"/metrics",
		"/debug/pprof",
		"/api/v1/health",
		"/api/v1/auth/register",
		"/api/v1/auth/login",
		"/swagger",
	})
}
