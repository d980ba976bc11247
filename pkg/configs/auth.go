package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultJWTIssuer     = "ghana-creative-platform" // 签发者
	DefaultTokenTTLHours = 24                        // 会话有效期（小时）
	DefaultBcryptCost    = 10                        // bcrypt 计算成本
	DefaultCookieName    = "gcp_session"             // 会话 cookie 名
)

// AuthConfig 控制 JWT 会话的签发与校验.
type AuthConfig struct {
	Enabled       bool     `mapstructure:"enabled"` // 开启认证校验
	JWTSecret     string   `mapstructure:"jwt_secret"      rule:"required,min=16"`
	Issuer        string   `mapstructure:"issuer"` // JWT iss
	TokenTTLHours int      `mapstructure:"token_ttl_hours" rule:"min=1,max=720"`
	CookieName    string   `mapstructure:"cookie_name"` // 同时接受 cookie 中的 token
	BcryptCost    int      `mapstructure:"bcrypt_cost"     rule:"min=4,max=31"`
	SkipPaths     []string `mapstructure:"skip_paths"` // 跳过认证的路径前缀（如 /metrics、/api/v1/health）
}

// GetTokenTTL 返回会话有效期.
func (c *AuthConfig) GetTokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.jwt_secret", "change-me-in-production-please")
	v.SetDefault("auth.issuer", DefaultJWTIssuer)
	v.SetDefault("auth.token_ttl_hours", DefaultTokenTTLHours)
	v.SetDefault("auth.cookie_name", DefaultCookieName)
	v.SetDefault("auth.bcrypt_cost", DefaultBcryptCost)
	v.SetDefault("auth.skip_paths", []string{
		"/metrics",
		"/debug/pprof",
		"/api/v1/health",
		"/swagger",
	})
}
