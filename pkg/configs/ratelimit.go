package configs

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// RateLimitScope 令牌桶的划分维度.
type RateLimitScope string

const (
	RateLimitGlobal RateLimitScope = "global" // 全局一个桶
	RateLimitIP     RateLimitScope = "ip"     // 按客户端 IP
	RateLimitUser   RateLimitScope = "user"   // 按登录用户，匿名回落到 IP
	RateLimitHeader RateLimitScope = "header" // 按请求头，缺失时回落到 IP
)

const (
	DefaultRateLimitRPS     = 50.0
	DefaultRateLimitBurst   = 100
	DefaultRateLimitKey     = "ip"
	DefaultRateLimitIdleTTL = 10 * time.Minute
)

// RateLimitConfig 令牌桶限流.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"   rule:"gte=0"` // 每秒补充的令牌数，0 表示不限流
	Burst   int     `mapstructure:"burst" rule:"gte=0"`
	// Key 取值 global、ip、user 或 header:Header-Name
	Key     string        `mapstructure:"key"`
	IdleTTL time.Duration `mapstructure:"idle_ttl"` // 闲置超过该时长的桶被回收
}

// Scope 解析 Key，header 维度同时返回请求头名；无法识别时按 global 处理.
func (c RateLimitConfig) Scope() (RateLimitScope, string) {
	key := strings.TrimSpace(c.Key)
	if name, ok := strings.CutPrefix(strings.ToLower(key), "header:"); ok && name != "" {
		return RateLimitHeader, key[len("header:"):]
	}

	switch s := RateLimitScope(strings.ToLower(key)); s {
	case RateLimitIP, RateLimitUser:
		return s, ""
	default:
		return RateLimitGlobal, ""
	}
}

func (c *RateLimitConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.rps", DefaultRateLimitRPS)
	v.SetDefault("rate_limit.burst", DefaultRateLimitBurst)
	v.SetDefault("rate_limit.key", DefaultRateLimitKey)
	v.SetDefault("rate_limit.idle_ttl", DefaultRateLimitIdleTTL)
}
