package configs

import (
	"time"

	"github.com/spf13/viper"
)

// HTTP 熔断默认值：一分钟窗口内至少 20 个请求且半数以上为 5xx 时打开 30 秒.
const (
	DefaultBreakerFailureRate = 0.5
	DefaultBreakerMinRequests = 20
	DefaultBreakerWindow      = time.Minute
	DefaultBreakerOpenFor     = 30 * time.Second
	DefaultBreakerHalfOpenMax = 5
)

// CircuitBreakerConfig 全局 HTTP 熔断，5xx 响应计为失败.
type CircuitBreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	FailureRate float64       `mapstructure:"failure_rate"  rule:"gt=0,lte=1"` // 窗口内失败比例达到该值时打开
	MinRequests uint32        `mapstructure:"min_requests"  rule:"min=1"`      // 窗口内请求数不足时不打开
	Window      time.Duration `mapstructure:"window"`                          // 关闭状态下计数清零的周期，0 表示不清零
	OpenFor     time.Duration `mapstructure:"open_for"      rule:"gt=0"`       // 打开后多久进入半开
	HalfOpenMax uint32        `mapstructure:"half_open_max" rule:"min=1"`      // 半开状态放行的请求数
}

// Tripped 窗口计数是否达到打开条件.
func (c CircuitBreakerConfig) Tripped(requests, failures uint32) bool {
	if requests == 0 || requests < c.MinRequests {
		return false
	}

	return float64(failures)/float64(requests) >= c.FailureRate
}

func (c *CircuitBreakerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("circuit_breaker.enabled", false)
	v.SetDefault("circuit_breaker.failure_rate", DefaultBreakerFailureRate)
	v.SetDefault("circuit_breaker.min_requests", DefaultBreakerMinRequests)
	v.SetDefault("circuit_breaker.window", DefaultBreakerWindow)
	v.SetDefault("circuit_breaker.open_for", DefaultBreakerOpenFor)
	v.SetDefault("circuit_breaker.half_open_max", DefaultBreakerHalfOpenMax)
}
