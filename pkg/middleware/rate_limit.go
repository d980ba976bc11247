package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
)

const limiterSweepGap = time.Minute

// RateLimitMiddleware 令牌桶限流，维度见 configs.RateLimitConfig.Scope；闲置超过 IdleTTL 的桶会被回收.
func RateLimitMiddleware(cfg configs.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	scope, header := cfg.Scope()

	if scope == configs.RateLimitGlobal {
		limiter := rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)

		return func(c *gin.Context) {
			if !limiter.Allow() {
				tooMany(c)
				return
			}

			c.Next()
		}
	}

	pool := newLimiterPool(cfg)

	return func(c *gin.Context) {
		if !pool.get(rateKey(c, scope, header), time.Now()).Allow() {
			tooMany(c)
			return
		}

		c.Next()
	}
}

func tooMany(c *gin.Context) {
	c.Header("Retry-After", "1")
	c.AbortWithStatusJSON(http.StatusTooManyRequests,
		gin.H{"error": "rate limit exceeded, request too frequent, please try again later"})
}

// rateKey 计算限流维度的键.
func rateKey(c *gin.Context, scope configs.RateLimitScope, header string) string {
	var key string

	switch scope {
	case configs.RateLimitHeader:
		key = c.GetHeader(header)
	case configs.RateLimitUser:
		if sub := GetSubject(c); sub != nil {
			key = "user:" + sub.UserID
		}
	}

	if key == "" {
		key = clientIP(c)
	}

	if key == "" {
		key = "unknown"
	}

	return key
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterPool 按键分配令牌桶，惰性回收闲置项.
type limiterPool struct {
	mu        sync.Mutex
	cfg       configs.RateLimitConfig
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

func newLimiterPool(cfg configs.RateLimitConfig) *limiterPool {
	return &limiterPool{cfg: cfg, entries: map[string]*limiterEntry{}, lastSweep: time.Now()}
}

func (p *limiterPool) get(key string, now time.Time) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if now.Sub(p.lastSweep) >= limiterSweepGap {
		ttl := p.cfg.IdleTTL
		if ttl <= 0 {
			ttl = configs.DefaultRateLimitIdleTTL
		}

		for k, e := range p.entries {
			if now.Sub(e.lastSeen) > ttl {
				delete(p.entries, k)
			}
		}

		p.lastSweep = now
	}

	e, ok := p.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(p.cfg.RPS), p.cfg.Burst)}
		p.entries[key] = e
	}

	e.lastSeen = now

	return e.limiter
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err == nil {
			ip = host
		} else {
			ip = c.Request.RemoteAddr
		}
	}

	return ip
}
