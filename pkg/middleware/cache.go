package middleware

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"

	appcache "github.com/sloopymg1/ghana-creative-platform/pkg/cache"
)

// DefaultMaxBodyBytes 可缓存的最大响应体.
const DefaultMaxBodyBytes = 1 << 20

// CacheConfig 响应缓存配置.
type CacheConfig struct {
	Cache *appcache.Cache
	TTL   time.Duration

	// Skipper 返回 true 时不读也不写缓存.
	Skipper func(*gin.Context) bool
	// BypassHeader 请求带有该头时跳过缓存.
	BypassHeader string
	// MaxBodyBytes 超过该大小的响应不缓存，0 不限制.
	MaxBodyBytes int
}

// DefaultCacheConfig 只缓存匿名请求.
func DefaultCacheConfig(c *appcache.Cache, ttl time.Duration) CacheConfig {
	return CacheConfig{
		Cache:        c,
		TTL:          ttl,
		Skipper:      func(c *gin.Context) bool { return GetSubject(c) != nil },
		BypassHeader: "X-Cache-Bypass",
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// CacheMiddleware 缓存公开 GET 接口的 200 响应。
//
// 键由路由模板与排序后的查询参数经 xxhash 得到；命中时带 X-Cache: HIT 与 Age，
// If-None-Match 与缓存的 ETag 一致时返回 304。响应含 Cache-Control: no-store 或 private 时不缓存.
func CacheMiddleware(cfg CacheConfig) gin.HandlerFunc {
	if cfg.Cache == nil || cfg.TTL <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if bypass(c, cfg) {
			c.Next()
			return
		}

		key := responseKey(c)
		if serveFromCache(c, cfg, key) {
			return
		}

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer, max: cfg.MaxBodyBytes}
		c.Writer = bw
		c.Header("X-Cache", "MISS")

		c.Next()

		store(c, cfg, key, bw)
	}
}

type responseCacheEntry struct {
	Status      int    `json:"s"`
	ContentType string `json:"c,omitempty"`
	Body        []byte `json:"b,omitempty"`
	ETag        string `json:"e"`
	StoredAt    int64  `json:"t"`
}

func bypass(c *gin.Context, cfg CacheConfig) bool {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		return true
	}

	if cfg.BypassHeader != "" && c.GetHeader(cfg.BypassHeader) != "" {
		return true
	}

	return cfg.Skipper != nil && cfg.Skipper(c)
}

// responseKey 路由模板 + 排序后的查询参数.
func responseKey(c *gin.Context) string {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}

	q := c.Request.URL.Query()
	keys := slices.Sorted(maps.Keys(q))

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.Join(q[k], ","))
		b.WriteByte('&')
	}

	params := make([]any, 0, len(c.Params)+3)
	params = append(params, "http", route, b.String())

	for _, p := range c.Params {
		params = append(params, p.Key+"="+p.Value)
	}

	return appcache.Key(params...)
}

// bodyCaptureWriter 在写出响应的同时保留一份副本.
type bodyCaptureWriter struct {
	gin.ResponseWriter

	buf       bytes.Buffer
	max       int
	truncated bool
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	if !w.truncated {
		if w.max > 0 && w.buf.Len()+len(b) > w.max {
			w.truncated = true
			w.buf.Reset()
		} else {
			w.buf.Write(b)
		}
	}

	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func serveFromCache(c *gin.Context, cfg CacheConfig, key string) bool {
	entry, err := appcache.Get[responseCacheEntry](c.Request.Context(), cfg.Cache, key)
	if err != nil {
		return false
	}

	h := c.Writer.Header()
	h.Set("ETag", entry.ETag)
	h.Set("Age", fmt.Sprintf("%.0f", time.Since(time.Unix(0, entry.StoredAt)).Seconds()))
	h.Set("X-Cache", "HIT")

	if c.GetHeader("If-None-Match") == entry.ETag {
		c.AbortWithStatus(http.StatusNotModified)
		return true
	}

	if entry.ContentType != "" {
		h.Set("Content-Type", entry.ContentType)
	}

	c.Status(entry.Status)

	if c.Request.Method != http.MethodHead {
		_, _ = c.Writer.Write(entry.Body)
	}

	c.Abort()

	return true
}

func noStore(h http.Header) bool {
	cc := strings.ToLower(h.Get("Cache-Control"))
	return strings.Contains(cc, "no-store") || strings.Contains(cc, "private")
}

func store(c *gin.Context, cfg CacheConfig, key string, bw *bodyCaptureWriter) {
	if c.Writer.Status() != http.StatusOK || bw.truncated || noStore(c.Writer.Header()) {
		return
	}

	body := bw.buf.Bytes()
	entry := responseCacheEntry{
		Status:      http.StatusOK,
		ContentType: c.Writer.Header().Get("Content-Type"),
		Body:        body,
		ETag:        fmt.Sprintf("%q", fmt.Sprintf("%x", xxhash.Sum64(body))),
		StoredAt:    time.Now().UnixNano(),
	}

	_ = appcache.Set(context.WithoutCancel(c.Request.Context()), cfg.Cache, key, entry, cfg.TTL)
}
