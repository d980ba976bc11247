package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
	ctxPkg "github.com/sloopymg1/ghana-creative-platform/pkg/context"
	"github.com/sloopymg1/ghana-creative-platform/pkg/metrics"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

const subjectKey = "subject"

// Authenticator 校验令牌并返回当前主体.
type Authenticator func(ctx context.Context, token string) (*rbac.Subject, error)

// AuthMiddleware 解析 Authorization: Bearer 或会话 cookie 中的令牌。
//
// 没有令牌的请求以匿名身份继续，由 RequireAuth 或 RequirePermission 决定是否放行；
// 令牌存在但无效时直接返回 401。跳过路径与关闭认证时不解析令牌.
func AuthMiddleware(conf configs.AuthConfig, authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !conf.Enabled || isSkippedPath(c.Request.URL.Path, conf.SkipPaths) {
			c.Next()
			return
		}

		token := bearerToken(c, conf.CookieName)
		if token == "" {
			c.Next()
			return
		}

		sub, err := authn(c.Request.Context(), token)
		if err != nil {
			metrics.PermissionDenials.WithLabelValues("invalid_token").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

			return
		}

		c.Set(subjectKey, sub)
		c.Request = c.Request.WithContext(ctxPkg.WithSubject(c.Request.Context(), sub))
		c.Next()
	}
}

// bearerToken 优先取 Authorization 头，其次取 cookie.
func bearerToken(c *gin.Context, cookieName string) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}

		return ""
	}

	if cookieName == "" {
		return ""
	}

	if v, err := c.Cookie(cookieName); err == nil {
		return v
	}

	return ""
}

// GetSubject 当前请求的主体，匿名请求返回 nil.
func GetSubject(c *gin.Context) *rbac.Subject {
	if v, ok := c.Get(subjectKey); ok {
		if s, ok := v.(*rbac.Subject); ok {
			return s
		}
	}

	return ctxPkg.GetSubject(c.Request.Context())
}

// RequireAuth 要求已登录.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSubject(c) == nil {
			deny(c, rbac.ErrUnauthenticated)
			return
		}

		c.Next()
	}
}

// RequirePermission 要求持有全部 perms.
func RequirePermission(perms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := rbac.RequirePermission(GetSubject(c), perms...); err != nil {
			deny(c, err)
			return
		}

		c.Next()
	}
}

// RequireAnyPermission 要求持有 perms 中任意一个.
func RequireAnyPermission(perms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := rbac.RequireAnyPermission(GetSubject(c), perms...); err != nil {
			deny(c, err)
			return
		}

		c.Next()
	}
}

// deny 未登录返回 401，权限不足返回 403.
func deny(c *gin.Context, err error) {
	status, reason := http.StatusForbidden, "forbidden"
	if errors.Is(err, rbac.ErrUnauthenticated) {
		status, reason = http.StatusUnauthorized, "unauthenticated"
	}

	metrics.PermissionDenials.WithLabelValues(reason).Inc()
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
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
