// Package middleware 提供 gin 中间件：会话认证、权限检查、请求日志、追踪、指标、限流、熔断与响应缓存.
package middleware

import (
	"github.com/gin-gonic/gin"

	ctxPkg "github.com/sloopymg1/ghana-creative-platform/pkg/context"
)

// ClientInfoMiddleware 将客户端 IP 与 UA 写入 request context，供审计日志使用.
func ClientInfoMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxPkg.WithClientInfo(c.Request.Context(), ctxPkg.ClientInfo{
			IP:        clientIP(c),
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
