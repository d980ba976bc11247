// Package handle 提供 HTTP 请求处理器：解析参数、调用 service 并把业务错误映射为状态码.
package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	ctxPkg "github.com/sloopymg1/ghana-creative-platform/pkg/context"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
	"github.com/sloopymg1/ghana-creative-platform/pkg/log"
	"github.com/sloopymg1/ghana-creative-platform/pkg/middleware"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
	"github.com/sloopymg1/ghana-creative-platform/pkg/scheduler"
)

// statusOf 将业务错误映射为 HTTP 状态码.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, rbac.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, rbac.ErrForbidden), errors.Is(err, service.ErrAccountDisabled):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound), errors.Is(err, scheduler.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError 写出错误响应；5xx 只返回通用信息并记录日志.
func respondError(c *gin.Context, err error) {
	status := statusOf(err)

	if status >= http.StatusInternalServerError {
		l := logger(c)
		l.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.AbortWithStatusJSON(status, types.ErrorResponse{Error: "internal server error"})

		return
	}

	resp := types.ErrorResponse{Error: err.Error()}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		resp.Error = service.ErrValidation.Error()
		resp.Fields = verr.Fields
	}

	c.AbortWithStatusJSON(status, resp)
}

// bindJSON 解析请求体，失败时直接写出 400.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		l := logger(c)
		l.Warn().Err(err).Msg("invalid request body")
		c.AbortWithStatusJSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid request body"})

		return false
	}

	return true
}

// bindQuery 解析查询参数，失败时直接写出 400.
func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid query parameters"})
		return false
	}

	return true
}

func logger(c *gin.Context) zerolog.Logger {
	return ctxPkg.WithTraceContext(c.Request.Context(), *log.Logger())
}

func subject(c *gin.Context) *rbac.Subject {
	return middleware.GetSubject(c)
}
