// Package router 管理路由配置，把 /api/v1 下的路径、权限守卫与处理器绑定到 gin 引擎.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/sloopymg1/ghana-creative-platform/pkg/scheduler"
)

// APIPrefix 接口路径前缀.
const APIPrefix = "/api/v1"

// Options 路由依赖.
type Options struct {
	// ResponseCache 匿名公开 GET 接口使用的响应缓存，nil 时不缓存.
	ResponseCache gin.HandlerFunc
	// Scheduler 定时任务调度器，nil 时不注册任务管理接口.
	Scheduler *scheduler.Scheduler
}

func (o Options) cached() gin.HandlerFunc {
	if o.ResponseCache == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return o.ResponseCache
}

// Register 注册全部业务路由并返回 /api/v1 路由组.
func Register(r *gin.Engine, opts Options) *gin.RouterGroup {
	v1 := r.Group(APIPrefix)

	RegisterAuthRoutes(v1)
	RegisterContentRoutes(v1, opts.cached())
	RegisterAIRoutes(v1, opts.cached())
	RegisterAdminRoutes(v1)
	RegisterHealthCheckRoute(v1)

	if opts.Scheduler != nil {
		RegisterSchedulerRoutes(v1, opts.Scheduler)
	}

	return v1
}
