package router

import (
	"github.com/gin-gonic/gin"

	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/handle"
	"github.com/sloopymg1/ghana-creative-platform/pkg/middleware"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
	"github.com/sloopymg1/ghana-creative-platform/pkg/scheduler"
)

// RegisterSchedulerRoutes 注册定时任务管理路由，仅超级管理员可用.
func RegisterSchedulerRoutes(g *gin.RouterGroup, sched *scheduler.Scheduler) {
	schedRoutes := g.Group("/scheduler",
		middleware.RequirePermission(rbac.Wildcard),
		middleware.SchedulerMiddleware(sched),
	)
	{
		schedRoutes.GET("/jobs", handle.SchedulerJobs)
		schedRoutes.POST("/jobs/:name/run", handle.SchedulerRunJob)
	}
}
