package router

import (
	"github.com/gin-gonic/gin"

	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/handle"
	"github.com/sloopymg1/ghana-creative-platform/pkg/middleware"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

// RegisterAdminRoutes 注册角色权限、用户管理、统计与审计路由.
func RegisterAdminRoutes(g *gin.RouterGroup) {
	g.GET("/permissions", middleware.RequirePermission(rbac.RolesRead), handle.ListPermissions)
	g.GET("/roles", middleware.RequirePermission(rbac.RolesRead), handle.ListRoles)

	usersRoutes := g.Group("/users")
	{
		usersRoutes.GET("", middleware.RequirePermission(rbac.UsersRead), handle.ListUsers)
		usersRoutes.GET("/:id", middleware.RequirePermission(rbac.UsersRead), handle.GetUser)
		usersRoutes.PUT("/:id", middleware.RequirePermission(rbac.UsersUpdate), handle.UpdateUser)
		usersRoutes.PUT("/:id/roles", middleware.RequirePermission(rbac.UsersAssignRoles), handle.AssignRoles)
		usersRoutes.PUT("/:id/status", middleware.RequirePermission(rbac.UsersSuspend), handle.UpdateUserStatus)
	}

	analyticsRoutes := g.Group("/analytics")
	{
		analyticsRoutes.GET("/dashboard", middleware.RequireAnyPermission(rbac.AnalyticsView, rbac.AnalyticsViewAll), handle.Dashboard)
		analyticsRoutes.GET("/export", middleware.RequirePermission(rbac.AnalyticsExport), handle.Export)
	}

	g.GET("/audit", middleware.RequirePermission(rbac.Wildcard), handle.ListAudit)
}
