package router

import (
	"github.com/gin-gonic/gin"

	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/handle"
	"github.com/sloopymg1/ghana-creative-platform/pkg/middleware"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

// RegisterContentRoutes 注册内容与审核路由，cached 只挂在公开的读接口上.
func RegisterContentRoutes(g *gin.RouterGroup, cached gin.HandlerFunc) {
	contentRoutes := g.Group("/content")
	{
		contentRoutes.GET("", cached, handle.ListContent)
		contentRoutes.POST("", middleware.RequireAuth(), handle.CreateContent)
		contentRoutes.GET("/my", middleware.RequireAuth(), handle.ListMyContent)
		contentRoutes.GET("/live", cached, handle.ListLive)

		// 审核
		moderationGroup := contentRoutes.Group("/moderation", middleware.RequirePermission(rbac.ContentModerate))
		{
			moderationGroup.GET("/queue", handle.ModerationQueue)
			moderationGroup.POST("/review", handle.ReviewContent)
		}

		// 单个内容，作者与权限校验在 service 中完成
		singleGroup := contentRoutes.Group("/:id")
		{
			singleGroup.GET("", cached, handle.GetContent)
			singleGroup.PUT("", middleware.RequireAuth(), handle.UpdateContent)
			singleGroup.DELETE("", middleware.RequireAuth(), handle.DeleteContent)
			singleGroup.POST("/publish", middleware.RequireAuth(), handle.PublishContent)
			singleGroup.POST("/view", handle.RecordView)
		}
	}
}
