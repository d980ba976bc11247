package router

import (
	"github.com/gin-gonic/gin"

	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/handle"
	"github.com/sloopymg1/ghana-creative-platform/pkg/middleware"
)

// RegisterAIRoutes 注册审核打分、标签、情感与推荐路由.
func RegisterAIRoutes(g *gin.RouterGroup, cached gin.HandlerFunc) {
	aiRoutes := g.Group("/ai")
	{
		authed := aiRoutes.Group("", middleware.RequireAuth())
		{
			authed.POST("/moderate", handle.Moderate)
			authed.POST("/suggest-tags", handle.SuggestTags)
			authed.POST("/sentiment", handle.Sentiment)
		}

		aiRoutes.GET("/similar/:id", cached, handle.Similar)
		aiRoutes.GET("/recommendations", cached, handle.Recommendations)
		aiRoutes.GET("/trending", cached, handle.Trending)
	}
}
