package router

import (
	"github.com/gin-gonic/gin"

	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/handle"
	"github.com/sloopymg1/ghana-creative-platform/pkg/middleware"
)

// RegisterAuthRoutes 注册认证、个人资料与艺术家主页路由.
func RegisterAuthRoutes(g *gin.RouterGroup) {
	authRoutes := g.Group("/auth")
	{
		authRoutes.POST("/register", handle.Register)
		authRoutes.POST("/login", handle.Login)
		authRoutes.POST("/logout", handle.Logout)
	}

	userRoutes := g.Group("/user", middleware.RequireAuth())
	{
		userRoutes.GET("/me", handle.Me)
		userRoutes.PUT("/profile", handle.UpdateProfile)
	}

	g.GET("/artists/:slug", handle.GetArtist)
}
