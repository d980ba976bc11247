package handle

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
)

// Register 注册新用户.
//
//	@Summary		注册
//	@Description	创建账户并分配默认角色，账户初始状态为 PENDING_VERIFICATION
//	@Tags			认证
//	@Accept			json
//	@Produce		json
//	@Param			body	body		types.RegisterRequest	true	"注册信息"
//	@Success		201		{object}	model.User
//	@Failure		400		{object}	types.ErrorResponse	"参数校验失败"
//	@Failure		409		{object}	types.ErrorResponse	"邮箱已注册"
//	@Router			/api/v1/auth/register [post]
func Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	u, err := service.NewAuthService(ctx).Register(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": u})
}

// Login 邮箱密码登录并签发 JWT.
//
//	@Summary		登录
//	@Tags			认证
//	@Accept			json
//	@Produce		json
//	@Param			body	body		types.LoginRequest	true	"登录信息"
//	@Success		200		{object}	types.LoginResponse
//	@Failure		401		{object}	types.ErrorResponse	"邮箱或密码错误"
//	@Failure		403		{object}	types.ErrorResponse	"账户已停用"
//	@Router			/api/v1/auth/login [post]
func Login(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	resp, err := service.NewAuthService(ctx).Login(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	setSessionCookie(c, resp.Token, int(time.Until(resp.ExpiresAt).Seconds()))
	c.JSON(http.StatusOK, resp)
}

// setSessionCookie 未配置 cookie 名时不写；maxAge 为负表示删除.
func setSessionCookie(c *gin.Context, token string, maxAge int) {
	name := configs.GetConfig().Auth.CookieName
	if name == "" {
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, token, maxAge, "/", "", c.Request.TLS != nil, true)
}

// Logout 清除会话 cookie，已登录时记录审计.
//
//	@Summary		登出
//	@Tags			认证
//	@Success		204
//	@Router			/api/v1/auth/logout [post]
func Logout(c *gin.Context) {
	ctx := c.Request.Context()

	service.NewAuthService(ctx).Logout(ctx, subject(c))
	setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

// Me 当前登录用户的资料与权限.
//
//	@Summary		当前用户
//	@Tags			认证
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	types.UserProfile
//	@Failure		401	{object}	types.ErrorResponse
//	@Router			/api/v1/user/me [get]
func Me(c *gin.Context) {
	ctx := c.Request.Context()

	profile, err := service.NewAuthService(ctx).Me(ctx, subject(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile 修改本人资料与艺术家主页.
//
//	@Summary		修改个人资料
//	@Tags			认证
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		types.UpdateProfileRequest	true	"资料字段"
//	@Success		200		{object}	types.UserProfile
//	@Failure		400		{object}	types.ErrorResponse
//	@Failure		401		{object}	types.ErrorResponse
//	@Router			/api/v1/user/profile [put]
func UpdateProfile(c *gin.Context) {
	var req types.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	profile, err := service.NewUserService(ctx).UpdateProfile(ctx, subject(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetArtist 艺术家公开主页.
//
//	@Summary		艺术家主页
//	@Tags			艺术家
//	@Produce		json
//	@Param			slug	path		string	true	"主页 slug"
//	@Success		200		{object}	types.Artist
//	@Failure		404		{object}	types.ErrorResponse
//	@Router			/api/v1/artists/{slug} [get]
func GetArtist(c *gin.Context) {
	ctx := c.Request.Context()

	artist, err := service.NewUserService(ctx).Artist(ctx, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, artist)
}
