package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
)

// ListUsers 分页查询用户.
//
//	@Summary		用户列表
//	@Tags			用户管理
//	@Produce		json
//	@Security		BearerAuth
//	@Param			page		query		int		false	"页码"
//	@Param			limit		query		int		false	"每页条数"
//	@Param			search		query		string	false	"邮箱或姓名"
//	@Param			userType	query		string	false	"用户类型"
//	@Param			status		query		string	false	"账户状态"
//	@Success		200			{object}	types.Page[types.UserProfile]
//	@Failure		403			{object}	types.ErrorResponse
//	@Router			/api/v1/users [get]
func ListUsers(c *gin.Context) {
	var q types.ListUsersQuery
	if !bindQuery(c, &q) {
		return
	}

	ctx := c.Request.Context()

	page, err := service.NewUserService(ctx).List(ctx, subject(c), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetUser 查询单个用户.
//
//	@Summary		用户详情
//	@Tags			用户管理
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"用户 ID"
//	@Success		200	{object}	types.UserProfile
//	@Failure		404	{object}	types.ErrorResponse
//	@Router			/api/v1/users/{id} [get]
func GetUser(c *gin.Context) {
	ctx := c.Request.Context()

	profile, err := service.NewUserService(ctx).Get(ctx, subject(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateUser 修改用户资料与状态.
//
//	@Summary		修改用户
//	@Tags			用户管理
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"用户 ID"
//	@Param			body	body		types.UpdateUserRequest	true	"资料字段"
//	@Success		200		{object}	types.UserProfile
//	@Failure		404		{object}	types.ErrorResponse
//	@Failure		409		{object}	types.ErrorResponse	"不能修改自己的状态"
//	@Router			/api/v1/users/{id} [put]
func UpdateUser(c *gin.Context) {
	var req types.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	profile, err := service.NewUserService(ctx).Update(ctx, subject(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateUserStatus 暂停、封禁或恢复用户.
//
//	@Summary		修改用户状态
//	@Tags			用户管理
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"用户 ID"
//	@Param			body	body		types.UpdateUserStatusRequest	true	"目标状态"
//	@Success		200		{object}	types.UserProfile
//	@Failure		409		{object}	types.ErrorResponse	"不能修改自己的状态"
//	@Router			/api/v1/users/{id}/status [put]
func UpdateUserStatus(c *gin.Context) {
	var req types.UpdateUserStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	profile, err := service.NewUserService(ctx).UpdateStatus(ctx, subject(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListAudit 分页查询审计日志.
//
//	@Summary		审计日志
//	@Tags			用户管理
//	@Produce		json
//	@Security		BearerAuth
//	@Param			action	query		string	false	"动作，如 ROLE_ASSIGNED"
//	@Param			page	query		int		false	"页码"
//	@Param			limit	query		int		false	"每页条数"
//	@Success		200		{object}	types.Page[model.AuditLog]
//	@Router			/api/v1/audit [get]
func ListAudit(c *gin.Context) {
	var p types.Pagination
	if !bindQuery(c, &p) {
		return
	}

	ctx := c.Request.Context()

	page, err := service.NewAuditService(ctx).List(ctx, c.Query("action"), p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
