package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
)

// ListPermissions 按资源分组的权限目录.
//
//	@Summary		权限列表
//	@Tags			角色权限
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	map[string][]types.PermissionGroup
//	@Failure		403	{object}	types.ErrorResponse
//	@Router			/api/v1/permissions [get]
func ListPermissions(c *gin.Context) {
	ctx := c.Request.Context()

	groups, err := service.NewRBACService(ctx).ListPermissions(ctx, subject(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"permissions": groups})
}

// ListRoles 角色及其权限与用户数.
//
//	@Summary		角色列表
//	@Tags			角色权限
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	map[string][]types.RoleInfo
//	@Failure		403	{object}	types.ErrorResponse
//	@Router			/api/v1/roles [get]
func ListRoles(c *gin.Context) {
	ctx := c.Request.Context()

	roles, err := service.NewRBACService(ctx).ListRoles(ctx, subject(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// AssignRoles 替换用户的角色集合.
//
//	@Summary		分配角色
//	@Tags			角色权限
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"用户 ID"
//	@Param			body	body		types.AssignRolesRequest	true	"角色 ID 或名称"
//	@Success		200		{object}	model.User
//	@Failure		400		{object}	types.ErrorResponse
//	@Failure		403		{object}	types.ErrorResponse
//	@Failure		404		{object}	types.ErrorResponse
//	@Router			/api/v1/users/{id}/roles [put]
func AssignRoles(c *gin.Context) {
	var req types.AssignRolesRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	u, err := service.NewRBACService(ctx).AssignRoles(ctx, subject(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u})
}
