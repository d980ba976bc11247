package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/model"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
	"github.com/sloopymg1/ghana-creative-platform/pkg/queue"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

// TestSeedIdempotent 测试重复写入默认目录不产生重复数据.
func TestSeedIdempotent(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, service.NewRBACService(e.ctx).Seed(e.ctx))

	var perms, roles int64
	require.NoError(t, e.db().Model(&model.Permission{}).Count(&perms).Error)
	require.NoError(t, e.db().Model(&model.Role{}).Count(&roles).Error)
	assert.Equal(t, int64(len(rbac.DefaultPermissions())), perms)
	assert.Equal(t, int64(len(rbac.DefaultRoles())), roles)

	var admin model.Role
	require.NoError(t, e.db().Preload("Permissions").First(&admin, "name = ?", rbac.RoleSuperAdmin).Error)
	assert.True(t, admin.IsSystem)
	assert.Equal(t, []string{rbac.Wildcard}, admin.ToRBAC().Permissions)
}

// TestSuperAdminHasEverything 测试通配符角色.
func TestSuperAdminHasEverything(t *testing.T) {
	e := newEnv(t)
	admin := e.register(t, "admin@example.com", rbac.RoleSuperAdmin)

	perms, err := service.NewRBACService(e.ctx).Permissions(e.ctx, admin.UserID)
	require.NoError(t, err)
	assert.True(t, perms.IsSuperAdmin())
	assert.True(t, perms.Has(rbac.UsersDelete, rbac.AnalyticsExport))
}

// TestAssignRemoveRole 测试按名称追加与移除角色.
func TestAssignRemoveRole(t *testing.T) {
	e := newEnv(t)
	user := e.register(t, "user@example.com")
	svc := service.NewRBACService(e.ctx)

	u, err := svc.AssignRole(e.ctx, service.SystemActor, user.UserID, rbac.RoleAnalyticsViewer)
	require.NoError(t, err)
	assert.Equal(t, []string{rbac.RoleAnalyticsViewer}, u.RoleNames())

	u, err = svc.AssignRole(e.ctx, service.SystemActor, user.UserID, rbac.RoleAnalyticsViewer)
	require.NoError(t, err)
	assert.Len(t, u.Roles, 1)

	_, err = svc.AssignRole(e.ctx, service.SystemActor, user.UserID, "NO_SUCH_ROLE")
	require.ErrorIs(t, err, service.ErrNotFound)

	u, err = svc.RemoveRole(e.ctx, service.SystemActor, user.UserID, rbac.RoleAnalyticsViewer)
	require.NoError(t, err)
	assert.Empty(t, u.Roles)

	perms, err := svc.Permissions(e.ctx, user.UserID)
	require.NoError(t, err)
	assert.Zero(t, perms.Len())

	var logs []model.AuditLog
	require.NoError(t, e.db().Where("resource_id = ? AND action IN ?", user.UserID,
		[]string{model.AuditRoleAssigned, model.AuditRoleRemoved}).Order("created_at ASC").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, model.AuditRoleAssigned, logs[0].Action)
	assert.Equal(t, model.AuditRoleRemoved, logs[1].Action)
	assert.Equal(t, service.SystemActor, logs[1].UserID)
}

// TestAssignRoles 测试按 ID 替换角色、权限检查与事件.
func TestAssignRoles(t *testing.T) {
	e := newEnv(t)
	manager := e.register(t, "manager@example.com", rbac.RoleUserManager)
	user := e.register(t, "user@example.com", rbac.RoleAnalyticsViewer)

	events := e.withMQ(t, queue.TopicUserRolesChanged)
	svc := service.NewRBACService(e.ctx)

	var mod model.Role
	require.NoError(t, e.db().First(&mod, "name = ?", rbac.RoleContentModerator).Error)

	_, err := svc.AssignRoles(e.ctx, user, manager.UserID, types.AssignRolesRequest{RoleIDs: []string{mod.ID}})
	require.ErrorIs(t, err, rbac.ErrForbidden)

	_, err = svc.AssignRoles(e.ctx, manager, user.UserID, types.AssignRolesRequest{RoleIDs: []string{mod.ID, "unknown"}})
	require.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.AssignRoles(e.ctx, manager, user.UserID, types.AssignRolesRequest{})
	require.ErrorIs(t, err, service.ErrValidation)

	u, err := svc.AssignRoles(e.ctx, manager, user.UserID, types.AssignRolesRequest{RoleIDs: []string{mod.ID, mod.ID}})
	require.NoError(t, err)
	assert.Equal(t, []string{rbac.RoleContentModerator}, u.RoleNames())

	ev, err := queue.ParseUserRolesChanged(receive(t, events))
	require.NoError(t, err)
	assert.Equal(t, user.UserID, ev.Payload.UserID)
	assert.Equal(t, manager.UserID, ev.Payload.ActorID)
	assert.Equal(t, []string{rbac.RoleContentModerator}, ev.Payload.Added)
	assert.Equal(t, []string{rbac.RoleAnalyticsViewer}, ev.Payload.Removed)

	sub, err := svc.Subject(e.ctx, user.UserID)
	require.NoError(t, err)
	assert.True(t, sub.Permissions().Has(rbac.ContentModerate))
	assert.False(t, sub.Permissions().Has(rbac.AnalyticsView))
}

// TestListRolesAndPermissions 测试角色列表与权限目录.
func TestListRolesAndPermissions(t *testing.T) {
	e := newEnv(t)
	admin := e.register(t, "admin@example.com", rbac.RoleSuperAdmin)
	e.register(t, "mod1@example.com", rbac.RoleContentModerator)
	e.register(t, "mod2@example.com", rbac.RoleContentModerator)
	plain := e.register(t, "plain@example.com")
	svc := service.NewRBACService(e.ctx)

	_, err := svc.ListRoles(e.ctx, plain)
	require.ErrorIs(t, err, rbac.ErrForbidden)

	roles, err := svc.ListRoles(e.ctx, admin)
	require.NoError(t, err)
	require.Len(t, roles, len(rbac.DefaultRoles()))

	counts := map[string]int64{}
	for _, r := range roles {
		counts[r.Name] = r.UserCount
	}

	assert.Equal(t, int64(2), counts[rbac.RoleContentModerator])
	assert.Equal(t, int64(1), counts[rbac.RoleSuperAdmin])
	assert.Zero(t, counts[rbac.RoleUserManager])

	groups, err := svc.ListPermissions(e.ctx, admin)
	require.NoError(t, err)

	byResource := map[string]int{}
	for _, g := range groups {
		byResource[g.Resource] = len(g.Permissions)
	}

	assert.Equal(t, map[string]int{"*": 1, "analytics": 4, "content": 6, "roles": 4, "users": 6}, byResource)
}

// TestAssignRoleByEmail 测试按邮箱授予角色.
func TestAssignRoleByEmail(t *testing.T) {
	e := newEnv(t)
	sub := e.register(t, "efua@example.com")
	rs := service.NewRBACService(e.ctx)

	u, err := rs.AssignRoleByEmail(e.ctx, service.SystemActor, "  EFUA@example.com ", rbac.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, u.ID)
	assert.Equal(t, []string{rbac.RoleSuperAdmin}, u.RoleNames())

	_, err = rs.AssignRoleByEmail(e.ctx, service.SystemActor, "nobody@example.com", rbac.RoleSuperAdmin)
	require.ErrorIs(t, err, service.ErrNotFound)
}
