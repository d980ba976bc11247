package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

var (
	moderator = rbac.Role{Name: "MOD", Permissions: []string{"content.read", "content.moderate"}}
	editor    = rbac.Role{Name: "EDITOR", Permissions: []string{"content.read", "content.update"}}
	admin     = rbac.Role{Name: "ADMIN", Permissions: []string{rbac.Wildcard}}
)

// TestResolve 测试角色权限合并与去重.
func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		roles []rbac.Role
		want  []string
	}{
		{name: "无角色", roles: nil, want: nil},
		{name: "单角色", roles: []rbac.Role{moderator}, want: []string{"content.read", "content.moderate"}},
		{
			name:  "多角色去重",
			roles: []rbac.Role{moderator, editor},
			want:  []string{"content.read", "content.moderate", "content.update"},
		},
		{name: "通配符", roles: []rbac.Role{admin}, want: []string{"*"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := rbac.Resolve(tt.roles...)
			assert.Equal(t, len(tt.want), set.Len())

			if tt.want != nil {
				assert.Equal(t, tt.want, set.List())
			}
		})
	}
}

// TestHas 测试 AND 语义.
func TestHas(t *testing.T) {
	set := rbac.Resolve(moderator)

	tests := []struct {
		name     string
		set      rbac.Set
		required []string
		want     bool
	}{
		{name: "单个存在", set: set, required: []string{"content.moderate"}, want: true},
		{name: "单个不存在", set: set, required: []string{"users.delete"}, want: false},
		{name: "全部存在", set: set, required: []string{"content.read", "content.moderate"}, want: true},
		{name: "部分存在", set: set, required: []string{"content.read", "users.delete"}, want: false},
		{name: "大小写敏感", set: set, required: []string{"Content.Moderate"}, want: false},
		{name: "空要求", set: set, required: nil, want: true},
		{name: "空集合", set: rbac.Resolve(), required: []string{"content.read"}, want: false},
		{name: "通配符任意权限", set: rbac.Resolve(admin), required: []string{"anything.at-all", "x.y"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.set.Has(tt.required...))
		})
	}
}

// TestHasAny 测试 OR 语义.
func TestHasAny(t *testing.T) {
	set := rbac.Resolve(editor)

	assert.True(t, set.HasAny("users.create", "content.update"))
	assert.False(t, set.HasAny("users.create", "users.delete"))
	assert.False(t, set.HasAny())
	assert.True(t, rbac.Resolve(admin).HasAny("nothing.here"))
	assert.True(t, rbac.Resolve(admin).HasAny())
}

// TestWildcardOnlyAsWholePermission 只有完整的 "*" 才是通配符.
func TestWildcardOnlyAsWholePermission(t *testing.T) {
	set := rbac.NewSet("content.*")

	assert.False(t, set.IsSuperAdmin())
	assert.False(t, set.Has("content.read"))
	assert.True(t, rbac.NewSet("content.read", "*").IsSuperAdmin())
}

// TestRequirePermission 测试请求级校验的错误分类.
func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name     string
		subject  *rbac.Subject
		required []string
		wantErr  error
	}{
		{name: "无会话", subject: nil, required: []string{"content.read"}, wantErr: rbac.ErrUnauthenticated},
		{name: "无用户", subject: &rbac.Subject{}, required: []string{"content.read"}, wantErr: rbac.ErrUnauthenticated},
		{
			name:     "无角色",
			subject:  &rbac.Subject{UserID: "u1"},
			required: []string{"content.read"},
			wantErr:  rbac.ErrForbidden,
		},
		{
			name:     "权限不足",
			subject:  &rbac.Subject{UserID: "u1", Roles: []rbac.Role{editor}},
			required: []string{"content.moderate"},
			wantErr:  rbac.ErrForbidden,
		},
		{
			name:     "权限满足",
			subject:  &rbac.Subject{UserID: "u1", Roles: []rbac.Role{editor, moderator}},
			required: []string{"content.moderate", "content.update"},
		},
		{
			name:     "超级管理员",
			subject:  &rbac.Subject{UserID: "root", Roles: []rbac.Role{admin}},
			required: []string{"users.assign-roles"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rbac.RequirePermission(tt.subject, tt.required...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// TestRequireAnyPermission 测试 OR 语义的请求级校验.
func TestRequireAnyPermission(t *testing.T) {
	s := &rbac.Subject{UserID: "u1", Roles: []rbac.Role{editor}}

	require.NoError(t, rbac.RequireAnyPermission(s, "analytics.view", "content.update"))
	assert.ErrorIs(t, rbac.RequireAnyPermission(s, "analytics.view"), rbac.ErrForbidden)
	assert.ErrorIs(t, rbac.RequireAnyPermission(nil, "analytics.view"), rbac.ErrUnauthenticated)
}

// TestDefaultRoles 测试内置角色展开.
func TestDefaultRoles(t *testing.T) {
	roles := map[string]rbac.RoleDef{}
	for _, r := range rbac.DefaultRoles() {
		roles[r.Name] = r
	}

	require.Len(t, roles, 4)
	assert.Equal(t, []string{rbac.Wildcard}, roles[rbac.RoleSuperAdmin].Permissions)
	assert.NotContains(t, roles[rbac.RoleUserManager].Permissions, rbac.UsersDelete)
	assert.Contains(t, roles[rbac.RoleUserManager].Permissions, rbac.UsersAssignRoles)
	assert.Len(t, roles[rbac.RoleContentModerator].Permissions, 6)
	assert.Len(t, roles[rbac.RoleAnalyticsViewer].Permissions, 4)

	catalog := map[string]bool{}
	for _, p := range rbac.DefaultPermissions() {
		catalog[p.Name] = true
	}

	for _, r := range roles {
		for _, p := range r.Permissions {
			assert.True(t, catalog[p], "role %s references unknown permission %s", r.Name, p)
		}
	}
}
