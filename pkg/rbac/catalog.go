package rbac

import "slices"

// 常用权限名.
const (
	UsersCreate      = "users.create"
	UsersRead        = "users.read"
	UsersUpdate      = "users.update"
	UsersDelete      = "users.delete"
	UsersSuspend     = "users.suspend"
	UsersAssignRoles = "users.assign-roles"

	ContentCreate   = "content.create"
	ContentRead     = "content.read"
	ContentUpdate   = "content.update"
	ContentDelete   = "content.delete"
	ContentModerate = "content.moderate"
	ContentPublish  = "content.publish"

	RolesCreate = "roles.create"
	RolesRead   = "roles.read"
	RolesUpdate = "roles.update"
	RolesDelete = "roles.delete"

	AnalyticsViewOwn = "analytics.view-own"
	AnalyticsViewAll = "analytics.view-all"
	AnalyticsView    = "analytics.view"
	AnalyticsExport  = "analytics.export"
)

// 系统内置角色名.
const (
	RoleSuperAdmin       = "SUPER_ADMIN"
	RoleUserManager      = "USER_MANAGER"
	RoleContentModerator = "CONTENT_MODERATOR"
	RoleAnalyticsViewer  = "ANALYTICS_VIEWER"
)

// PermissionDef 权限目录中的一项.
type PermissionDef struct {
	Name        string
	Resource    string
	Action      string
	Description string
}

// RoleDef 内置角色定义.
type RoleDef struct {
	Name        string
	DisplayName string
	Description string
	Permissions []string
}

var defaultPermissions = []PermissionDef{
	{UsersCreate, "users", "create", "Create new users"},
	{UsersRead, "users", "read", "View user details"},
	{UsersUpdate, "users", "update", "Update user information"},
	{UsersDelete, "users", "delete", "Delete users"},
	{UsersSuspend, "users", "suspend", "Suspend user accounts"},
	{UsersAssignRoles, "users", "assign-roles", "Assign roles to users"},
	{ContentCreate, "content", "create", "Create content"},
	{ContentRead, "content", "read", "View content"},
	{ContentUpdate, "content", "update", "Update content"},
	{ContentDelete, "content", "delete", "Delete content"},
	{ContentModerate, "content", "moderate", "Moderate content"},
	{ContentPublish, "content", "publish", "Publish content"},
	{RolesCreate, "roles", "create", "Create roles"},
	{RolesRead, "roles", "read", "View roles"},
	{RolesUpdate, "roles", "update", "Update roles"},
	{RolesDelete, "roles", "delete", "Delete roles"},
	{AnalyticsViewOwn, "analytics", "view-own", "View own analytics"},
	{AnalyticsViewAll, "analytics", "view-all", "View all analytics"},
	{AnalyticsView, "analytics", "view", "View analytics dashboard"},
	{AnalyticsExport, "analytics", "export", "Export analytics data"},
	{Wildcard, "*", "*", "All permissions"},
}

// DefaultPermissions 返回默认权限目录（副本）.
func DefaultPermissions() []PermissionDef {
	out := make([]PermissionDef, len(defaultPermissions))
	copy(out, defaultPermissions)

	return out
}

// DefaultRoles 返回内置角色；权限从目录按资源前缀展开.
func DefaultRoles() []RoleDef {
	return []RoleDef{
		{
			Name:        RoleSuperAdmin,
			DisplayName: "Super Administrator",
			Description: "Full system access",
			Permissions: []string{Wildcard},
		},
		{
			Name:        RoleUserManager,
			DisplayName: "User Manager",
			Description: "Manage users and their roles",
			Permissions: byResource("users", UsersDelete),
		},
		{
			Name:        RoleContentModerator,
			DisplayName: "Content Moderator",
			Description: "Review and moderate content",
			Permissions: byResource("content"),
		},
		{
			Name:        RoleAnalyticsViewer,
			DisplayName: "Analytics Viewer",
			Description: "View platform analytics",
			Permissions: byResource("analytics"),
		},
	}
}

// byResource 返回某资源下的所有权限，排除 except.
func byResource(resource string, except ...string) []string {
	var out []string

	for _, p := range defaultPermissions {
		if p.Resource != resource || slices.Contains(except, p.Name) {
			continue
		}

		out = append(out, p.Name)
	}

	return out
}
