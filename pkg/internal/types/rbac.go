package types

// AssignRolesRequest 替换用户的角色.
type AssignRolesRequest struct {
	RoleIDs []string `json:"roleIds" rule:"required,min=1,dive,required"`
}

// PermissionGroup 按资源分组的权限.
type PermissionGroup struct {
	Resource    string           `json:"resource"`
	Permissions []PermissionInfo `json:"permissions"`
}

// PermissionInfo 权限目录项.
type PermissionInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

// RoleInfo 角色与其权限名.
type RoleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	IsSystem    bool     `json:"isSystem"`
	Permissions []string `json:"permissions"`
	UserCount   int64    `json:"userCount"`
}
