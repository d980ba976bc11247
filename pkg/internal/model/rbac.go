package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

// Permission 权限目录项，Name 形如 resource.action.
type Permission struct {
	ID          string    `gorm:"primaryKey;size:36"    json:"id"`
	Name        string    `gorm:"size:128;uniqueIndex"  json:"name"`
	Resource    string    `gorm:"size:64;index"         json:"resource"`
	Action      string    `gorm:"size:64"               json:"action"`
	Description string    `gorm:"size:255"              json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate 补齐主键.
func (p *Permission) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// Role 角色，权限通过 role_permissions 关联.
type Role struct {
	ID          string       `gorm:"primaryKey;size:36"          json:"id"`
	Name        string       `gorm:"size:64;uniqueIndex"         json:"name"`
	DisplayName string       `gorm:"size:128"                    json:"display_name"`
	Description string       `gorm:"size:255"                    json:"description"`
	IsSystem    bool         `json:"is_system"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// BeforeCreate 补齐主键.
func (r *Role) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// ToRBAC 转换为权限计算使用的角色视图，需预加载 Permissions.
func (r Role) ToRBAC() rbac.Role {
	perms := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, p.Name)
	}

	return rbac.Role{Name: r.Name, Permissions: perms}
}
