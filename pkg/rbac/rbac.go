// Package rbac 计算用户的有效权限集合并判定访问.
//
// 权限是形如 "resource.action" 的字符串，大小写敏感、精确匹配；"*" 为超级管理员通配符，
// 在 Set 内部以独立标记保存，任何检查都会先查询该标记。
//
// Example:
//
//	set := rbac.Resolve(userRoles...)
//	if set.Has("content.moderate") {
//		// ...
//	}
//
//	if err := rbac.RequirePermission(subject, "users.assign-roles"); err != nil {
//		// errors.Is(err, rbac.ErrUnauthenticated) -> 401
//		// errors.Is(err, rbac.ErrForbidden)       -> 403
//	}
package rbac

import (
	"errors"
	"slices"
)

// Wildcard 授予全部权限的特殊权限名.
const Wildcard = "*"

var (
	// ErrUnauthenticated 请求没有有效会话.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden 会话有效但权限不足.
	ErrForbidden = errors.New("insufficient permissions")
)

// Role 角色及其直接授予的权限名.
type Role struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// Set 一个用户的有效权限集合，不可变.
type Set struct {
	all   bool
	perms map[string]struct{}
	order []string
}

// Resolve 合并所有角色的权限，去重并保持首次出现的顺序。没有角色时返回空集合.
func Resolve(roles ...Role) Set {
	s := Set{perms: make(map[string]struct{})}

	for _, r := range roles {
		for _, p := range r.Permissions {
			if p == Wildcard {
				s.all = true
			}

			if _, ok := s.perms[p]; ok {
				continue
			}

			s.perms[p] = struct{}{}
			s.order = append(s.order, p)
		}
	}

	return s
}

// NewSet 直接由权限名构造集合.
func NewSet(perms ...string) Set {
	return Resolve(Role{Permissions: perms})
}

// IsSuperAdmin 集合中是否含通配符.
func (s Set) IsSuperAdmin() bool { return s.all }

// Has 全部满足（AND）。通配符直接通过；required 为空时恒为 true.
func (s Set) Has(required ...string) bool {
	if s.all {
		return true
	}

	for _, p := range required {
		if _, ok := s.perms[p]; !ok {
			return false
		}
	}

	return true
}

// HasAny 任一满足（OR）。通配符直接通过；required 为空时为 false.
func (s Set) HasAny(required ...string) bool {
	if s.all {
		return true
	}

	return slices.ContainsFunc(required, func(p string) bool {
		_, ok := s.perms[p]
		return ok
	})
}

// Len 集合中权限的个数.
func (s Set) Len() int { return len(s.order) }

// List 返回权限名列表（首次出现顺序）.
func (s Set) List() []string { return slices.Clone(s.order) }

// Subject 一次请求的主体：会话中的用户及其当前角色.
type Subject struct {
	UserID string
	Roles  []Role
}

// Permissions 主体的有效权限集合.
func (s *Subject) Permissions() Set {
	if s == nil {
		return Set{}
	}

	return Resolve(s.Roles...)
}

// RequirePermission 校验主体拥有全部 required 权限.
func RequirePermission(s *Subject, required ...string) error {
	if s == nil || s.UserID == "" {
		return ErrUnauthenticated
	}

	if !s.Permissions().Has(required...) {
		return ErrForbidden
	}

	return nil
}

// RequireAnyPermission 校验主体至少拥有 required 之一.
func RequireAnyPermission(s *Subject, required ...string) error {
	if s == nil || s.UserID == "" {
		return ErrUnauthenticated
	}

	if !s.Permissions().HasAny(required...) {
		return ErrForbidden
	}

	return nil
}
