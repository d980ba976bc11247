package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/ThreeDotsLabs/watermill/message"
	"gorm.io/gorm"

	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/model"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
	nlog "github.com/sloopymg1/ghana-creative-platform/pkg/log"
	"github.com/sloopymg1/ghana-creative-platform/pkg/queue"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

// SystemActor 由系统（CLI、定时任务）执行的操作在审计日志中的主体.
const SystemActor = "system"

// RBACService 维护角色、权限目录与用户角色关系.
//
// 有效权限每次都从当前角色重新计算，不做跨请求缓存.
type RBACService struct {
	base
	audit *AuditService
}

func NewRBACService(c context.Context) *RBACService {
	b := newBase(c)
	return &RBACService{base: b, audit: &AuditService{b}}
}

// loadUser 加载用户及其角色和权限.
func (s *RBACService) loadUser(ctx context.Context, userID string) (*model.User, error) {
	var u model.User
	if err := s.db(ctx).Preload("Roles.Permissions").Preload("ArtistProfile").First(&u, "id = ?", userID).Error; err != nil {
		return nil, notFound(err, "user")
	}

	return &u, nil
}

// subjectOf 由已加载角色的用户构造主体.
func subjectOf(u *model.User) *rbac.Subject {
	roles := make([]rbac.Role, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = r.ToRBAC()
	}

	return &rbac.Subject{UserID: u.ID, Roles: roles}
}

// Subject 加载用户当前角色，构造权限判定主体.
func (s *RBACService) Subject(ctx context.Context, userID string) (*rbac.Subject, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return subjectOf(u), nil
}

// Permissions 用户的有效权限集合.
func (s *RBACService) Permissions(ctx context.Context, userID string) (rbac.Set, error) {
	sub, err := s.Subject(ctx, userID)
	if err != nil {
		return rbac.Set{}, err
	}

	return sub.Permissions(), nil
}

// ListPermissions 按资源分组返回权限目录，组内按动作排序.
func (s *RBACService) ListPermissions(ctx context.Context, actor *rbac.Subject) ([]types.PermissionGroup, error) {
	if err := rbac.RequirePermission(actor, rbac.RolesRead); err != nil {
		return nil, err
	}

	var perms []model.Permission
	if err := s.db(ctx).Order("resource ASC").Order("action ASC").Find(&perms).Error; err != nil {
		return nil, err
	}

	groups := []types.PermissionGroup{}

	for _, p := range perms {
		if n := len(groups); n == 0 || groups[n-1].Resource != p.Resource {
			groups = append(groups, types.PermissionGroup{Resource: p.Resource})
		}

		g := &groups[len(groups)-1]
		g.Permissions = append(g.Permissions, types.PermissionInfo{
			ID:          p.ID,
			Name:        p.Name,
			Action:      p.Action,
			Description: p.Description,
		})
	}

	return groups, nil
}

// ListRoles 返回全部角色及其权限与用户数.
func (s *RBACService) ListRoles(ctx context.Context, actor *rbac.Subject) ([]types.RoleInfo, error) {
	if err := rbac.RequirePermission(actor, rbac.RolesRead); err != nil {
		return nil, err
	}

	var roles []model.Role
	if err := s.db(ctx).Preload("Permissions").Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}

	var counts []struct {
		RoleID string `gorm:"column:role_id"`
		Cnt    int64  `gorm:"column:cnt"`
	}

	if err := s.db(ctx).Table("user_roles").
		Select("role_id, COUNT(*) AS cnt").
		Group("role_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	byRole := make(map[string]int64, len(counts))
	for _, c := range counts {
		byRole[c.RoleID] = c.Cnt
	}

	out := make([]types.RoleInfo, len(roles))
	for i, r := range roles {
		out[i] = types.RoleInfo{
			ID:          r.ID,
			Name:        r.Name,
			DisplayName: r.DisplayName,
			Description: r.Description,
			IsSystem:    r.IsSystem,
			Permissions: r.ToRBAC().Permissions,
			UserCount:   byRole[r.ID],
		}
	}

	return out, nil
}

// AssignRoles 以 roleIDs 替换用户的全部角色.
func (s *RBACService) AssignRoles(ctx context.Context, actor *rbac.Subject, userID string, req types.AssignRolesRequest) (*model.User, error) {
	if err := rbac.RequirePermission(actor, rbac.UsersAssignRoles); err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	ids := slices.Compact(slices.Sorted(slices.Values(req.RoleIDs)))

	var roles []model.Role
	if err := s.db(ctx).Where("id IN ?", ids).Find(&roles).Error; err != nil {
		return nil, err
	}

	if len(roles) != len(ids) {
		return nil, fieldError("roleIds", "contains unknown roles")
	}

	return s.replaceRoles(ctx, actor.UserID, userID, roles)
}

// AssignRole 按名称为用户追加一个角色，已持有时不变.
func (s *RBACService) AssignRole(ctx context.Context, actorID, userID, roleName string) (*model.User, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if slices.Contains(u.RoleNames(), roleName) {
		return u, nil
	}

	var role model.Role
	if err := s.db(ctx).First(&role, "name = ?", roleName).Error; err != nil {
		return nil, notFound(err, "role")
	}

	return s.replaceRoles(ctx, actorID, userID, append(u.Roles, role))
}

// AssignRoleByEmail 按邮箱查找用户后追加角色，供 CLI 初始化管理员.
func (s *RBACService) AssignRoleByEmail(ctx context.Context, actorID, email, roleName string) (*model.User, error) {
	var u model.User
	if err := s.db(ctx).First(&u, "email = ?", normalizeEmail(email)).Error; err != nil {
		return nil, notFound(err, "user")
	}

	return s.AssignRole(ctx, actorID, u.ID, roleName)
}

// RemoveRole 按名称移除用户的一个角色，未持有时不变.
func (s *RBACService) RemoveRole(ctx context.Context, actorID, userID, roleName string) (*model.User, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := slices.DeleteFunc(slices.Clone(u.Roles), func(r model.Role) bool { return r.Name == roleName })
	if len(kept) == len(u.Roles) {
		return u, nil
	}

	return s.replaceRoles(ctx, actorID, userID, kept)
}

// replaceRoles 在事务中替换用户角色并记录审计与事件.
func (s *RBACService) replaceRoles(ctx context.Context, actorID, userID string, roles []model.Role) (*model.User, error) {
	before, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db(ctx).Transaction(func(tx *gorm.DB) error {
		u := model.User{ID: userID}
		if len(roles) == 0 {
			return tx.Model(&u).Association("Roles").Clear()
		}

		return tx.Model(&u).Association("Roles").Replace(roles)
	})
	if err != nil {
		return nil, fmt.Errorf("replace roles: %w", err)
	}

	after, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	oldNames, newNames := before.RoleNames(), after.RoleNames()
	added := diff(newNames, oldNames)
	removed := diff(oldNames, newNames)

	action := model.AuditRoleAssigned
	if len(added) == 0 && len(removed) > 0 {
		action = model.AuditRoleRemoved
	}

	s.audit.record(ctx, actorID, action, "User", userID, map[string]any{
		"roles":   newNames,
		"added":   added,
		"removed": removed,
	})

	s.emit(ctx, s.cfg.Events.User.RolesChanged, queue.TopicUserRolesChanged,
		func(pub message.Publisher, opts ...func(*queue.EventHeader)) error {
			return queue.PublishUserRolesChanged(pub, queue.UserRolesChangedPayload{
				UserID:  userID,
				ActorID: actorID,
				Roles:   newNames,
				Added:   added,
				Removed: removed,
			}, opts...)
		})

	return after, nil
}

// diff 返回 a 中不在 b 里的元素.
func diff(a, b []string) []string {
	out := []string{}

	for _, x := range a {
		if !slices.Contains(b, x) {
			out = append(out, x)
		}
	}

	return out
}

// Seed 写入默认权限目录与内置角色，可重复执行.
func (s *RBACService) Seed(ctx context.Context) error {
	l := nlog.Logger()

	return s.db(ctx).Transaction(func(tx *gorm.DB) error {
		byName := make(map[string]model.Permission)

		for _, def := range rbac.DefaultPermissions() {
			p := model.Permission{Name: def.Name}
			if err := tx.Where(model.Permission{Name: def.Name}).
				Assign(model.Permission{Resource: def.Resource, Action: def.Action, Description: def.Description}).
				FirstOrCreate(&p).Error; err != nil {
				return fmt.Errorf("seed permission %s: %w", def.Name, err)
			}

			byName[def.Name] = p
		}

		for _, def := range rbac.DefaultRoles() {
			r := model.Role{Name: def.Name}
			if err := tx.Where(model.Role{Name: def.Name}).
				Assign(model.Role{DisplayName: def.DisplayName, Description: def.Description, IsSystem: true}).
				FirstOrCreate(&r).Error; err != nil {
				return fmt.Errorf("seed role %s: %w", def.Name, err)
			}

			perms := make([]model.Permission, 0, len(def.Permissions))
			for _, name := range def.Permissions {
				perms = append(perms, byName[name])
			}

			if err := tx.Model(&r).Association("Permissions").Replace(perms); err != nil {
				return fmt.Errorf("seed role %s permissions: %w", def.Name, err)
			}
		}

		l.Info().Int("permissions", len(byName)).Int("roles", len(rbac.DefaultRoles())).Msg("rbac catalog seeded")

		return nil
	})
}
