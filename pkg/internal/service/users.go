package service

import (
	"context"
	"maps"
	"slices"
	"strings"

	"gorm.io/gorm"

	"github.com/sloopymg1/ghana-creative-platform/pkg/content"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/model"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

// UserService 用户管理.
type UserService struct {
	base
	audit *AuditService
	rbac  *RBACService
}

func NewUserService(c context.Context) *UserService {
	b := newBase(c)
	audit := &AuditService{b}

	return &UserService{base: b, audit: audit, rbac: &RBACService{base: b, audit: audit}}
}

// List 分页列出用户，支持按姓名/邮箱搜索与按类型、状态过滤.
func (s *UserService) List(ctx context.Context, actor *rbac.Subject, q types.ListUsersQuery) (types.Page[types.UserProfile], error) {
	if err := rbac.RequirePermission(actor, rbac.UsersRead); err != nil {
		return types.Page[types.UserProfile]{}, err
	}

	if err := validate(q); err != nil {
		return types.Page[types.UserProfile]{}, err
	}

	p := q.Pagination.Normalize()
	tx := s.db(ctx).Model(&model.User{})

	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		tx = tx.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}

	if q.UserType != "" {
		tx = tx.Where("user_type = ?", q.UserType)
	}

	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return types.Page[types.UserProfile]{}, err
	}

	var users []model.User
	if err := tx.Preload("Roles.Permissions").
		Order("created_at DESC").
		Offset(p.Offset()).Limit(p.PerPage).
		Find(&users).Error; err != nil {
		return types.Page[types.UserProfile]{}, err
	}

	out := make([]types.UserProfile, len(users))
	for i := range users {
		out[i] = profileOf(&users[i])
	}

	return types.NewPage(out, total, p), nil
}

// Get 查看单个用户；本人无需权限.
func (s *UserService) Get(ctx context.Context, actor *rbac.Subject, userID string) (types.UserProfile, error) {
	if actor == nil || actor.UserID != userID {
		if err := rbac.RequirePermission(actor, rbac.UsersRead); err != nil {
			return types.UserProfile{}, err
		}
	}

	u, err := s.rbac.loadUser(ctx, userID)
	if err != nil {
		return types.UserProfile{}, err
	}

	return profileOf(u), nil
}

// UpdateStatus 修改账户状态，不能修改自己的状态.
func (s *UserService) UpdateStatus(ctx context.Context, actor *rbac.Subject, userID string, req types.UpdateUserStatusRequest) (types.UserProfile, error) {
	if err := rbac.RequirePermission(actor, rbac.UsersSuspend); err != nil {
		return types.UserProfile{}, err
	}

	if err := validate(req); err != nil {
		return types.UserProfile{}, err
	}

	if actor.UserID == userID {
		return types.UserProfile{}, ErrConflict
	}

	u, err := s.rbac.loadUser(ctx, userID)
	if err != nil {
		return types.UserProfile{}, err
	}

	prev := u.Status
	if err := s.db(ctx).Model(u).Update("status", req.Status).Error; err != nil {
		return types.UserProfile{}, err
	}

	u.Status = model.UserStatus(req.Status)

	s.audit.record(ctx, actor.UserID, model.AuditUserStatus, "User", userID, map[string]any{
		"from":   prev,
		"to":     u.Status,
		"reason": req.Reason,
	})

	return profileOf(u), nil
}

// trimName 去除首尾空白，提供了但为空时返回校验错误.
func trimName(field string, v *string) error {
	if v == nil {
		return nil
	}

	*v = strings.TrimSpace(*v)
	if *v == "" {
		return fieldError(field, "must not be empty")
	}

	return nil
}

// userUpdates 收集非空字段对应的列.
func userUpdates(firstName, lastName, phone, bio *string) map[string]any {
	updates := map[string]any{}

	if firstName != nil {
		updates["first_name"] = *firstName
	}

	if lastName != nil {
		updates["last_name"] = *lastName
	}

	if phone != nil {
		updates["phone_number"] = *phone
	}

	if bio != nil {
		updates["bio"] = strings.TrimSpace(*bio)
	}

	return updates
}

// UpdateProfile 修改本人资料；ARTIST 账户可同时创建或修改艺术家主页.
func (s *UserService) UpdateProfile(ctx context.Context, actor *rbac.Subject, req types.UpdateProfileRequest) (types.UserProfile, error) {
	if err := requireSession(actor); err != nil {
		return types.UserProfile{}, err
	}

	if err := trimName("firstName", req.FirstName); err != nil {
		return types.UserProfile{}, err
	}

	if err := trimName("lastName", req.LastName); err != nil {
		return types.UserProfile{}, err
	}

	if err := validate(req); err != nil {
		return types.UserProfile{}, err
	}

	u, err := s.rbac.loadUser(ctx, actor.UserID)
	if err != nil {
		return types.UserProfile{}, err
	}

	if req.ArtistProfile != nil && u.UserType != model.UserTypeArtist {
		return types.UserProfile{}, fieldError("artistProfile", "only artist accounts have an artist profile")
	}

	updates := userUpdates(req.FirstName, req.LastName, req.PhoneNumber, req.Bio)

	err = s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&model.User{}).Where("id = ?", u.ID).Updates(updates).Error; err != nil {
				return err
			}
		}

		if req.ArtistProfile != nil {
			return s.saveArtistProfile(tx, u, *req.ArtistProfile)
		}

		return nil
	})
	if err != nil {
		return types.UserProfile{}, err
	}

	details := map[string]any{"fields": slices.Sorted(maps.Keys(updates))}
	if req.ArtistProfile != nil {
		details["artistProfile"] = true
	}

	s.audit.record(ctx, actor.UserID, model.AuditProfileUpdated, "User", actor.UserID, details)

	return s.Get(ctx, actor, actor.UserID)
}

// saveArtistProfile 不存在时以艺名（或姓名）生成 slug 并创建，存在时只更新提供的字段.
func (s *UserService) saveArtistProfile(tx *gorm.DB, u *model.User, req types.ArtistProfileRequest) error {
	p := u.ArtistProfile
	if p == nil {
		name := u.FirstName + " " + u.LastName
		if req.StageName != nil {
			name = *req.StageName
		}

		slug, err := uniqueSlug(tx, &model.ArtistProfile{}, name, "artist")
		if err != nil {
			return err
		}

		p = &model.ArtistProfile{UserID: u.ID, Slug: slug, Categories: []content.Category{}}
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}

	set(&p.StageName, req.StageName)
	set(&p.InstagramURL, req.InstagramURL)
	set(&p.TwitterURL, req.TwitterURL)
	set(&p.FacebookURL, req.FacebookURL)
	set(&p.YoutubeURL, req.YoutubeURL)
	set(&p.WebsiteURL, req.WebsiteURL)

	if req.Categories != nil {
		p.Categories = toCategories(*req.Categories)
	}

	return tx.Save(p).Error
}

// Update 管理员修改用户资料与状态，不能修改自己的状态.
func (s *UserService) Update(ctx context.Context, actor *rbac.Subject, userID string, req types.UpdateUserRequest) (types.UserProfile, error) {
	if err := rbac.RequirePermission(actor, rbac.UsersUpdate); err != nil {
		return types.UserProfile{}, err
	}

	if err := trimName("firstName", req.FirstName); err != nil {
		return types.UserProfile{}, err
	}

	if err := trimName("lastName", req.LastName); err != nil {
		return types.UserProfile{}, err
	}

	if err := validate(req); err != nil {
		return types.UserProfile{}, err
	}

	if req.Status != nil && actor.UserID == userID {
		return types.UserProfile{}, ErrConflict
	}

	u, err := s.rbac.loadUser(ctx, userID)
	if err != nil {
		return types.UserProfile{}, err
	}

	updates := userUpdates(req.FirstName, req.LastName, req.PhoneNumber, req.Bio)
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := s.db(ctx).Model(&model.User{}).Where("id = ?", u.ID).Updates(updates).Error; err != nil {
			return types.UserProfile{}, err
		}
	}

	s.audit.record(ctx, actor.UserID, model.AuditUserUpdated, "User", userID, updates)

	u, err = s.rbac.loadUser(ctx, userID)
	if err != nil {
		return types.UserProfile{}, err
	}

	return profileOf(u), nil
}

// Artist 按 slug 查询状态为 ACTIVE 的艺术家公开主页.
func (s *UserService) Artist(ctx context.Context, slug string) (types.Artist, error) {
	var p model.ArtistProfile
	if err := s.db(ctx).First(&p, "slug = ?", slug).Error; err != nil {
		return types.Artist{}, notFound(err, "artist")
	}

	var u model.User
	if err := s.db(ctx).First(&u, "id = ? AND user_type = ? AND status = ?",
		p.UserID, model.UserTypeArtist, model.UserStatusActive).Error; err != nil {
		return types.Artist{}, notFound(err, "artist")
	}

	return types.Artist{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
		Profile:   *artistProfileOf(&p),
	}, nil
}
