package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/model"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

// TestListUsers 测试用户列表的权限、搜索与过滤.
func TestListUsers(t *testing.T) {
	e := newEnv(t)
	manager := e.register(t, "manager@example.com", rbac.RoleUserManager)
	e.register(t, "abena@example.com")
	e.register(t, "kwame@example.com")
	svc := service.NewUserService(e.ctx)

	_, err := svc.List(e.ctx, grant("x"), types.ListUsersQuery{})
	require.ErrorIs(t, err, rbac.ErrForbidden)

	page, err := svc.List(e.ctx, manager, types.ListUsersQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	page, err = svc.List(e.ctx, manager, types.ListUsersQuery{Search: "ABENA"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "abena@example.com", page.Items[0].Email)

	page, err = svc.List(e.ctx, manager, types.ListUsersQuery{Status: string(model.UserStatusActive)})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	page, err = svc.List(e.ctx, manager, types.ListUsersQuery{Pagination: types.Pagination{Page: 1, PerPage: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Total)
}

// TestGetUser 测试本人无需权限即可查看.
func TestGetUser(t *testing.T) {
	e := newEnv(t)
	me := e.register(t, "me@example.com")
	other := e.register(t, "other@example.com")
	svc := service.NewUserService(e.ctx)

	p, err := svc.Get(e.ctx, me, me.UserID)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", p.Email)

	_, err = svc.Get(e.ctx, me, other.UserID)
	require.ErrorIs(t, err, rbac.ErrForbidden)

	_, err = svc.Get(e.ctx, grant("x", rbac.UsersRead), "missing")
	require.ErrorIs(t, err, service.ErrNotFound)
}

// TestUpdateUserStatus 测试暂停账户后无法登录.
func TestUpdateUserStatus(t *testing.T) {
	e := newEnv(t)
	manager := e.register(t, "manager@example.com", rbac.RoleUserManager)
	user := e.register(t, "user@example.com")
	svc := service.NewUserService(e.ctx)

	_, err := svc.UpdateStatus(e.ctx, manager, manager.UserID, types.UpdateUserStatusRequest{Status: string(model.UserStatusSuspended)})
	require.ErrorIs(t, err, service.ErrConflict)

	_, err = svc.UpdateStatus(e.ctx, manager, user.UserID, types.UpdateUserStatusRequest{Status: "DELETED"})
	require.ErrorIs(t, err, service.ErrValidation)

	p, err := svc.UpdateStatus(e.ctx, manager, user.UserID, types.UpdateUserStatusRequest{
		Status: string(model.UserStatusSuspended),
		Reason: "spam",
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.UserStatusSuspended), p.Status)

	_, err = service.NewAuthService(e.ctx).Login(e.ctx, types.LoginRequest{Email: "user@example.com", Password: testPassword})
	require.ErrorIs(t, err, service.ErrAccountDisabled)

	var log model.AuditLog
	require.NoError(t, e.db().First(&log, "action = ? AND resource_id = ?", model.AuditUserStatus, user.UserID).Error)
	assert.Equal(t, "spam", log.Details["reason"])
	assert.Equal(t, string(model.UserStatusPendingVerification), log.Details["from"])
}

func ptr[T any](v T) *T { return &v }

// TestUpdateProfile 测试本人修改资料与首次创建艺术家主页.
func TestUpdateProfile(t *testing.T) {
	e := newEnv(t)
	me := e.register(t, "ama@example.com")
	svc := service.NewUserService(e.ctx)

	_, err := svc.UpdateProfile(e.ctx, nil, types.UpdateProfileRequest{Bio: ptr("x")})
	require.ErrorIs(t, err, rbac.ErrUnauthenticated)

	_, err = svc.UpdateProfile(e.ctx, me, types.UpdateProfileRequest{FirstName: ptr("   ")})
	require.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.UpdateProfile(e.ctx, me, types.UpdateProfileRequest{
		ArtistProfile: &types.ArtistProfileRequest{WebsiteURL: ptr("not a url")},
	})
	require.ErrorIs(t, err, service.ErrValidation)

	p, err := svc.UpdateProfile(e.ctx, me, types.UpdateProfileRequest{
		FirstName: ptr(" Ama "),
		Bio:       ptr("Highlife vocalist from Kumasi"),
		ArtistProfile: &types.ArtistProfileRequest{
			StageName:  ptr("Ama Highlife"),
			Categories: &[]string{"MUSIC", "DANCE", "MUSIC"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ama", p.FirstName)
	assert.Equal(t, "Mensah", p.LastName, "未提供的字段保持不变")
	assert.Equal(t, "Highlife vocalist from Kumasi", p.Bio)
	require.NotNil(t, p.ArtistProfile)
	assert.Equal(t, "ama-highlife", p.ArtistProfile.Slug)
	assert.Equal(t, []string{"MUSIC", "DANCE"}, p.ArtistProfile.Categories)

	p, err = svc.UpdateProfile(e.ctx, me, types.UpdateProfileRequest{
		ArtistProfile: &types.ArtistProfileRequest{StageName: ptr("Ama K"), InstagramURL: ptr("https://instagram.com/ama")},
	})
	require.NoError(t, err)
	assert.Equal(t, "ama-highlife", p.ArtistProfile.Slug, "slug 创建后不变")
	assert.Equal(t, "Ama K", p.ArtistProfile.StageName)
	assert.Equal(t, []string{"MUSIC", "DANCE"}, p.ArtistProfile.Categories)

	var n int64
	require.NoError(t, e.db().Model(&model.ArtistProfile{}).Where("user_id = ?", me.UserID).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	var log model.AuditLog
	require.NoError(t, e.db().First(&log, "action = ? AND resource_id = ?", model.AuditProfileUpdated, me.UserID).Error)
	assert.Equal(t, true, log.Details["artistProfile"])
}

// TestUpdateProfileNonArtist 测试非艺术家账户不能提交艺术家主页.
func TestUpdateProfileNonArtist(t *testing.T) {
	e := newEnv(t)

	u, err := service.NewAuthService(e.ctx).Register(e.ctx, types.RegisterRequest{
		Email:     "official@example.gov.gh",
		Password:  testPassword,
		FirstName: "Yaw",
		LastName:  "Boateng",
		UserType:  string(model.UserTypeGovernment),
	})
	require.NoError(t, err)

	_, err = service.NewUserService(e.ctx).UpdateProfile(e.ctx, grant(u.ID), types.UpdateProfileRequest{
		ArtistProfile: &types.ArtistProfileRequest{StageName: ptr("Yaw B")},
	})
	require.ErrorIs(t, err, service.ErrValidation)
}

// TestUpdateUser 测试管理员修改资料与状态.
func TestUpdateUser(t *testing.T) {
	e := newEnv(t)
	manager := e.register(t, "manager@example.com", rbac.RoleUserManager)
	user := e.register(t, "user@example.com")
	svc := service.NewUserService(e.ctx)

	_, err := svc.Update(e.ctx, grant("x", rbac.UsersRead), user.UserID, types.UpdateUserRequest{Bio: ptr("x")})
	require.ErrorIs(t, err, rbac.ErrForbidden)

	_, err = svc.Update(e.ctx, manager, manager.UserID, types.UpdateUserRequest{Status: ptr(string(model.UserStatusBanned))})
	require.ErrorIs(t, err, service.ErrConflict)

	_, err = svc.Update(e.ctx, manager, user.UserID, types.UpdateUserRequest{Status: ptr("INACTIVE")})
	require.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.Update(e.ctx, manager, "missing", types.UpdateUserRequest{Bio: ptr("x")})
	require.ErrorIs(t, err, service.ErrNotFound)

	p, err := svc.Update(e.ctx, manager, manager.UserID, types.UpdateUserRequest{LastName: ptr("Owusu")})
	require.NoError(t, err)
	assert.Equal(t, "Owusu", p.LastName, "可以修改自己的资料")

	p, err = svc.Update(e.ctx, manager, user.UserID, types.UpdateUserRequest{
		PhoneNumber: ptr("+233201234567"),
		Status:      ptr(string(model.UserStatusActive)),
	})
	require.NoError(t, err)
	assert.Equal(t, "+233201234567", p.PhoneNumber)
	assert.Equal(t, string(model.UserStatusActive), p.Status)
	assert.Equal(t, "Kofi", p.FirstName)

	var log model.AuditLog
	require.NoError(t, e.db().First(&log, "action = ? AND resource_id = ?", model.AuditUserUpdated, user.UserID).Error)
	assert.Equal(t, string(model.UserStatusActive), log.Details["status"])
}

// TestArtist 测试艺术家主页只对状态为 ACTIVE 的账户公开.
func TestArtist(t *testing.T) {
	e := newEnv(t)
	manager := e.register(t, "manager@example.com", rbac.RoleUserManager)
	artist := e.register(t, "kojo@example.com")
	svc := service.NewUserService(e.ctx)

	p, err := svc.UpdateProfile(e.ctx, artist, types.UpdateProfileRequest{
		ArtistProfile: &types.ArtistProfileRequest{},
	})
	require.NoError(t, err)
	assert.Equal(t, "kofi-mensah", p.ArtistProfile.Slug, "没有艺名时使用姓名")

	_, err = svc.Artist(e.ctx, "kofi-mensah")
	require.ErrorIs(t, err, service.ErrNotFound, "待验证账户不公开")

	_, err = svc.Update(e.ctx, manager, artist.UserID, types.UpdateUserRequest{Status: ptr(string(model.UserStatusActive))})
	require.NoError(t, err)

	a, err := svc.Artist(e.ctx, "kofi-mensah")
	require.NoError(t, err)
	assert.Equal(t, artist.UserID, a.ID)
	assert.Equal(t, "kofi-mensah", a.Profile.Slug)
	assert.NotNil(t, a.Profile.Categories)

	_, err = svc.Artist(e.ctx, "nobody")
	require.ErrorIs(t, err, service.ErrNotFound)
}
