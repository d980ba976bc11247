package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/model"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

// TestRegister 测试注册的默认状态、邮箱规范化与重复注册.
func TestRegister(t *testing.T) {
	e := newEnv(t)
	svc := service.NewAuthService(e.ctx)

	u, err := svc.Register(e.ctx, types.RegisterRequest{
		Email:     "  Ama@Example.COM ",
		Password:  testPassword,
		FirstName: "Ama",
		LastName:  "Serwaa",
		UserType:  "PUBLIC",
	})
	require.NoError(t, err)
	assert.Equal(t, "ama@example.com", u.Email)
	assert.Equal(t, model.UserStatusPendingVerification, u.Status)
	assert.NotEqual(t, testPassword, u.PasswordHash)

	var logs []model.AuditLog
	require.NoError(t, e.db().Where("action = ?", model.AuditUserCreated).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, u.ID, logs[0].ResourceID)
	assert.Len(t, logs[0].ID, 26)

	_, err = svc.Register(e.ctx, types.RegisterRequest{
		Email:     "ama@example.com",
		Password:  testPassword,
		FirstName: "Ama",
		LastName:  "Serwaa",
		UserType:  "PUBLIC",
	})
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

// TestRegisterValidation 测试注册字段校验.
func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)

	_, err := service.NewAuthService(e.ctx).Register(e.ctx, types.RegisterRequest{
		Email:     "not-an-email",
		Password:  "weakpass",
		FirstName: "A",
		LastName:  "Serwaa",
		UserType:  "ADMIN",
	})
	require.ErrorIs(t, err, service.ErrValidation)

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "firstName")
	assert.Contains(t, verr.Fields, "userType")
	assert.NotContains(t, verr.Fields, "lastName")
}

// TestLogin 测试登录、令牌解析与登录统计.
func TestLogin(t *testing.T) {
	e := newEnv(t)
	sub := e.register(t, "kojo@example.com", rbac.RoleContentModerator)
	svc := service.NewAuthService(e.ctx)

	res, err := svc.Login(e.ctx, types.LoginRequest{Email: "KOJO@example.com", Password: testPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, sub.UserID, res.User.ID)
	assert.Equal(t, []string{rbac.RoleContentModerator}, res.User.Roles)
	assert.Contains(t, res.User.Permissions, rbac.ContentModerate)
	assert.WithinDuration(t, time.Now().Add(configs.GetConfig().Auth.GetTokenTTL()), res.ExpiresAt, time.Minute)

	claims, err := svc.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, claims.Subject)

	u, subject, err := svc.Authenticate(e.ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, u.LoginCount)
	assert.NotNil(t, u.LastLoginAt)
	assert.True(t, subject.Permissions().Has(rbac.ContentModerate))

	_, err = svc.Login(e.ctx, types.LoginRequest{Email: "kojo@example.com", Password: "Wrong#Pass1"})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(e.ctx, types.LoginRequest{Email: "nobody@example.com", Password: testPassword})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

// TestLoginDisabled 测试暂停与封禁账户不能登录，待验证账户可以.
func TestLoginDisabled(t *testing.T) {
	e := newEnv(t)
	svc := service.NewAuthService(e.ctx)

	tests := []struct {
		name   string
		status model.UserStatus
		err    error
	}{
		{name: "待验证", status: model.UserStatusPendingVerification},
		{name: "正常", status: model.UserStatusActive},
		{name: "暂停", status: model.UserStatusSuspended, err: service.ErrAccountDisabled},
		{name: "封禁", status: model.UserStatusBanned, err: service.ErrAccountDisabled},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := "user" + string(rune('a'+i)) + "@example.com"
			sub := e.register(t, email)
			require.NoError(t, e.db().Model(&model.User{}).Where("id = ?", sub.UserID).Update("status", tt.status).Error)

			_, err := svc.Login(e.ctx, types.LoginRequest{Email: email, Password: testPassword})
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.err)
		})
	}
}

// TestParseToken 测试篡改、过期与签发者不符的令牌.
func TestParseToken(t *testing.T) {
	e := newEnv(t)
	sub := e.register(t, "yaw@example.com")
	svc := service.NewAuthService(e.ctx)

	u := &model.User{ID: sub.UserID, Email: "yaw@example.com"}

	expired, _, err := svc.IssueToken(u, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	_, err = svc.ParseToken(expired)
	assert.ErrorIs(t, err, service.ErrExpiredToken)

	valid, _, err := svc.IssueToken(u, time.Now())
	require.NoError(t, err)

	_, err = svc.ParseToken(valid + "x")
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	configs.GetConfig().Auth.Issuer = "someone-else"
	_, err = svc.ParseToken(valid)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

// TestMe 测试当前用户资料.
func TestMe(t *testing.T) {
	e := newEnv(t)
	sub := e.register(t, "efua@example.com", rbac.RoleAnalyticsViewer)

	p, err := service.NewAuthService(e.ctx).Me(e.ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, "efua@example.com", p.Email)
	assert.ElementsMatch(t, rbac.DefaultRoles()[3].Permissions, p.Permissions)

	_, err = service.NewAuthService(e.ctx).Me(e.ctx, nil)
	assert.ErrorIs(t, err, rbac.ErrUnauthenticated)
}

// TestLogout 测试登出只为已登录用户记录审计.
func TestLogout(t *testing.T) {
	e := newEnv(t)
	sub := e.register(t, "efua@example.com")
	svc := service.NewAuthService(e.ctx)

	svc.Logout(e.ctx, nil)
	svc.Logout(e.ctx, sub)

	var logs []model.AuditLog
	require.NoError(t, e.db().Where("action = ?", model.AuditUserLogout).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, sub.UserID, logs[0].UserID)
}
