package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	ctxPkg "github.com/sloopymg1/ghana-creative-platform/pkg/context"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/model"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
	"github.com/sloopymg1/ghana-creative-platform/pkg/queue"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

var (
	// ErrInvalidToken 令牌无法解析或签名不符.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken 令牌已过期.
	ErrExpiredToken = errors.New("token expired")
)

// Claims 会话令牌载荷，sub 为用户 ID.
type Claims struct {
	Email    string `json:"email"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// AuthService 注册、登录与会话令牌.
type AuthService struct {
	base
	audit *AuditService
	rbac  *RBACService
}

func NewAuthService(c context.Context) *AuthService {
	b := newBase(c)
	audit := &AuditService{b}

	return &AuthService{base: b, audit: audit, rbac: &RBACService{base: b, audit: audit}}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register 创建待验证的新用户，不分配任何角色.
func (s *AuthService) Register(ctx context.Context, req types.RegisterRequest) (*model.User, error) {
	req.Email = normalizeEmail(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if err := validate(req); err != nil {
		return nil, err
	}

	var n int64
	if err := s.db(ctx).Unscoped().Model(&model.User{}).Where("email = ?", req.Email).Count(&n).Error; err != nil {
		return nil, err
	}

	if n > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		UserType:     model.UserType(req.UserType),
		PhoneNumber:  req.PhoneNumber,
		Status:       model.UserStatusPendingVerification,
	}

	if err := s.db(ctx).Create(u).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.audit.record(ctx, u.ID, model.AuditUserCreated, "User", u.ID, map[string]any{
		"email":    u.Email,
		"userType": u.UserType,
	})

	s.emit(ctx, s.cfg.Events.User.Registered, queue.TopicUserRegistered,
		func(pub message.Publisher, opts ...func(*queue.EventHeader)) error {
			return queue.PublishUserRegistered(pub, queue.UserRegisteredPayload{
				UserID:   u.ID,
				Email:    u.Email,
				UserType: string(u.UserType),
			}, opts...)
		})

	return u, nil
}

// Login 校验密码并签发会话令牌；被暂停或封禁的账户返回 ErrAccountDisabled.
func (s *AuthService) Login(ctx context.Context, req types.LoginRequest) (types.LoginResponse, error) {
	req.Email = normalizeEmail(req.Email)

	if err := validate(req); err != nil {
		return types.LoginResponse{}, err
	}

	var u model.User
	if err := s.db(ctx).First(&u, "email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.LoginResponse{}, ErrInvalidCredentials
		}

		return types.LoginResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return types.LoginResponse{}, ErrInvalidCredentials
	}

	if !u.Status.CanLogin() {
		return types.LoginResponse{}, ErrAccountDisabled
	}

	now := time.Now()
	ip := ctxPkg.GetClientInfo(ctx).IP

	if err := s.db(ctx).Model(&u).UpdateColumns(map[string]any{
		"last_login_at": now,
		"last_login_ip": ip,
		"login_count":   gorm.Expr("login_count + ?", 1),
	}).Error; err != nil {
		return types.LoginResponse{}, fmt.Errorf("update last login: %w", err)
	}

	u.LastLoginAt = &now

	token, exp, err := s.IssueToken(&u, now)
	if err != nil {
		return types.LoginResponse{}, err
	}

	s.audit.record(ctx, u.ID, model.AuditUserLogin, "User", u.ID, nil)

	full, err := s.rbac.loadUser(ctx, u.ID)
	if err != nil {
		return types.LoginResponse{}, err
	}

	return types.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      profileOf(full),
	}, nil
}

// IssueToken 为用户签发 HS256 令牌.
func (s *AuthService) IssueToken(u *model.User, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.cfg.Auth.GetTokenTTL())

	claims := Claims{
		Email:    u.Email,
		UserType: string(u.UserType),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    s.cfg.Auth.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return token, exp, nil
}

// ParseToken 校验签名、签发者与有效期.
func (s *AuthService) ParseToken(token string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.Auth.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Auth.Issuer),
	)

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	default:
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Authenticate 解析令牌并加载用户当前角色；用户已删除视为令牌无效.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, *rbac.Subject, error) {
	claims, err := s.ParseToken(token)
	if err != nil {
		return nil, nil, err
	}

	u, err := s.rbac.loadUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrInvalidToken
		}

		return nil, nil, err
	}

	if !u.Status.CanLogin() {
		return nil, nil, ErrAccountDisabled
	}

	return u, subjectOf(u), nil
}

// Logout 记录登出审计；令牌无状态，失效由调用方清除 cookie 完成.
func (s *AuthService) Logout(ctx context.Context, actor *rbac.Subject) {
	if actor == nil || actor.UserID == "" {
		return
	}

	s.audit.record(ctx, actor.UserID, model.AuditUserLogout, "User", actor.UserID, nil)
}

// Me 返回当前用户资料与有效权限.
func (s *AuthService) Me(ctx context.Context, actor *rbac.Subject) (types.UserProfile, error) {
	if actor == nil || actor.UserID == "" {
		return types.UserProfile{}, rbac.ErrUnauthenticated
	}

	u, err := s.rbac.loadUser(ctx, actor.UserID)
	if err != nil {
		return types.UserProfile{}, err
	}

	return profileOf(u), nil
}

// profileOf 对外展示的用户资料，需已加载角色与权限.
func profileOf(u *model.User) types.UserProfile {
	return types.UserProfile{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		UserType:    string(u.UserType),
		Status:      string(u.Status),
		Roles:       u.RoleNames(),
		Permissions: subjectOf(u).Permissions().List(),
		PhoneNumber: u.PhoneNumber,
		Bio:         u.Bio,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,

		ArtistProfile: artistProfileOf(u.ArtistProfile),
	}
}

func artistProfileOf(a *model.ArtistProfile) *types.ArtistProfile {
	if a == nil {
		return nil
	}

	cats := make([]string, len(a.Categories))
	for i, c := range a.Categories {
		cats[i] = string(c)
	}

	return &types.ArtistProfile{
		Slug:         a.Slug,
		StageName:    a.StageName,
		Categories:   cats,
		IsVerified:   a.IsVerified,
		InstagramURL: a.InstagramURL,
		TwitterURL:   a.TwitterURL,
		FacebookURL:  a.FacebookURL,
		YoutubeURL:   a.YoutubeURL,
		WebsiteURL:   a.WebsiteURL,
	}
}
