// Package types 定义 HTTP 请求与响应的数据结构，字段通过 rule 标签校验.
package types

import "time"

// RegisterRequest 注册请求.
type RegisterRequest struct {
	Email       string `json:"email"                 rule:"required,email,max=255"`
	Password    string `json:"password"              rule:"required,strong_password,max=72"`
	FirstName   string `json:"firstName"             rule:"required,min=2,max=50"`
	LastName    string `json:"lastName"              rule:"required,min=2,max=50"`
	UserType    string `json:"userType"              rule:"required,user_type"`
	PhoneNumber string `json:"phoneNumber,omitempty" rule:"omitempty,e164"`
}

// LoginRequest 登录请求.
type LoginRequest struct {
	Email    string `json:"email"    rule:"required,email"`
	Password string `json:"password" rule:"required"`
}

// LoginResponse 登录成功后返回的会话令牌与用户信息.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserProfile `json:"user"`
}

// UserProfile 对外展示的用户信息.
type UserProfile struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	UserType    string     `json:"userType"`
	Status      string     `json:"status"`
	Roles       []string   `json:"roles"`
	Permissions []string   `json:"permissions,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Bio         string     `json:"bio,omitempty"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`

	ArtistProfile *ArtistProfile `json:"artistProfile,omitempty"`
}

// ArtistProfile 艺术家主页信息.
type ArtistProfile struct {
	Slug         string   `json:"slug"`
	StageName    string   `json:"stageName,omitempty"`
	Categories   []string `json:"categories"`
	IsVerified   bool     `json:"isVerified"`
	InstagramURL string   `json:"instagramUrl,omitempty"`
	TwitterURL   string   `json:"twitterUrl,omitempty"`
	FacebookURL  string   `json:"facebookUrl,omitempty"`
	YoutubeURL   string   `json:"youtubeUrl,omitempty"`
	WebsiteURL   string   `json:"websiteUrl,omitempty"`
}

// Artist 公开的艺术家主页，不含邮箱与权限.
type Artist struct {
	ID        string        `json:"id"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Bio       string        `json:"bio,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	Profile   ArtistProfile `json:"artistProfile"`
}

// UpdateProfileRequest 修改本人资料，未提供的字段保持不变.
type UpdateProfileRequest struct {
	FirstName   *string `json:"firstName,omitempty"   rule:"omitempty,min=2,max=50"`
	LastName    *string `json:"lastName,omitempty"    rule:"omitempty,min=2,max=50"`
	PhoneNumber *string `json:"phoneNumber,omitempty" rule:"omitempty,e164"`
	Bio         *string `json:"bio,omitempty"         rule:"omitempty,max=500"`

	// ArtistProfile 只有 ARTIST 账户可以提交，首次提交时创建主页.
	ArtistProfile *ArtistProfileRequest `json:"artistProfile,omitempty"`
}

// ArtistProfileRequest 艺术家主页字段，链接传空串表示清除.
type ArtistProfileRequest struct {
	StageName    *string   `json:"stageName,omitempty"    rule:"omitempty,min=2,max=100"`
	Categories   *[]string `json:"categories,omitempty"   rule:"omitempty,dive,content_category"`
	InstagramURL *string   `json:"instagramUrl,omitempty" rule:"omitempty,url,max=255"`
	TwitterURL   *string   `json:"twitterUrl,omitempty"   rule:"omitempty,url,max=255"`
	FacebookURL  *string   `json:"facebookUrl,omitempty"  rule:"omitempty,url,max=255"`
	YoutubeURL   *string   `json:"youtubeUrl,omitempty"   rule:"omitempty,url,max=255"`
	WebsiteURL   *string   `json:"websiteUrl,omitempty"   rule:"omitempty,url,max=255"`
}

// UpdateUserRequest 管理员修改用户资料与状态.
type UpdateUserRequest struct {
	FirstName   *string `json:"firstName,omitempty"   rule:"omitempty,min=2,max=50"`
	LastName    *string `json:"lastName,omitempty"    rule:"omitempty,min=2,max=50"`
	PhoneNumber *string `json:"phoneNumber,omitempty" rule:"omitempty,e164"`
	Bio         *string `json:"bio,omitempty"         rule:"omitempty,max=500"`
	Status      *string `json:"status,omitempty"      rule:"omitempty,oneof=PENDING_VERIFICATION ACTIVE SUSPENDED BANNED"`
}

// ListUsersQuery 用户列表查询参数.
type ListUsersQuery struct {
	Pagination

	Search   string `form:"search"   rule:"max=100"`
	UserType string `form:"userType" rule:"omitempty,user_type"`
	Status   string `form:"status"   rule:"omitempty,oneof=PENDING_VERIFICATION ACTIVE SUSPENDED BANNED"`
}

// UpdateUserStatusRequest 修改账户状态.
type UpdateUserStatusRequest struct {
	Status string `json:"status" rule:"required,oneof=PENDING_VERIFICATION ACTIVE SUSPENDED BANNED"`
	Reason string `json:"reason" rule:"max=500"`
}
