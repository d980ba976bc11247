package model

import (
	"time"

	"gorm.io/gorm"
)

// UserType 注册时选择的用户类型.
type UserType string

const (
	UserTypeArtist      UserType = "ARTIST"
	UserTypeStakeholder UserType = "STAKEHOLDER"
	UserTypeGovernment  UserType = "GOVERNMENT"
	UserTypePublic      UserType = "PUBLIC"
)

// UserStatus 账户状态.
type UserStatus string

const (
	UserStatusPendingVerification UserStatus = "PENDING_VERIFICATION"
	UserStatusActive              UserStatus = "ACTIVE"
	UserStatusSuspended           UserStatus = "SUSPENDED"
	UserStatusBanned              UserStatus = "BANNED"
)

// CanLogin 被封禁或暂停的账户不能登录.
func (s UserStatus) CanLogin() bool {
	return s != UserStatusSuspended && s != UserStatusBanned
}

// User 平台用户.
type User struct {
	ID           string     `gorm:"primaryKey;size:36"    json:"id"`
	Email        string     `gorm:"size:255;uniqueIndex"  json:"email"`
	PasswordHash string     `gorm:"size:255"              json:"-"`
	FirstName    string     `gorm:"size:50"               json:"first_name"`
	LastName     string     `gorm:"size:50"               json:"last_name"`
	UserType     UserType   `gorm:"size:32;index"         json:"user_type"`
	PhoneNumber  string     `gorm:"size:32"               json:"phone_number,omitempty"`
	Bio          string     `gorm:"size:500"              json:"bio,omitempty"`
	Status       UserStatus `gorm:"size:32;index"         json:"status"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	LastLoginIP  string     `gorm:"size:64"               json:"-"`
	LoginCount   int        `json:"login_count"`
	Roles        []Role     `gorm:"many2many:user_roles;" json:"roles,omitempty"`

	ArtistProfile *ArtistProfile `gorm:"foreignKey:UserID" json:"artist_profile,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate 补齐主键.
func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// RoleNames 返回已加载角色的名称.
func (u *User) RoleNames() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.Name)
	}

	return out
}
