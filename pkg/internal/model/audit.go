package model

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid"
	"gorm.io/gorm"
)

// 审计动作.
const (
	AuditUserCreated      = "USER_CREATED"
	AuditUserLogin        = "USER_LOGIN"
	AuditUserLogout       = "USER_LOGOUT"
	AuditUserUpdated      = "USER_UPDATED"
	AuditProfileUpdated   = "PROFILE_UPDATED"
	AuditUserStatus       = "USER_STATUS_CHANGED"
	AuditRoleAssigned     = "ROLE_ASSIGNED"
	AuditRoleRemoved      = "ROLE_REMOVED"
	AuditContentCreated   = "CONTENT_CREATED"
	AuditContentUpdated   = "CONTENT_UPDATED"
	AuditContentDeleted   = "CONTENT_DELETED"
	AuditContentPublished = "CONTENT_PUBLISHED"
	AuditContentModerated = "CONTENT_MODERATED"
)

// AuditLog 审计日志，ID 为 ULID，按时间可排序.
type AuditLog struct {
	ID         string         `gorm:"primaryKey;size:26"        json:"id"`
	UserID     string         `gorm:"size:36;index"             json:"user_id,omitempty"`
	Action     string         `gorm:"size:64;index"             json:"action"`
	Resource   string         `gorm:"size:64"                   json:"resource"`
	ResourceID string         `gorm:"size:36;index"             json:"resource_id,omitempty"`
	Details    map[string]any `gorm:"serializer:json;type:text" json:"details,omitempty"`
	IPAddress  string         `gorm:"size:64"                   json:"ip_address,omitempty"`
	UserAgent  string         `gorm:"size:512"                  json:"user_agent,omitempty"`
	CreatedAt  time.Time      `gorm:"index"                     json:"created_at"`
}

// BeforeCreate 生成 ULID.
func (a *AuditLog) BeforeCreate(*gorm.DB) error {
	if a.ID != "" {
		return nil
	}

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	id, err := ulid.New(ulid.Timestamp(a.CreatedAt), rand.Reader)
	if err != nil {
		return err
	}

	a.ID = id.String()

	return nil
}
