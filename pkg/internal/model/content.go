package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/sloopymg1/ghana-creative-platform/pkg/content"
)

// Content 创作内容.
//
// Categories 与 Tags 以 JSON 文本存储，跨 postgres/mysql/sqlite 一致；按类别或标签筛选时对带引号的元素做 LIKE 匹配.
type Content struct {
	ID          string             `gorm:"primaryKey;size:36"             json:"id"`
	UserID      string             `gorm:"size:36;index"                  json:"user_id"`
	Title       string             `gorm:"size:200"                       json:"title"`
	Description string             `gorm:"type:text"                      json:"description"`
	Slug        string             `gorm:"size:255;uniqueIndex"           json:"slug"`
	Type        content.Type       `gorm:"size:32;index"                  json:"type"`
	Status      content.Status     `gorm:"size:32;index"                  json:"status"`
	Categories  []content.Category `gorm:"serializer:json;type:text"      json:"categories"`
	Tags        []string           `gorm:"serializer:json;type:text"      json:"tags"`
	LicenseType string             `gorm:"size:64"                        json:"license_type"`
	ExternalURL string             `gorm:"size:1024"                      json:"external_url,omitempty"`
	Duration    *int               `json:"duration,omitempty"`
	ViewCount   int64              `gorm:"index;not null;default:0"       json:"view_count"`

	ModerationScore   int        `json:"moderation_score"`
	ModerationAction  string     `gorm:"size:16"                   json:"moderation_action,omitempty"`
	ModerationReasons []string   `gorm:"serializer:json;type:text" json:"moderation_reasons,omitempty"`
	ModeratedAt       *time.Time `json:"moderated_at,omitempty"`
	ModeratedBy       string     `gorm:"size:36"                   json:"moderated_by,omitempty"`
	ModerationNotes   string     `gorm:"type:text"                 json:"moderation_notes,omitempty"`
	PublishedAt       *time.Time `gorm:"index"                     json:"published_at,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate 补齐主键与默认值.
func (c *Content) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)

	if c.Status == "" {
		c.Status = content.StatusDraft
	}

	if c.LicenseType == "" {
		c.LicenseType = content.DefaultLicense
	}

	return nil
}

// ToItem 转换为评分器使用的只读视图.
func (c *Content) ToItem() content.Item {
	return content.Item{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Type:        c.Type,
		Categories:  c.Categories,
		Tags:        c.Tags,
		OwnerID:     c.UserID,
		ViewCount:   c.ViewCount,
		CreatedAt:   c.CreatedAt,
		Status:      c.Status,
	}
}

// ToItems 批量转换.
func ToItems(rows []Content) []content.Item {
	out := make([]content.Item, len(rows))
	for i := range rows {
		out[i] = rows[i].ToItem()
	}

	return out
}
