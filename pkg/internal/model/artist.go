package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/sloopymg1/ghana-creative-platform/pkg/content"
)

// ArtistProfile 艺术家账户的公开主页，slug 创建后不再变化.
type ArtistProfile struct {
	ID           string             `gorm:"primaryKey;size:36"        json:"id"`
	UserID       string             `gorm:"size:36;uniqueIndex"       json:"user_id"`
	Slug         string             `gorm:"size:200;uniqueIndex"      json:"slug"`
	StageName    string             `gorm:"size:100"                  json:"stage_name,omitempty"`
	Categories   []content.Category `gorm:"serializer:json;type:text" json:"categories"`
	IsVerified   bool               `json:"is_verified"`
	InstagramURL string             `gorm:"size:255"                  json:"instagram_url,omitempty"`
	TwitterURL   string             `gorm:"size:255"                  json:"twitter_url,omitempty"`
	FacebookURL  string             `gorm:"size:255"                  json:"facebook_url,omitempty"`
	YoutubeURL   string             `gorm:"size:255"                  json:"youtube_url,omitempty"`
	WebsiteURL   string             `gorm:"size:255"                  json:"website_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *ArtistProfile) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
