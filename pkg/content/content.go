// Package content 定义内容相关的共享词汇：内容类型、创意类别、发布状态以及供评分器使用的只读视图 Item.
package content

import (
	"slices"
	"time"
)

// Type 内容媒体类型.
type Type string

const (
	TypeAudio      Type = "AUDIO"
	TypeVideo      Type = "VIDEO"
	TypeImage      Type = "IMAGE"
	TypeDocument   Type = "DOCUMENT"
	TypeLiveStream Type = "LIVE_STREAM"
)

// Category 创意类别.
type Category string

const (
	CategoryMusic          Category = "MUSIC"
	CategoryVisualArts     Category = "VISUAL_ARTS"
	CategoryPerformingArts Category = "PERFORMING_ARTS"
	CategoryDigitalArts    Category = "DIGITAL_ARTS"
	CategoryFilm           Category = "FILM"
	CategoryPhotography    Category = "PHOTOGRAPHY"
	CategoryLiterature     Category = "LITERATURE"
	CategoryCrafts         Category = "CRAFTS"
	CategoryFashion        Category = "FASHION"
	CategoryCulinaryArts   Category = "CULINARY_ARTS"
	CategoryDance          Category = "DANCE"
	CategoryTheater        Category = "THEATER"
	CategoryOther          Category = "OTHER"
)

// Status 内容发布状态.
type Status string

const (
	StatusDraft         Status = "DRAFT"
	StatusPendingReview Status = "PENDING_REVIEW"
	StatusPublished     Status = "PUBLISHED"
	StatusRejected      Status = "REJECTED"
)

// DefaultLicense 未指定时使用的授权类型.
const DefaultLicense = "ALL_RIGHTS_RESERVED"

var (
	allTypes = []Type{TypeAudio, TypeVideo, TypeImage, TypeDocument, TypeLiveStream}

	allCategories = []Category{
		CategoryMusic, CategoryVisualArts, CategoryPerformingArts, CategoryDigitalArts,
		CategoryFilm, CategoryPhotography, CategoryLiterature, CategoryCrafts,
		CategoryFashion, CategoryCulinaryArts, CategoryDance, CategoryTheater, CategoryOther,
	}

	allStatuses = []Status{StatusDraft, StatusPendingReview, StatusPublished, StatusRejected}
)

// Types 返回所有内容类型（副本）.
func Types() []Type { return slices.Clone(allTypes) }

// Categories 返回所有类别（副本）.
func Categories() []Category { return slices.Clone(allCategories) }

// Valid 判断内容类型是否合法.
func (t Type) Valid() bool { return slices.Contains(allTypes, t) }

// Valid 判断类别是否合法.
func (c Category) Valid() bool { return slices.Contains(allCategories, c) }

// Valid 判断状态是否合法.
func (s Status) Valid() bool { return slices.Contains(allStatuses, s) }

// Item 评分器消费的内容只读视图，由存储层查询后构造.
type Item struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Type        Type       `json:"type"`
	Categories  []Category `json:"categories"`
	Tags        []string   `json:"tags"`
	OwnerID     string     `json:"owner_id"`
	ViewCount   int64      `json:"view_count"`
	CreatedAt   time.Time  `json:"created_at"`
	Status      Status     `json:"status"`
}

// IsPublished 是否处于已发布状态.
func (i Item) IsPublished() bool { return i.Status == StatusPublished }
