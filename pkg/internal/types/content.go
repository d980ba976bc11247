package types

// CreateContentRequest 创建内容.
type CreateContentRequest struct {
	Title       string   `json:"title"                 rule:"required,min=3,max=200"`
	Description string   `json:"description,omitempty" rule:"max=5000"`
	Type        string   `json:"type"                  rule:"required,content_type"`
	Categories  []string `json:"categories"            rule:"required,min=1,dive,content_category"`
	Tags        []string `json:"tags,omitempty"        rule:"max=20,dive,min=1,max=50"`
	LicenseType string   `json:"licenseType,omitempty" rule:"max=64"`
	ExternalURL string   `json:"externalUrl,omitempty" rule:"omitempty,url,max=1024"`
	Duration    *int     `json:"duration,omitempty"    rule:"omitempty,min=0"`
}

// UpdateContentRequest 更新内容，未提供的字段保持不变.
type UpdateContentRequest struct {
	Title       *string   `json:"title,omitempty"       rule:"omitempty,min=3,max=200"`
	Description *string   `json:"description,omitempty" rule:"omitempty,max=5000"`
	Categories  *[]string `json:"categories,omitempty"  rule:"omitempty,min=1,dive,content_category"`
	Tags        *[]string `json:"tags,omitempty"        rule:"omitempty,max=20,dive,min=1,max=50"`
	LicenseType *string   `json:"licenseType,omitempty" rule:"omitempty,max=64"`
	ExternalURL *string   `json:"externalUrl,omitempty" rule:"omitempty,url,max=1024"`
	Duration    *int      `json:"duration,omitempty"    rule:"omitempty,min=0"`
}

// ListContentQuery 已发布内容列表的查询参数.
type ListContentQuery struct {
	Pagination

	Type     string `form:"type"     rule:"omitempty,content_type"`
	Category string `form:"category" rule:"omitempty,content_category"`
	Search   string `form:"search"   rule:"max=100"`
}

// ReviewRequest 人工审核.
type ReviewRequest struct {
	ContentID string `json:"contentId" rule:"required"`
	Action    string `json:"action"    rule:"required,oneof=approve reject"`
	Notes     string `json:"notes"     rule:"max=2000"`
}
