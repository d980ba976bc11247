package types

// 分页默认值.
const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Pagination 分页参数.
type Pagination struct {
	Page    int `form:"page"  json:"page"  rule:"omitempty,min=1"`
	PerPage int `form:"limit" json:"limit" rule:"omitempty,min=1,max=100"`
}

// Normalize 补齐默认值并限制上限.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}

	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}

	p.PerPage = min(p.PerPage, MaxPerPage)

	return p
}

// Offset 查询偏移量.
func (p Pagination) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.PerPage
}

// Page 一页数据.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPage 根据总数计算页数.
func NewPage[T any](items []T, total int64, p Pagination) Page[T] {
	p = p.Normalize()

	if items == nil {
		items = []T{}
	}

	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: int((total + int64(p.PerPage) - 1) / int64(p.PerPage)),
	}
}

// ErrorResponse 错误响应.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
