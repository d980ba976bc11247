package types

// Count 分组计数.
type Count struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// DashboardStats 管理后台概览.
type DashboardStats struct {
	Users   UserStats    `json:"users"`
	Content ContentStats `json:"content"`
}

// UserStats 用户统计.
type UserStats struct {
	Total    int64   `json:"total"`
	ByType   []Count `json:"byType"`
	ByStatus []Count `json:"byStatus"`
	New7d    int64   `json:"new7d"`
	New30d   int64   `json:"new30d"`
}

// ContentStats 内容统计.
type ContentStats struct {
	Total         int64   `json:"total"`
	ByType        []Count `json:"byType"`
	ByStatus      []Count `json:"byStatus"`
	Published     int64   `json:"published"`
	PendingReview int64   `json:"pendingReview"`
	TotalViews    int64   `json:"totalViews"`
}
