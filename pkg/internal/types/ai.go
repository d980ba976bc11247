package types

// ModerateRequest 文本审核请求.
type ModerateRequest struct {
	Title       string `json:"title"       rule:"required,max=200"`
	Description string `json:"description" rule:"max=5000"`
}

// SuggestTagsRequest 标签建议请求.
type SuggestTagsRequest struct {
	Title       string   `json:"title"       rule:"required,max=200"`
	Description string   `json:"description" rule:"max=5000"`
	Categories  []string `json:"categories"  rule:"dive,content_category"`
	Type        string   `json:"type"        rule:"required,content_type"`
}

// SentimentRequest 情感分析请求.
type SentimentRequest struct {
	Text string `json:"text" rule:"required,max=10000"`
}

// RecommendQuery 推荐类接口的公共查询参数.
type RecommendQuery struct {
	Limit     int    `form:"limit"     rule:"omitempty,min=1,max=50"`
	Timeframe string `form:"timeframe" rule:"omitempty,oneof=day week month"`
}
