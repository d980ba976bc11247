package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 内容领域 --------------------------

// ContentRef 事件中引用的内容摘要.
type ContentRef struct {
	ID         string   `json:"id"`
	OwnerID    string   `json:"owner_id"`
	Title      string   `json:"title"`
	Type       string   `json:"type"`
	Status     string   `json:"status"`
	Categories []string `json:"categories,omitempty"`
}

// ContentPayload 内容状态变化.
type ContentPayload struct {
	Content ContentRef `json:"content"`
	// ActorID 触发变化的用户，自动审核时为作者本人.
	ActorID string `json:"actor_id,omitempty"`
	// Score 自动审核分数，人工审核时沿用已存储的分数.
	Score   int      `json:"score,omitempty"`
	Action  string   `json:"action,omitempty"`
	Reasons []string `json:"reasons,omitempty"`
	Notes   string   `json:"notes,omitempty"`
}

// ContentViewedPayload 浏览事件.
type ContentViewedPayload struct {
	ContentID string `json:"content_id"`
	ViewerID  string `json:"viewer_id,omitempty"`
	ViewCount int64  `json:"view_count"`
}

// -------------------------- 用户领域 --------------------------

// UserRegisteredPayload 新用户注册.
type UserRegisteredPayload struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

// UserRolesChangedPayload 用户角色变化.
type UserRolesChangedPayload struct {
	UserID  string   `json:"user_id"`
	ActorID string   `json:"actor_id"`
	Roles   []string `json:"roles"`
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
}
