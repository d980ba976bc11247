// Package context 拓展上下文功能，将存储、会话主体、日志等集成到上下文中，方便在应用程序各处传递和使用.
package context

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage"
	dbc "github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/db"
	kvc "github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/kv"
	mqc "github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/mq"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

type ContextKey string

const (
	StorageManagerKey ContextKey = "storageManager"
	SubjectKey        ContextKey = "subject"
	ClientInfoKey     ContextKey = "clientInfo"
)

// ClientInfo 请求来源信息，写入审计日志.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// WithStorageManager 将 Manager 存储到 context 中.
func WithStorageManager(ctx context.Context, mgr *storage.Manager) context.Context {
	return context.WithValue(ctx, StorageManagerKey, mgr)
}

// GetManager 从 context 中获取 Manager.
func GetManager(ctx context.Context) *storage.Manager {
	if mgr, ok := ctx.Value(StorageManagerKey).(*storage.Manager); ok {
		return mgr
	}

	return nil
}

// GetDBClient 从 context 中获取 DB 客户端.
func GetDBClient(ctx context.Context) *dbc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetDBClient()
	}

	return nil
}

// GetMQClient 从 context 中获取 MQ 客户端.
func GetMQClient(ctx context.Context) *mqc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetMQClient()
	}

	return nil
}

// GetKVClient 从 context 中获取 KV 客户端.
func GetKVClient(ctx context.Context) *kvc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetKVClient()
	}

	return nil
}

// WithSubject 将当前请求的主体（已解析角色）存入 context.
func WithSubject(ctx context.Context, s *rbac.Subject) context.Context {
	return context.WithValue(ctx, SubjectKey, s)
}

// GetSubject 从 context 中获取主体，未登录时返回 nil.
func GetSubject(ctx context.Context) *rbac.Subject {
	if s, ok := ctx.Value(SubjectKey).(*rbac.Subject); ok {
		return s
	}

	return nil
}

// WithClientInfo 将请求来源存入 context.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, ClientInfoKey, info)
}

// GetClientInfo 从 context 中获取请求来源，不存在时为零值.
func GetClientInfo(ctx context.Context) ClientInfo {
	info, _ := ctx.Value(ClientInfoKey).(ClientInfo)
	return info
}

// WithTraceContext 创建带有追踪上下文的logger.
func WithTraceContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		return logger.With().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Logger()
	}

	return logger
}
