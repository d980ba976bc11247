package service

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
	ctxPkg "github.com/sloopymg1/ghana-creative-platform/pkg/context"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/model"
	nlog "github.com/sloopymg1/ghana-creative-platform/pkg/log"
	"github.com/sloopymg1/ghana-creative-platform/pkg/queue"
)

// emit 在事件开关打开且 MQ 可用时发布，失败只记日志.
func (b base) emit(ctx context.Context, enabled bool, topic string, fn func(pub message.Publisher, opts ...func(*queue.EventHeader)) error) {
	if b.mqClient == nil || !b.cfg.Events.Enabled || !enabled {
		return
	}

	opts := []func(*queue.EventHeader){queue.WithProducer(configs.AppName)}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		opts = append(opts, queue.WithTraceID(sc.TraceID().String()))
	}

	if err := fn(b.mqClient.Publisher(), opts...); err != nil {
		l := ctxPkg.WithTraceContext(ctx, *nlog.Logger())
		l.Warn().Err(err).Str("topic", topic).Msg("publish event failed")
	}
}

// emitContent 发布内容领域事件.
func (b base) emitContent(ctx context.Context, topic string, c *model.Content, p queue.ContentPayload) {
	ev := b.cfg.Events.Content

	enabled := map[string]bool{
		queue.TopicContentSubmitted: ev.Submitted,
		queue.TopicContentPublished: ev.Published,
		queue.TopicContentModerated: ev.Moderated,
		queue.TopicContentRejected:  ev.Rejected,
	}[topic]

	cats := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		cats[i] = string(cat)
	}

	p.Content = queue.ContentRef{
		ID:         c.ID,
		OwnerID:    c.UserID,
		Title:      c.Title,
		Type:       string(c.Type),
		Status:     string(c.Status),
		Categories: cats,
	}

	b.emit(ctx, enabled, topic, func(pub message.Publisher, opts ...func(*queue.EventHeader)) error {
		return queue.PublishContent(pub, topic, p, opts...)
	})
}
