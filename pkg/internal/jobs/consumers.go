package jobs

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"

	ctxPkg "github.com/sloopymg1/ghana-creative-platform/pkg/context"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage"
	"github.com/sloopymg1/ghana-creative-platform/pkg/log"
	"github.com/sloopymg1/ghana-creative-platform/pkg/queue"
)

// 消费者名称.
const (
	ConsumerContentPublished = "recommend.invalidate_on_publish"
	ConsumerContentRejected  = "log.content_rejected"
	ConsumerContentModerated = "log.content_moderated"
	ConsumerUserRegistered   = "log.user_registered"
	ConsumerUserRoles        = "log.user_roles_changed"
)

// RegisterConsumers 注册领域事件消费者并启动 MQ router；没有配置 MQ 时直接返回.
//
// 内容发布后清空推荐缓存，其余事件只记录日志.
func RegisterConsumers(ctx context.Context, mgr *storage.Manager) error {
	if mgr == nil {
		return errors.New("storage manager is nil")
	}

	client := mgr.GetMQClient()
	if client == nil {
		return nil
	}

	svcCtx := ctxPkg.WithStorageManager(context.WithoutCancel(ctx), mgr)

	client.Handle(ConsumerContentPublished, queue.TopicContentPublished, func(m *message.Message) error {
		env, err := queue.ParseContent(m)
		if err != nil {
			return err
		}

		log.Logger().Info().Str("content_id", env.Payload.Content.ID).Str("actor_id", env.Payload.ActorID).
			Msg("content published")

		return service.NewRecommendService(svcCtx).Invalidate(m.Context())
	})

	client.Handle(ConsumerContentRejected, queue.TopicContentRejected, logContent("content rejected"))
	client.Handle(ConsumerContentModerated, queue.TopicContentModerated, logContent("content moderated"))

	client.Handle(ConsumerUserRegistered, queue.TopicUserRegistered, func(m *message.Message) error {
		env, err := queue.ParseUserRegistered(m)
		if err != nil {
			return err
		}

		log.Logger().Info().Str("user_id", env.Payload.UserID).Str("user_type", env.Payload.UserType).
			Msg("user registered")

		return nil
	})

	client.Handle(ConsumerUserRoles, queue.TopicUserRolesChanged, func(m *message.Message) error {
		env, err := queue.ParseUserRolesChanged(m)
		if err != nil {
			return err
		}

		log.Logger().Info().Str("user_id", env.Payload.UserID).Str("actor_id", env.Payload.ActorID).
			Strs("added", env.Payload.Added).Strs("removed", env.Payload.Removed).
			Msg("user roles changed")

		return nil
	})

	client.Run(ctx)

	return nil
}

func logContent(msg string) message.NoPublishHandlerFunc {
	return func(m *message.Message) error {
		env, err := queue.ParseContent(m)
		if err != nil {
			return err
		}

		log.Logger().Info().Str("content_id", env.Payload.Content.ID).Str("status", env.Payload.Content.Status).
			Int("score", env.Payload.Score).Strs("reasons", env.Payload.Reasons).Str("actor_id", env.Payload.ActorID).
			Msg(msg)

		return nil
	}
}
