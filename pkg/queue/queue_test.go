package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sloopymg1/ghana-creative-platform/pkg/queue"
)

// TestPublishContent 测试内容事件经过 gochannel 往返.
func TestPublishContent(t *testing.T) {
	ps := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer ps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ch, err := ps.Subscribe(ctx, queue.TopicContentPublished)
	require.NoError(t, err)

	payload := queue.ContentPayload{
		Content: queue.ContentRef{ID: "c1", OwnerID: "u1", Title: "Adowa dance", Type: "VIDEO", Status: "PUBLISHED"},
		ActorID: "u1",
		Score:   10,
		Action:  "approve",
	}
	require.NoError(t, queue.PublishContent(ps, queue.TopicContentPublished, payload,
		queue.WithProducer("test"), queue.WithTraceID("trace-1")))

	select {
	case msg := <-ch:
		env, err := queue.ParseContent(msg)
		require.NoError(t, err)
		msg.Ack()

		assert.Equal(t, payload, env.Payload)
		assert.Equal(t, queue.TopicContentPublished, env.Header.Topic)
		assert.Equal(t, "test", env.Header.Producer)
		assert.Equal(t, "trace-1", msg.Metadata.Get("trace_id"))
		assert.Equal(t, queue.PayloadVersionV1, env.Header.Version)
	case <-ctx.Done():
		t.Fatal("未收到事件")
	}
}

// TestEncodeDecode 测试信封编解码.
func TestEncodeDecode(t *testing.T) {
	in := queue.Message[queue.UserRolesChangedPayload]{
		Header:  queue.NewEventHeader(queue.TopicUserRolesChanged),
		Payload: queue.UserRolesChangedPayload{UserID: "u1", ActorID: "admin", Roles: []string{"CONTENT_MODERATOR"}},
	}

	b, err := queue.Encode(in)
	require.NoError(t, err)

	out, err := queue.Decode[queue.UserRolesChangedPayload](b)
	require.NoError(t, err)
	assert.Equal(t, in.Payload, out.Payload)
	assert.True(t, in.Header.OccurredAt.Equal(out.Header.OccurredAt))
}
