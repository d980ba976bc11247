package mq_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/mq"
)

// TestMemoryPublishSubscribe 测试进程内队列的发布订阅.
func TestMemoryPublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mq.New(ctx, &configs.MQConfig{Type: configs.MQTypeMemory})
	require.NoError(t, err)

	defer client.Close()

	assert.Equal(t, configs.MQTypeMemory, client.Type())

	got := make(chan string, 1)

	client.Handle("test", "gcp.test", func(msg *message.Message) error {
		got <- string(msg.Payload)
		return nil
	})
	client.Run(ctx)

	select {
	case <-client.Running():
	case <-ctx.Done():
		t.Fatal("router did not start")
	}

	require.NoError(t, client.Publish(ctx, "gcp.test", message.NewMessage(watermill.NewUUID(), []byte("hello"))))

	select {
	case payload := <-got:
		assert.Equal(t, "hello", payload)
	case <-ctx.Done():
		t.Fatal("message not delivered")
	}
}

// TestUnsupportedType 测试未知类型.
func TestUnsupportedType(t *testing.T) {
	_, err := mq.New(context.Background(), &configs.MQConfig{Type: "kafka"})
	assert.Error(t, err)

	var c *mq.Client
	assert.ErrorIs(t, c.Publish(context.Background(), "x"), mq.ErrNotInitialized)
}
