package mq

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
)

func init() {
	RegisterFactory(configs.MQTypeMemory, memoryFactory)
}

// memoryFactory 进程内 GoChannel，同一实例同时充当 Publisher 与 Subscriber.
func memoryFactory(
	_ context.Context,
	cfg *configs.MQConfig,
	logger watermill.LoggerAdapter) (
	message.Publisher, message.Subscriber, error) {
	buf := int64(cfg.Common.BufferSize)
	if buf <= 0 {
		buf = configs.DefaultBufferSize
	}

	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: buf,
	}, logger)

	return ch, ch, nil
}
