package cmd

import (
	"context"
	"fmt"
	"time"

	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/spf13/cobra"

	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
	mq "github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/mq"
)

const (
	mqProbeTopic   = "gcp.cli.ping"
	mqProbeTimeout = 5 * time.Second
)

var (
	mqCmd = &cobra.Command{
		Use:     "mq",
		Short:   "Message queue related commands",
		Aliases: []string{"messagequeue"},
	}

	mqListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list all registered mq types",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registered mq types:")

			for _, t := range mq.GetRegisteredMQTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), "   - "+string(t))
			}
		},
	}

	// 订阅探针主题后发布一条消息并等待回收.
	mqPingCmd = &cobra.Command{
		Use:   "ping",
		Short: "check the configured message queue with a publish/subscribe round trip",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(commandContext(cmd), mqProbeTimeout)
			defer cancel()

			cfg := configs.GetConfig()

			client, err := mq.New(ctx, &cfg.MQ)
			if err != nil {
				return err
			}
			defer client.Close()

			ch, err := client.Subscribe(ctx, mqProbeTopic)
			if err != nil {
				return fmt.Errorf("mq subscribe: %w", err)
			}

			start := time.Now()
			msg := message.NewMessage(watermill.NewUUID(), []byte("ping"))

			if err := client.Publish(ctx, mqProbeTopic, msg); err != nil {
				return fmt.Errorf("mq publish: %w", err)
			}

			select {
			case got := <-ch:
				got.Ack()
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", client.Type(), got.UUID, time.Since(start).Round(time.Microsecond))

				return nil
			case <-ctx.Done():
				return fmt.Errorf("mq ping: %w", ctx.Err())
			}
		},
	}
)

// registerMQCommands 注册 MQ 相关命令.
func registerMQCommands() {
	mqCmd.AddCommand(mqListCmd)
	mqCmd.AddCommand(mqPingCmd)

	rootCmd.AddCommand(mqCmd)
}
