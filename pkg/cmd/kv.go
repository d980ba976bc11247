package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
	kv "github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/kv"
)

const kvProbeKey = "cli:ping"

var (
	kvCmd = &cobra.Command{
		Use:     "kv",
		Short:   "Key-Value store related commands",
		Aliases: []string{"keyvalue"},
	}

	kvListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list all registered kv types",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registered kv types:")

			for _, t := range kv.GetRegisteredKVTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), "   - "+string(t))
			}
		},
	}

	// 写入并读回一个探针键.
	kvPingCmd = &cobra.Command{
		Use:   "ping",
		Short: "check the configured kv store with a set/get round trip",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			cfg := configs.GetConfig()

			client, err := kv.NewKVClient(ctx, &cfg.KV)
			if err != nil {
				return err
			}
			defer client.Close()

			start := time.Now()
			if err := client.Set(ctx, kvProbeKey, []byte("pong"), time.Minute); err != nil {
				return fmt.Errorf("kv set: %w", err)
			}

			v, err := client.Get(ctx, kvProbeKey)
			if err != nil {
				return fmt.Errorf("kv get: %w", err)
			}

			_ = client.Delete(ctx, kvProbeKey)

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", client.Type(), v, time.Since(start).Round(time.Microsecond))

			return nil
		},
	}
)

// registerKVCommands 注册 KV 相关命令.
func registerKVCommands() {
	kvCmd.AddCommand(kvListCmd)
	kvCmd.AddCommand(kvPingCmd)

	rootCmd.AddCommand(kvCmd)
}
