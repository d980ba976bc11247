package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sloopymg1/ghana-creative-platform/pkg/app"
)

var (
	serveOpts app.Options

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.NewApp(ctx, serveOpts)
			if err != nil {
				return err
			}

			return a.Run(ctx)
		},
	}
)

// registerServeCommands 注册 serve 命令.
func registerServeCommands() {
	serveCmd.Flags().BoolVar(&serveOpts.Migrate, "migrate", false, "migrate schema and seed roles before serving")
	serveCmd.Flags().BoolVar(&serveOpts.Jobs, "jobs", true, "run cron jobs and event consumers")

	rootCmd.AddCommand(serveCmd)
}

// commandContext 返回命令的上下文，未设置时使用 Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
