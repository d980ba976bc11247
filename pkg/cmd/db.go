package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sloopymg1/ghana-creative-platform/pkg/app"
	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
	ctxPkg "github.com/sloopymg1/ghana-creative-platform/pkg/context"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/db"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

var (
	adminEmail string

	dbCmd = &cobra.Command{
		Use:   "db",
		Short: "Database related commands",
	}

	dbListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list all registered database types",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registered database types:")

			for _, dbType := range db.GetRegisteredDBTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), "   - "+string(dbType))
			}
		},
	}

	dbMigrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "migrate the schema and seed the built-in roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			mgr, err := storage.Init(ctx, configs.GetConfig())
			if err != nil {
				return err
			}
			defer mgr.Close()

			if err := app.Migrate(ctx, mgr); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migration finished")

			return nil
		},
	}

	dbSeedCmd = &cobra.Command{
		Use:   "seed",
		Short: "seed the built-in roles, optionally granting SUPER_ADMIN to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			mgr, err := storage.Init(ctx, configs.GetConfig())
			if err != nil {
				return err
			}
			defer mgr.Close()

			ctx = ctxPkg.WithStorageManager(ctx, mgr)
			rs := service.NewRBACService(ctx)

			if err := rs.Seed(ctx); err != nil {
				return err
			}

			if adminEmail == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "roles seeded")

				return nil
			}

			u, err := rs.AssignRoleByEmail(ctx, service.SystemActor, adminEmail, rbac.RoleSuperAdmin)
			if err != nil {
				return fmt.Errorf("grant %s to %s: %w", rbac.RoleSuperAdmin, adminEmail, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "granted %s to %s\n", rbac.RoleSuperAdmin, u.Email)

			return nil
		},
	}
)

// registerDBCommands 注册数据库相关命令.
func registerDBCommands() {
	dbSeedCmd.Flags().StringVar(&adminEmail, "admin-email", "", "email of an existing user to grant SUPER_ADMIN")

	dbCmd.AddCommand(dbListCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbSeedCmd)

	rootCmd.AddCommand(dbCmd)
}
