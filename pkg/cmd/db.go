package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/sharevault/pkg/configs"
	"github.com/yeisme/sharevault/pkg/internal/storage/db"
)

var (
	dbCmd = newBackendCommand("db", "Metadata database related commands", db.GetRegisteredDBTypes)

	dbMigrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "create or update the metadata tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			cfg := configs.GetConfig()

			client, err := db.New(ctx, &cfg.DB)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Migrate(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s database %s\n", client.Type(), cfg.DB.Database)

			return nil
		},
	}
)

// registerDBCommands 注册数据库相关命令.
func registerDBCommands() {
	rootCmd.AddCommand(dbCmd)

	dbCmd.AddCommand(dbMigrateCmd)
}
