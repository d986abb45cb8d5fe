package cmd

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/yeisme/sharevault/pkg/configs"
	ctxPkg "github.com/yeisme/sharevault/pkg/context"
	"github.com/yeisme/sharevault/pkg/internal/jobs"
	"github.com/yeisme/sharevault/pkg/internal/storage"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "remove orphan blobs and report files whose content is missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)

		mgr, err := storage.Init(ctx, configs.GetConfig(), storage.WithoutMQ())
		if err != nil {
			return err
		}
		defer mgr.Close()

		report, err := jobs.Reconcile(ctxPkg.WithStorageManager(ctx, mgr))
		if err != nil {
			return err
		}

		b, err := sonic.ConfigStd.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(b))

		return nil
	},
}

func registerReconcileCommands() {
	rootCmd.AddCommand(reconcileCmd)
}
