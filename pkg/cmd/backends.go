package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/sharevault/pkg/internal/storage/blob"
	"github.com/yeisme/sharevault/pkg/internal/storage/kv"
	"github.com/yeisme/sharevault/pkg/internal/storage/mq"
)

// newBackendCommand 创建形如 `kv ls` 的后端类型查询命令.
func newBackendCommand[T ~string](use, short string, types func() []T) *cobra.Command {
	parent := &cobra.Command{
		Use:   use,
		Short: short,
	}

	parent.AddCommand(&cobra.Command{
		Use:     "list",
		Short:   "list all registered " + use + " backends",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s types:\n", use)

			for _, t := range types() {
				fmt.Fprintln(cmd.OutOrStdout(), "   - "+string(t))
			}
		},
	})

	return parent
}

func registerBackendCommands() {
	rootCmd.AddCommand(
		newBackendCommand("kv", "Key-Value store related commands", kv.GetRegisteredKVTypes),
		newBackendCommand("mq", "Message queue related commands", mq.GetRegisteredMQTypes),
		newBackendCommand("blob", "File content store related commands", blob.GetRegisteredBlobTypes),
	)
}
