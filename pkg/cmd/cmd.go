// Package cmd 提供 sharevault 命令行入口.
package cmd

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yeisme/sharevault/pkg/configs"
)

var (
	configPath string
	debug      bool
	envFiles   []string

	rootCmd = &cobra.Command{
		Use:           "sharevault",
		Short:         "Shared workspace file manager",
		Version:       configs.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
	}
)

// loadConfig 先加载 .env 文件到进程环境，再由 viper 读取配置文件与环境变量.
func loadConfig() error {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := configs.InitConfig(configPath); err != nil {
		return err
	}

	if debug {
		cfg := *configs.GetConfig()
		cfg.Server.Debug = true
		cfg.Log.Level = "debug"
		configs.SetConfig(cfg)
	}

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "config file or directory")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files loaded before reading config")

	registerServeCommands()
	registerConfigsCommands()
	registerDBCommands()
	registerBackendCommands()
	registerReconcileCommands()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
