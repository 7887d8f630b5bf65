package cmd

import (
	"VinylX/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动VinylX服务器",
	Long:  `启动专辑搜索与解析的HTTP服务器，提供搜索、专辑、艺人接口以及 /metrics`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
