package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"VinylX/server"

	"github.com/spf13/cobra"
)

var resolveMBID string

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "解析专辑并写入数据库",
	Long:  `按 MusicBrainz release-group ID 获取或创建本地专辑和曲目，并等待流媒体链接补全完成`,
	Run: func(cmd *cobra.Command, args []string) {
		if resolveMBID == "" {
			fmt.Println("请提供 MusicBrainz ID")
			os.Exit(1)
		}

		app, err := server.NewApp(cfg)
		if err != nil {
			log.Fatalf("初始化失败: %v", err)
		}

		result := app.Resolver.EnsureAlbumInDatabase(context.Background(), resolveMBID)

		// Close 会等待后台补全任务结束
		if err := app.Close(); err != nil {
			log.Printf("关闭资源时发生错误: %v", err)
		}

		if result == nil {
			fmt.Println("未找到该专辑")
			os.Exit(1)
		}

		fmt.Printf("%s - %s (id: %s)\n", result.Album.Title, result.Album.ArtistName, result.Album.ID)
		if result.ArtistExternalID != nil {
			fmt.Printf("艺人 MBID: %s\n", *result.ArtistExternalID)
		}
		for _, t := range result.Tracks {
			duration := "--:--"
			if t.DurationMs != nil {
				secs := *t.DurationMs / 1000
				duration = fmt.Sprintf("%d:%02d", secs/60, secs%60)
			}
			fmt.Printf("%2d. %s [%s]\n", t.TrackNumber, t.Title, duration)
		}
	},
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveMBID, "mbid", "m", "", "MusicBrainz release-group ID")
	rootCmd.AddCommand(resolveCmd)
}
