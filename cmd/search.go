package cmd

import (
	"context"
	"fmt"
	"os"

	"VinylX/core/search"
	"VinylX/model"
	"VinylX/server"

	"github.com/spf13/cobra"
)

var (
	searchQuery     string
	searchCatalogue bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "命令行专辑搜索",
	Long:  `按热度排序搜索专辑（Last.fm 排序 + MusicBrainz 解析），--catalogue 时只查 MusicBrainz`,
	Run: func(cmd *cobra.Command, args []string) {
		if searchQuery == "" {
			fmt.Println("请输入要搜索的专辑名称")
			os.Exit(1)
		}

		clients := server.NewClients(cfg, server.NewResponseCache(cfg))
		ctx := context.Background()

		fmt.Printf("正在搜索: %s\n", searchQuery)
		var results []model.RankedSearchResult
		if searchCatalogue {
			results = clients.MusicBrainz.SearchAlbums(ctx, searchQuery)
		} else {
			orchestrator := search.NewOrchestrator(clients.LastFM, clients.MusicBrainz, cfg.SearchHitTimeout)
			results = orchestrator.Search(ctx, searchQuery)
		}

		if len(results) == 0 {
			fmt.Println("未找到相关专辑")
			return
		}

		fmt.Printf("\n找到 %d 张专辑:\n", len(results))
		for i, r := range results {
			date := ""
			if r.FirstReleaseDate != nil {
				date = *r.FirstReleaseDate
			}
			fmt.Printf("%2d. [%3d] %s - %s (%s) %s\n", i+1, r.Rank, r.Title, r.ArtistName, date, r.ID)
		}
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "搜索关键词")
	searchCmd.Flags().BoolVar(&searchCatalogue, "catalogue", false, "只使用 MusicBrainz 搜索")
	rootCmd.AddCommand(searchCmd)
}
