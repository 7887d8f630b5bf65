package musicbrainz

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"VinylX/logger"
	"VinylX/model"
)

const (
	// MinQueryLength 去掉首尾空白后的最短查询长度
	MinQueryLength = 2
	// DefaultSearchLimit 纯目录搜索默认条数
	DefaultSearchLimit = 12
)

// SearchByText 按自由文本搜索正式发行的专辑，按 MusicBrainz 相关度降序（同分保持原顺序）。
// 查询过短时直接返回空切片，不发请求；任何失败都返回空切片。
func (c *Client) SearchByText(ctx context.Context, query string, limit int, bypassCache bool) []model.RankedSearchResult {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < MinQueryLength {
		return []model.RankedSearchResult{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	params := url.Values{}
	params.Set("query", q+" AND primarytype:album AND status:official")
	params.Set("limit", strconv.Itoa(limit))

	var data releaseGroupList
	if err := c.getJSON(ctx, c.buildURL("/release-group", params), bypassCache, &data); err != nil {
		logger.Warn("[MusicBrainz] searchByText failed",
			logger.String("query", q),
			logger.ErrorField(err))
		return []model.RankedSearchResult{}
	}

	groups := make([]releaseGroup, 0, len(data.ReleaseGroups))
	for _, rg := range data.ReleaseGroups {
		if rg.ID == "" || rg.Title == "" {
			continue
		}
		groups = append(groups, rg)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return scoreOf(groups[i]) > scoreOf(groups[j])
	})

	results := make([]model.RankedSearchResult, 0, len(groups))
	for i := range groups {
		rec := groups[i].toRecord()
		results = append(results, model.RankedSearchResult{
			CatalogueRecord: rec,
			CoverURL:        c.CoverArtURL(rec.ID),
			Rank:            int(rec.RelevanceScore),
		})
	}
	return results
}

// SearchAlbums 专辑页的纯目录搜索入口，走缓存，默认 12 条
func (c *Client) SearchAlbums(ctx context.Context, query string) []model.RankedSearchResult {
	return c.SearchByText(ctx, query, DefaultSearchLimit, false)
}

// TargetedLookup 以 "艺人 AND 标题" 精确短语查询，只取第一条，不缓存
func (c *Client) TargetedLookup(ctx context.Context, artistName, title string) *model.CatalogueRecord {
	if strings.TrimSpace(artistName) == "" && strings.TrimSpace(title) == "" {
		return nil
	}

	params := url.Values{}
	params.Set("query", "artist:"+quotePhrase(artistName)+" AND releasegroup:"+quotePhrase(title))
	params.Set("limit", "1")

	var data releaseGroupList
	if err := c.getJSON(ctx, c.buildURL("/release-group", params), true, &data); err != nil {
		logger.Warn("[MusicBrainz] targetedLookup failed",
			logger.String("artist", artistName),
			logger.String("title", title),
			logger.ErrorField(err))
		return nil
	}
	if len(data.ReleaseGroups) == 0 || data.ReleaseGroups[0].ID == "" {
		return nil
	}
	rec := data.ReleaseGroups[0].toRecord()
	return &rec
}

func scoreOf(rg releaseGroup) float64 {
	if rg.Score == nil {
		return 0
	}
	return *rg.Score
}
