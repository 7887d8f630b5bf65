package musicbrainz

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"VinylX/model"
)

// DefaultDiscographyLimit 艺人作品列表默认条数
const DefaultDiscographyLimit = 50

// GetArtistDetail 读取艺人详情（含别名和标签）
func (c *Client) GetArtistDetail(ctx context.Context, artistID string) *model.ArtistDetail {
	if strings.TrimSpace(artistID) == "" {
		return nil
	}
	params := url.Values{}
	params.Set("inc", "aliases tags")

	var detail model.ArtistDetail
	if err := c.getJSON(ctx, c.buildURL("/artist/"+url.PathEscape(artistID), params), false, &detail); err != nil {
		logFailure("getArtistDetail", artistID, err)
		return nil
	}
	if detail.ID == "" {
		logFailure("getArtistDetail", artistID, fmt.Errorf("empty response"))
		return nil
	}
	return &detail
}

// GetArtistDiscography 浏览艺人的专辑和 EP，按首发日期降序，缺少日期的排在最后
func (c *Client) GetArtistDiscography(ctx context.Context, artistID string, limit int) []model.RankedSearchResult {
	if strings.TrimSpace(artistID) == "" {
		return []model.RankedSearchResult{}
	}
	if limit <= 0 {
		limit = DefaultDiscographyLimit
	}
	params := url.Values{}
	params.Set("artist", artistID)
	params.Set("type", "album|ep")
	params.Set("limit", strconv.Itoa(limit))

	var data releaseGroupList
	if err := c.getJSON(ctx, c.buildURL("/release-group", params), false, &data); err != nil {
		logFailure("getArtistDiscography", artistID, err)
		return []model.RankedSearchResult{}
	}

	groups := make([]releaseGroup, 0, len(data.ReleaseGroups))
	for _, rg := range data.ReleaseGroups {
		if rg.ID == "" || rg.Title == "" {
			continue
		}
		groups = append(groups, rg)
	}
	// 日期是 "YYYY"、"YYYY-MM" 或 "YYYY-MM-DD"，字符串比较即可；空串自然排在最后
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].FirstReleaseDate > groups[j].FirstReleaseDate
	})

	results := make([]model.RankedSearchResult, 0, len(groups))
	for i := range groups {
		rg := groups[i]
		rec := rg.toRecord()
		if rec.PrimaryType == nil && len(rg.SecondaryTypes) > 0 {
			rec.PrimaryType = optionalString(rg.SecondaryTypes[0])
		}
		results = append(results, model.RankedSearchResult{
			CatalogueRecord: rec,
			CoverURL:        c.CoverArtURL(rec.ID),
			Rank:            int(rec.RelevanceScore),
		})
	}
	return results
}
