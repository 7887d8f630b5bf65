package musicbrainz

import (
	"context"
	"net/url"
	"strings"

	"VinylX/logger"
)

// streamingRelationTypes 可以作为链接聚合输入的外链关系类型
var streamingRelationTypes = map[string]struct{}{
	"streaming":             {},
	"free streaming":        {},
	"download for free":     {},
	"purchase for download": {},
}

// ResolveStreamingSourceURL 读取发行版的外链关系，返回第一个允许类型的地址；没有或失败返回空串
func (c *Client) ResolveStreamingSourceURL(ctx context.Context, releaseID string) string {
	if strings.TrimSpace(releaseID) == "" {
		return ""
	}
	params := url.Values{}
	params.Set("inc", "url-rels")

	var rel release
	if err := c.getJSON(ctx, c.buildURL("/release/"+url.PathEscape(releaseID), params), false, &rel); err != nil {
		logger.Warn("[MusicBrainz] streaming source lookup skipped",
			logger.String("releaseId", releaseID),
			logger.ErrorField(err))
		return ""
	}

	for _, r := range rel.Relations {
		if _, ok := streamingRelationTypes[r.Type]; ok && r.URL.Resource != "" {
			return r.URL.Resource
		}
	}
	return ""
}
