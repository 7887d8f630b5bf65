package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"VinylX/cache"
	"VinylX/core/ratelimit"
	"VinylX/logger"
	"VinylX/metrics"
	"VinylX/model"
)

const (
	// DefaultCacheTTL 目录响应缓存时间
	DefaultCacheTTL = 24 * time.Hour

	providerName = "musicbrainz"
)

// StatusError MusicBrainz 返回非 2xx
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("musicbrainz: %s returned status %d", e.URL, e.StatusCode)
}

// Config MusicBrainz 客户端配置
type Config struct {
	BaseURL         string
	CoverArtBaseURL string
	Fetcher         *ratelimit.Fetcher  // 同一主机的所有客户端必须共用一个
	Cache           cache.ResponseCache // 可为空，为空时不缓存
	CacheTTL        time.Duration
}

// Client MusicBrainz 目录客户端。所有方法在传输或解析失败时返回 nil/空切片并记录日志，不向上抛错。
type Client struct {
	baseURL     string
	coverArtURL string
	fetcher     *ratelimit.Fetcher
	cache       cache.ResponseCache
	cacheTTL    time.Duration
}

// NewClient 创建 MusicBrainz 客户端
func NewClient(cfg Config) *Client {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		coverArtURL: strings.TrimRight(cfg.CoverArtBaseURL, "/"),
		fetcher:     cfg.Fetcher,
		cache:       cfg.Cache,
		cacheTTL:    ttl,
	}
}

// CoverArtURL 由 release-group ID 直接拼出封面地址，不发请求
func (c *Client) CoverArtURL(recordID string) string {
	return fmt.Sprintf("%s/release-group/%s/front-250", c.coverArtURL, recordID)
}

func (c *Client) buildURL(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("fmt", "json")
	return c.baseURL + path + "?" + params.Encode()
}

// getJSON 发起 GET 并解码。noStore 为 true 时既不读缓存也不写缓存。
func (c *Client) getJSON(ctx context.Context, rawURL string, noStore bool, out interface{}) error {
	if !noStore && c.cache != nil {
		if body, ok := c.cache.Get(ctx, rawURL); ok {
			metrics.CacheHitsTotal.WithLabelValues(providerName).Inc()
			return json.Unmarshal(body, out)
		}
		metrics.CacheMissesTotal.WithLabelValues(providerName).Inc()
	}

	resp, err := c.fetcher.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}

	if !noStore && c.cache != nil {
		c.cache.Set(ctx, rawURL, body, c.cacheTTL)
	}
	return nil
}

// buildArtistName 按顺序拼接每个署名及其连接词，例如 "Tyler" + ", " + "The Creator"
func buildArtistName(credits []artistCredit) string {
	var b strings.Builder
	for _, credit := range credits {
		name := credit.Name
		if name == "" {
			name = credit.Artist.Name
		}
		b.WriteString(name)
		b.WriteString(credit.JoinPhrase)
	}
	return b.String()
}

func primaryArtistID(credits []artistCredit) *string {
	if len(credits) == 0 || credits[0].Artist.ID == "" {
		return nil
	}
	id := credits[0].Artist.ID
	return &id
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (rg *releaseGroup) toRecord() model.CatalogueRecord {
	rec := model.CatalogueRecord{
		ID:               rg.ID,
		Title:            rg.Title,
		ArtistName:       buildArtistName(rg.ArtistCredit),
		ArtistID:         primaryArtistID(rg.ArtistCredit),
		FirstReleaseDate: optionalString(rg.FirstReleaseDate),
		PrimaryType:      optionalString(rg.PrimaryType),
	}
	if rg.Score != nil {
		rec.RelevanceScore = *rg.Score
	}
	return rec
}

var luceneEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quotePhrase 生成 Lucene 精确短语，转义内部的引号和反斜杠
func quotePhrase(s string) string {
	return `"` + luceneEscaper.Replace(s) + `"`
}

func logFailure(op, id string, err error) {
	logger.Warn("[MusicBrainz] "+op+" failed",
		logger.String("id", id),
		logger.ErrorField(err))
}
