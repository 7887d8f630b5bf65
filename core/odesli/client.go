package odesli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"VinylX/cache"
	"VinylX/logger"
	"VinylX/metrics"

	"golang.org/x/time/rate"
)

const (
	// DefaultCacheTTL 链接聚合结果缓存 7 天
	DefaultCacheTTL = 7 * 24 * time.Hour
	// DefaultRequestsPerMinute song.link 免 key 调用的配额
	DefaultRequestsPerMinute = 10

	providerName = "odesli"
	// PageLinkKey 聚合页地址在链接表中的固定键名
	PageLinkKey = "songlink"
)

// PlatformLink 某个平台上的对应地址
type PlatformLink struct {
	URL            string `json:"url"`
	EntityUniqueID string `json:"entityUniqueId"`
}

// Entity 平台实体元数据
type Entity struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	Title        string   `json:"title,omitempty"`
	ArtistName   string   `json:"artistName,omitempty"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	APIProvider  string   `json:"apiProvider"`
	Platforms    []string `json:"platforms"`
}

// Response song.link /links 响应
type Response struct {
	EntityUniqueID     string                   `json:"entityUniqueId"`
	UserCountry        string                   `json:"userCountry"`
	PageURL            string                   `json:"pageUrl"`
	LinksByPlatform    map[string]*PlatformLink `json:"linksByPlatform"`
	EntitiesByUniqueID map[string]*Entity       `json:"entitiesByUniqueId"`
}

// Config Odesli 客户端配置
type Config struct {
	BaseURL           string
	UserCountry       string
	RequestsPerMinute int
	Cache             cache.ResponseCache
	CacheTTL          time.Duration
	Client            *http.Client
}

// Client song.link 链接聚合客户端
type Client struct {
	baseURL     string
	userCountry string
	limiter     *rate.Limiter
	cache       cache.ResponseCache
	cacheTTL    time.Duration
	httpClient  *http.Client
}

// NewClient 创建 Odesli 客户端
func NewClient(cfg Config) *Client {
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = DefaultRequestsPerMinute
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	country := cfg.UserCountry
	if country == "" {
		country = "US"
	}
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		userCountry: country,
		limiter:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		cache:       cfg.Cache,
		cacheTTL:    ttl,
		httpClient:  httpClient,
	}
}

// GetLinks 把一个平台地址转换为各平台的对应地址
func (c *Client) GetLinks(ctx context.Context, platformURL string) (*Response, error) {
	if strings.TrimSpace(platformURL) == "" {
		return nil, fmt.Errorf("odesli: empty platform url")
	}

	params := url.Values{}
	params.Set("url", platformURL)
	params.Set("userCountry", c.userCountry)
	rawURL := c.baseURL + "?" + params.Encode()

	body, ok := c.cachedBody(ctx, rawURL)
	if !ok {
		var err error
		if body, err = c.fetch(ctx, rawURL); err != nil {
			return nil, err
		}
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("odesli: decode response: %w", err)
	}
	if !ok && c.cache != nil {
		c.cache.Set(ctx, rawURL, body, c.cacheTTL)
	}
	return &out, nil
}

func (c *Client) cachedBody(ctx context.Context, rawURL string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok := c.cache.Get(ctx, rawURL)
	if ok {
		metrics.CacheHitsTotal.WithLabelValues(providerName).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(providerName).Inc()
	}
	return body, ok
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	waitStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("odesli: rate limiter: %w", err)
	}
	metrics.RateLimitWaitSeconds.WithLabelValues(providerName).Observe(time.Since(waitStart).Seconds())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	began := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ProviderRequestDuration.WithLabelValues(providerName).Observe(time.Since(began).Seconds())
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("odesli: request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.ProviderRequestsTotal.WithLabelValues(providerName, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("odesli: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	logger.Debug("[Odesli] links fetched", logger.String("url", rawURL))
	return body, nil
}

// ExtractPlatformLinks 生成 平台名 -> 地址 映射，聚合页地址放在 PageLinkKey 下
func ExtractPlatformLinks(resp *Response) map[string]string {
	links := make(map[string]string)
	if resp == nil {
		return links
	}
	if resp.PageURL != "" {
		links[PageLinkKey] = resp.PageURL
	}
	for platform, link := range resp.LinksByPlatform {
		if link != nil && link.URL != "" {
			links[platform] = link.URL
		}
	}
	return links
}
