package lastfm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"VinylX/logger"
	"VinylX/metrics"
	"VinylX/model"
)

const (
	// DefaultLimit 每次搜索最多返回的条数
	DefaultLimit = 15
	// DefaultTimeout 单次调用的硬超时
	DefaultTimeout = 5 * time.Second

	providerName = "lastfm"
)

// ErrNotConfigured 未配置 API Key
var ErrNotConfigured = errors.New("lastfm: LASTFM_API_KEY not configured")

// APIError Last.fm 在 200 响应体里返回的业务错误
type APIError struct {
	Code    int    `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lastfm: api error %d: %s", e.Code, e.Message)
}

// Config Last.fm 客户端配置
type Config struct {
	BaseURL string
	APIKey  string
	Limit   int
	Timeout time.Duration
	Client  *http.Client
}

// Client Last.fm 专辑搜索客户端，与目录服务不共用限速器。
// 与目录客户端不同，这里的错误会返回给调用方，编排器据此切换到回退模式。
type Client struct {
	baseURL    string
	apiKey     string
	limit      int
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient 创建 Last.fm 客户端
func NewClient(cfg Config) *Client {
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		limit:      limit,
		timeout:    timeout,
		httpClient: httpClient,
	}
}

type albumImage struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

type albumMatch struct {
	Name   string       `json:"name"`
	Artist string       `json:"artist"`
	MBID   string       `json:"mbid"`
	Image  []albumImage `json:"image"`
}

type searchResponse struct {
	Results *struct {
		AlbumMatches *struct {
			Album []albumMatch `json:"album"`
		} `json:"albummatches"`
	} `json:"results"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// Search 调用 album.search，按热度顺序返回匹配项，过滤掉名称为空的条目
func (c *Client) Search(ctx context.Context, query string) ([]model.PopularityHit, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("method", "album.search")
	params.Set("album", query)
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")
	params.Set("limit", fmt.Sprintf("%d", c.limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	began := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ProviderRequestDuration.WithLabelValues(providerName).Observe(time.Since(began).Seconds())
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("lastfm: request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.ProviderRequestsTotal.WithLabelValues(providerName, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("lastfm: status %d", resp.StatusCode)
	}

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("lastfm: decode response: %w", err)
	}
	if data.Error != 0 {
		return nil, &APIError{Code: data.Error, Message: data.Message}
	}
	if data.Results == nil || data.Results.AlbumMatches == nil {
		return []model.PopularityHit{}, nil
	}

	hits := make([]model.PopularityHit, 0, len(data.Results.AlbumMatches.Album))
	for _, a := range data.Results.AlbumMatches.Album {
		if strings.TrimSpace(a.Name) == "" {
			continue
		}
		hits = append(hits, model.PopularityHit{
			DisplayName:         a.Name,
			DisplayArtist:       a.Artist,
			CandidateExternalID: strings.TrimSpace(a.MBID),
			ImageURL:            largestImage(a.Image),
		})
		if len(hits) == c.limit {
			break
		}
	}

	logger.Debug("[LastFM] album.search",
		logger.String("query", query),
		logger.Int("hits", len(hits)))
	return hits, nil
}

var imageSizeOrder = map[string]int{
	"small":      1,
	"medium":     2,
	"large":      3,
	"extralarge": 4,
	"mega":       5,
}

// largestImage 取尺寸最大的非空图片地址
func largestImage(images []albumImage) string {
	best, bestRank := "", -1
	for _, img := range images {
		if img.URL == "" {
			continue
		}
		if r := imageSizeOrder[img.Size]; r > bestRank {
			best, bestRank = img.URL, r
		}
	}
	return best
}
