package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"VinylX/logger"
	"VinylX/metrics"

	"golang.org/x/sync/semaphore"
)

// Config 限速抓取器配置，每个外部主机一个实例
type Config struct {
	Host      string        // 仅用于日志和指标
	Interval  time.Duration // 相邻两次发起请求的最小间隔
	UserAgent string
	Client    *http.Client
}

// Fetcher 对同一外部主机的所有请求串行化，保证相邻两次发起时间间隔不小于 Interval。
// 只约束发起顺序，不约束响应到达顺序，也不重试。
type Fetcher struct {
	host      string
	interval  time.Duration
	userAgent string
	client    *http.Client

	gate *semaphore.Weighted

	mu   sync.Mutex
	last time.Time
}

// NewFetcher 创建限速抓取器
func NewFetcher(cfg Config) *Fetcher {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Fetcher{
		host:      cfg.Host,
		interval:  cfg.Interval,
		userAgent: cfg.UserAgent,
		client:    client,
		gate:      semaphore.NewWeighted(1),
	}
}

// Host 返回该抓取器负责的主机名
func (f *Fetcher) Host() string {
	return f.host
}

// LastDispatch 最近一次请求的发起时间，零值表示尚未发起过请求
func (f *Fetcher) LastDispatch() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// wait 排队等待发起许可；ctx 取消时立即返回错误且不更新时间戳
func (f *Fetcher) wait(ctx context.Context) error {
	start := time.Now()
	if err := f.gate.Acquire(ctx, 1); err != nil {
		return err
	}
	defer f.gate.Release(1)

	f.mu.Lock()
	last := f.last
	f.mu.Unlock()

	if !last.IsZero() {
		if d := f.interval - time.Since(last); d > 0 {
			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	f.mu.Lock()
	f.last = time.Now()
	f.mu.Unlock()

	metrics.RateLimitWaitSeconds.WithLabelValues(f.host).Observe(time.Since(start).Seconds())
	return nil
}

// Do 等待限速许可后发送请求。网络错误原样返回，非 2xx 响应同样返回给调用方自行判断。
func (f *Fetcher) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := f.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait for %s: %w", f.host, err)
	}

	req = req.WithContext(ctx)
	if f.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	began := time.Now()
	resp, err := f.client.Do(req)
	metrics.ProviderRequestDuration.WithLabelValues(f.host).Observe(time.Since(began).Seconds())
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(f.host, "error").Inc()
		logger.Warn("[RateLimit] request failed",
			logger.String("host", f.host),
			logger.String("url", req.URL.String()),
			logger.ErrorField(err))
		return nil, err
	}
	metrics.ProviderRequestsTotal.WithLabelValues(f.host, fmt.Sprintf("%d", resp.StatusCode)).Inc()
	return resp, nil
}

// Get 构造 GET 请求并通过限速器发送
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	return f.Do(ctx, req)
}
