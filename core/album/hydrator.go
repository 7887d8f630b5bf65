package album

import (
	"context"

	"VinylX/core/odesli"
	"VinylX/logger"
	"VinylX/metrics"
)

// StreamingSourceResolver 从发行版外链中找一个可用于链接聚合的播放地址
type StreamingSourceResolver interface {
	ResolveStreamingSourceURL(ctx context.Context, releaseID string) string
}

// LinkAggregator 链接聚合服务
type LinkAggregator interface {
	GetLinks(ctx context.Context, platformURL string) (*odesli.Response, error)
}

// LinkStore 持久化专辑的流媒体链接
type LinkStore interface {
	UpdateStreamingLinks(ctx context.Context, albumID string, links map[string]string) error
}

// Hydrator 为专辑补全跨平台流媒体链接。所有失败只记录日志，不返回给调用方。
type Hydrator struct {
	source     StreamingSourceResolver
	aggregator LinkAggregator
	store      LinkStore
}

// NewHydrator 创建链接补全器
func NewHydrator(source StreamingSourceResolver, aggregator LinkAggregator, store LinkStore) *Hydrator {
	return &Hydrator{source: source, aggregator: aggregator, store: store}
}

// Hydrate 查找播放源、请求聚合服务、写入链接。提取结果为空时不写库，已有链接不会被清空。
func (h *Hydrator) Hydrate(ctx context.Context, albumID, releaseID string) {
	sourceURL := h.source.ResolveStreamingSourceURL(ctx, releaseID)
	if sourceURL == "" {
		metrics.HydrationsTotal.WithLabelValues("no_source").Inc()
		logger.Debug("[Hydrate] no streaming source on release",
			logger.String("albumId", albumID),
			logger.String("releaseId", releaseID))
		return
	}

	resp, err := h.aggregator.GetLinks(ctx, sourceURL)
	if err != nil || resp == nil {
		metrics.HydrationsTotal.WithLabelValues("aggregator_error").Inc()
		logger.Warn("[Hydrate] streaming links hydration deferred",
			logger.String("albumId", albumID),
			logger.String("source", sourceURL),
			logger.ErrorField(err))
		return
	}

	links := odesli.ExtractPlatformLinks(resp)
	if len(links) == 0 {
		metrics.HydrationsTotal.WithLabelValues("empty").Inc()
		return
	}

	if err := h.store.UpdateStreamingLinks(ctx, albumID, links); err != nil {
		metrics.HydrationsTotal.WithLabelValues("store_error").Inc()
		logger.Error("[Hydrate] failed to store streaming links",
			logger.String("albumId", albumID),
			logger.ErrorField(err))
		return
	}

	metrics.HydrationsTotal.WithLabelValues("stored").Inc()
	logger.Info("[Hydrate] streaming links stored",
		logger.String("albumId", albumID),
		logger.Int("platforms", len(links)))
}
