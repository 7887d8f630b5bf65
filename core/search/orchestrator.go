package search

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"VinylX/logger"
	"VinylX/metrics"
	"VinylX/model"

	"github.com/google/uuid"
)

const (
	// FallbackLimit 热度服务不可用时纯目录搜索的条数
	FallbackLimit = 12
	// MinQueryLength 去掉首尾空白后的最短查询长度
	MinQueryLength = 2
	// TopRank 第一名的 rank，之后依次减一
	TopRank = 100
)

// PopularitySource 热度排序服务，失败需要返回错误以触发回退
type PopularitySource interface {
	Search(ctx context.Context, query string) ([]model.PopularityHit, error)
}

// Catalogue 搜索用到的目录操作，失败时返回 nil 或空切片
type Catalogue interface {
	SearchByText(ctx context.Context, query string, limit int, bypassCache bool) []model.RankedSearchResult
	LookupByID(ctx context.Context, id string) *model.CatalogueRecord
	TargetedLookup(ctx context.Context, artistName, title string) *model.CatalogueRecord
	CoverArtURL(recordID string) string
}

// Orchestrator 合并热度排序和目录身份解析：排名以热度服务为准，ID 和元数据以目录为准
type Orchestrator struct {
	popularity PopularitySource
	catalogue  Catalogue
	hitTimeout time.Duration
}

// NewOrchestrator 创建搜索编排器。hitTimeout 为单条命中解析的超时，<=0 表示不设超时。
func NewOrchestrator(popularity PopularitySource, catalogue Catalogue, hitTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		popularity: popularity,
		catalogue:  catalogue,
		hitTimeout: hitTimeout,
	}
}

// hitOutcome 单条命中的解析结果
type hitOutcome struct {
	record *model.CatalogueRecord
	path   string
}

// Search 返回按热度排序的专辑列表。外部错误不会返回给调用方，最坏情况是空列表。
func (o *Orchestrator) Search(ctx context.Context, query string) []model.RankedSearchResult {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < MinQueryLength {
		metrics.SearchRequestsTotal.WithLabelValues("rejected").Inc()
		return []model.RankedSearchResult{}
	}

	searchID := uuid.NewString()
	started := time.Now()

	hits, err := o.popularity.Search(ctx, q)
	if err != nil || len(hits) == 0 {
		logger.Warn("[Search] popularity source unavailable, catalogue fallback",
			logger.String("searchId", searchID),
			logger.String("query", q),
			logger.Int("hits", len(hits)),
			logger.ErrorField(err))
		metrics.SearchRequestsTotal.WithLabelValues("fallback").Inc()
		results := o.catalogue.SearchByText(ctx, q, FallbackLimit, true)
		if results == nil {
			results = []model.RankedSearchResult{}
		}
		return results
	}
	metrics.SearchRequestsTotal.WithLabelValues("popularity").Inc()

	logger.Info("[Search] ordering phase",
		logger.String("searchId", searchID),
		logger.String("query", q),
		logger.Int("hits", len(hits)),
		logger.String("top", hits[0].DisplayName+" / "+hits[0].DisplayArtist),
		logger.String("topMbid", hits[0].CandidateExternalID))

	// 逐条串行解析：两条路径都走同一个限速主机
	outcomes := make([]hitOutcome, len(hits))
	for i, hit := range hits {
		if ctx.Err() != nil {
			metrics.SearchHitsResolved.WithLabelValues("unresolved").Inc()
			outcomes[i] = hitOutcome{path: "unresolved"}
			continue
		}
		outcomes[i] = o.resolveHit(ctx, searchID, i, hit)
	}

	results := o.assemble(outcomes)

	logger.Info("[Search] assembly phase",
		logger.String("searchId", searchID),
		logger.Int("survived", len(results)),
		logger.Int("hits", len(hits)),
		logger.Duration("elapsed", time.Since(started)))
	return results
}

// resolveHit 先按候选 ID 查找，失败再按 艺人+标题 精确查询；单条失败或 panic 不影响其他命中
func (o *Orchestrator) resolveHit(ctx context.Context, searchID string, index int, hit model.PopularityHit) (out hitOutcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("[Search] hit resolution panicked",
				logger.String("searchId", searchID),
				logger.Int("index", index),
				logger.Any("panic", r))
			out = hitOutcome{path: "unresolved"}
		}
		metrics.SearchHitsResolved.WithLabelValues(out.path).Inc()
	}()

	if o.hitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.hitTimeout)
		defer cancel()
	}

	if id := strings.TrimSpace(hit.CandidateExternalID); id != "" {
		if rec := o.catalogue.LookupByID(ctx, id); rec != nil {
			return hitOutcome{record: rec, path: "lookup"}
		}
	}
	if rec := o.catalogue.TargetedLookup(ctx, hit.DisplayArtist, hit.DisplayName); rec != nil {
		return hitOutcome{record: rec, path: "targeted"}
	}

	logger.Debug("[Search] hit unresolved",
		logger.String("searchId", searchID),
		logger.Int("index", index),
		logger.String("name", hit.DisplayName),
		logger.String("artist", hit.DisplayArtist))
	return hitOutcome{path: "unresolved"}
}

// assemble 保持原始顺序，按目录 ID 去重（先到先得），rank = 100 - 原始下标
func (o *Orchestrator) assemble(outcomes []hitOutcome) []model.RankedSearchResult {
	seen := make(map[string]struct{}, len(outcomes))
	results := make([]model.RankedSearchResult, 0, len(outcomes))
	for i, out := range outcomes {
		if out.record == nil {
			continue
		}
		if _, dup := seen[out.record.ID]; dup {
			metrics.SearchHitsResolved.WithLabelValues("duplicate").Inc()
			continue
		}
		seen[out.record.ID] = struct{}{}

		rec := *out.record
		rec.RelevanceScore = 0
		results = append(results, model.RankedSearchResult{
			CatalogueRecord: rec,
			CoverURL:        o.catalogue.CoverArtURL(rec.ID),
			Rank:            TopRank - i,
		})
	}
	return results
}
