package album

import (
	"context"
	"strings"

	"VinylX/logger"
	"VinylX/metrics"
	"VinylX/model"
	"VinylX/repository"

	"golang.org/x/sync/errgroup"
)

// Catalogue 专辑解析用到的目录操作
type Catalogue interface {
	FetchDetail(ctx context.Context, id string) *model.AlbumDetail
	ResolveArtistForRecord(ctx context.Context, id string) *string
}

// Enqueuer 提交后台补全任务，调用方不等待结果
type Enqueuer interface {
	Enqueue(job HydrationJob) bool
}

// Resolver 按外部目录 ID 获取或创建本地专辑和曲目
type Resolver struct {
	albums     repository.AlbumRepository
	tracks     repository.TrackRepository
	catalogue  Catalogue
	hydrations Enqueuer
}

// NewResolver 创建专辑解析器
func NewResolver(albums repository.AlbumRepository, tracks repository.TrackRepository, catalogue Catalogue, hydrations Enqueuer) *Resolver {
	return &Resolver{
		albums:     albums,
		tracks:     tracks,
		catalogue:  catalogue,
		hydrations: hydrations,
	}
}

// EnsureAlbumInDatabase 本地已有则直接返回（链接为空时后台补全），否则从目录拉取详情入库。
// 返回 nil 表示无法解析，调用方按未找到处理。
func (r *Resolver) EnsureAlbumInDatabase(ctx context.Context, mbid string) *model.AlbumWithTracks {
	mbid = strings.TrimSpace(mbid)
	if mbid == "" {
		return nil
	}

	existing, err := r.albums.GetByMusicBrainzID(ctx, mbid)
	if err != nil {
		metrics.AlbumResolutionsTotal.WithLabelValues("error").Inc()
		logger.Error("[EnsureAlbum] lookup failed",
			logger.String("mbid", mbid),
			logger.ErrorField(err))
		return nil
	}
	if existing != nil {
		return r.fromLocal(ctx, existing)
	}
	return r.create(ctx, mbid)
}

func (r *Resolver) fromLocal(ctx context.Context, existing *model.Album) *model.AlbumWithTracks {
	var (
		g        errgroup.Group
		tracks   []*model.Track
		artistID *string
	)
	g.Go(func() error {
		tracks = r.listTracks(ctx, existing.ID)
		return nil
	})
	g.Go(func() error {
		artistID = r.catalogue.ResolveArtistForRecord(ctx, existing.MusicBrainzID)
		return nil
	})
	_ = g.Wait()

	if !existing.HasStreamingLinks() {
		r.hydrations.Enqueue(HydrationJob{
			AlbumID:       existing.ID,
			MusicBrainzID: existing.MusicBrainzID,
		})
	}

	metrics.AlbumResolutionsTotal.WithLabelValues("hit").Inc()
	return &model.AlbumWithTracks{Album: existing, Tracks: tracks, ArtistExternalID: artistID}
}

func (r *Resolver) create(ctx context.Context, mbid string) *model.AlbumWithTracks {
	detail := r.catalogue.FetchDetail(ctx, mbid)
	if detail == nil {
		metrics.AlbumResolutionsTotal.WithLabelValues("not_found").Inc()
		logger.Warn("[EnsureAlbum] catalogue returned nothing", logger.String("mbid", mbid))
		return nil
	}

	album, err := r.albums.Upsert(ctx, model.NewAlbumFromDetail(detail))
	if err != nil {
		metrics.AlbumResolutionsTotal.WithLabelValues("error").Inc()
		logger.Error("[EnsureAlbum] album upsert failed",
			logger.String("mbid", mbid),
			logger.ErrorField(err))
		return nil
	}

	if rows := model.NewTracksFromDetail(album.ID, detail.Tracks()); len(rows) > 0 {
		if err := r.tracks.UpsertTracks(ctx, rows); err != nil {
			logger.Error("[EnsureAlbum] track upsert failed",
				logger.String("mbid", mbid),
				logger.String("albumId", album.ID),
				logger.ErrorField(err))
		}
	}

	tracks := r.listTracks(ctx, album.ID)

	r.hydrations.Enqueue(HydrationJob{
		AlbumID:       album.ID,
		MusicBrainzID: mbid,
		ReleaseID:     detail.Release.ID,
	})

	metrics.AlbumResolutionsTotal.WithLabelValues("created").Inc()
	logger.Info("[EnsureAlbum] album stored",
		logger.String("mbid", mbid),
		logger.String("albumId", album.ID),
		logger.Int("tracks", len(tracks)))
	return &model.AlbumWithTracks{Album: album, Tracks: tracks, ArtistExternalID: detail.Record.ArtistID}
}

func (r *Resolver) listTracks(ctx context.Context, albumID string) []*model.Track {
	tracks, err := r.tracks.ListByAlbumID(ctx, albumID)
	if err != nil {
		logger.Error("[EnsureAlbum] failed to list tracks",
			logger.String("albumId", albumID),
			logger.ErrorField(err))
		return []*model.Track{}
	}
	if tracks == nil {
		return []*model.Track{}
	}
	return tracks
}
