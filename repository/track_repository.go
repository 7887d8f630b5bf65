package repository

import (
	"context"

	"VinylX/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrackRepository 曲目数据访问接口
type TrackRepository interface {
	// UpsertTracks 以 musicbrainz_track_id 为冲突键批量插入或更新
	UpsertTracks(ctx context.Context, tracks []*model.Track) error
	// ListByAlbumID 按序号升序返回专辑的全部曲目
	ListByAlbumID(ctx context.Context, albumID string) ([]*model.Track, error)
}

type gormTrackRepository struct {
	db *gorm.DB
}

// NewGormTrackRepository 创建 GORM 曲目仓库
func NewGormTrackRepository(db *gorm.DB) TrackRepository {
	return &gormTrackRepository{db: db}
}

func (r *gormTrackRepository) UpsertTracks(ctx context.Context, tracks []*model.Track) error {
	if len(tracks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "musicbrainz_track_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"album_id", "title", "track_number", "duration_ms", "updated_at",
		}),
	}).CreateInBatches(tracks, 100).Error
}

func (r *gormTrackRepository) ListByAlbumID(ctx context.Context, albumID string) ([]*model.Track, error) {
	var tracks []*model.Track
	err := r.db.WithContext(ctx).
		Where("album_id = ?", albumID).
		Order("track_number ASC").
		Find(&tracks).Error
	if err != nil {
		return nil, err
	}
	return tracks, nil
}
