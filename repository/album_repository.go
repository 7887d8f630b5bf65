package repository

import (
	"context"
	"errors"
	"time"

	"VinylX/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AlbumRepository 专辑数据访问接口
type AlbumRepository interface {
	GetByMusicBrainzID(ctx context.Context, mbid string) (*model.Album, error)
	GetByID(ctx context.Context, id string) (*model.Album, error)
	// Upsert 以 musicbrainz_id 为冲突键插入或更新，返回持久化后的记录
	Upsert(ctx context.Context, album *model.Album) (*model.Album, error)
	// UpdateStreamingLinks 只增不删：空映射不写库
	UpdateStreamingLinks(ctx context.Context, albumID string, links map[string]string) error
}

// gormAlbumRepository GORM 实现
type gormAlbumRepository struct {
	db *gorm.DB
}

// NewGormAlbumRepository 创建 GORM 专辑仓库
func NewGormAlbumRepository(db *gorm.DB) AlbumRepository {
	return &gormAlbumRepository{db: db}
}

// GetByMusicBrainzID 按外部目录 ID 查询，不存在返回 nil, nil
func (r *gormAlbumRepository) GetByMusicBrainzID(ctx context.Context, mbid string) (*model.Album, error) {
	var album model.Album
	err := r.db.WithContext(ctx).Where("musicbrainz_id = ?", mbid).First(&album).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &album, nil
}

// GetByID 按本地 ID 查询，不存在返回 nil, nil
func (r *gormAlbumRepository) GetByID(ctx context.Context, id string) (*model.Album, error) {
	var album model.Album
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&album).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &album, nil
}

// Upsert 并发插入同一 musicbrainz_id 时由数据库唯一索引兜底，不做应用层加锁。
// 冲突时只刷新目录字段，streaming_links、log_count、avg_rating 保持不变。
func (r *gormAlbumRepository) Upsert(ctx context.Context, album *model.Album) (*model.Album, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "musicbrainz_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "artist_name", "release_date", "cover_url", "updated_at",
		}),
	}).Create(album).Error
	if err != nil {
		return nil, err
	}

	// 冲突时主键是对方写入的那一条，重新读取
	persisted, err := r.GetByMusicBrainzID(ctx, album.MusicBrainzID)
	if err != nil {
		return nil, err
	}
	if persisted == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return persisted, nil
}

// UpdateStreamingLinks 更新流媒体链接
func (r *gormAlbumRepository) UpdateStreamingLinks(ctx context.Context, albumID string, links map[string]string) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Album{}).
		Where("id = ?", albumID).
		Updates(map[string]interface{}{
			"streaming_links": model.StreamingLinks(links),
			"updated_at":      time.Now(),
		}).Error
}
