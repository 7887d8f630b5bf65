package model

import (
	"time"

	"github.com/google/uuid"
)

// Track 专辑下的一首曲目，musicbrainz_track_id 唯一
type Track struct {
	ID                 string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AlbumID            string    `gorm:"type:varchar(36);index;not null" json:"albumId"`
	MusicBrainzTrackID string    `gorm:"column:musicbrainz_track_id;type:varchar(36);uniqueIndex;not null" json:"musicbrainzTrackId"`
	Title              string    `gorm:"type:varchar(512);not null" json:"title"`
	TrackNumber        int       `gorm:"not null" json:"trackNumber"`
	DurationMs         *int      `json:"durationMs"` // nil 表示未知
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// TableName 对应 tracks 表
func (Track) TableName() string {
	return "tracks"
}

// NewTracksFromDetail 把目录曲目转换为本地记录，同一外部曲目 ID 只保留第一次出现
func NewTracksFromDetail(albumID string, tracks []CatalogueTrack) []*Track {
	seen := make(map[string]struct{}, len(tracks))
	rows := make([]*Track, 0, len(tracks))
	for _, t := range tracks {
		if t.ID == "" {
			continue
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		rows = append(rows, &Track{
			ID:                 uuid.NewString(),
			AlbumID:            albumID,
			MusicBrainzTrackID: t.ID,
			Title:              t.Title,
			TrackNumber:        t.Position,
			DurationMs:         t.DurationMs,
		})
	}
	return rows
}
