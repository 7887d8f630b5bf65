package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StreamingLinks 平台名 -> 播放地址，例如 "spotify" -> "https://open.spotify.com/album/..."
type StreamingLinks map[string]string

// Value 以 JSON 文本写入数据库，空值写为 "{}"
func (l StreamingLinks) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 从 JSON 文本读取
func (l *StreamingLinks) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported streaming_links type %T", src)
	}
	if len(raw) == 0 || string(raw) == "null" {
		*l = nil
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("decode streaming_links: %w", err)
	}
	*l = m
	return nil
}

// Album 本地持久化的专辑记录，musicbrainz_id 唯一
type Album struct {
	ID             string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	MusicBrainzID  string         `gorm:"column:musicbrainz_id;type:varchar(36);uniqueIndex;not null" json:"musicbrainzId"`
	Title          string         `gorm:"type:varchar(512);not null" json:"title"`
	ArtistName     string         `gorm:"type:varchar(512)" json:"artistName"`
	ReleaseDate    *string        `gorm:"type:varchar(10)" json:"releaseDate"`
	CoverURL       string         `gorm:"type:varchar(512)" json:"coverUrl"`
	LogCount       int            `gorm:"not null;default:0" json:"logCount"` // 由日志聚合逻辑维护
	AvgRating      *float64       `json:"avgRating"`                          // 由日志聚合逻辑维护
	StreamingLinks StreamingLinks `gorm:"type:text" json:"streamingLinks"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// TableName 对应 albums 表
func (Album) TableName() string {
	return "albums"
}

// HasStreamingLinks reports whether hydration has stored at least one link.
func (a *Album) HasStreamingLinks() bool {
	return a != nil && len(a.StreamingLinks) > 0
}

// NewAlbumFromDetail 根据目录详情构造一条待 upsert 的专辑记录
func NewAlbumFromDetail(detail *AlbumDetail) *Album {
	return &Album{
		ID:            uuid.NewString(),
		MusicBrainzID: detail.Record.ID,
		Title:         detail.Record.Title,
		ArtistName:    detail.Record.ArtistName,
		ReleaseDate:   detail.Record.FirstReleaseDate,
		CoverURL:      detail.CoverURL,
	}
}

// AlbumWithTracks 专辑解析结果：专辑、按序号排列的曲目以及主艺人的外部 ID
type AlbumWithTracks struct {
	Album            *Album   `json:"album"`
	Tracks           []*Track `json:"tracks"`
	ArtistExternalID *string  `json:"artistMbid"`
}
