package model

// CatalogueRecord 目录服务中的规范专辑身份（MusicBrainz release-group）
type CatalogueRecord struct {
	ID               string  `json:"mbid"`
	Title            string  `json:"title"`
	ArtistName       string  `json:"artistName"`
	ArtistID         *string `json:"artistMbid"`
	FirstReleaseDate *string `json:"releaseDate"`
	PrimaryType      *string `json:"type"`
	RelevanceScore   float64 `json:"-"` // 只在同一次查询结果内有意义
}

// CatalogueTrack 发行版中的一首曲目
type CatalogueTrack struct {
	ID         string `json:"mbTrackId"`
	Title      string `json:"title"`
	Position   int    `json:"trackNumber"` // 1-based，跨所有介质连续编号
	DurationMs *int   `json:"durationMs"`
}

// CatalogueRelease 规范专辑的一个具体发行版
type CatalogueRelease struct {
	ID     string           `json:"releaseId"`
	Title  string           `json:"title"`
	Status string           `json:"status"`
	Tracks []CatalogueTrack `json:"tracks"`
}

// AlbumDetail fetchDetail 的结果：规范记录 + 选中的发行版及其曲目
type AlbumDetail struct {
	Record   CatalogueRecord  `json:"record"`
	Release  CatalogueRelease `json:"release"`
	CoverURL string           `json:"coverUrl"`
}

// Tracks 返回选中发行版的曲目
func (d *AlbumDetail) Tracks() []CatalogueTrack {
	return d.Release.Tracks
}

// RankedSearchResult 搜索流水线的输出单元，数组顺序即排名
type RankedSearchResult struct {
	CatalogueRecord
	CoverURL string `json:"coverUrl"`
	Rank     int    `json:"rank"`
}

// ArtistAlias 艺人别名
type ArtistAlias struct {
	Name     string `json:"name"`
	SortName string `json:"sort-name"`
	Locale   string `json:"locale,omitempty"`
	Primary  bool   `json:"primary"`
}

// ArtistTag 艺人标签
type ArtistTag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ArtistLifeSpan 艺人活跃时间
type ArtistLifeSpan struct {
	Begin string `json:"begin,omitempty"`
	End   string `json:"end,omitempty"`
	Ended bool   `json:"ended"`
}

// ArtistDetail 艺人详情（MusicBrainz artist，含别名和标签）
type ArtistDetail struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	SortName       string         `json:"sort-name"`
	Type           string         `json:"type,omitempty"`
	Country        string         `json:"country,omitempty"`
	Disambiguation string         `json:"disambiguation,omitempty"`
	LifeSpan       ArtistLifeSpan `json:"life-span"`
	Aliases        []ArtistAlias  `json:"aliases"`
	Tags           []ArtistTag    `json:"tags"`
}
