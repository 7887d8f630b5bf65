package model

// PopularityHit 热度服务返回的松散匹配项，只在一次搜索请求内存在
type PopularityHit struct {
	DisplayName         string `json:"name"`
	DisplayArtist       string `json:"artist"`
	CandidateExternalID string `json:"mbid,omitempty"` // 可能为空或错误
	ImageURL            string `json:"image,omitempty"`
}
