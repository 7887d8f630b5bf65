package server

import (
	"context"
	"net/http"
	"strings"

	"VinylX/logger"
	"VinylX/model"

	"github.com/gorilla/mux"
)

// AlbumSearcher 热度排序的专辑搜索
type AlbumSearcher interface {
	Search(ctx context.Context, query string) []model.RankedSearchResult
}

// CatalogueBrowser 直接访问目录的只读操作
type CatalogueBrowser interface {
	SearchAlbums(ctx context.Context, query string) []model.RankedSearchResult
	GetArtistDetail(ctx context.Context, artistID string) *model.ArtistDetail
	GetArtistDiscography(ctx context.Context, artistID string, limit int) []model.RankedSearchResult
}

// AlbumEnsurer 按外部 ID 获取或创建本地专辑
type AlbumEnsurer interface {
	EnsureAlbumInDatabase(ctx context.Context, mbid string) *model.AlbumWithTracks
}

// AlbumHandler 专辑相关 HTTP 处理器
type AlbumHandler struct {
	searcher  AlbumSearcher
	catalogue CatalogueBrowser
	resolver  AlbumEnsurer
}

// NewAlbumHandler 创建专辑处理器
func NewAlbumHandler(searcher AlbumSearcher, catalogue CatalogueBrowser, resolver AlbumEnsurer) *AlbumHandler {
	return &AlbumHandler{searcher: searcher, catalogue: catalogue, resolver: resolver}
}

// SearchHandler GET /api/search?q=
func (h *AlbumHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "请提供搜索关键词")
		return
	}
	writeData(w, h.searcher.Search(r.Context(), query))
}

// CatalogueSearchHandler GET /api/search/catalogue?q=
func (h *AlbumHandler) CatalogueSearchHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "请提供搜索关键词")
		return
	}
	writeData(w, h.catalogue.SearchAlbums(r.Context(), query))
}

// GetAlbumHandler GET /api/albums/{mbid}
func (h *AlbumHandler) GetAlbumHandler(w http.ResponseWriter, r *http.Request) {
	mbid := mux.Vars(r)["mbid"]
	result := h.resolver.EnsureAlbumInDatabase(r.Context(), mbid)
	if result == nil {
		logger.Info("album not resolvable", logger.String("mbid", mbid))
		writeError(w, http.StatusNotFound, "专辑不存在")
		return
	}
	writeData(w, result)
}

// ArtistResponse 艺人详情和作品列表
type ArtistResponse struct {
	Artist      *model.ArtistDetail        `json:"artist"`
	Discography []model.RankedSearchResult `json:"discography"`
}

// GetArtistHandler GET /api/artists/{id}
func (h *AlbumHandler) GetArtistHandler(w http.ResponseWriter, r *http.Request) {
	artistID := mux.Vars(r)["id"]
	artist := h.catalogue.GetArtistDetail(r.Context(), artistID)
	if artist == nil {
		writeError(w, http.StatusNotFound, "艺人不存在")
		return
	}
	writeData(w, ArtistResponse{
		Artist:      artist,
		Discography: h.catalogue.GetArtistDiscography(r.Context(), artistID, 0),
	})
}
