package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"VinylX/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	results []model.RankedSearchResult
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string) []model.RankedSearchResult {
	f.queries = append(f.queries, query)
	return f.results
}

type fakeBrowser struct {
	catalogue   []model.RankedSearchResult
	artist      *model.ArtistDetail
	discography []model.RankedSearchResult
}

func (f *fakeBrowser) SearchAlbums(context.Context, string) []model.RankedSearchResult {
	return f.catalogue
}

func (f *fakeBrowser) GetArtistDetail(context.Context, string) *model.ArtistDetail {
	return f.artist
}

func (f *fakeBrowser) GetArtistDiscography(context.Context, string, int) []model.RankedSearchResult {
	return f.discography
}

type fakeEnsurer struct {
	albums map[string]*model.AlbumWithTracks
}

func (f *fakeEnsurer) EnsureAlbumInDatabase(_ context.Context, mbid string) *model.AlbumWithTracks {
	return f.albums[mbid]
}

func newTestRouter(s *fakeSearcher, b *fakeBrowser, e *fakeEnsurer) http.Handler {
	return NewRouter(NewAlbumHandler(s, b, e), prometheus.NewRegistry())
}

func doGet(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestSearchHandler(t *testing.T) {
	searcher := &fakeSearcher{results: []model.RankedSearchResult{
		{CatalogueRecord: model.CatalogueRecord{ID: "mb-1", Title: "OK Computer", ArtistName: "Radiohead"}, Rank: 100},
	}}
	h := newTestRouter(searcher, &fakeBrowser{}, &fakeEnsurer{})

	rec, body := doGet(t, h, "/api/search?q=ok+computer")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "mb-1", first["mbid"])
	assert.Equal(t, float64(100), first["rank"])
	assert.Equal(t, []string{"ok computer"}, searcher.queries)
}

func TestSearchHandler_EmptyResultIsEmptyArray(t *testing.T) {
	h := newTestRouter(&fakeSearcher{results: []model.RankedSearchResult{}}, &fakeBrowser{}, &fakeEnsurer{})

	rec, _ := doGet(t, h, "/api/search?q=zz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true, "data": []}`, rec.Body.String())
}

func TestSearchHandler_MissingQuery(t *testing.T) {
	searcher := &fakeSearcher{}
	h := newTestRouter(searcher, &fakeBrowser{}, &fakeEnsurer{})

	rec, body := doGet(t, h, "/api/search")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Empty(t, searcher.queries)
}

func TestCatalogueSearchHandler(t *testing.T) {
	browser := &fakeBrowser{catalogue: []model.RankedSearchResult{
		{CatalogueRecord: model.CatalogueRecord{ID: "mb-9"}, Rank: 98},
	}}
	h := newTestRouter(&fakeSearcher{}, browser, &fakeEnsurer{})

	rec, body := doGet(t, h, "/api/search/catalogue?q=kid+a")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 1)
}

func TestGetAlbumHandler(t *testing.T) {
	artist := "ar-radiohead"
	ensurer := &fakeEnsurer{albums: map[string]*model.AlbumWithTracks{
		"mb-okc": {
			Album:            &model.Album{ID: "local-1", MusicBrainzID: "mb-okc", Title: "OK Computer"},
			Tracks:           []*model.Track{{ID: "t1", Title: "Airbag", TrackNumber: 1}},
			ArtistExternalID: &artist,
		},
	}}
	h := newTestRouter(&fakeSearcher{}, &fakeBrowser{}, ensurer)

	rec, body := doGet(t, h, "/api/albums/mb-okc")
	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "ar-radiohead", data["artistMbid"])
	assert.Equal(t, "OK Computer", data["album"].(map[string]interface{})["title"])
	assert.Len(t, data["tracks"], 1)
}

func TestGetAlbumHandler_UnresolvableIs404(t *testing.T) {
	h := newTestRouter(&fakeSearcher{}, &fakeBrowser{}, &fakeEnsurer{})

	rec, body := doGet(t, h, "/api/albums/mb-missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestGetArtistHandler(t *testing.T) {
	browser := &fakeBrowser{
		artist: &model.ArtistDetail{ID: "ar-1", Name: "Radiohead"},
		discography: []model.RankedSearchResult{
			{CatalogueRecord: model.CatalogueRecord{ID: "rg-3", Title: "In Rainbows"}},
		},
	}
	h := newTestRouter(&fakeSearcher{}, browser, &fakeEnsurer{})

	rec, body := doGet(t, h, "/api/artists/ar-1")
	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Radiohead", data["artist"].(map[string]interface{})["name"])
	assert.Len(t, data["discography"], 1)

	browser.artist = nil
	rec, _ = doGet(t, h, "/api/artists/ar-unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthzAndCORS(t *testing.T) {
	h := newTestRouter(&fakeSearcher{}, &fakeBrowser{}, &fakeEnsurer{})

	rec, body := doGet(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "ok", body["data"].(map[string]interface{})["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	reg := NewRegistry()
	h := NewRouter(NewAlbumHandler(&fakeSearcher{}, &fakeBrowser{}, &fakeEnsurer{}), reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	raw, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "go_goroutines")
}
