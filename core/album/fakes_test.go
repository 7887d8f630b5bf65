package album

import (
	"context"
	"errors"
	"sync"
	"testing"

	"VinylX/core/odesli"
	"VinylX/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.Album{}, &model.Track{}))
	return db
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func okComputerDetail() *model.AlbumDetail {
	return &model.AlbumDetail{
		Record: model.CatalogueRecord{
			ID:               "mb-okc",
			Title:            "OK Computer",
			ArtistName:       "Radiohead",
			ArtistID:         strPtr("ar-radiohead"),
			FirstReleaseDate: strPtr("1997-05-21"),
		},
		Release: model.CatalogueRelease{
			ID:     "rel-okc",
			Status: "Official",
			Tracks: []model.CatalogueTrack{
				{ID: "rec-1", Title: "Airbag", Position: 1, DurationMs: intPtr(284000)},
				{ID: "rec-2", Title: "Paranoid Android", Position: 2},
				{ID: "rec-1", Title: "Airbag (reprise)", Position: 3},
			},
		},
		CoverURL: "https://coverart.test/release-group/mb-okc/front-250",
	}
}

type fakeCatalogue struct {
	mu           sync.Mutex
	details      map[string]*model.AlbumDetail
	artist       *string
	detailCalls  int
	artistCalls  int
	beforeDetail func()
}

func (f *fakeCatalogue) FetchDetail(_ context.Context, id string) *model.AlbumDetail {
	if f.beforeDetail != nil {
		f.beforeDetail()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls++
	return f.details[id]
}

func (f *fakeCatalogue) ResolveArtistForRecord(_ context.Context, _ string) *string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.artistCalls++
	return f.artist
}

type recordingEnqueuer struct {
	mu   sync.Mutex
	jobs []HydrationJob
}

func (e *recordingEnqueuer) Enqueue(job HydrationJob) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = append(e.jobs, job)
	return true
}

func (e *recordingEnqueuer) Jobs() []HydrationJob {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]HydrationJob(nil), e.jobs...)
}

type fakeSource struct {
	mu    sync.Mutex
	urls  map[string]string
	calls []string
	hook  func(releaseID string)
}

func (f *fakeSource) ResolveStreamingSourceURL(_ context.Context, releaseID string) string {
	if f.hook != nil {
		f.hook(releaseID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, releaseID)
	return f.urls[releaseID]
}

func (f *fakeSource) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeAggregator struct {
	resp  *odesli.Response
	err   error
	calls int
}

func (f *fakeAggregator) GetLinks(_ context.Context, _ string) (*odesli.Response, error) {
	f.calls++
	return f.resp, f.err
}

type memoryLinkStore struct {
	mu    sync.Mutex
	links map[string]map[string]string
	err   error
	calls int
}

func (s *memoryLinkStore) UpdateStreamingLinks(_ context.Context, albumID string, links map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	if s.links == nil {
		s.links = map[string]map[string]string{}
	}
	s.links[albumID] = links
	return nil
}

var errUpstream = errors.New("upstream unavailable")
