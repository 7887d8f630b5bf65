package musicbrainz

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 第二张碟的曲目编号有缺口和重复，位置字段也从 1 重新开始
const officialRelease = `{
  "id": "rel-official",
  "title": "OK Computer",
  "status": "Official",
  "media": [
    {"position": 1, "track-count": 2, "tracks": [
      {"id": "t1", "number": "1", "position": 1, "title": "Airbag", "length": 284000,
       "recording": {"id": "rec-1", "title": "Airbag", "length": 284400}},
      {"id": "t2", "number": "3", "position": 3, "title": "Paranoid Android", "length": 383000,
       "recording": {"id": "rec-2", "title": "Paranoid Android", "length": null}}
    ]},
    {"position": 2, "track-count": 2, "tracks": [
      {"id": "t3", "number": "3", "position": 1, "title": "Lull", "length": null,
       "recording": {"id": "rec-3", "title": "Lull", "length": null}},
      {"id": "t4", "number": "7", "position": 7, "title": "Meeting in the Aisle",
       "recording": {"id": "rec-4", "title": "Meeting in the Aisle", "length": 188000}}
    ]}
  ]
}`

func registerDetail(transport *httpmock.MockTransport) {
	transport.RegisterResponder(http.MethodGet, testBase+"/release-group/b1392450-e666-3926-a536-22c65f834433",
		httpmock.NewStringResponder(200, okComputerGroup))
	transport.RegisterResponder(http.MethodGet, testBase+"/release/rel-official",
		httpmock.NewStringResponder(200, officialRelease))
}

func TestFetchDetail_PicksOfficialReleaseAndNumbersTracks(t *testing.T) {
	c, transport := newTestClient(t, false)
	registerDetail(transport)

	detail := c.FetchDetail(context.Background(), "b1392450-e666-3926-a536-22c65f834433")
	require.NotNil(t, detail)

	assert.Equal(t, "b1392450-e666-3926-a536-22c65f834433", detail.Record.ID)
	assert.Equal(t, "Radiohead", detail.Record.ArtistName)
	assert.Equal(t, "rel-official", detail.Release.ID)
	assert.Equal(t, "Official", detail.Release.Status)
	assert.Equal(t, "https://coverart.test/release-group/b1392450-e666-3926-a536-22c65f834433/front-250", detail.CoverURL)

	tracks := detail.Tracks()
	require.Len(t, tracks, 4)
	for i, tr := range tracks {
		assert.Equal(t, i+1, tr.Position)
	}
	assert.Equal(t, []string{"rec-1", "rec-2", "rec-3", "rec-4"},
		[]string{tracks[0].ID, tracks[1].ID, tracks[2].ID, tracks[3].ID})

	// 优先取 recording 时长，缺失时用 track 时长，都缺失则为 nil
	require.NotNil(t, tracks[0].DurationMs)
	assert.Equal(t, 284400, *tracks[0].DurationMs)
	require.NotNil(t, tracks[1].DurationMs)
	assert.Equal(t, 383000, *tracks[1].DurationMs)
	assert.Nil(t, tracks[2].DurationMs)
	require.NotNil(t, tracks[3].DurationMs)
	assert.Equal(t, 188000, *tracks[3].DurationMs)
}

func TestFetchDetail_FallsBackToFirstRelease(t *testing.T) {
	c, transport := newTestClient(t, false)
	transport.RegisterResponder(http.MethodGet, testBase+"/release-group/rg-bootleg",
		httpmock.NewStringResponder(200, `{
		  "id": "rg-bootleg", "title": "Live", "artist-credit": [],
		  "releases": [{"id": "rel-a", "status": "Bootleg"}, {"id": "rel-b", "status": "Bootleg"}]
		}`))
	transport.RegisterResponder(http.MethodGet, testBase+"/release/rel-a",
		httpmock.NewStringResponder(200, `{"id": "rel-a", "status": "Bootleg", "media": []}`))

	detail := c.FetchDetail(context.Background(), "rg-bootleg")
	require.NotNil(t, detail)
	assert.Equal(t, "rel-a", detail.Release.ID)
	assert.Empty(t, detail.Tracks())
	assert.Nil(t, detail.Record.ArtistID)
}

func TestFetchDetail_NoReleasesReturnsNil(t *testing.T) {
	c, transport := newTestClient(t, false)
	transport.RegisterResponder(http.MethodGet, testBase+"/release-group/rg-empty",
		httpmock.NewStringResponder(200, `{"id": "rg-empty", "title": "Ghost", "artist-credit": [], "releases": []}`))

	assert.Nil(t, c.FetchDetail(context.Background(), "rg-empty"))
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestFetchDetail_ReleaseFetchFailureReturnsNil(t *testing.T) {
	c, transport := newTestClient(t, false)
	transport.RegisterResponder(http.MethodGet, testBase+"/release-group/b1392450-e666-3926-a536-22c65f834433",
		httpmock.NewStringResponder(200, okComputerGroup))
	transport.RegisterResponder(http.MethodGet, testBase+"/release/rel-official",
		httpmock.NewStringResponder(500, ``))

	assert.Nil(t, c.FetchDetail(context.Background(), "b1392450-e666-3926-a536-22c65f834433"))
}

func TestFlattenTracks_IgnoresProviderNumbering(t *testing.T) {
	media := []medium{
		{Tracks: []mediumTrack{{Number: "5", Position: 5, Recording: recording{ID: "a"}}}},
		{Tracks: nil},
		{Tracks: []mediumTrack{
			{Number: "5", Position: 5, Recording: recording{ID: "b"}},
			{Number: "", Position: 0, Recording: recording{ID: "c"}},
		}},
	}
	tracks := flattenTracks(media)
	require.Len(t, tracks, 3)
	assert.Equal(t, 1, tracks[0].Position)
	assert.Equal(t, 2, tracks[1].Position)
	assert.Equal(t, 3, tracks[2].Position)
}
