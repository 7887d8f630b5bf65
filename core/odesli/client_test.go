package odesli

import (
	"context"
	"net/http"
	"testing"
	"time"

	"VinylX/cache"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "https://odesli.test/v1-alpha.1/links"

const linksBody = `{
  "entityUniqueId": "SPOTIFY_ALBUM::6dVIqQ8qmQ5GBnJ9shOYGE",
  "userCountry": "US",
  "pageUrl": "https://album.link/s/6dVIqQ8qmQ5GBnJ9shOYGE",
  "linksByPlatform": {
    "spotify": {"url": "https://open.spotify.com/album/6dVIqQ8qmQ5GBnJ9shOYGE", "entityUniqueId": "SPOTIFY_ALBUM::6dVIqQ8qmQ5GBnJ9shOYGE"},
    "appleMusic": {"url": "https://music.apple.com/us/album/1097861387", "entityUniqueId": "ITUNES_ALBUM::1097861387"},
    "tidal": {"url": "", "entityUniqueId": "TIDAL_ALBUM::1"}
  },
  "entitiesByUniqueId": {}
}`

func newTestClient(t *testing.T, withCache bool) (*Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	cfg := Config{
		BaseURL:           testBase,
		UserCountry:       "GB",
		RequestsPerMinute: 600,
		Client:            &http.Client{Transport: transport},
	}
	if withCache {
		cfg.Cache = cache.NewMemoryResponseCache(time.Minute)
	}
	return NewClient(cfg), transport
}

func TestGetLinks(t *testing.T) {
	c, transport := newTestClient(t, false)
	transport.RegisterResponder(http.MethodGet, testBase,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "https://open.spotify.com/album/6dVIqQ8qmQ5GBnJ9shOYGE", req.URL.Query().Get("url"))
			assert.Equal(t, "GB", req.URL.Query().Get("userCountry"))
			return httpmock.NewStringResponse(200, linksBody), nil
		})

	resp, err := c.GetLinks(context.Background(), "https://open.spotify.com/album/6dVIqQ8qmQ5GBnJ9shOYGE")
	require.NoError(t, err)
	assert.Equal(t, "https://album.link/s/6dVIqQ8qmQ5GBnJ9shOYGE", resp.PageURL)
	assert.Len(t, resp.LinksByPlatform, 3)
}

func TestGetLinks_CachesResponses(t *testing.T) {
	c, transport := newTestClient(t, true)
	transport.RegisterResponder(http.MethodGet, testBase, httpmock.NewStringResponder(200, linksBody))

	ctx := context.Background()
	_, err := c.GetLinks(ctx, "https://open.spotify.com/album/x")
	require.NoError(t, err)
	_, err = c.GetLinks(ctx, "https://open.spotify.com/album/x")
	require.NoError(t, err)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestGetLinks_Errors(t *testing.T) {
	c, transport := newTestClient(t, true)
	transport.RegisterResponder(http.MethodGet, testBase, httpmock.NewStringResponder(429, `slow down`))

	_, err := c.GetLinks(context.Background(), "https://open.spotify.com/album/x")
	assert.Error(t, err)

	_, err = c.GetLinks(context.Background(), "")
	assert.Error(t, err)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestGetLinks_MalformedBodyNotCached(t *testing.T) {
	c, transport := newTestClient(t, true)
	transport.RegisterResponder(http.MethodGet, testBase, httpmock.NewStringResponder(200, `<html>`))

	_, err := c.GetLinks(context.Background(), "https://open.spotify.com/album/x")
	assert.Error(t, err)
	_, err = c.GetLinks(context.Background(), "https://open.spotify.com/album/x")
	assert.Error(t, err)
	assert.Equal(t, 2, transport.GetTotalCallCount())
}

func TestExtractPlatformLinks(t *testing.T) {
	resp := &Response{
		PageURL: "https://album.link/s/1",
		LinksByPlatform: map[string]*PlatformLink{
			"spotify": {URL: "https://open.spotify.com/album/1"},
			"deezer":  {URL: ""},
			"youtube": nil,
		},
	}
	links := ExtractPlatformLinks(resp)
	assert.Equal(t, map[string]string{
		PageLinkKey: "https://album.link/s/1",
		"spotify":   "https://open.spotify.com/album/1",
	}, links)

	assert.Empty(t, ExtractPlatformLinks(&Response{}))
	assert.Empty(t, ExtractPlatformLinks(nil))
}
