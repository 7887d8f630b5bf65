package musicbrainz

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"VinylX/model"
)

// LookupByID 按 release-group ID 读取规范记录（含艺人署名），找不到或失败返回 nil
func (c *Client) LookupByID(ctx context.Context, id string) *model.CatalogueRecord {
	rg, err := c.fetchReleaseGroup(ctx, id, "artist-credits")
	if err != nil {
		logFailure("lookupById", id, err)
		return nil
	}
	rec := rg.toRecord()
	return &rec
}

// ResolveArtistForRecord 只取主艺人 ID，用于回填艺人链接
func (c *Client) ResolveArtistForRecord(ctx context.Context, id string) *string {
	rg, err := c.fetchReleaseGroup(ctx, id, "artist-credits")
	if err != nil {
		logFailure("resolveArtistForRecord", id, err)
		return nil
	}
	return primaryArtistID(rg.ArtistCredit)
}

// FetchDetail 读取规范记录和它的发行版，选出正式发行版（没有则取第一个），再读取曲目。
// 任一步失败或没有发行版时返回 nil。
func (c *Client) FetchDetail(ctx context.Context, id string) *model.AlbumDetail {
	rg, err := c.fetchReleaseGroup(ctx, id, "artist-credits releases")
	if err != nil {
		logFailure("fetchDetail", id, err)
		return nil
	}

	chosen := selectOfficialRelease(rg.Releases)
	if chosen == nil {
		logFailure("fetchDetail", id, fmt.Errorf("release-group has no releases"))
		return nil
	}

	var rel release
	params := url.Values{}
	params.Set("inc", "recordings")
	if err := c.getJSON(ctx, c.buildURL("/release/"+url.PathEscape(chosen.ID), params), false, &rel); err != nil {
		logFailure("fetchDetail release "+chosen.ID, id, err)
		return nil
	}

	status := rel.Status
	if status == "" {
		status = chosen.Status
	}
	title := rel.Title
	if title == "" {
		title = chosen.Title
	}

	return &model.AlbumDetail{
		Record: rg.toRecord(),
		Release: model.CatalogueRelease{
			ID:     chosen.ID,
			Title:  title,
			Status: status,
			Tracks: flattenTracks(rel.Media),
		},
		CoverURL: c.CoverArtURL(rg.ID),
	}
}

func (c *Client) fetchReleaseGroup(ctx context.Context, id, inc string) (*releaseGroup, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("empty release-group id")
	}
	params := url.Values{}
	params.Set("inc", inc)

	var rg releaseGroup
	if err := c.getJSON(ctx, c.buildURL("/release-group/"+url.PathEscape(id), params), false, &rg); err != nil {
		return nil, err
	}
	if rg.ID == "" {
		return nil, fmt.Errorf("release-group %s: empty response", id)
	}
	return &rg, nil
}

func selectOfficialRelease(releases []releaseStub) *releaseStub {
	for i := range releases {
		if strings.EqualFold(releases[i].Status, "Official") {
			return &releases[i]
		}
	}
	if len(releases) > 0 {
		return &releases[0]
	}
	return nil
}

// flattenTracks 按介质顺序展开曲目，序号从 1 连续递增，不使用 MusicBrainz 的 number/position 字段
func flattenTracks(media []medium) []model.CatalogueTrack {
	tracks := make([]model.CatalogueTrack, 0)
	ordinal := 0
	for _, m := range media {
		for _, t := range m.Tracks {
			ordinal++
			id := t.Recording.ID
			if id == "" {
				id = t.ID
			}
			title := t.Recording.Title
			if title == "" {
				title = t.Title
			}
			duration := t.Recording.Length
			if duration == nil {
				duration = t.Length
			}
			tracks = append(tracks, model.CatalogueTrack{
				ID:         id,
				Title:      title,
				Position:   ordinal,
				DurationMs: duration,
			})
		}
	}
	return tracks
}
