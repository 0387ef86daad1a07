package spotify

import (
	"github.com/imccausl/music-sharing-slackbot/internal/catalog"
)

// Raw Spotify API response shapes. Normalization into catalog types happens
// here at the boundary so the rest of the pipeline never does ad hoc field
// access on loosely-shaped responses.

type searchResponse struct {
	Tracks *trackPaging `json:"tracks"`
}

type trackPaging struct {
	Total    int        `json:"total"`
	Items    []rawTrack `json:"items"`
	Next     string     `json:"next"`
	Previous string     `json:"previous"`
}

type rawTrack struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Artists      []rawArtist  `json:"artists"`
	Album        rawAlbum     `json:"album"`
	DurationMs   int          `json:"duration_ms"`
	Explicit     bool         `json:"explicit"`
	Popularity   int          `json:"popularity"`
	ExternalURLs externalURLs `json:"external_urls"`
}

type rawArtist struct {
	Name         string       `json:"name"`
	ExternalURLs externalURLs `json:"external_urls"`
}

type rawAlbum struct {
	Name         string       `json:"name"`
	Images       []rawImage   `json:"images"`
	ExternalURLs externalURLs `json:"external_urls"`
}

type rawImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// normalizeSearchResponse validates the paging shape and converts it to a
// catalog.SearchPage. A response without the tracks envelope is malformed.
func normalizeSearchResponse(raw searchResponse) (catalog.SearchPage, error) {
	if raw.Tracks == nil {
		return catalog.SearchPage{}, &catalog.MalformedResponseError{
			Platform: "spotify",
			Reason:   "missing tracks paging object",
		}
	}

	items := make([]catalog.Track, 0, len(raw.Tracks.Items))
	for _, rt := range raw.Tracks.Items {
		track, err := normalizeTrack(rt)
		if err != nil {
			return catalog.SearchPage{}, err
		}
		items = append(items, track)
	}

	return catalog.SearchPage{
		Total:          raw.Tracks.Total,
		Items:          items,
		NextCursor:     raw.Tracks.Next,
		PreviousCursor: raw.Tracks.Previous,
	}, nil
}

// normalizeTrack converts one raw track record into the strict catalog shape.
func normalizeTrack(rt rawTrack) (catalog.Track, error) {
	if rt.ID == "" || rt.Name == "" {
		return catalog.Track{}, &catalog.MalformedResponseError{
			Platform: "spotify",
			Reason:   "track record missing id or name",
		}
	}

	artists := make([]catalog.Artist, 0, len(rt.Artists))
	for _, ra := range rt.Artists {
		artists = append(artists, catalog.Artist{
			Name:        ra.Name,
			ExternalURL: ra.ExternalURLs.Spotify,
		})
	}

	images := make([]catalog.Image, 0, len(rt.Album.Images))
	for _, ri := range rt.Album.Images {
		images = append(images, catalog.Image{
			URL:    ri.URL,
			Width:  ri.Width,
			Height: ri.Height,
		})
	}

	return catalog.Track{
		ID:      rt.ID,
		Name:    rt.Name,
		Artists: artists,
		Album: catalog.Album{
			Name:        rt.Album.Name,
			ExternalURL: rt.Album.ExternalURLs.Spotify,
			Images:      images,
		},
		DurationMs:  rt.DurationMs,
		ExternalURL: rt.ExternalURLs.Spotify,
		Popularity:  rt.Popularity,
		Explicit:    rt.Explicit,
	}, nil
}
