package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imccausl/music-sharing-slackbot/internal/cache"
	"github.com/imccausl/music-sharing-slackbot/internal/catalog"
)

const searchBody = `{
	"tracks": {
		"total": 42,
		"items": [{
			"id": "abc123",
			"name": "One More Time",
			"duration_ms": 320357,
			"explicit": false,
			"popularity": 81,
			"external_urls": {"spotify": "https://open.spotify.com/track/abc123"},
			"artists": [{
				"name": "Daft Punk",
				"external_urls": {"spotify": "https://open.spotify.com/artist/daftpunk"}
			}],
			"album": {
				"name": "Discovery",
				"external_urls": {"spotify": "https://open.spotify.com/album/discovery"},
				"images": [
					{"url": "https://img.example/640.jpg", "width": 640, "height": 640},
					{"url": "https://img.example/300.jpg", "width": 300, "height": 300},
					{"url": "https://img.example/64.jpg", "width": 64, "height": 64}
				]
			}
		}],
		"next": "https://api.spotify.com/v1/search?offset=5&q=daft",
		"previous": null
	}
}`

// newTestClient returns a client pointed at the given server with a token
// already in hand, so tests never hit the real auth endpoint.
func newTestClient(serverURL string) *Client {
	c := New("id", "secret", cache.NewMemoryCache())
	c.baseURL = serverURL
	c.accessToken = "test-token"
	c.tokenExpiry = time.Now().Add(time.Hour)
	return c
}

func TestSearch(t *testing.T) {
	var gotQuery, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "track", r.URL.Query().Get("type"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchBody))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	page, err := c.Search(context.Background(), "daft punk one more time", 5)
	require.NoError(t, err)

	assert.Equal(t, "daft punk one more time", gotQuery)
	assert.Equal(t, "Bearer test-token", gotAuth)

	assert.Equal(t, 42, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "One More Time", page.Items[0].Name)
	assert.Equal(t, "Daft Punk", page.Items[0].PrimaryArtist().Name)
	assert.Equal(t, "https://img.example/300.jpg", page.Items[0].ThumbnailURL())
	assert.Equal(t, "https://api.spotify.com/v1/search?offset=5&q=daft", page.NextCursor)
	assert.Empty(t, page.PreviousCursor)
}

func TestSearch_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"albums": {}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Search(context.Background(), "anything", 5)

	var malformed *catalog.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "spotify", malformed.Platform)
}

func TestSearch_UpstreamStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Search(context.Background(), "anything", 5)

	var upstream *catalog.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "search", upstream.Operation)
}

func TestFetchByCursor_UsesCursorVerbatim(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchBody))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	cursor := server.URL + "/v1/search?offset=5&q=daft+punk&type=track"

	page, err := c.FetchByCursor(context.Background(), cursor)
	require.NoError(t, err)

	assert.Equal(t, "/v1/search?offset=5&q=daft+punk&type=track", gotPath)
	assert.Equal(t, 42, page.Total)
}

func TestFetchByCursor_UpstreamFailurePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.FetchByCursor(context.Background(), server.URL+"/v1/search?offset=5")

	var upstream *catalog.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "cursor_fetch", upstream.Operation)
}

func TestFetchByID(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/tracks/abc123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rawTrack{
			ID:           "abc123",
			Name:         "One More Time",
			DurationMs:   320357,
			Artists:      []rawArtist{{Name: "Daft Punk"}},
			Album:        rawAlbum{Name: "Discovery"},
			ExternalURLs: externalURLs{Spotify: "https://open.spotify.com/track/abc123"},
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	track, err := c.FetchByID(context.Background(), "track", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "One More Time", track.Name)
	assert.Equal(t, "Discovery", track.Album.Name)

	// Second fetch is served from cache.
	track, err = c.FetchByID(context.Background(), "track", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "One More Time", track.Name)
	assert.Equal(t, 1, requests)
}

func TestFetchByID_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.FetchByID(context.Background(), "track", "missing")

	var upstream *catalog.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Contains(t, upstream.Message, "not found")
}

func TestNormalizeTrack_MissingID(t *testing.T) {
	_, err := normalizeTrack(rawTrack{Name: "no id"})

	var malformed *catalog.MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}
