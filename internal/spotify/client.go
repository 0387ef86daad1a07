// Package spotify implements the music catalog client: text search, opaque
// cursor fetches, and track lookups against the Spotify Web API.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/imccausl/music-sharing-slackbot/internal/cache"
	"github.com/imccausl/music-sharing-slackbot/internal/catalog"
)

const (
	tokenURL       = "https://accounts.spotify.com/api/token"
	defaultBaseURL = "https://api.spotify.com/v1"
)

// trackCacheTTL bounds how long link-resolution track lookups are reused.
const trackCacheTTL = 4 * time.Hour

// Client talks to the Spotify Web API using client-credentials auth.
type Client struct {
	http        *resty.Client
	tokenSource *clientcredentials.Config
	cache       cache.Cache
	baseURL     string

	mu          sync.RWMutex
	accessToken string
	tokenExpiry time.Time
}

// New creates a Spotify client. The cache may be an in-memory one when no
// shared cache is configured.
func New(clientID, clientSecret string, c cache.Cache) *Client {
	httpClient := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)

	return &Client{
		http: httpClient,
		tokenSource: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
		},
		cache:   c,
		baseURL: defaultBaseURL,
	}
}

// Search runs a track search and returns one normalized page. The next and
// previous cursors in the page are opaque URLs issued by Spotify.
func (c *Client) Search(ctx context.Context, query string, limit int) (catalog.SearchPage, error) {
	token, err := c.token(ctx)
	if err != nil {
		return catalog.SearchPage{}, err
	}

	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50 // Spotify API limit
	}

	var raw searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"q":     query,
			"type":  "track",
			"limit": fmt.Sprintf("%d", limit),
		}).
		SetResult(&raw).
		Get(c.baseURL + "/search")

	if err != nil {
		return catalog.SearchPage{}, &catalog.UpstreamError{
			Platform:  "spotify",
			Operation: "search",
			Message:   "request failed",
			Err:       err,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return catalog.SearchPage{}, &catalog.UpstreamError{
			Platform:  "spotify",
			Operation: "search",
			Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
		}
	}

	return normalizeSearchResponse(raw)
}

// FetchByCursor fetches a search page using an opaque cursor URL verbatim.
// The cursor came out of a previous response and is never inspected.
func (c *Client) FetchByCursor(ctx context.Context, cursorURL string) (catalog.SearchPage, error) {
	token, err := c.token(ctx)
	if err != nil {
		return catalog.SearchPage{}, err
	}

	var raw searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&raw).
		Get(cursorURL)

	if err != nil {
		return catalog.SearchPage{}, &catalog.UpstreamError{
			Platform:  "spotify",
			Operation: "cursor_fetch",
			Message:   "request failed",
			Err:       err,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return catalog.SearchPage{}, &catalog.UpstreamError{
			Platform:  "spotify",
			Operation: "cursor_fetch",
			Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
		}
	}

	return normalizeSearchResponse(raw)
}

// FetchByID fetches one record by its link components, e.g. ("track",
// "abc123") becomes GET /v1/tracks/abc123. Responses are cached since the
// same shared link is often posted repeatedly.
func (c *Client) FetchByID(ctx context.Context, idType, id string) (catalog.Track, error) {
	cacheKey := fmt.Sprintf("api:spotify:%s:%s", idType, id)
	if cached, err := c.cache.Get(ctx, cacheKey); err == nil && cached != nil {
		var track catalog.Track
		if err := json.Unmarshal(cached, &track); err == nil {
			return track, nil
		}
	}

	token, err := c.token(ctx)
	if err != nil {
		return catalog.Track{}, err
	}

	var raw rawTrack
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&raw).
		Get(fmt.Sprintf("%s/%ss/%s", c.baseURL, idType, id))

	if err != nil {
		return catalog.Track{}, &catalog.UpstreamError{
			Platform:  "spotify",
			Operation: "get_" + idType,
			Message:   "request failed",
			Err:       err,
		}
	}

	if resp.StatusCode() == http.StatusNotFound {
		return catalog.Track{}, &catalog.UpstreamError{
			Platform:  "spotify",
			Operation: "get_" + idType,
			Message:   idType + " not found",
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return catalog.Track{}, &catalog.UpstreamError{
			Platform:  "spotify",
			Operation: "get_" + idType,
			Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
		}
	}

	track, err := normalizeTrack(raw)
	if err != nil {
		return catalog.Track{}, err
	}

	if data, err := json.Marshal(track); err == nil {
		if err := c.cache.Set(ctx, cacheKey, data, trackCacheTTL); err != nil {
			slog.Warn("Failed to cache track lookup", "key", cacheKey, "error", err)
		}
	}

	return track, nil
}

// Health verifies credentials by tripping a token refresh if needed.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.token(ctx)
	return err
}

// token returns a valid access token, refreshing under the write lock with
// a double check.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		token := c.accessToken
		c.mu.RUnlock()
		return token, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return "", &catalog.UpstreamError{
			Platform:  "spotify",
			Operation: "auth",
			Message:   "failed to get access token",
			Err:       err,
		}
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = token.Expiry

	slog.Info("Spotify access token refreshed", "expires_at", token.Expiry)

	return c.accessToken, nil
}
