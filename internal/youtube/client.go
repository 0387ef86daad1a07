// Package youtube implements the secondary catalog client used for
// cross-platform resolution: it fetches video candidates for a canonical
// track identity from the YouTube Data API.
package youtube

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/imccausl/music-sharing-slackbot/internal/catalog"
	"github.com/imccausl/music-sharing-slackbot/internal/scoring"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"
	watchURLFormat = "https://www.youtube.com/watch?v=%s"
)

// Client talks to the YouTube Data API v3 with API-key auth.
type Client struct {
	http    *resty.Client
	apiKey  string
	baseURL string
}

// New creates a YouTube client.
func New(apiKey string) *Client {
	httpClient := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)

	return &Client{
		http:    httpClient,
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID      itemID  `json:"id"`
	Snippet snippet `json:"snippet"`
}

type itemID struct {
	VideoID string `json:"videoId"`
}

type snippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SearchCandidates searches videos matching the query and returns them in
// API order. Titles and descriptions arrive HTML-escaped and are unescaped
// here at the boundary.
func (c *Client) SearchCandidates(ctx context.Context, query string, limit int) ([]scoring.Candidate, error) {
	if limit <= 0 {
		limit = 10
	}

	var raw searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":       "snippet",
			"type":       "video",
			"q":          query,
			"maxResults": fmt.Sprintf("%d", limit),
			"key":        c.apiKey,
		}).
		SetResult(&raw).
		Get(c.baseURL + "/search")

	if err != nil {
		return nil, &catalog.UpstreamError{
			Platform:  "youtube",
			Operation: "search",
			Message:   "request failed",
			Err:       err,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &catalog.UpstreamError{
			Platform:  "youtube",
			Operation: "search",
			Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
		}
	}

	candidates := make([]scoring.Candidate, 0, len(raw.Items))
	for _, item := range raw.Items {
		if item.ID.VideoID == "" {
			continue
		}
		candidates = append(candidates, scoring.Candidate{
			Title:       html.UnescapeString(item.Snippet.Title),
			Description: html.UnescapeString(item.Snippet.Description),
			URL:         fmt.Sprintf(watchURLFormat, item.ID.VideoID),
		})
	}

	return candidates, nil
}
