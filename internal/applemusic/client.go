// Package applemusic implements an alternate secondary catalog for
// cross-platform resolution, searching the Apple Music catalog with a
// developer-token (JWT) credential.
package applemusic

import (
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/imccausl/music-sharing-slackbot/internal/catalog"
	"github.com/imccausl/music-sharing-slackbot/internal/scoring"
)

const defaultBaseURL = "https://api.music.apple.com/v1"

// validStorefronts are the ISO 3166 alpha-2 storefronts the bot serves.
var validStorefronts = map[string]bool{
	"ca": true,
	"us": true,
}

// Client talks to the Apple Music catalog API.
type Client struct {
	http       *resty.Client
	keyID      string
	teamID     string
	privateKey *ecdsa.PrivateKey
	storefront string
	baseURL    string

	mu          sync.RWMutex
	jwtToken    string
	tokenExpiry time.Time
}

// New creates an Apple Music client from a developer key file (PKCS#8 PEM).
func New(keyID, teamID, keyFile, storefront string) (*Client, error) {
	if !validStorefronts[storefront] {
		return nil, fmt.Errorf("invalid storefront %q: must be a supported ISO 3166 alpha-2 country code", storefront)
	}

	privateKey, err := loadPrivateKey(keyFile)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)

	return &Client{
		http:       httpClient,
		keyID:      keyID,
		teamID:     teamID,
		privateKey: privateKey,
		storefront: storefront,
		baseURL:    defaultBaseURL,
	}, nil
}

type searchResponse struct {
	Results struct {
		Songs struct {
			Data []songData `json:"data"`
		} `json:"songs"`
	} `json:"results"`
}

type songData struct {
	Attributes songAttributes `json:"attributes"`
}

type songAttributes struct {
	Name       string `json:"name"`
	ArtistName string `json:"artistName"`
	AlbumName  string `json:"albumName"`
	URL        string `json:"url"`
}

// SearchCandidates searches the catalog for songs matching the query and
// returns them in API order, shaped for the fuzzy resolver.
func (c *Client) SearchCandidates(ctx context.Context, query string, limit int) ([]scoring.Candidate, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 25 {
		limit = 25 // Apple Music API limit
	}

	token, err := c.token()
	if err != nil {
		return nil, err
	}

	var raw searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"term":  query,
			"types": "songs",
			"limit": fmt.Sprintf("%d", limit),
		}).
		SetResult(&raw).
		Get(fmt.Sprintf("%s/catalog/%s/search", c.baseURL, c.storefront))

	if err != nil {
		return nil, &catalog.UpstreamError{
			Platform:  "apple_music",
			Operation: "search",
			Message:   "request failed",
			Err:       err,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &catalog.UpstreamError{
			Platform:  "apple_music",
			Operation: "search",
			Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
		}
	}

	candidates := make([]scoring.Candidate, 0, len(raw.Results.Songs.Data))
	for _, song := range raw.Results.Songs.Data {
		candidates = append(candidates, scoring.Candidate{
			Title:       song.Attributes.Name,
			Description: song.Attributes.ArtistName + " " + song.Attributes.AlbumName,
			URL:         song.Attributes.URL,
		})
	}

	return candidates, nil
}

// token returns a valid developer token, regenerating under the write lock
// with a double check.
func (c *Client) token() (string, error) {
	c.mu.RLock()
	if c.jwtToken != "" && time.Now().Before(c.tokenExpiry) {
		token := c.jwtToken
		c.mu.RUnlock()
		return token, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.jwtToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.jwtToken, nil
	}

	token, err := c.generateJWT()
	if err != nil {
		return "", &catalog.UpstreamError{
			Platform:  "apple_music",
			Operation: "auth",
			Message:   "failed to generate developer token",
			Err:       err,
		}
	}

	c.jwtToken = token
	c.tokenExpiry = time.Now().Add(55 * time.Minute) // tokens last 60 minutes, refresh at 55

	slog.Info("Apple Music developer token refreshed", "expires_at", c.tokenExpiry)

	return c.jwtToken, nil
}

// generateJWT signs a short-lived ES256 developer token.
func (c *Client) generateJWT() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": c.teamID,
		"iat": now.Unix(),
		"exp": now.Add(60 * time.Minute).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = c.keyID

	return token.SignedString(c.privateKey)
}

// loadPrivateKey reads a PKCS#8 PEM-encoded ECDSA private key.
func loadPrivateKey(keyFile string) (*ecdsa.PrivateKey, error) {
	keyData, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key file: %w", err)
	}

	block, _ := pem.Decode(keyData)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block from private key")
	}

	privateKey, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	ecdsaKey, ok := privateKey.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not ECDSA")
	}

	return ecdsaKey, nil
}
