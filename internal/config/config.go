// Package config loads bot configuration from environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the bot process.
type Config struct {
	// Application settings
	Port    string `envconfig:"PORT" default:"3000"`
	GinMode string `envconfig:"GIN_MODE" default:"release"`

	// Slack credentials
	SlackBotToken      string `envconfig:"SLACK_BOT_TOKEN" required:"true"`
	SlackSigningSecret string `envconfig:"SLACK_SIGNING_SECRET" required:"true"`

	// Spotify credentials (primary catalog)
	SpotifyClientID     string `envconfig:"SPOTIFY_CLIENT_ID" required:"true"`
	SpotifyClientSecret string `envconfig:"SPOTIFY_CLIENT_SECRET" required:"true"`

	// YouTube credentials (secondary catalog)
	YouTubeAPIKey string `envconfig:"YOUTUBE_API_KEY"`

	// Apple Music credentials (alternate secondary catalog)
	AppleMusicKeyID      string `envconfig:"APPLE_MUSIC_KEY_ID"`
	AppleMusicTeamID     string `envconfig:"APPLE_MUSIC_TEAM_ID"`
	AppleMusicKeyFile    string `envconfig:"APPLE_MUSIC_KEY_FILE"`
	AppleMusicStorefront string `envconfig:"APPLE_MUSIC_STOREFRONT" default:"ca"`

	// Optional Valkey cache for track lookups on the link-resolution path
	ValkeyURL string `envconfig:"VALKEY_URL"`

	// Results per search page
	SearchLimit int `envconfig:"SEARCH_LIMIT" default:"5"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.SearchLimit <= 0 {
		return nil, fmt.Errorf("SEARCH_LIMIT must be positive, got %d", cfg.SearchLimit)
	}

	if !cfg.HasYouTube() && !cfg.HasAppleMusic() {
		return nil, fmt.Errorf("no secondary catalog configured: set YOUTUBE_API_KEY or the APPLE_MUSIC_* credentials")
	}

	return &cfg, nil
}

// HasYouTube reports whether YouTube is configured as a candidate source.
func (c *Config) HasYouTube() bool {
	return c.YouTubeAPIKey != ""
}

// HasAppleMusic reports whether Apple Music is configured as a candidate source.
func (c *Config) HasAppleMusic() bool {
	return c.AppleMusicKeyID != "" && c.AppleMusicTeamID != "" && c.AppleMusicKeyFile != ""
}

// HasValkey reports whether a Valkey cache is configured.
func (c *Config) HasValkey() bool {
	return c.ValkeyURL != ""
}
