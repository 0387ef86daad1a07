package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/slack-go/slack"

	"github.com/imccausl/music-sharing-slackbot/internal/applemusic"
	"github.com/imccausl/music-sharing-slackbot/internal/bot"
	"github.com/imccausl/music-sharing-slackbot/internal/cache"
	"github.com/imccausl/music-sharing-slackbot/internal/config"
	"github.com/imccausl/music-sharing-slackbot/internal/resolve"
	"github.com/imccausl/music-sharing-slackbot/internal/spotify"
	"github.com/imccausl/music-sharing-slackbot/internal/youtube"
)

func main() {
	// Load .env file for local development
	_ = godotenv.Load()

	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize cache
	trackCache, err := newCache(cfg)
	if err != nil {
		slog.Error("Failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer trackCache.Close()

	// Initialize catalog clients
	spotifyClient := spotify.New(cfg.SpotifyClientID, cfg.SpotifyClientSecret, trackCache)

	candidateSource, err := newCandidateSource(cfg)
	if err != nil {
		slog.Error("Failed to initialize candidate source", "error", err)
		os.Exit(1)
	}

	resolver := resolve.New(spotifyClient, candidateSource)

	// Initialize chat transport
	api := slack.New(cfg.SlackBotToken)
	dispatcher := bot.NewDispatcher(
		spotifyClient,
		resolver,
		bot.NewWebhookResponder(),
		bot.NewMessenger(api),
		cfg.SearchLimit,
	)

	server := bot.NewServer(dispatcher, cfg.SlackSigningSecret, cfg.GinMode)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}

func newCache(cfg *config.Config) (cache.Cache, error) {
	if cfg.HasValkey() {
		return cache.NewValkeyCache(cfg.ValkeyURL)
	}
	slog.Info("No Valkey URL configured, using in-memory cache")
	return cache.NewMemoryCache(), nil
}

func newCandidateSource(cfg *config.Config) (resolve.CandidateSource, error) {
	if cfg.HasYouTube() {
		return youtube.New(cfg.YouTubeAPIKey), nil
	}
	slog.Info("No YouTube API key configured, resolving against Apple Music")
	return applemusic.New(cfg.AppleMusicKeyID, cfg.AppleMusicTeamID, cfg.AppleMusicKeyFile, cfg.AppleMusicStorefront)
}
