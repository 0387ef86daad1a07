// Package bot wires the chat platform to the search and resolution
// pipeline: slash commands, message events, and interactive block actions.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/imccausl/music-sharing-slackbot/internal/blocks"
	"github.com/imccausl/music-sharing-slackbot/internal/catalog"
	"github.com/imccausl/music-sharing-slackbot/internal/linkparse"
	"github.com/imccausl/music-sharing-slackbot/internal/resolve"
)

// SearchClient is the slice of the music catalog client the dispatcher uses.
type SearchClient interface {
	Search(ctx context.Context, query string, limit int) (catalog.SearchPage, error)
	FetchByCursor(ctx context.Context, cursorURL string) (catalog.SearchPage, error)
}

// LinkResolver resolves a shared link to a secondary-catalog match.
type LinkResolver interface {
	ResolveLink(ctx context.Context, rawLink string) (*resolve.Resolution, error)
}

// Responder posts a response to an interaction's response URL, replacing or
// deleting the originating message as requested.
type Responder interface {
	Respond(ctx context.Context, responseURL string, resp Response) error
}

// Messenger posts plain channel and ephemeral messages outside the
// response-URL flow.
type Messenger interface {
	Say(ctx context.Context, channelID, text string) error
	SayEphemeral(ctx context.Context, channelID, userID, text string) error
}

// Response is the render spec handed to the chat transport.
type Response struct {
	Text            string
	Blocks          []blocks.Block
	InChannel       bool
	ReplaceOriginal bool
	DeleteOriginal  bool
}

// Action is an incoming UI interaction: which button, and the opaque value
// it carried (a track URL for select, a cursor for navigation).
type Action struct {
	ActionID string
	Value    string
}

// Dispatcher routes inbound commands, messages, and actions to the pipeline.
// It holds no per-interaction state; everything an action needs rides in its
// opaque value.
type Dispatcher struct {
	catalog   SearchClient
	resolver  LinkResolver
	responder Responder
	messenger Messenger
	formatter *blocks.Formatter
	limit     int
}

// NewDispatcher creates a dispatcher. limit is the search page size.
func NewDispatcher(catalogClient SearchClient, resolver LinkResolver, responder Responder, messenger Messenger, limit int) *Dispatcher {
	return &Dispatcher{
		catalog:   catalogClient,
		resolver:  resolver,
		responder: responder,
		messenger: messenger,
		formatter: blocks.NewFormatter(limit),
		limit:     limit,
	}
}

// HandleSearchCommand runs a catalog search for a slash command and posts
// the interactive result list. Called after the command has already been
// acknowledged.
func (d *Dispatcher) HandleSearchCommand(ctx context.Context, query, userID, channelID, responseURL string) {
	page, err := d.catalog.Search(ctx, query, d.limit)
	if err != nil {
		slog.Error("Search failed", "query", query, "user", userID, "error", err)
		d.sayEphemeral(ctx, channelID, userID,
			fmt.Sprintf("I couldn't find any results for %q because an error occurred: %v.", query, err))
		return
	}

	resp := Response{
		Blocks:          d.formatter.SearchResults(page, query),
		ReplaceOriginal: true,
		DeleteOriginal:  true,
	}
	if err := d.responder.Respond(ctx, responseURL, resp); err != nil {
		slog.Error("Failed to post search results", "query", query, "error", err)
	}
}

// HandleAction routes one interactive block action.
func (d *Dispatcher) HandleAction(ctx context.Context, action Action, userID, responseURL string) {
	switch action.ActionID {
	case blocks.ActionSelect:
		d.handleSelect(ctx, action, userID, responseURL)
	case blocks.ActionNextResults, blocks.ActionPreviousResults:
		d.handleNavigation(ctx, action, responseURL)
	default:
		slog.Warn("Unknown action", "actionID", action.ActionID, "user", userID)
	}
}

// handleSelect replaces the ephemeral result view with an in-channel
// recommendation. Terminal for that interaction thread.
func (d *Dispatcher) handleSelect(ctx context.Context, action Action, userID, responseURL string) {
	resp := Response{
		Text:            fmt.Sprintf("<@%s> recommends: %s", userID, action.Value),
		InChannel:       true,
		ReplaceOriginal: true,
		DeleteOriginal:  true,
	}
	if err := d.responder.Respond(ctx, responseURL, resp); err != nil {
		slog.Error("Failed to post recommendation", "user", userID, "error", err)
	}
}

// handleNavigation fetches the page behind an opaque cursor and re-renders.
// On fetch failure the prior message is left untouched: replacement only
// happens after a successful fetch.
func (d *Dispatcher) handleNavigation(ctx context.Context, action Action, responseURL string) {
	page, err := d.catalog.FetchByCursor(ctx, action.Value)
	if err != nil {
		slog.Error("Cursor fetch failed", "actionID", action.ActionID, "error", err)
		resp := Response{
			Text: fmt.Sprintf("Uh oh! An error occurred: %v", err),
		}
		if err := d.responder.Respond(ctx, responseURL, resp); err != nil {
			slog.Error("Failed to post navigation error", "error", err)
		}
		return
	}

	// The original query is not recoverable from a cursor, so cursor pages
	// render without the summary header.
	resp := Response{
		Blocks:          d.formatter.SearchResults(page, ""),
		ReplaceOriginal: true,
		DeleteOriginal:  true,
	}
	if err := d.responder.Respond(ctx, responseURL, resp); err != nil {
		slog.Error("Failed to post navigation results", "error", err)
	}
}

// HandleMessage inspects a channel message: shared catalog links get
// cross-platform resolution, greetings get a greeting, everything else is
// ignored.
func (d *Dispatcher) HandleMessage(ctx context.Context, channelID, userID, text string) {
	if rawLink, ok := linkparse.FindSharedLink(text); ok {
		d.handleSharedLink(ctx, channelID, userID, rawLink)
		return
	}

	if strings.Contains(strings.ToLower(text), "hello") {
		if err := d.messenger.Say(ctx, channelID, fmt.Sprintf("Hey there <@%s>!", userID)); err != nil {
			slog.Error("Failed to post greeting", "error", err)
		}
	}
}

func (d *Dispatcher) handleSharedLink(ctx context.Context, channelID, userID, rawLink string) {
	resolution, err := d.resolver.ResolveLink(ctx, rawLink)
	if errors.Is(err, catalog.ErrNoMatch) {
		// Expected outcome, not a failure.
		if err := d.messenger.Say(ctx, channelID, "I couldn't find a match for that link anywhere else, sorry!"); err != nil {
			slog.Error("Failed to post no-match message", "error", err)
		}
		return
	}
	if err != nil {
		slog.Error("Link resolution failed", "link", rawLink, "user", userID, "error", err)
		d.sayEphemeral(ctx, channelID, userID,
			fmt.Sprintf("I couldn't resolve that link: %v", err))
		return
	}

	text := fmt.Sprintf(
		"Nice! <@%s> posted a link for *%s* by *%s* from the album *%s*. :musical_note:\nYou can also check it out here: %s",
		userID,
		resolution.Identity.Track,
		resolution.Identity.Artist,
		resolution.Identity.Album,
		resolution.Match.URL,
	)
	if err := d.messenger.Say(ctx, channelID, text); err != nil {
		slog.Error("Failed to post resolution", "error", err)
	}
}

func (d *Dispatcher) sayEphemeral(ctx context.Context, channelID, userID, text string) {
	if err := d.messenger.SayEphemeral(ctx, channelID, userID, text); err != nil {
		slog.Error("Failed to post ephemeral message", "user", userID, "error", err)
	}
}
