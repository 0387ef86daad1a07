// Package resolve turns a shared catalog link into the best-matching
// listing on a secondary catalog.
package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/imccausl/music-sharing-slackbot/internal/catalog"
	"github.com/imccausl/music-sharing-slackbot/internal/linkparse"
	"github.com/imccausl/music-sharing-slackbot/internal/scoring"
)

// candidateLimit bounds how many secondary-catalog records are scored per
// resolution.
const candidateLimit = 10

// TrackFetcher fetches one record from the primary catalog by link
// components.
type TrackFetcher interface {
	FetchByID(ctx context.Context, idType, id string) (catalog.Track, error)
}

// CandidateSource searches a secondary catalog for resolution candidates.
type CandidateSource interface {
	SearchCandidates(ctx context.Context, query string, limit int) ([]scoring.Candidate, error)
}

// Resolution is a successful cross-platform match.
type Resolution struct {
	Identity catalog.Identity
	Match    scoring.Candidate
}

// Resolver performs link parsing, canonical identity extraction, candidate
// retrieval, and fuzzy best-match selection.
type Resolver struct {
	tracks TrackFetcher
	source CandidateSource
	scorer *scoring.Scorer
}

// New creates a resolver with the default scorer weights.
func New(tracks TrackFetcher, source CandidateSource) *Resolver {
	return &Resolver{
		tracks: tracks,
		source: source,
		scorer: scoring.NewScorer(),
	}
}

// ResolveLink resolves a shared link to the best candidate on the secondary
// catalog. catalog.ErrNoMatch is an expected outcome when the secondary
// catalog has nothing usable; callers render it as a normal response.
func (r *Resolver) ResolveLink(ctx context.Context, rawLink string) (*Resolution, error) {
	link, err := linkparse.Parse(rawLink)
	if err != nil {
		return nil, err
	}

	track, err := r.tracks.FetchByID(ctx, link.IDType, link.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s %s: %w", link.IDType, link.ID, err)
	}

	identity := catalog.ExtractIdentity(track)
	query := identity.Query()

	candidates, err := r.source.SearchCandidates(ctx, query, candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("candidate search failed: %w", err)
	}

	match, err := r.scorer.BestMatch(query, candidates)
	if err != nil {
		return nil, err
	}

	slog.Info("Resolved shared link",
		"idType", link.IDType,
		"id", link.ID,
		"query", query,
		"match", match.URL)

	return &Resolution{
		Identity: identity,
		Match:    match,
	}, nil
}
