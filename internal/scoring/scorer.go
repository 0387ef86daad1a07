// Package scoring ranks secondary-catalog candidates against a canonical
// track identity using weighted fuzzy string similarity.
package scoring

import (
	"strings"
	"unicode"

	"github.com/imccausl/music-sharing-slackbot/internal/catalog"
)

// Candidate is one record from a secondary catalog search.
type Candidate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Default field weights. The title carries most of the signal; descriptions
// are noisy (uploader boilerplate, lyrics fragments).
const (
	defaultTitleWeight       = 0.8
	defaultDescriptionWeight = 0.2
)

// Scorer computes weighted similarity scores between a query string and
// candidates. Scoring is deterministic and CPU-only.
type Scorer struct {
	titleWeight       float64
	descriptionWeight float64
}

// NewScorer creates a scorer with the default title/description weighting.
func NewScorer() *Scorer {
	return &Scorer{
		titleWeight:       defaultTitleWeight,
		descriptionWeight: defaultDescriptionWeight,
	}
}

// NewScorerWithWeights creates a scorer with custom field weights.
func NewScorerWithWeights(titleWeight, descriptionWeight float64) *Scorer {
	return &Scorer{
		titleWeight:       titleWeight,
		descriptionWeight: descriptionWeight,
	}
}

// Score returns the weighted similarity between query and candidate in [0, 1].
func (s *Scorer) Score(query string, c Candidate) float64 {
	return s.titleWeight*similarity(query, c.Title) +
		s.descriptionWeight*similarity(query, c.Description)
}

// BestMatch returns the highest-scoring candidate. Ties break by original
// position: the earlier candidate wins. An empty candidate list returns
// catalog.ErrNoMatch.
func (s *Scorer) BestMatch(query string, candidates []Candidate) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, catalog.ErrNoMatch
	}

	best := candidates[0]
	bestScore := s.Score(query, best)

	for _, c := range candidates[1:] {
		if score := s.Score(query, c); score > bestScore {
			best = c
			bestScore = score
		}
	}

	return best, nil
}

// similarity computes token-overlap similarity between two strings in [0, 1].
// Exact normalized equality scores 1.0; otherwise the score is the fraction
// of query tokens present in the candidate, with a containment bonus for
// titles that embed the whole query (remix/live suffixes and the like).
func similarity(query, text string) float64 {
	nq, nt := normalize(query), normalize(text)
	if nq == "" || nt == "" {
		return 0
	}
	if nq == nt {
		return 1
	}

	queryTokens := strings.Fields(nq)
	textTokens := make(map[string]bool)
	for _, token := range strings.Fields(nt) {
		textTokens[token] = true
	}

	matched := 0
	for _, token := range queryTokens {
		if textTokens[token] {
			matched++
		}
	}

	score := 0.8 * float64(matched) / float64(len(queryTokens))
	if strings.Contains(nt, nq) || strings.Contains(nq, nt) {
		score += 0.15
	}
	return score
}

// normalize lowercases and strips everything except letters, digits, and
// spaces so punctuation differences between catalogs do not affect scoring.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) && !lastSpace:
			b.WriteRune(' ')
			lastSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}
