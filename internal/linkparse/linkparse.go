// Package linkparse extracts platform identifiers from shared music links
// pasted into chat messages.
package linkparse

import (
	"regexp"
	"strings"

	"github.com/imccausl/music-sharing-slackbot/internal/catalog"
)

// Link is the parsed form of a shared catalog link.
type Link struct {
	Domain string
	IDType string
	ID     string
}

var (
	protocolPattern   = regexp.MustCompile(`https?://`)
	sharedLinkPattern = regexp.MustCompile(`<?https?://open\.spotify\.com/[^\s>]+>?`)
)

// FindSharedLink locates the first shared Spotify link inside arbitrary
// message text. Slack wraps pasted URLs in angle brackets, which are kept
// for Parse to strip.
func FindSharedLink(text string) (string, bool) {
	match := sharedLinkPattern.FindString(text)
	return match, match != ""
}

// Parse splits a shared link of the form
// https://<domain>/<idType>/<id>[?query], possibly wrapped in chat-markup
// brackets, into its components. Pure function, no I/O.
func Parse(raw string) (Link, error) {
	cleaned := protocolPattern.ReplaceAllString(raw, "")
	cleaned = strings.ReplaceAll(cleaned, "<", "")
	cleaned = strings.ReplaceAll(cleaned, ">", "")
	if i := strings.IndexByte(cleaned, '?'); i >= 0 {
		cleaned = cleaned[:i]
	}

	parts := strings.Split(cleaned, "/")
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Link{}, &catalog.MalformedLinkError{
			Link:   raw,
			Reason: "expected at least 3 path segments",
		}
	}

	return Link{
		Domain: parts[0],
		IDType: parts[1],
		ID:     parts[2],
	}, nil
}
