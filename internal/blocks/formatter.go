package blocks

import (
	"fmt"

	"github.com/imccausl/music-sharing-slackbot/internal/catalog"
)

// Formatter converts catalog search pages into ordered block sequences.
type Formatter struct {
	pageSize int
}

// NewFormatter creates a formatter. pageSize only affects the pagination
// button labels ("Next N >"), not how many items are rendered.
func NewFormatter(pageSize int) *Formatter {
	return &Formatter{pageSize: pageSize}
}

// SearchResults renders one search page. A non-empty query adds a leading
// summary section; cursor-fetched pages pass an empty query since the
// original search text is not recoverable from a cursor alone.
func (f *Formatter) SearchResults(page catalog.SearchPage, query string) []Block {
	var out []Block

	if query != "" {
		out = append(out, Section{
			Text: fmt.Sprintf("Search for %q returned *%d* results:", query, page.Total),
		})
	}

	for _, track := range page.Items {
		out = append(out, f.trackGroup(track)...)
	}

	if nav := f.paginationRow(page); nav != nil {
		out = append(out, Divider{}, *nav)
	}

	return out
}

// trackGroup emits the four-block group for one result: divider, linked
// track/album/artist section with album art, duration context, and a
// select button carrying the track's external URL.
func (f *Formatter) trackGroup(track catalog.Track) []Block {
	artist := track.PrimaryArtist()

	return []Block{
		Divider{},
		Section{
			Text: fmt.Sprintf("*<%s|%s>*\n<%s|%s>\n_<%s|%s>_",
				track.ExternalURL, track.Name,
				track.Album.ExternalURL, track.Album.Name,
				artist.ExternalURL, artist.Name),
			ImageURL: track.ThumbnailURL(),
			ImageAlt: fmt.Sprintf("%s %s thumbnail", artist.Name, track.Album.Name),
		},
		Context{
			Text: FormatDuration(track.DurationMs),
		},
		ActionRow{
			Buttons: []Button{{
				Label:    "Select",
				Style:    StylePrimary,
				Value:    track.ExternalURL,
				ActionID: ActionSelect,
			}},
		},
	}
}

// paginationRow builds the trailing navigation row, or nil when neither
// cursor is present. Cursor values pass through verbatim.
func (f *Formatter) paginationRow(page catalog.SearchPage) *ActionRow {
	var buttons []Button

	if page.PreviousCursor != "" {
		buttons = append(buttons, Button{
			Label:    fmt.Sprintf("< Previous %d", f.pageSize),
			Style:    StylePrimary,
			Value:    page.PreviousCursor,
			ActionID: ActionPreviousResults,
		})
	}

	if page.NextCursor != "" {
		buttons = append(buttons, Button{
			Label:    fmt.Sprintf("Next %d >", f.pageSize),
			Style:    StylePrimary,
			Value:    page.NextCursor,
			ActionID: ActionNextResults,
		})
	}

	if len(buttons) == 0 {
		return nil
	}
	return &ActionRow{Buttons: buttons}
}

// FormatDuration renders a millisecond duration as a human-readable string
// with no sub-second precision, e.g. "3m 45s" or "1h 2m 3s".
func FormatDuration(ms int) string {
	totalSeconds := (ms + 500) / 1000

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
