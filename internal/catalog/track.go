package catalog

import "strings"

// Image is one rendition of album art. Catalog APIs return images ordered
// from highest to lowest resolution.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Artist represents a single credited artist on a track.
type Artist struct {
	Name        string `json:"name"`
	ExternalURL string `json:"external_url"`
}

// Album represents the album a track belongs to.
type Album struct {
	Name        string  `json:"name"`
	ExternalURL string  `json:"external_url"`
	Images      []Image `json:"images,omitempty"`
}

// Track is an immutable snapshot of one catalog record. It is created per
// request by the catalog client's boundary normalization and consumed once
// by the formatting stage; nothing persists it.
type Track struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	Album       Album    `json:"album"`
	DurationMs  int      `json:"duration_ms"`
	ExternalURL string   `json:"external_url"`
	Popularity  int      `json:"popularity,omitempty"`
	Explicit    bool     `json:"explicit,omitempty"`
}

// PrimaryArtist returns the first credited artist. The first listed artist
// is treated as canonical; multi-artist attribution is out of scope.
func (t Track) PrimaryArtist() Artist {
	if len(t.Artists) == 0 {
		return Artist{}
	}
	return t.Artists[0]
}

// ThumbnailURL returns the medium-resolution album image (index 1). When the
// catalog supplies fewer images the best available rendition is used instead;
// an empty string means no art, which the formatter degrades gracefully.
func (t Track) ThumbnailURL() string {
	images := t.Album.Images
	switch {
	case len(images) >= 2:
		return images[1].URL
	case len(images) == 1:
		return images[0].URL
	default:
		return ""
	}
}

// Identity is the normalized {artist, album, track} triple used to compare
// the "same song" across two different catalogs.
type Identity struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Track  string `json:"track"`
}

// ExtractIdentity maps a catalog track to its canonical identity.
func ExtractIdentity(t Track) Identity {
	return Identity{
		Artist: t.PrimaryArtist().Name,
		Album:  t.Album.Name,
		Track:  t.Name,
	}
}

// Query renders the identity as a single search string: "{track} {artist} {album}".
func (id Identity) Query() string {
	return strings.TrimSpace(id.Track + " " + id.Artist + " " + id.Album)
}

// SearchPage is one page of a paged catalog search. NextCursor and
// PreviousCursor are opaque URLs issued by the catalog API; they are
// forwarded verbatim and never constructed or parsed locally.
type SearchPage struct {
	Total          int     `json:"total"`
	Items          []Track `json:"items"`
	NextCursor     string  `json:"next_cursor,omitempty"`
	PreviousCursor string  `json:"previous_cursor,omitempty"`
}
