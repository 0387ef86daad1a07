// Package blocks defines a platform-agnostic renderable block model and the
// formatter that turns catalog search pages into interactive result views.
// The chat transport converts these blocks into its native message format.
package blocks

// Action IDs emitted by rendered buttons. The dispatcher routes incoming
// interactions by these values.
const (
	ActionSelect          = "song_select_button"
	ActionNextResults     = "next_results"
	ActionPreviousResults = "previous_results"
)

// StylePrimary is the only style hint the bot uses; transports map it to
// their accent button style.
const StylePrimary = "primary"

// Block is one platform-agnostic renderable unit: a Section, Divider,
// Context line, or ActionRow of buttons.
type Block interface {
	blockType() string
}

// Section is a text block, optionally with an image accessory.
type Section struct {
	Text     string
	ImageURL string
	ImageAlt string
}

// Divider is a horizontal separator between result groups.
type Divider struct{}

// Context is a muted secondary-information line.
type Context struct {
	Text string
}

// Button is one interactive element of an ActionRow. Value is opaque to the
// pipeline: a selected track's external URL or a pagination cursor,
// round-tripped verbatim through the chat platform.
type Button struct {
	Label    string
	Style    string
	Value    string
	ActionID string
}

// ActionRow is a row of buttons.
type ActionRow struct {
	Buttons []Button
}

func (Section) blockType() string   { return "section" }
func (Divider) blockType() string   { return "divider" }
func (Context) blockType() string   { return "context" }
func (ActionRow) blockType() string { return "actions" }
