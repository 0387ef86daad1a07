package bot

import (
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imccausl/music-sharing-slackbot/internal/blocks"
)

func TestRenderBlocks(t *testing.T) {
	in := []blocks.Block{
		blocks.Section{Text: "*Song*", ImageURL: "https://img.example/cover.jpg", ImageAlt: "Song"},
		blocks.Divider{},
		blocks.Context{Text: "Length: 3m 45s"},
		blocks.ActionRow{Buttons: []blocks.Button{
			{Label: "Select", Style: blocks.StylePrimary, Value: "https://open.spotify.com/track/abc", ActionID: blocks.ActionSelect},
			{Label: "Next 5 >", Value: "https://api.spotify.com/v1/search?offset=5", ActionID: blocks.ActionNextResults},
		}},
	}

	out := RenderBlocks(in)
	require.Len(t, out, 4)

	section, ok := out[0].(*slack.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "*Song*", section.Text.Text)
	assert.Equal(t, slack.MarkdownType, section.Text.Type)
	require.NotNil(t, section.Accessory)
	require.NotNil(t, section.Accessory.ImageElement)
	assert.Equal(t, "https://img.example/cover.jpg", section.Accessory.ImageElement.ImageURL)
	assert.Equal(t, "Song", section.Accessory.ImageElement.AltText)

	_, ok = out[1].(*slack.DividerBlock)
	assert.True(t, ok)

	contextBlock, ok := out[2].(*slack.ContextBlock)
	require.True(t, ok)
	require.Len(t, contextBlock.ContextElements.Elements, 1)

	actions, ok := out[3].(*slack.ActionBlock)
	require.True(t, ok)
	require.Len(t, actions.Elements.ElementSet, 2)

	selectButton, ok := actions.Elements.ElementSet[0].(*slack.ButtonBlockElement)
	require.True(t, ok)
	assert.Equal(t, blocks.ActionSelect, selectButton.ActionID)
	assert.Equal(t, "https://open.spotify.com/track/abc", selectButton.Value)
	assert.Equal(t, slack.StylePrimary, selectButton.Style)

	nextButton, ok := actions.Elements.ElementSet[1].(*slack.ButtonBlockElement)
	require.True(t, ok)
	assert.Equal(t, blocks.ActionNextResults, nextButton.ActionID)
	assert.Equal(t, "https://api.spotify.com/v1/search?offset=5", nextButton.Value, "cursor rendered verbatim")
	assert.Empty(t, nextButton.Style)
}

func TestRenderBlocks_SectionWithoutImage(t *testing.T) {
	out := RenderBlocks([]blocks.Block{blocks.Section{Text: "plain"}})

	require.Len(t, out, 1)
	section, ok := out[0].(*slack.SectionBlock)
	require.True(t, ok)
	assert.Nil(t, section.Accessory)
}

func TestRenderBlocks_Empty(t *testing.T) {
	assert.Empty(t, RenderBlocks(nil))
}
