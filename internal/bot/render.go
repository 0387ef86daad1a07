package bot

import (
	"github.com/slack-go/slack"

	"github.com/imccausl/music-sharing-slackbot/internal/blocks"
)

// RenderBlocks converts the platform-agnostic block model into Slack Block
// Kit objects. Opaque button values pass through untouched.
func RenderBlocks(in []blocks.Block) []slack.Block {
	out := make([]slack.Block, 0, len(in))

	for _, b := range in {
		switch block := b.(type) {
		case blocks.Section:
			out = append(out, renderSection(block))
		case blocks.Divider:
			out = append(out, slack.NewDividerBlock())
		case blocks.Context:
			out = append(out, slack.NewContextBlock("",
				slack.NewTextBlockObject(slack.PlainTextType, block.Text, true, false)))
		case blocks.ActionRow:
			out = append(out, renderActionRow(block))
		}
	}

	return out
}

func renderSection(s blocks.Section) *slack.SectionBlock {
	text := slack.NewTextBlockObject(slack.MarkdownType, s.Text, false, false)

	var accessory *slack.Accessory
	if s.ImageURL != "" {
		accessory = slack.NewAccessory(slack.NewImageBlockElement(s.ImageURL, s.ImageAlt))
	}

	return slack.NewSectionBlock(text, nil, accessory)
}

func renderActionRow(row blocks.ActionRow) *slack.ActionBlock {
	elements := make([]slack.BlockElement, 0, len(row.Buttons))

	for _, button := range row.Buttons {
		label := slack.NewTextBlockObject(slack.PlainTextType, button.Label, true, false)
		element := slack.NewButtonBlockElement(button.ActionID, button.Value, label)
		if button.Style == blocks.StylePrimary {
			element = element.WithStyle(slack.StylePrimary)
		}
		elements = append(elements, element)
	}

	return slack.NewActionBlock("", elements...)
}
