package bot

import (
	"context"

	"github.com/slack-go/slack"
)

// webhookResponder posts responses to Slack response URLs.
type webhookResponder struct{}

// NewWebhookResponder creates the production Responder.
func NewWebhookResponder() Responder {
	return webhookResponder{}
}

func (webhookResponder) Respond(ctx context.Context, responseURL string, resp Response) error {
	msg := &slack.WebhookMessage{
		Text:            resp.Text,
		ResponseType:    slack.ResponseTypeEphemeral,
		ReplaceOriginal: resp.ReplaceOriginal,
		DeleteOriginal:  resp.DeleteOriginal,
	}
	if resp.InChannel {
		msg.ResponseType = slack.ResponseTypeInChannel
	}
	if len(resp.Blocks) > 0 {
		msg.Blocks = &slack.Blocks{BlockSet: RenderBlocks(resp.Blocks)}
	}

	return slack.PostWebhookContext(ctx, responseURL, msg)
}

// slackMessenger posts channel and ephemeral messages through the Web API.
type slackMessenger struct {
	api *slack.Client
}

// NewMessenger creates the production Messenger.
func NewMessenger(api *slack.Client) Messenger {
	return &slackMessenger{api: api}
}

func (m *slackMessenger) Say(ctx context.Context, channelID, text string) error {
	_, _, err := m.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	return err
}

func (m *slackMessenger) SayEphemeral(ctx context.Context, channelID, userID, text string) error {
	_, err := m.api.PostEphemeralContext(ctx, channelID, userID, slack.MsgOptionText(text, false))
	return err
}
