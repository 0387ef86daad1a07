package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// Server exposes the Slack request endpoints. Every endpoint acknowledges
// within Slack's deadline and hands the slow work to the dispatcher on a
// fresh goroutine, per the platform's interaction contract.
type Server struct {
	engine        *gin.Engine
	dispatcher    *Dispatcher
	signingSecret string
	command       string
}

// NewServer builds the HTTP surface around a dispatcher.
func NewServer(dispatcher *Dispatcher, signingSecret, ginMode string) *Server {
	gin.SetMode(ginMode)

	s := &Server{
		engine:        gin.New(),
		dispatcher:    dispatcher,
		signingSecret: signingSecret,
		command:       "/recommend",
	}

	s.engine.Use(gin.Recovery())
	s.engine.POST("/slack/commands", s.handleCommand)
	s.engine.POST("/slack/interactions", s.handleInteraction)
	s.engine.POST("/slack/events", s.handleEvent)
	s.engine.GET("/healthz", s.handleHealth)

	return s
}

// Handler returns the root http.Handler for the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// verifyRequest checks the Slack signature and restores the request body
// for downstream parsing.
func (s *Server) verifyRequest(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return nil, false
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	verifier, err := slack.NewSecretsVerifier(c.Request.Header, s.signingSecret)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return nil, false
	}
	if _, err := verifier.Write(body); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return nil, false
	}
	if err := verifier.Ensure(); err != nil {
		slog.Warn("Rejected request with bad signature", "path", c.Request.URL.Path)
		c.AbortWithStatus(http.StatusUnauthorized)
		return nil, false
	}

	return body, true
}

// handleCommand acknowledges a slash command immediately and searches
// asynchronously.
func (s *Server) handleCommand(c *gin.Context) {
	if _, ok := s.verifyRequest(c); !ok {
		return
	}

	cmd, err := slack.SlashCommandParse(c.Request)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if cmd.Command != s.command {
		c.Status(http.StatusOK)
		return
	}

	c.Status(http.StatusOK)

	go s.dispatcher.HandleSearchCommand(context.Background(), cmd.Text, cmd.UserID, cmd.ChannelID, cmd.ResponseURL)
}

// handleInteraction acknowledges a block action and dispatches it
// asynchronously.
func (s *Server) handleInteraction(c *gin.Context) {
	if _, ok := s.verifyRequest(c); !ok {
		return
	}

	payload := c.PostForm("payload")
	if payload == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(payload), &callback); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	c.Status(http.StatusOK)

	for _, blockAction := range callback.ActionCallback.BlockActions {
		action := Action{
			ActionID: blockAction.ActionID,
			Value:    blockAction.Value,
		}
		go s.dispatcher.HandleAction(context.Background(), action, callback.User.ID, callback.ResponseURL)
	}
}

// handleEvent serves Events API callbacks: the URL-verification handshake
// and channel messages.
func (s *Server) handleEvent(c *gin.Context) {
	body, ok := s.verifyRequest(c)
	if !ok {
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.String(http.StatusOK, challenge.Challenge)

	case slackevents.CallbackEvent:
		c.Status(http.StatusOK)

		message, ok := event.InnerEvent.Data.(*slackevents.MessageEvent)
		if !ok {
			return
		}
		// Ignore bot messages and edits so the bot never replies to itself.
		if message.BotID != "" || message.SubType != "" {
			return
		}

		go s.dispatcher.HandleMessage(context.Background(), message.Channel, message.User, message.Text)

	default:
		c.Status(http.StatusOK)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
