package bot

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningSecret = "8f742231b10e8888abcd99yyyzzz85a5"

func newTestServer(t *testing.T) (*Server, *fakeCatalog, *fakeResponder, *fakeMessenger) {
	t.Helper()
	catalogClient := &fakeCatalog{page: searchPageFixture()}
	responder := &fakeResponder{}
	messenger := &fakeMessenger{}
	dispatcher := newTestDispatcher(catalogClient, &fakeResolver{}, responder, messenger)
	return NewServer(dispatcher, testSigningSecret, "test"), catalogClient, responder, messenger
}

// signedRequest builds a request carrying a valid Slack signature for body.
func signedRequest(t *testing.T, target, contentType, body string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	mac := hmac.New(sha256.New, []byte(testSigningSecret))
	fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)

	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
	return req
}

func TestHandleCommand_AcknowledgesValidRequest(t *testing.T) {
	server, _, _, _ := newTestServer(t)

	form := url.Values{
		"command":      {"/recommend"},
		"text":         {"daft punk"},
		"user_id":      {"U123"},
		"channel_id":   {"C456"},
		"response_url": {"https://hooks.example/response"},
	}
	req := signedRequest(t, "/slack/commands", "application/x-www-form-urlencoded", form.Encode())

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleCommand_RejectsBadSignature(t *testing.T) {
	server, catalogClient, _, _ := newTestServer(t)

	body := url.Values{"command": {"/recommend"}, "text": {"daft punk"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/slack/commands", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Slack-Request-Timestamp", fmt.Sprintf("%d", time.Now().Unix()))
	req.Header.Set("X-Slack-Signature", "v0=deadbeef")

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, catalogClient.gotQuery)
}

func TestHandleEvent_URLVerificationChallenge(t *testing.T) {
	server, _, _, _ := newTestServer(t)

	body := `{"type":"url_verification","challenge":"3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P","token":"t"}`
	req := signedRequest(t, "/slack/events", "application/json", body)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P", rec.Body.String())
}

func TestHandleInteraction_MissingPayload(t *testing.T) {
	server, _, _, _ := newTestServer(t)

	req := signedRequest(t, "/slack/interactions", "application/x-www-form-urlencoded", url.Values{}.Encode())

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	server, _, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
