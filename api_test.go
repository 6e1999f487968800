package resist

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeboLoop/resist-go-sdk/ulid"
	"github.com/NeboLoop/resist-go-sdk/wire"
)

func newTestAPI(t *testing.T, h http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	api, err := NewAPIClient("secret", srv.URL, srv.Client())
	require.NoError(t, err)
	return api
}

func TestNewAPIClient(t *testing.T) {
	_, err := NewAPIClient("", "", nil)
	assert.ErrorIs(t, err, ErrNoToken)

	api, err := NewAPIClient("secret", "", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, api.BaseURL())

	api, err = NewAPIClient("secret", "http://localhost:8000", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/", api.BaseURL())
}

func TestRoot(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-bot-token"))
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		io.WriteString(w, `{
			"revolt": "0.5.3",
			"features": {
				"captcha": {"enabled": true, "key": "k"},
				"email": true,
				"invite_only": false,
				"autumn": {"enabled": true, "url": "https://autumn.example"},
				"january": {"enabled": true, "url": "https://january.example"},
				"voso": {"enabled": false, "url": "", "ws": ""}
			},
			"ws": "wss://ws.example",
			"app": "https://app.example",
			"vapid": "v"
		}`)
	})

	root, err := api.Root(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "wss://ws.example", root.WS)
	assert.Equal(t, "0.5.3", root.Revolt)
	assert.True(t, root.Features.Captcha.Enabled)
	assert.Equal(t, "https://autumn.example", root.Features.Autumn.URL)
}

func TestAPIErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"type":"Nope"}`, tt.status)
			})

			_, err := api.FetchUser(context.Background(), "U1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "/users/U1", apiErr.Path)
			assert.Equal(t, `{"type":"Nope"}`, apiErr.Message)
		})
	}
}

func TestAPIErrorOtherStatus(t *testing.T) {
	err := &APIError{Method: "GET", Path: "/x", StatusCode: 500, Message: "oops"}
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "api GET /x: 500 oops", err.Error())
}

func TestFetchSelf(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/@me", r.URL.Path)
		io.WriteString(w, `{"_id":"U1","username":"bot","bot":{"owner":"U2"}}`)
	})

	u, err := api.FetchSelf(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bot", u.Username)
	assert.True(t, u.Bot)
}

func TestSendMessage(t *testing.T) {
	var got wire.SendMessage
	var key string
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/channels/C1/messages", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		key = r.Header.Get("Idempotency-Key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{
			"_id": "M1", "nonce": got.Nonce, "channel": "C1", "author": "U1", "content": got.Content,
		})
	})

	m, err := api.SendMessage(context.Background(), "C1", wire.SendMessage{Content: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "hello", got.Content)
	_, err = ulid.Parse(got.Nonce)
	assert.NoError(t, err, "nonce should be a ULID")
	_, err = uuid.Parse(key)
	assert.NoError(t, err, "idempotency key should be a UUID")
	assert.Equal(t, got.Nonce, m.Nonce)
	assert.Equal(t, "hello", m.Content)
}

func TestSendMessageKeepsNonce(t *testing.T) {
	var nonce string
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var body wire.SendMessage
		json.NewDecoder(r.Body).Decode(&body)
		nonce = body.Nonce
		io.WriteString(w, `{"_id":"M1","channel":"C1","author":"U1","content":"x"}`)
	})

	_, err := api.SendMessage(context.Background(), "C1", wire.SendMessage{Content: "x", Nonce: "mine"})
	require.NoError(t, err)
	assert.Equal(t, "mine", nonce)
}

func TestFetchChannelAndServer(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/messages/"):
			http.NotFound(w, r)
		case strings.HasPrefix(r.URL.Path, "/channels/"):
			io.WriteString(w, `{"_id":"C1","channel_type":"TextChannel","server":"S1","name":"general"}`)
		case strings.HasPrefix(r.URL.Path, "/servers/"):
			io.WriteString(w, `{"_id":"S1","owner":"U1","name":"home","channels":["C1"]}`)
		default:
			http.NotFound(w, r)
		}
	})

	ch, err := api.FetchChannel(context.Background(), "C1")
	require.NoError(t, err)
	assert.Equal(t, "general", ch.Name)

	srv, err := api.FetchServer(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, []string{"C1"}, srv.Channels)

	_, err = api.FetchMessage(context.Background(), "C1", "M1", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
