package resist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NeboLoop/resist-go-sdk/models"
	"github.com/NeboLoop/resist-go-sdk/ulid"
	"github.com/NeboLoop/resist-go-sdk/wire"
)

// DefaultAPIURL is the public API root.
const DefaultAPIURL = "https://api.revolt.chat/"

// UserAgent is sent with every REST request.
const UserAgent = "resist-go-sdk/0.1"

// APIClient talks to the REST API with a bot token.
// It works independently of the WebSocket Client; no live connection needed.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	nonces     *ulid.Gen
}

// NewAPIClient creates a REST client. baseURL defaults to DefaultAPIURL and
// httpClient to a client with a 30 second timeout.
func NewAPIClient(token, baseURL string, httpClient *http.Client) (*APIClient, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/") + "/",
		token:      token,
		httpClient: httpClient,
		nonces:     ulid.NewGen(),
	}, nil
}

// BaseURL returns the API root, always ending in a slash.
func (c *APIClient) BaseURL() string { return c.baseURL }

// --------------------------------------------------------------------------
// Requests
// --------------------------------------------------------------------------

// Root fetches the API root, which names the gateway address.
func (c *APIClient) Root(ctx context.Context) (*APIContext, error) {
	var root APIContext
	if err := c.Request(ctx, http.MethodGet, "", nil, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// Request sends an authenticated request to path, relative to the API root,
// and decodes the JSON response into dest. Either body or dest may be nil.
func (c *APIClient) Request(ctx context.Context, method, path string, body, dest any) error {
	return c.do(ctx, method, path, body, dest, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, reqBody, dest any, header http.Header) error {
	var body io.Reader
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+strings.TrimLeft(path, "/"), body)
	if err != nil {
		return err
	}
	req.Header.Set("x-bot-token", c.token)
	req.Header.Set("User-Agent", UserAgent)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			Method:     method,
			Path:       "/" + strings.TrimLeft(path, "/"),
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(b)),
		}
	}

	if dest != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Users
// --------------------------------------------------------------------------

// FetchUser fetches a user by ID.
func (c *APIClient) FetchUser(ctx context.Context, id string) (*models.User, error) {
	return models.FetchUser(ctx, c, id)
}

// FetchSelf fetches the bot's own user.
func (c *APIClient) FetchSelf(ctx context.Context) (*models.User, error) {
	return models.FetchUser(ctx, c, "@me")
}

// --------------------------------------------------------------------------
// Messages
// --------------------------------------------------------------------------

// FetchMessage fetches a message. When cache is non-nil the message is
// stored in it and its replies are resolved from it.
func (c *APIClient) FetchMessage(ctx context.Context, channel, id string, cache *models.Cache[string, *models.Message]) (*models.Message, error) {
	return models.FetchMessage(ctx, c, channel, id, cache)
}

// SendMessage posts a message to channel. A missing nonce is filled with a
// fresh ULID, which also keys the request for idempotent retries.
func (c *APIClient) SendMessage(ctx context.Context, channel string, msg wire.SendMessage) (*models.Message, error) {
	if msg.Nonce == "" {
		msg.Nonce = c.nonces.Next().String()
	}
	header := http.Header{}
	header.Set("Idempotency-Key", uuid.NewSHA1(uuid.NameSpaceOID, []byte(msg.Nonce)).String())

	var d wire.MessageData
	if err := c.do(ctx, http.MethodPost, "channels/"+channel+"/messages", msg, &d, header); err != nil {
		return nil, err
	}
	return models.NewMessage(d, nil)
}

// --------------------------------------------------------------------------
// Channels and servers
// --------------------------------------------------------------------------

// FetchChannel fetches a channel by ID.
func (c *APIClient) FetchChannel(ctx context.Context, id string) (*wire.ChannelData, error) {
	var d wire.ChannelData
	if err := c.Request(ctx, http.MethodGet, "channels/"+id, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// FetchServer fetches a server by ID.
func (c *APIClient) FetchServer(ctx context.Context, id string) (*wire.ServerData, error) {
	var d wire.ServerData
	if err := c.Request(ctx, http.MethodGet, "servers/"+id, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
