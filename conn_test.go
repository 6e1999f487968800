package resist

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeboLoop/resist-go-sdk/event"
	"github.com/NeboLoop/resist-go-sdk/models"
	"github.com/NeboLoop/resist-go-sdk/wire"
)

// testGateway serves the API root and a WebSocket gateway that accepts the
// token "secret", then sends frames and waits for the client to hang up.
func testGateway(t *testing.T, frames ...string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
			json.NewEncoder(w).Encode(APIContext{Revolt: "test", WS: wsURL})
			return
		}

		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			return
		}
		defer conn.Close()

		data, err := wsutil.ReadClientText(conn)
		if err != nil {
			return
		}
		var auth wire.Authenticate
		if json.Unmarshal(data, &auth) != nil || auth.Token != "secret" {
			wsutil.WriteServerText(conn, []byte(`{"type":"Error","error":"InvalidSession"}`))
			return
		}
		wsutil.WriteServerText(conn, []byte(`{"type":"Authenticated"}`))
		for _, f := range frames {
			if err := wsutil.WriteServerText(conn, []byte(f)); err != nil {
				return
			}
		}
		for {
			if _, _, err := wsutil.ReadClientData(conn); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGatewayClient(t *testing.T, apiURL, token string) *Client {
	t.Helper()
	nop := zerolog.Nop()
	c := New(Config{
		Token:        token,
		APIURL:       apiURL,
		Registry:     event.NewRegistry(event.WithLogger(&nop)),
		Logger:       &nop,
		PingInterval: -1,
	})
	t.Cleanup(func() { c.Close() })
	return c
}

func TestConnect(t *testing.T) {
	srv := testGateway(t, `{"type":"Message","_id":"M1","channel":"C1","author":"U1","content":"hi"}`)
	c := newGatewayClient(t, srv.URL, "secret")

	got := make(chan *models.Message, 1)
	_, err := c.OnMessage(func(_ context.Context, m *models.Message) error {
		got <- m
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Connect(ctx))

	select {
	case m := <-got:
		assert.Equal(t, "hi", m.Content)
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}

	require.NoError(t, c.BeginTyping(ctx, "C1"))
	require.NoError(t, c.Close())
}

func TestConnectBadToken(t *testing.T) {
	srv := testGateway(t)
	c := newGatewayClient(t, srv.URL, "wrong")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := c.Connect(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestConnectWithoutToken(t *testing.T) {
	c := New(Config{})
	defer c.Close()
	assert.ErrorIs(t, c.Connect(context.Background()), ErrNoToken)
}

func TestWSSocketReportsEOF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			return
		}
		wsutil.WriteServerBinary(conn, []byte("payload"))
		conn.Close()
	}))
	defer srv.Close()

	sock, err := Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, err)
	defer sock.Close()

	typ, data, err := sock.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MessageBinary, typ)
	assert.Equal(t, "payload", string(data))

	_, _, err = sock.Read(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestWSSocketReadHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			return
		}
		defer conn.Close()
		wsutil.ReadClientData(conn)
	}))
	defer srv.Close()

	sock, err := Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, err)
	defer sock.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, _, err = sock.Read(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
