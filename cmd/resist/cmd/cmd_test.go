package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeboLoop/resist-go-sdk"
	"github.com/NeboLoop/resist-go-sdk/event"
	"github.com/NeboLoop/resist-go-sdk/frame"
	"github.com/NeboLoop/resist-go-sdk/internal/cmd/output"
	"github.com/NeboLoop/resist-go-sdk/wire"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RESIST_TOKEN", "")
	t.Setenv("LOG_FORMAT", "json")
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEventsCommand(t *testing.T) {
	out, err := run(t, "events", "-o", "json")
	require.NoError(t, err)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(out), &names))
	assert.Contains(t, names, event.NameMessage)
	assert.Contains(t, names, event.NameUserRelationship)
}

func TestEventsCommandText(t *testing.T) {
	out, err := run(t, "events")
	require.NoError(t, err)
	assert.Contains(t, out, "ChannelStartTyping\n")
}

func TestBadOutputFormat(t *testing.T) {
	_, err := run(t, "events", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestSendCommand(t *testing.T) {
	var got wire.SendMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels/C1/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-bot-token"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"_id":"M1","nonce":"N1","channel":"C1","author":"U1","content":"hello world"}`)
	}))
	defer srv.Close()

	out, err := run(t, "send", "--token", "secret", "--api-url", srv.URL, "-o", "json", "--reply", "M0", "C1", "hello", "world")
	require.NoError(t, err)

	assert.Equal(t, "hello world", got.Content)
	assert.Equal(t, []wire.Reply{{ID: "M0"}}, got.Replies)
	assert.JSONEq(t, `{"id":"M1","nonce":"N1","channel":"C1"}`, out)
}

func TestSendRequiresToken(t *testing.T) {
	_, err := run(t, "send", "C1", "hi")
	assert.ErrorContains(t, err, "no bot token")
}

func TestListenRequiresToken(t *testing.T) {
	_, err := run(t, "listen")
	assert.ErrorContains(t, err, "no bot token")
}

func TestPrinterStopsAtLimit(t *testing.T) {
	var buf bytes.Buffer
	p := &printer{w: &buf, f: output.NewFormatter(output.FormatJSON), limit: 2, done: make(chan struct{})}

	for _, raw := range []string{`{"type":"Pong","data":1}`, `{"type":"Pong","data":2}`, `{"type":"Pong","data":3}`} {
		f, err := frame.Decode([]byte(raw))
		require.NoError(t, err)
		require.NoError(t, p.print(context.Background(), nil, f))
	}

	assert.Equal(t, "{\"data\":1,\"type\":\"Pong\"}\n{\"data\":2,\"type\":\"Pong\"}\n", buf.String())
	select {
	case <-p.done:
	default:
		t.Fatal("done not closed at limit")
	}
}

func TestSubscribe(t *testing.T) {
	nop := zerolog.Nop()
	reg := event.NewRegistry(event.WithLogger(&nop))
	reg.MustRegister("Ready")
	reg.MustRegister("Pong")
	client := resist.New(resist.Config{Token: "secret", Registry: reg, Logger: &nop})
	defer client.Close()

	p := &printer{w: io.Discard, f: output.NewFormatter(output.FormatJSON), done: make(chan struct{})}
	require.NoError(t, subscribe(client, nil, p))

	ready, _ := reg.Lookup("Ready")
	pong, _ := reg.Lookup("Pong")
	assert.Len(t, ready.Listeners(), 1)
	assert.Len(t, pong.Listeners(), 1)

	require.NoError(t, subscribe(client, []string{" Message ", ""}, p))
	msg, ok := reg.Lookup("Message")
	require.True(t, ok)
	assert.Len(t, msg.Listeners(), 1)
}
