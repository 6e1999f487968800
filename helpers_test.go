package resist

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/NeboLoop/resist-go-sdk/event"
	"github.com/NeboLoop/resist-go-sdk/internal/logging"
)

type socketMessage struct {
	typ  MessageType
	data []byte
}

// mockSocket implements Socket for testing.
type mockSocket struct {
	mu       sync.Mutex
	readCh   chan socketMessage
	readErr  error
	written  []socketMessage
	writeErr error
	closed   atomic.Bool
	closeCh  chan struct{}
	once     sync.Once
}

func newMockSocket() *mockSocket {
	return &mockSocket{
		readCh:  make(chan socketMessage, 16),
		closeCh: make(chan struct{}),
	}
}

func (m *mockSocket) push(typ MessageType, data string) {
	m.readCh <- socketMessage{typ: typ, data: []byte(data)}
}

func (m *mockSocket) pushText(data string) { m.push(MessageText, data) }

func (m *mockSocket) Read(ctx context.Context) (MessageType, []byte, error) {
	if m.readErr != nil {
		return 0, nil, m.readErr
	}
	select {
	case msg := <-m.readCh:
		return msg.typ, msg.data, nil
	case <-m.closeCh:
		return 0, nil, io.EOF
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}
}

func (m *mockSocket) Write(typ MessageType, data []byte) error {
	if m.closed.Load() {
		return errors.New("socket closed")
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	m.mu.Lock()
	m.written = append(m.written, socketMessage{typ: typ, data: append([]byte(nil), data...)})
	m.mu.Unlock()
	return nil
}

func (m *mockSocket) Close() error {
	m.once.Do(func() {
		m.closed.Store(true)
		close(m.closeCh)
	})
	return nil
}

func (m *mockSocket) Written() []socketMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]socketMessage(nil), m.written...)
}

// newTestClient returns a client with its own registry and a silent logger.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	nop := zerolog.Nop()
	c := New(Config{
		Token:        "secret",
		Registry:     event.NewRegistry(event.WithLogger(&nop)),
		Logger:       &nop,
		PingInterval: -1,
	})
	t.Cleanup(func() { c.Close() })
	return c
}

// attach connects c to a mock socket that has already authenticated.
func attach(t *testing.T, c *Client) *mockSocket {
	t.Helper()
	sock := newMockSocket()
	sock.pushText(`{"type":"Authenticated"}`)
	require.NoError(t, c.Attach(context.Background(), sock))
	return sock
}

// syncBuffer is a bytes.Buffer safe for the concurrent writes of handler
// goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func zerologTo(w io.Writer) zerolog.Logger {
	return logging.New(w, zerolog.DebugLevel)
}
