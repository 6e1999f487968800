package resist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// MessageType is the kind of a WebSocket data message.
type MessageType uint8

const (
	MessageText MessageType = iota + 1
	MessageBinary
)

// Socket is the transport the client reads frames from. Read blocks until a
// data message arrives, ctx is done or the connection ends; the end of the
// connection is reported as io.EOF.
type Socket interface {
	Read(ctx context.Context) (MessageType, []byte, error)
	Write(MessageType, []byte) error
	Close() error
}

// wsSocket is a client-side gobwas WebSocket connection.
type wsSocket struct {
	conn net.Conn
	rw   io.ReadWriter // reads drain the handshake buffer first

	wmu       sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// Dial opens a WebSocket connection to url.
func Dial(ctx context.Context, url string) (Socket, error) {
	conn, br, _, err := ws.Dial(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	s := &wsSocket{conn: conn, rw: conn}
	if br != nil {
		s.rw = struct {
			io.Reader
			io.Writer
		}{io.MultiReader(br, conn), conn}
	}
	return s, nil
}

func (s *wsSocket) Read(ctx context.Context) (MessageType, []byte, error) {
	s.conn.SetReadDeadline(time.Time{})
	stop := context.AfterFunc(ctx, func() {
		s.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	data, op, err := wsutil.ReadServerData(s.rw)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, ctx.Err()
		}
		if isClosed(err) {
			return 0, nil, io.EOF
		}
		return 0, nil, err
	}
	if op == ws.OpBinary {
		return MessageBinary, data, nil
	}
	return MessageText, data, nil
}

func (s *wsSocket) Write(t MessageType, data []byte) error {
	op := ws.OpText
	if t == MessageBinary {
		op = ws.OpBinary
	}
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return wsutil.WriteClientMessage(s.conn, op, data)
}

func (s *wsSocket) Close() error {
	s.closeOnce.Do(func() {
		s.wmu.Lock()
		body := ws.NewCloseFrameBody(ws.StatusNormalClosure, "")
		_ = wsutil.WriteClientMessage(s.conn, ws.OpClose, body)
		s.wmu.Unlock()
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}

// isClosed reports errors that mean the peer or this side closed the
// connection.
func isClosed(err error) bool {
	var closed wsutil.ClosedError
	return errors.As(err, &closed) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed)
}
