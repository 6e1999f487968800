// Package resist is a client for a Revolt-style chat service. It fetches
// the API root over REST, keeps a WebSocket open to the gateway and fans
// every inbound frame out to the listeners and collectors registered on
// the frame's event, without ever blocking the reader on a handler.
package resist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/NeboLoop/resist-go-sdk/event"
	"github.com/NeboLoop/resist-go-sdk/frame"
	"github.com/NeboLoop/resist-go-sdk/internal/logging"
	"github.com/NeboLoop/resist-go-sdk/models"
	"github.com/NeboLoop/resist-go-sdk/wire"
)

const (
	defaultPingInterval     = 10 * time.Second
	defaultMessageCacheSize = 1000
	authTimeout             = 10 * time.Second
)

// Config holds connection parameters.
type Config struct {
	Token  string // bot token
	APIURL string // REST root, DefaultAPIURL if empty
	WSURL  string // gateway URL; taken from the API root if empty

	Registry   *event.Registry // event.DefaultRegistry if nil
	Logger     *zerolog.Logger // logging.Default() if nil
	HTTPClient *http.Client    // used for REST calls

	PingInterval     time.Duration // 10s if zero, disabled if negative
	Compression      bool          // zstd-compress large outbound frames
	MessageCacheSize int           // 1000 if zero
}

// Client connects to the gateway and dispatches its frames.
//
// Every dispatch of a gateway frame passes the *Client and the frame.Frame
// to subscribers. Message frames add a third argument, the *models.Message
// already stored in the message cache. FrameOf and MessageOf extract them.
type Client struct {
	cfg      Config
	logger   *zerolog.Logger
	registry *event.Registry
	sched    *event.GoScheduler
	api      *APIClient
	messages *models.Cache[string, *models.Message]

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	sock      Socket
	served    chan struct{} // closed when the read loop has returned
	serveErr  error
	sendCh    chan outbound
	done      chan struct{}
	closeOnce sync.Once
}

type outbound struct {
	typ  MessageType
	data []byte
}

// New creates a client. Subscribers can be registered before Connect.
func New(cfg Config) *Client {
	if cfg.Registry == nil {
		cfg.Registry = event.DefaultRegistry
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.PingInterval == 0 {
		cfg.PingInterval = defaultPingInterval
	}
	if cfg.MessageCacheSize == 0 {
		cfg.MessageCacheSize = defaultMessageCacheSize
	}

	c := &Client{
		cfg:      cfg,
		logger:   cfg.Logger,
		registry: cfg.Registry,
		messages: models.NewCache[string, *models.Message](cfg.MessageCacheSize),
		sendCh:   make(chan outbound, 256),
		done:     make(chan struct{}),
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.sched = event.NewScheduler(context.Background(),
		event.WithTraceLogger(cfg.Logger),
		event.WithErrorHandler(func(err error) {
			c.logger.Warn().Err(err).Msg("handler failed")
		}),
	)

	if cfg.Token != "" {
		// NewAPIClient only fails without a token.
		c.api, _ = NewAPIClient(cfg.Token, cfg.APIURL, cfg.HTTPClient)
	}
	return c
}

// REST returns the REST client, or nil when no token is configured.
func (c *Client) REST() *APIClient { return c.api }

// Registry returns the registry frames are looked up in.
func (c *Client) Registry() *event.Registry { return c.registry }

// Messages returns the cache of received messages.
func (c *Client) Messages() *models.Cache[string, *models.Message] { return c.messages }

// --------------------------------------------------------------------------
// Subscriptions
// --------------------------------------------------------------------------

// Event returns the event registered under name, registering it if needed.
func (c *Client) Event(name string) *event.Event {
	return c.registry.Ensure(name)
}

// On subscribes fn to every matching dispatch of ev, or only the next one
// with event.WithOnce.
func (c *Client) On(ev *event.Event, fn event.Callback, opts ...event.SubscribeOption) (*event.Listener, error) {
	check, once := event.ApplyOptions(opts...)
	return c.listen(ev, once, fn, check)
}

// Once subscribes fn to the next matching dispatch of ev only.
func (c *Client) Once(ev *event.Event, fn event.Callback, opts ...event.SubscribeOption) (*event.Listener, error) {
	check, _ := event.ApplyOptions(opts...)
	return c.listen(ev, true, fn, check)
}

func (c *Client) listen(ev *event.Event, once bool, fn event.Callback, check event.Check) (*event.Listener, error) {
	l, err := event.NewListener(once, fn, check)
	if err != nil {
		return nil, err
	}
	if err := ev.Subscribe(l); err != nil {
		return nil, err
	}
	return l, nil
}

// Collect subscribes fn to batches of amount matching dispatches of ev
// that fall inside timeout. A timeout <= 0 never expires.
func (c *Client) Collect(ev *event.Event, amount int, timeout time.Duration, fn event.BatchCallback, opts ...event.SubscribeOption) (*event.Collector, error) {
	check, once := event.ApplyOptions(opts...)
	if timeout <= 0 {
		timeout = event.Forever
	}
	col, err := event.NewCollector(once, amount, timeout, fn, check)
	if err != nil {
		return nil, err
	}
	if err := ev.Subscribe(col); err != nil {
		return nil, err
	}
	return col, nil
}

// Dispatch fans args out to ev's subscribers on the client's scheduler.
func (c *Client) Dispatch(ev *event.Event, args ...any) []*event.Task {
	return ev.Dispatch(c.sched, args...)
}

// Wait blocks until every handler dispatched so far has returned. On a
// connected client it first waits for the read loop to end, so call it
// after Close or once Done is closed.
func (c *Client) Wait() {
	c.mu.Lock()
	served := c.served
	c.mu.Unlock()
	if served != nil {
		<-served
	}
	c.sched.Wait()
}

// FrameOf returns the frame of a gateway dispatch.
func FrameOf(args ...any) (frame.Frame, bool) {
	if len(args) < 2 {
		return frame.Frame{}, false
	}
	f, ok := args[1].(frame.Frame)
	return f, ok
}

// MessageOf returns the message model of a Message dispatch.
func MessageOf(args ...any) (*models.Message, bool) {
	if len(args) < 3 {
		return nil, false
	}
	m, ok := args[2].(*models.Message)
	return m, ok && m != nil
}

// OnMessage subscribes fn to new messages. Every subscriber receives the
// same cached model, its replies resolved from the message cache.
func (c *Client) OnMessage(fn func(context.Context, *models.Message) error, opts ...event.SubscribeOption) (*event.Listener, error) {
	return c.On(c.Event(event.NameMessage), func(ctx context.Context, args ...any) error {
		m, ok := MessageOf(args...)
		if !ok {
			return nil
		}
		return fn(ctx, m)
	}, opts...)
}

// OnReady subscribes fn to the initial state sent after authentication.
func (c *Client) OnReady(fn func(context.Context, *wire.Ready) error, opts ...event.SubscribeOption) (*event.Listener, error) {
	return onFrame(c, event.NameReady, fn, opts...)
}

// OnError subscribes fn to gateway errors.
func (c *Client) OnError(fn func(context.Context, *wire.Error) error, opts ...event.SubscribeOption) (*event.Listener, error) {
	return onFrame(c, event.NameError, fn, opts...)
}

// onFrame wraps fn to receive the frame decoded into T.
func onFrame[T any](c *Client, name string, fn func(context.Context, *T) error, opts ...event.SubscribeOption) (*event.Listener, error) {
	return c.On(c.Event(name), func(ctx context.Context, args ...any) error {
		f, ok := FrameOf(args...)
		if !ok {
			return nil
		}
		var v T
		if err := f.Unmarshal(&v); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}
		return fn(ctx, &v)
	}, opts...)
}

// --------------------------------------------------------------------------
// Connection
// --------------------------------------------------------------------------

// Connect resolves the gateway address, dials it, authenticates and starts
// reading frames in the background.
func (c *Client) Connect(ctx context.Context) error {
	if c.api == nil {
		return ErrNoToken
	}
	url := c.cfg.WSURL
	if url == "" {
		root, err := c.api.Root(ctx)
		if err != nil {
			return fmt.Errorf("fetch api root: %w", err)
		}
		url = root.WS
	}

	sock, err := Dial(ctx, url)
	if err != nil {
		return err
	}
	if err := c.Attach(ctx, sock); err != nil {
		sock.Close()
		return err
	}
	c.logger.Info().Str("endpoint", url).Msg("connected to gateway")
	return nil
}

// Attach authenticates over an open socket and starts the read, write and
// heartbeat loops on it.
func (c *Client) Attach(ctx context.Context, sock Socket) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.mu.Lock()
	if c.sock != nil {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.sock = sock
	c.mu.Unlock()

	if err := c.authenticate(ctx, sock); err != nil {
		c.mu.Lock()
		c.sock = nil
		c.mu.Unlock()
		return err
	}

	served := make(chan struct{})
	c.mu.Lock()
	c.served = served
	c.mu.Unlock()

	go func() {
		err := c.Serve(c.ctx, sock)
		if err != nil {
			c.logger.Warn().Err(err).Msg("read error, disconnecting")
		}
		c.mu.Lock()
		c.serveErr = err
		c.mu.Unlock()
		close(served)
		c.Close()
	}()
	go c.writeLoop(sock)
	if c.cfg.PingInterval > 0 {
		go c.pingLoop()
	}
	return nil
}

func (c *Client) authenticate(ctx context.Context, sock Socket) error {
	data, err := frame.Encode(wire.Authenticate{Type: frame.TypeAuthenticate, Token: c.cfg.Token})
	if err != nil {
		return err
	}
	if err := sock.Write(MessageText, data); err != nil {
		return fmt.Errorf("send authenticate: %w", err)
	}

	rctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()
	typ, data, err := sock.Read(rctx)
	if err != nil {
		return fmt.Errorf("read auth: %w", err)
	}
	f, err := decodeMessage(typ, data)
	if err != nil {
		return fmt.Errorf("decode auth: %w", err)
	}

	switch f.Kind {
	case event.NameAuthenticated:
		c.dispatchFrame(f)
		return nil
	case event.NameError:
		var e wire.Error
		_ = f.Unmarshal(&e)
		c.dispatchFrame(f)
		return &AuthError{Reason: e.Error}
	default:
		return fmt.Errorf("unexpected frame %q", f.Kind)
	}
}

// Serve reads frames from sock until the connection ends and dispatches
// each one to the event registered under its kind. It returns nil when the
// connection or the client is closed.
func (c *Client) Serve(ctx context.Context, sock Socket) error {
	for {
		typ, data, err := sock.Read(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || c.closed() {
				return nil
			}
			return err
		}

		f, err := decodeMessage(typ, data)
		if err != nil {
			c.logger.Debug().Err(err).Msg("bad frame")
			continue
		}
		c.dispatchFrame(f)
	}
}

func (c *Client) dispatchFrame(f frame.Frame) {
	c.logger.Debug().Str("kind", f.Kind).Msgf("RECEIVED %s", f.Kind)

	// Cache updates happen here, in frame order, before any handler runs.
	var msg *models.Message
	switch f.Kind {
	case event.NameMessage:
		var d wire.MessageData
		if err := f.Unmarshal(&d); err != nil {
			c.logger.Warn().Err(err).Msg("malformed message frame")
			break
		}
		m, err := models.NewMessage(d, c.messages)
		if err != nil {
			c.logger.Warn().Err(err).Str("id", d.ID).Msg("malformed message frame")
			break
		}
		msg = m
	case event.NameMessageDelete:
		var d wire.MessageDelete
		if err := f.Unmarshal(&d); err == nil {
			c.messages.Delete(d.ID)
		}
	}

	ev, ok := c.registry.Lookup(f.Kind)
	if !ok {
		c.logger.Debug().Str("kind", f.Kind).Msgf("UNKNOWN EVENT %s", f.Kind)
		return
	}
	if msg != nil {
		ev.Dispatch(c.sched, c, f, msg)
		return
	}
	ev.Dispatch(c.sched, c, f)
}

func decodeMessage(typ MessageType, data []byte) (frame.Frame, error) {
	if typ == MessageBinary {
		out, err := frame.Decompress(data)
		if err != nil {
			return frame.Frame{}, fmt.Errorf("decompress: %w", err)
		}
		data = out
	}
	return frame.Decode(data)
}

// --------------------------------------------------------------------------
// Outbound frames
// --------------------------------------------------------------------------

// BeginTyping shows the typing indicator in channel.
func (c *Client) BeginTyping(ctx context.Context, channel string) error {
	return c.Send(ctx, wire.Typing{Type: frame.TypeBeginTyping, Channel: channel})
}

// EndTyping hides the typing indicator in channel.
func (c *Client) EndTyping(ctx context.Context, channel string) error {
	return c.Send(ctx, wire.Typing{Type: frame.TypeEndTyping, Channel: channel})
}

// Send queues v, a payload with a "type" member, for the gateway.
func (c *Client) Send(ctx context.Context, v any) error {
	data, err := frame.Encode(v)
	if err != nil {
		return err
	}
	msg := outbound{typ: MessageText, data: data}
	if c.cfg.Compression {
		if compressed, ok := frame.Compress(data); ok {
			msg = outbound{typ: MessageBinary, data: compressed}
		}
	}

	if c.closed() {
		return ErrClosed
	}
	c.mu.Lock()
	connected := c.sock != nil
	c.mu.Unlock()
	if !connected {
		return ErrNotConnected
	}

	select {
	case c.sendCh <- msg:
		return nil
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) writeLoop(sock Socket) {
	for {
		select {
		case msg := <-c.sendCh:
			if err := sock.Write(msg.typ, msg.data); err != nil {
				c.logger.Warn().Err(err).Msg("write error")
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) pingLoop() {
	t := time.NewTicker(c.cfg.PingInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			ping := wire.Ping{Type: frame.TypePing, Data: time.Now().UnixMilli()}
			if err := c.Send(c.ctx, ping); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// --------------------------------------------------------------------------
// Shutdown
// --------------------------------------------------------------------------

// Close disconnects from the gateway. Handlers already dispatched keep
// running; use Wait to wait for them.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.cancel()
		c.mu.Lock()
		sock := c.sock
		c.mu.Unlock()
		if sock != nil {
			err = sock.Close()
		}
	})
	c.mu.Lock()
	served := c.served
	c.mu.Unlock()
	if served != nil {
		<-served
	}
	return err
}

// Done is closed once the client is closed.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err returns the error that ended the read loop, if any.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.serveErr
}

func (c *Client) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
