package event

import (
	"context"

	"github.com/google/uuid"
)

// Callback handles one dispatch. It always runs on its own goroutine.
type Callback func(ctx context.Context, args ...any) error

// Check decides whether a dispatch is delivered to a subscriber.
type Check func(args ...any) bool

// Always is the default Check.
func Always(...any) bool { return true }

// Kind discriminates the subscriber variants an Event accepts.
type Kind uint8

const (
	KindListener Kind = iota + 1
	KindCollector
)

func (k Kind) String() string {
	switch k {
	case KindListener:
		return "listener"
	case KindCollector:
		return "collector"
	default:
		return "unknown"
	}
}

// Subscriber is implemented by *Listener and *Collector only.
type Subscriber interface {
	Kind() Kind
	Once() bool
	subscriber()
}

// Listener is a one-shot or persistent callback bound to a check.
type Listener struct {
	ID uuid.UUID

	once     bool
	callback Callback
	check    Check
}

// NewListener validates callback and returns an unsubscribed listener.
// A nil check means Always.
func NewListener(once bool, callback Callback, check Check) (*Listener, error) {
	if callback == nil {
		return nil, ErrInvalidCallback
	}
	if check == nil {
		check = Always
	}
	return &Listener{
		ID:       uuid.New(),
		once:     once,
		callback: callback,
		check:    check,
	}, nil
}

// Kind implements Subscriber.
func (l *Listener) Kind() Kind { return KindListener }

// Once reports whether the listener is removed after its first match.
func (l *Listener) Once() bool { return l.once }

// Matches runs the listener's check.
func (l *Listener) Matches(args ...any) bool {
	return l.check == nil || l.check(args...)
}

// Call invokes the callback directly and returns whatever it returns.
func (l *Listener) Call(ctx context.Context, args ...any) error {
	return l.callback(ctx, args...)
}

func (l *Listener) subscriber() {}
