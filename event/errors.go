package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for subscription and dispatch.
var (
	// ErrInvalidCallback is returned when a subscriber has no callback to schedule.
	ErrInvalidCallback = errors.New("event: callback must be a non-nil function")

	// ErrUnsupportedSubscriber is returned when Subscribe receives something
	// that is neither a *Listener nor a *Collector.
	ErrUnsupportedSubscriber = errors.New("event: unsupported subscriber kind")

	// ErrInvalidAmount is returned when a collector is created with amount <= 0.
	ErrInvalidAmount = errors.New("event: collector amount must be positive")

	// ErrEventExists is returned when a name is registered twice.
	ErrEventExists = errors.New("event: already registered")

	// ErrHandlerPanic is returned by a task whose handler panicked.
	ErrHandlerPanic = errors.New("event: handler panicked")
)

// HandlerError wraps a failure from a scheduled handler with the event it
// was dispatched for.
type HandlerError struct {
	Event string
	Err   error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("event %s: handler: %v", e.Event, e.Err)
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}
