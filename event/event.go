package event

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// Event owns the listeners and collectors of one named event kind.
// Events are created by a Registry and shared by every client using it.
type Event struct {
	name   string
	logger *zerolog.Logger

	mu         sync.Mutex
	listeners  []*Listener
	collectors []*Collector
}

// Name returns the event kind, e.g. "Message".
func (e *Event) Name() string { return e.name }

func (e *Event) String() string { return e.name }

// Subscribe links a *Listener or *Collector to the event.
func (e *Event) Subscribe(sub Subscriber) error {
	switch s := sub.(type) {
	case *Listener:
		if s == nil {
			break
		}
		if s.callback == nil {
			return ErrInvalidCallback
		}
		e.mu.Lock()
		e.listeners = append(e.listeners, s)
		e.mu.Unlock()
		return nil
	case *Collector:
		if s == nil {
			break
		}
		if s.callback == nil {
			return ErrInvalidCallback
		}
		e.mu.Lock()
		e.collectors = append(e.collectors, s)
		e.mu.Unlock()
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnsupportedSubscriber, sub)
}

// Unsubscribe removes sub from the event. It reports whether sub was
// subscribed.
func (e *Event) Unsubscribe(sub Subscriber) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch s := sub.(type) {
	case *Listener:
		return removeSub(&e.listeners, s)
	case *Collector:
		return removeSub(&e.collectors, s)
	}
	return false
}

// Listeners returns a snapshot of the subscribed listeners.
func (e *Event) Listeners() []*Listener {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.listeners)
}

// Collectors returns a snapshot of the subscribed collectors.
func (e *Event) Collectors() []*Collector {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.collectors)
}

// Dispatch fans args out to every matching subscriber and returns one task
// per match without waiting for any of them. Listeners are scheduled before
// collectors, each group in subscription order. Subscribers marked once are
// unsubscribed before they are scheduled.
//
// Collectors buffer synchronously so batches keep dispatch order; only the
// batch callback runs on the scheduler.
func (e *Event) Dispatch(s Scheduler, args ...any) []*Task {
	e.mu.Lock()
	listeners := slices.Clone(e.listeners)
	collectors := slices.Clone(e.collectors)
	e.mu.Unlock()

	tasks := make([]*Task, 0, len(listeners)+len(collectors))

	for _, l := range listeners {
		if !l.Matches(args...) {
			continue
		}
		if l.once && !claim(&e.mu, &e.listeners, l) {
			continue
		}
		tasks = append(tasks, s.Go(func(ctx context.Context) error {
			return e.wrap(l.Call(ctx, args...))
		}))
	}

	for _, c := range collectors {
		if !c.Matches(args...) {
			continue
		}
		if c.once && !claim(&e.mu, &e.collectors, c) {
			continue
		}
		batch, ok := c.push(args)
		if !ok {
			tasks = append(tasks, completedTask(nil))
			continue
		}
		tasks = append(tasks, s.Go(func(ctx context.Context) error {
			return e.wrap(c.callback(ctx, batch...))
		}))
	}

	logger := e.logger
	if tl, ok := s.(TraceLogger); ok && tl.Logger() != nil {
		logger = tl.Logger()
	}
	if logger != nil {
		logger.Debug().Str("event", e.name).Int("tasks", len(tasks)).Msgf("DISPATCHED %s", e.name)
	}
	return tasks
}

// claim removes a once subscriber from the live list. It fails when a
// concurrent dispatch or an explicit Unsubscribe got there first.
func claim[T comparable](mu *sync.Mutex, list *[]T, sub T) bool {
	mu.Lock()
	defer mu.Unlock()
	return removeSub(list, sub)
}

func (e *Event) wrap(err error) error {
	if err == nil {
		return nil
	}
	return &HandlerError{Event: e.name, Err: err}
}

func removeSub[T comparable](list *[]T, sub T) bool {
	i := slices.Index(*list, sub)
	if i < 0 {
		return false
	}
	*list = slices.Delete(*list, i, i+1)
	return true
}
