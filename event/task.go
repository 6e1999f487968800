package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Task is the handle of one scheduled handler invocation.
type Task struct {
	done chan struct{}
	err  error
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}

// completedTask returns a task that has already finished with err.
func completedTask(err error) *Task {
	t := newTask()
	t.finish(err)
	return t
}

func (t *Task) finish(err error) {
	t.err = err
	close(t.done)
}

// Done is closed when the handler returns.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err returns the handler's error, or nil while it is still running.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the handler returns or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitAll waits for every task and joins their errors.
func WaitAll(ctx context.Context, tasks ...*Task) error {
	var errs []error
	for _, t := range tasks {
		if err := t.Wait(ctx); err != nil {
			errs = append(errs, err)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return errors.Join(errs...)
}

// Scheduler runs handler invocations concurrently with the caller of
// Dispatch.
type Scheduler interface {
	Go(fn func(ctx context.Context) error) *Task
}

// ErrorHandler receives the error of every task that fails.
type ErrorHandler func(err error)

// SchedulerOption configures a GoScheduler.
type SchedulerOption func(*GoScheduler)

// WithErrorHandler reports failed tasks to fn, whether or not anyone waits
// on them.
func WithErrorHandler(fn ErrorHandler) SchedulerOption {
	return func(s *GoScheduler) { s.onError = fn }
}

// WithTraceLogger sends the dispatch traces of events dispatched on the
// scheduler to logger instead of the registry's logger.
func WithTraceLogger(logger *zerolog.Logger) SchedulerOption {
	return func(s *GoScheduler) { s.logger = logger }
}

// TraceLogger is implemented by schedulers that carry their own logger for
// dispatch traces.
type TraceLogger interface {
	Logger() *zerolog.Logger
}

// GoScheduler starts one goroutine per task. Handlers receive the context
// the scheduler was built with.
type GoScheduler struct {
	ctx     context.Context
	onError ErrorHandler
	logger  *zerolog.Logger
	wg      sync.WaitGroup
}

// Logger implements TraceLogger. It is nil unless WithTraceLogger was used.
func (s *GoScheduler) Logger() *zerolog.Logger { return s.logger }

// NewScheduler returns a GoScheduler whose tasks run under ctx.
func NewScheduler(ctx context.Context, opts ...SchedulerOption) *GoScheduler {
	s := &GoScheduler{ctx: ctx}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Go implements Scheduler. A panic in fn is recovered into ErrHandlerPanic.
func (s *GoScheduler) Go(fn func(ctx context.Context) error) *Task {
	t := newTask()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := run(s.ctx, fn)
		if err != nil && s.onError != nil {
			s.onError(err)
		}
		t.finish(err)
	}()
	return t
}

// Wait blocks until every task started so far has returned. It must not
// race with a Dispatch that may still start tasks.
func (s *GoScheduler) Wait() {
	s.wg.Wait()
}

func run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, rec)
		}
	}()
	return fn(ctx)
}
