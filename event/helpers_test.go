package event

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var nopLogger = zerolog.Nop()

// inlineScheduler runs every task before returning it, so tests observe
// scheduling order directly.
type inlineScheduler struct {
	scheduled int
}

func (s *inlineScheduler) Go(fn func(ctx context.Context) error) *Task {
	s.scheduled++
	return completedTask(run(context.Background(), fn))
}

// fakeClock is a manually advanced clock for collectors.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// recorder collects callback invocations.
type recorder struct {
	mu    sync.Mutex
	calls [][]any
}

func (r *recorder) listen(_ context.Context, args ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, args)
	return nil
}

func (r *recorder) batch(_ context.Context, batch ...[]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	args := make([]any, len(batch))
	for i, col := range batch {
		args[i] = col
	}
	r.calls = append(r.calls, args)
	return nil
}

func (r *recorder) Calls() [][]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]any, len(r.calls))
	copy(out, r.calls)
	return out
}

func noop(context.Context, ...any) error { return nil }

func newTestEvent(name string) *Event {
	return NewRegistry(WithLogger(&nopLogger)).MustRegister(name)
}
