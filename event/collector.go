package event

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Forever disables a collector's window expiry.
const Forever = time.Duration(math.MaxInt64)

// BatchCallback receives a collector's batch transposed by argument
// position: batch[i][j] is the i-th argument of the j-th collected dispatch.
type BatchCallback func(ctx context.Context, batch ...[]any) error

// Collector buffers matching dispatches and delivers them in batches of
// amount. If the span between the first and the latest accepted item of a
// window exceeds timeout, the buffered items are dropped.
type Collector struct {
	ID uuid.UUID

	once     bool
	callback BatchCallback
	check    Check
	amount   int
	timeout  time.Duration

	mu         sync.Mutex
	buffer     [][]any
	firstSeen  time.Time
	mostRecent time.Time
	now        func() time.Time
}

// NewCollector validates its arguments and returns an unsubscribed
// collector. A timeout <= 0 means Forever and a nil check means Always.
func NewCollector(once bool, amount int, timeout time.Duration, callback BatchCallback, check Check) (*Collector, error) {
	if callback == nil {
		return nil, ErrInvalidCallback
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if timeout <= 0 {
		timeout = Forever
	}
	if check == nil {
		check = Always
	}
	return &Collector{
		ID:       uuid.New(),
		once:     once,
		callback: callback,
		check:    check,
		amount:   amount,
		timeout:  timeout,
		buffer:   make([][]any, 0, amount),
		now:      time.Now,
	}, nil
}

// Kind implements Subscriber.
func (c *Collector) Kind() Kind { return KindCollector }

// Once reports whether the collector is removed after its first match.
func (c *Collector) Once() bool { return c.once }

// Amount is the batch size.
func (c *Collector) Amount() int { return c.amount }

// Timeout is the window length.
func (c *Collector) Timeout() time.Duration { return c.timeout }

// Matches runs the collector's check.
func (c *Collector) Matches(args ...any) bool {
	return c.check == nil || c.check(args...)
}

// Len returns the number of buffered dispatches.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buffer)
}

// FirstSeen returns the start of the current window, zero if none is open.
func (c *Collector) FirstSeen() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.firstSeen
}

// Call buffers args and, if that completes a batch, invokes the callback
// inline. Errors from the callback are returned unchanged.
func (c *Collector) Call(ctx context.Context, args ...any) error {
	batch, ok := c.push(args)
	if !ok {
		return nil
	}
	return c.callback(ctx, batch...)
}

// push records one dispatch. It returns the transposed batch when the
// buffer reached amount.
func (c *Collector) push(args []any) ([][]any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if c.now != nil {
		now = c.now()
	}
	if c.firstSeen.IsZero() {
		c.firstSeen = now
	}
	c.mostRecent = now

	if c.timeout != Forever && c.mostRecent.Sub(c.firstSeen) > c.timeout {
		c.reset()
		return nil, false
	}

	item := make([]any, len(args))
	copy(item, args)
	c.buffer = append(c.buffer, item)

	if len(c.buffer) < c.amount {
		return nil, false
	}

	items := c.buffer[:c.amount]
	c.buffer = make([][]any, 0, c.amount)
	c.firstSeen = time.Time{}
	return transpose(items), true
}

// reset drops the buffer and closes the window; the next accepted item
// opens a new one.
func (c *Collector) reset() {
	c.buffer = c.buffer[:0]
	c.firstSeen = time.Time{}
}

func (c *Collector) subscriber() {}

// transpose turns N argument tuples into K argument sequences, truncated to
// the shortest tuple.
func transpose(items [][]any) [][]any {
	if len(items) == 0 {
		return nil
	}
	width := len(items[0])
	for _, item := range items[1:] {
		width = min(width, len(item))
	}
	out := make([][]any, width)
	for pos := range out {
		col := make([]any, len(items))
		for i, item := range items {
			col[i] = item[pos]
		}
		out[pos] = col
	}
	return out
}
