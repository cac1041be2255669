// Package debounce collapses bursts of calls to an asynchronous function into
// a single deferred invocation.
//
// Every call made while an invocation is still scheduled joins the same
// window and receives the same *Call. The window closes when the timer fires
// and the function is dispatched; the next call opens a new window with a new
// *Call.
package debounce

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStopped settles a window that was still scheduled when Stop was called.
var ErrStopped = errors.New("debouncer stopped")

// Func is the function being debounced.
type Func[A, R any] func(ctx context.Context, arg A) (R, error)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. The default uses time.AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type settings struct {
	clock Clock
}

type Option func(*settings)

// WithClock replaces the clock used to schedule invocations.
func WithClock(c Clock) Option {
	return func(s *settings) { s.clock = c }
}

// Call is the shared outcome of one debounce window.
type Call[R any] struct {
	done chan struct{}
	val  R
	err  error
}

func newCall[R any]() *Call[R] {
	return &Call[R]{done: make(chan struct{})}
}

func (c *Call[R]) settle(val R, err error) {
	c.val, c.err = val, err
	close(c.done)
}

// Done is closed once the call has settled.
func (c *Call[R]) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call settles or ctx is done. Giving up on ctx does not
// affect the call or anyone else waiting on it.
func (c *Call[R]) Wait(ctx context.Context) (R, error) {
	select {
	case <-c.done:
		return c.val, c.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Debouncer owns one timer and at most one open window.
type Debouncer[A, R any] struct {
	fn    Func[A, R]
	wait  time.Duration
	clock Clock

	mu     sync.Mutex
	timer  Timer
	gen    uint64
	window *Call[R]
	ctx    context.Context
	arg    A
}

// New wraps fn so that calls within wait of each other collapse into one.
func New[A, R any](fn Func[A, R], wait time.Duration, opts ...Option) *Debouncer[A, R] {
	s := settings{clock: realClock{}}
	for _, opt := range opts {
		opt(&s)
	}
	return &Debouncer[A, R]{fn: fn, wait: wait, clock: s.clock}
}

// Do schedules fn(ctx, arg) after the debounce duration, superseding any
// invocation still scheduled, and returns the window's shared call.
func (d *Debouncer[A, R]) Do(ctx context.Context, arg A) *Call[R] {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	if d.window == nil {
		d.window = newCall[R]()
	}

	d.gen++
	gen := d.gen
	d.ctx, d.arg = ctx, arg
	d.timer = d.clock.AfterFunc(d.wait, func() { d.fire(gen) })

	return d.window
}

// fire runs the scheduled invocation unless a later Do or Stop superseded it.
// A timer that already started when Stop was called is caught by the
// generation check.
func (d *Debouncer[A, R]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.window == nil {
		d.mu.Unlock()
		return
	}
	call, ctx, arg := d.window, d.ctx, d.arg
	d.window, d.timer, d.ctx = nil, nil, nil
	var zero A
	d.arg = zero
	d.mu.Unlock()

	val, err := d.fn(ctx, arg)
	call.settle(val, err)
}

// Stop cancels the scheduled invocation, if any, settling its window with
// ErrStopped. Invocations already dispatched run to completion.
func (d *Debouncer[A, R]) Stop() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	call := d.window
	d.window, d.timer, d.ctx = nil, nil, nil
	var zero A
	d.arg = zero
	d.mu.Unlock()

	if call != nil {
		var none R
		call.settle(none, ErrStopped)
	}
}
