// Package executor runs background work on a shared bounded worker pool.
//
// Pool accepts work immediately (Submit) or after a delay (SubmitAfter).
// Serial runs callbacks one at a time in submission order and is used to
// deliver results to whatever owns the user-facing surface.
package executor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// DefaultWorkers is the pool size used when a non-positive size is requested.
const DefaultWorkers = 2

// ErrClosed is returned when submitting to a closed executor.
var ErrClosed = errors.New("executor closed")

// Task is a unit of work. The context is cancelled once the pool has
// drained during Close.
type Task = func(ctx context.Context)

// Pool is a bounded worker pool with immediate and delayed submission.
type Pool struct {
	mu     sync.RWMutex
	closed bool
	timers map[*time.Timer]struct{}

	workers *pool.ContextPool
	cancel  context.CancelFunc
}

// New creates a pool running at most workers tasks at once.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		timers:  make(map[*time.Timer]struct{}),
		workers: pool.New().WithMaxGoroutines(workers).WithContext(ctx),
		cancel:  cancel,
	}
}

// Submit schedules task to run as soon as a worker is free.
// Blocks while all workers are busy.
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	p.workers.Go(func(ctx context.Context) error {
		task(ctx)
		return nil
	})
	return nil
}

// SubmitAfter schedules task to be submitted once delay has elapsed.
// A task whose timer has not fired when the pool closes never runs.
func (p *Pool) SubmitAfter(delay time.Duration, task Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		p.mu.Lock()
		delete(p.timers, timer)
		p.mu.Unlock()
		// Rejected only when Close won the race with this timer.
		_ = p.Submit(task)
	})
	p.timers[timer] = struct{}{}
	return nil
}

// Pending returns the number of delayed tasks whose timers have not fired.
func (p *Pool) Pending() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.timers)
}

// Close stops pending timers, rejects further submissions and waits for
// running tasks to finish. Calling Close more than once is a no-op.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for t := range p.timers {
		t.Stop()
		delete(p.timers, t)
	}
	p.mu.Unlock()

	_ = p.workers.Wait()
	p.cancel()
}

// Serial runs functions one at a time in the order they were dispatched.
type Serial struct {
	pool *Pool
}

// NewSerial creates a single-worker dispatcher.
func NewSerial() *Serial {
	return &Serial{pool: New(1)}
}

// Dispatch queues fn behind every previously dispatched function.
func (s *Serial) Dispatch(fn func()) error {
	return s.pool.Submit(func(context.Context) { fn() })
}

// Close waits for dispatched functions to finish.
func (s *Serial) Close() {
	s.pool.Close()
}
