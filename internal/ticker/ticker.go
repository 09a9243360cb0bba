// Package ticker provides the per-refresh scheduling primitive the engines run on.
//
// A Scheduler runs requested callbacks once, on its next tick, serially. Callbacks
// requested while a tick is running wait for the following tick.
package ticker

import (
	"context"
	"sync"
	"time"
)

// Handle identifies a pending callback.
type Handle uint64

// Scheduler is a host-agnostic "request the next frame" API.
type Scheduler interface {
	Now() time.Time
	Request(fn func(now time.Time)) Handle
	Cancel(h Handle)
}

// queue holds pending callbacks in request order.
type queue struct {
	mu    sync.Mutex
	seq   Handle
	order []Handle
	fns   map[Handle]func(time.Time)
}

func (q *queue) request(fn func(time.Time)) Handle {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.fns == nil {
		q.fns = make(map[Handle]func(time.Time))
	}
	q.seq++
	q.fns[q.seq] = fn
	q.order = append(q.order, q.seq)
	return q.seq
}

func (q *queue) cancel(h Handle) {
	q.mu.Lock()
	delete(q.fns, h)
	q.mu.Unlock()
}

func (q *queue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.fns)
}

// run executes the callbacks that were pending when the tick started.
func (q *queue) run(now time.Time) int {
	q.mu.Lock()
	batch := q.order
	q.order = nil
	q.mu.Unlock()

	ran := 0
	for _, h := range batch {
		q.mu.Lock()
		fn, ok := q.fns[h]
		delete(q.fns, h)
		q.mu.Unlock()
		if ok {
			fn(now)
			ran++
		}
	}
	return ran
}

// Manual is a deterministic scheduler advanced explicitly by Tick.
type Manual struct {
	q   queue
	mu  sync.Mutex
	now time.Time
}

// NewManual creates a Manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Request(fn func(now time.Time)) Handle {
	return m.q.request(fn)
}

func (m *Manual) Cancel(h Handle) {
	m.q.cancel(h)
}

// Pending reports how many callbacks wait for the next tick.
func (m *Manual) Pending() int {
	return m.q.pending()
}

// Tick advances the clock by dt and runs one frame. It returns the number of callbacks run.
func (m *Manual) Tick(dt time.Duration) int {
	m.mu.Lock()
	m.now = m.now.Add(dt)
	now := m.now
	m.mu.Unlock()
	return m.q.run(now)
}

// Run ticks n frames of dt each.
func (m *Manual) Run(n int, dt time.Duration) {
	for i := 0; i < n; i++ {
		m.Tick(dt)
	}
}

// Ticker is a wall-clock scheduler. Frames are produced by Start at a fixed interval.
type Ticker struct {
	q        queue
	interval time.Duration
}

// NewTicker creates a Ticker; fps <= 0 falls back to 60 frames per second.
func NewTicker(fps int) *Ticker {
	if fps <= 0 {
		fps = 60
	}
	return &Ticker{interval: time.Second / time.Duration(fps)}
}

func (t *Ticker) Now() time.Time {
	return time.Now()
}

func (t *Ticker) Request(fn func(now time.Time)) Handle {
	return t.q.request(fn)
}

func (t *Ticker) Cancel(h Handle) {
	t.q.cancel(h)
}

// Start runs frames until ctx is done. All callbacks execute on the calling goroutine.
func (t *Ticker) Start(ctx context.Context) error {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-tk.C:
			t.q.run(now)
		}
	}
}
