package ticker

import (
	"sync"
	"time"
)

// Limiter coalesces calls so that fn runs at most once per tick,
// with the arguments of the most recent call.
type Limiter[T any] struct {
	sched Scheduler
	fn    func(T)

	mu      sync.Mutex
	pending bool
	handle  Handle
	args    T
}

// Limit wraps fn with a Limiter on s.
func Limit[T any](s Scheduler, fn func(T)) *Limiter[T] {
	return &Limiter[T]{sched: s, fn: fn}
}

// Call records args and schedules fn for the next tick unless already scheduled.
func (l *Limiter[T]) Call(args T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.args = args
	if l.pending {
		return
	}
	l.pending = true
	l.handle = l.sched.Request(l.fire)
}

// Stop drops a pending call.
func (l *Limiter[T]) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending {
		l.sched.Cancel(l.handle)
		l.pending = false
	}
}

func (l *Limiter[T]) fire(time.Time) {
	l.mu.Lock()
	args := l.args
	l.pending = false
	l.mu.Unlock()
	l.fn(args)
}
