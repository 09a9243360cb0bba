// Package rewind scrubs a media element backward toward a target time.
//
// Browsers cannot play video in reverse, so reverse playback is emulated by
// stepping currentTime down once per tick. The target may move between ticks;
// it is re-evaluated every frame and never overshot.
package rewind

import (
	"math"
	"time"

	"github.com/ivlev/scrolly/internal/media"
	"github.com/ivlev/scrolly/internal/ticker"
)

// State of a Loop.
type State int

const (
	Idle State = iota
	Rewinding
)

func (s State) String() string {
	if s == Rewinding {
		return "rewinding"
	}
	return "idle"
}

// Loop is the rewind state machine of one media element. It is not safe for
// concurrent use; drive it from the scheduler's goroutine.
type Loop struct {
	media media.Media
	sched ticker.Scheduler

	state  State
	speed  float64
	target func() float64
	t0     time.Time
	v0     float64
	handle ticker.Handle
}

// New creates an idle Loop.
func New(m media.Media, s ticker.Scheduler) *Loop {
	return &Loop{media: m, sched: s, speed: 1}
}

// State returns the current state.
func (l *Loop) State() State { return l.state }

// Speed returns the rewind speed in media seconds per wall second.
func (l *Loop) Speed() float64 { return l.speed }

// Request starts rewinding toward target() at speed. While a rewind is already
// running the request is ignored, except that the running loop picks up the new
// speed on its next tick. It reports whether a new rewind was started.
func (l *Loop) Request(speed float64, target func() float64) bool {
	l.speed = speed
	if l.state == Rewinding {
		return false
	}

	l.state = Rewinding
	l.target = target
	l.t0 = l.sched.Now()
	l.v0 = l.media.CurrentTime()
	l.handle = l.sched.Request(l.tick)
	return true
}

// Cancel stops a running rewind. The media time stays where it is.
func (l *Loop) Cancel() {
	if l.state != Rewinding {
		return
	}
	l.sched.Cancel(l.handle)
	l.stop()
}

func (l *Loop) tick(now time.Time) {
	target := l.target()
	if math.IsNaN(target) || l.media.CurrentTime() <= target {
		l.stop()
		return
	}

	// Now() and the tick time may come from different clocks
	dt := math.Max(now.Sub(l.t0).Seconds(), 0)
	v1 := math.Max(l.v0-l.speed*dt, target)
	// assigning mid-seek would restart the seek, so only the bookkeeping advances
	if !l.media.Seeking() {
		l.media.SetCurrentTime(v1)
	}
	l.t0 = now
	l.v0 = v1
	l.handle = l.sched.Request(l.tick)
}

func (l *Loop) stop() {
	l.state = Idle
	l.target = nil
}
