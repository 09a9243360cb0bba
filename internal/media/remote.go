package media

import "sync"

// State is what a remote player reports about itself.
type State struct {
	Ready       bool    `json:"ready"`
	Duration    float64 `json:"duration"`
	CurrentTime float64 `json:"current_time"`
	Paused      bool    `json:"paused"`
	Seeking     bool    `json:"seeking"`
}

// Command is an instruction for a remote player.
type Command struct {
	Op    string  `json:"op"` // seek, play, pause, rate
	Value float64 `json:"value,omitempty"`
}

// Remote mirrors a player on the other side of a connection. Reads return the
// last reported state; writes update the mirror and queue commands for Drain.
type Remote struct {
	mu       sync.Mutex
	state    State
	lastRate float64
	out      []Command
}

// NewRemote creates a mirror of a paused, unloaded player.
func NewRemote() *Remote {
	return &Remote{state: State{Paused: true}, lastRate: 1}
}

// Report replaces the mirrored state.
func (r *Remote) Report(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Drain returns and clears the queued commands.
func (r *Remote) Drain() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.out
	r.out = nil
	return out
}

func (r *Remote) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Ready
}

func (r *Remote) Duration() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Duration
}

func (r *Remote) CurrentTime() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.CurrentTime
}

func (r *Remote) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Paused
}

func (r *Remote) Seeking() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Seeking
}

func (r *Remote) SetCurrentTime(t float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.CurrentTime = t
	r.out = append(r.out, Command{Op: "seek", Value: t})
}

func (r *Remote) Play() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.state.Ready {
		return ErrNotReady
	}
	r.state.Paused = false
	r.out = append(r.out, Command{Op: "play"})
	return nil
}

func (r *Remote) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Paused {
		return
	}
	r.state.Paused = true
	r.out = append(r.out, Command{Op: "pause"})
}

func (r *Remote) SetPlaybackRate(rate float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rate == r.lastRate {
		return
	}
	r.lastRate = rate
	r.out = append(r.out, Command{Op: "rate", Value: rate})
}
