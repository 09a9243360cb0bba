package media

import "time"

// Simulated is an in-memory video element. Time only moves when Advance is called.
type Simulated struct {
	duration    float64
	current     float64
	rate        float64
	paused      bool
	ready       bool
	seekLatency time.Duration
	seekLeft    time.Duration

	Seeks int // Number of SetCurrentTime calls
	Plays int // Number of Play calls that resumed playback
}

// NewSimulated creates a paused, loaded element. A non-zero seekLatency keeps
// Seeking() true for that long after every SetCurrentTime.
func NewSimulated(duration float64, seekLatency time.Duration) *Simulated {
	return &Simulated{
		duration:    duration,
		rate:        1,
		paused:      true,
		ready:       true,
		seekLatency: seekLatency,
	}
}

// SetReady toggles the loaded state.
func (s *Simulated) SetReady(ready bool) { s.ready = ready }

func (s *Simulated) Ready() bool          { return s.ready }
func (s *Simulated) Duration() float64    { return s.duration }
func (s *Simulated) CurrentTime() float64 { return s.current }
func (s *Simulated) Paused() bool         { return s.paused }
func (s *Simulated) Seeking() bool        { return s.seekLeft > 0 }

// PlaybackRate returns the current playback multiplier.
func (s *Simulated) PlaybackRate() float64 { return s.rate }

func (s *Simulated) SetCurrentTime(t float64) {
	s.current = clampTime(t, s.duration)
	s.seekLeft = s.seekLatency
	s.Seeks++
}

func (s *Simulated) Play() error {
	if !s.ready {
		return ErrNotReady
	}
	if s.paused {
		s.paused = false
		s.Plays++
	}
	return nil
}

func (s *Simulated) Pause() { s.paused = true }

func (s *Simulated) SetPlaybackRate(rate float64) { s.rate = rate }

// Advance moves the element forward by dt of wall time.
// Playback stops at the end of the media, as an ended video does.
func (s *Simulated) Advance(dt time.Duration) {
	if s.seekLeft > 0 {
		s.seekLeft -= dt
		if s.seekLeft < 0 {
			s.seekLeft = 0
		}
	}
	if s.paused || !s.ready {
		return
	}
	s.current += s.rate * dt.Seconds()
	if s.current >= s.duration {
		s.current = s.duration
		s.paused = true
	}
}

func clampTime(t, duration float64) float64 {
	if t < 0 {
		return 0
	}
	if t > duration {
		return duration
	}
	return t
}
