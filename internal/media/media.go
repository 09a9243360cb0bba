// Package media defines the control surface of a playable media element.
package media

import "errors"

// ErrNotReady is returned by Play before the element has loaded its data.
var ErrNotReady = errors.New("media not ready")

// Media is the subset of a video element the synchronizer reads and drives.
type Media interface {
	Ready() bool
	Duration() float64    // Seconds
	CurrentTime() float64 // Seconds
	SetCurrentTime(t float64)
	Paused() bool
	Seeking() bool
	Play() error
	Pause()
	SetPlaybackRate(rate float64)
}
