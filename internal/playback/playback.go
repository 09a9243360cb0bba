// Package playback maps a progress signal onto video frames and derives the
// playback control signal that pulls the video toward the target frame.
//
// Frames are carried as float64 holding integral values so that a NaN progress
// flows through as NaN and ends up as a Hold decision instead of a bogus frame.
package playback

import "math"

const (
	DefaultFramerate = 60
	DefaultMaxSpeed  = 4
)

// TargetFrame is the frame implied by progress through a video of duration seconds.
func TargetFrame(progress, duration, framerate float64) float64 {
	return math.Floor(progress * duration * framerate)
}

// ActualFrame is the frame the video currently shows.
func ActualFrame(currentTime, framerate float64) float64 {
	return math.Floor(currentTime * framerate)
}

// Rate is the saturating control law. Positive values are forward playback
// multipliers, negative values rewind speeds. The +1 on the negative branch keeps
// the video from toggling between directions at equilibrium.
func Rate(targetFrame, actualFrame, maxspeed float64) float64 {
	diff := targetFrame - actualFrame
	if diff >= 0 {
		return math.Min(diff, maxspeed)
	}
	return math.Max(diff+1, -maxspeed)
}

// RewindTarget is the media time a rewind toward targetFrame stops at.
func RewindTarget(targetFrame, framerate float64) float64 {
	return (targetFrame + 1) / framerate
}

// Kind is the action a Decision asks for.
type Kind int

const (
	Hold Kind = iota
	Forward
	Rewind
	SnapStart
	SnapEnd
)

func (k Kind) String() string {
	switch k {
	case Hold:
		return "hold"
	case Forward:
		return "forward"
	case Rewind:
		return "rewind"
	case SnapStart:
		return "snap-start"
	case SnapEnd:
		return "snap-end"
	default:
		return "unknown"
	}
}

// Input is everything the controller looks at on one evaluation.
type Input struct {
	Progress    float64
	Duration    float64
	Framerate   float64
	MaxSpeed    float64
	ActualFrame float64
}

// Decision is the controller output.
type Decision struct {
	Kind        Kind
	TargetFrame float64
	Rate        float64 // Raw control signal
	Speed       float64 // Rewind speed, seconds of media per second
	Time        float64 // Snap time, or the rewind target at decision time
}

// Decide applies the control policy, including the boundary snaps that keep a
// saturated rewind from crawling toward the very start or end of the video.
func Decide(in Input) Decision {
	target := TargetFrame(in.Progress, in.Duration, in.Framerate)
	rate := Rate(target, in.ActualFrame, in.MaxSpeed)
	d := Decision{TargetFrame: target, Rate: rate}

	switch {
	case in.Progress <= 0 && rate <= -in.MaxSpeed:
		d.Kind = SnapStart
		d.Time = 0
	case in.Progress >= 1 && rate >= in.MaxSpeed:
		d.Kind = SnapEnd
		d.Time = in.Duration
	case rate > 0:
		d.Kind = Forward
	case rate < 0:
		d.Kind = Rewind
		d.Speed = -rate
		d.Time = RewindTarget(target, in.Framerate)
	default:
		d.Kind = Hold
	}
	return d
}
