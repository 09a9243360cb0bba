// Package syncer keeps one media element's playback position on a progress signal.
//
// A Synchronizer polls the element once per tick, compares the frame it shows with
// the frame implied by the latest progress value and then plays forward faster,
// freezes, rewinds or snaps to an end. It owns the element's rewind state.
package syncer

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ivlev/scrolly/internal/media"
	"github.com/ivlev/scrolly/internal/playback"
	"github.com/ivlev/scrolly/internal/rewind"
	"github.com/ivlev/scrolly/internal/ticker"
)

// Options configure a Synchronizer. Zero values take the playback defaults.
type Options struct {
	Framerate float64
	MaxSpeed  float64
	Logger    *slog.Logger
	Observer  func(State) // Called after every applied decision
}

// State is a snapshot for overlays and reports.
type State struct {
	ID          string
	Loaded      bool
	Duration    float64
	Progress    float64
	TargetFrame float64
	ActualFrame float64
	Rate        float64
	Decision    playback.Kind
	Rewinding   bool
}

// inputs are the values a decision depends on; it is re-applied only when they change.
type inputs struct {
	rate, progress, targetFrame, duration float64
}

type Synchronizer struct {
	id     uuid.UUID
	media  media.Media
	sched  ticker.Scheduler
	rewind *rewind.Loop
	opts   Options
	logger *slog.Logger

	loaded      bool
	duration    float64
	progress    float64
	targetFrame float64
	actualFrame float64
	decision    playback.Decision

	last    inputs
	applied bool

	poll    ticker.Handle
	polling bool
}

// New creates a Synchronizer for m. Call Start to begin polling.
func New(m media.Media, s ticker.Scheduler, opts Options) *Synchronizer {
	if opts.Framerate <= 0 {
		opts.Framerate = playback.DefaultFramerate
	}
	if opts.MaxSpeed <= 0 {
		opts.MaxSpeed = playback.DefaultMaxSpeed
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.New()
	return &Synchronizer{
		id:     id,
		media:  m,
		sched:  s,
		rewind: rewind.New(m, s),
		opts:   opts,
		logger: logger.With("syncer", id.String()),
	}
}

// ID identifies this synchronizer in logs.
func (s *Synchronizer) ID() string { return s.id.String() }

// Start begins polling the element once per tick.
func (s *Synchronizer) Start() {
	if s.polling {
		return
	}
	s.polling = true
	s.poll = s.sched.Request(s.tick)
}

// Close stops polling and cancels a running rewind.
func (s *Synchronizer) Close() {
	if s.polling {
		s.sched.Cancel(s.poll)
		s.polling = false
	}
	s.rewind.Cancel()
	s.logger.Debug("syncer: closed")
}

// SetProgress sets the progress signal the element should follow.
func (s *Synchronizer) SetProgress(p float64) {
	s.progress = p
	if s.loaded {
		s.apply()
	}
}

// State returns a snapshot of the current control state.
func (s *Synchronizer) State() State {
	return State{
		ID:          s.ID(),
		Loaded:      s.loaded,
		Duration:    s.duration,
		Progress:    s.progress,
		TargetFrame: s.targetFrame,
		ActualFrame: s.actualFrame,
		Rate:        s.decision.Rate,
		Decision:    s.decision.Kind,
		Rewinding:   s.rewind.State() == rewind.Rewinding,
	}
}

func (s *Synchronizer) tick(time.Time) {
	s.poll = s.sched.Request(s.tick)

	if !s.loaded {
		if !s.media.Ready() {
			return
		}
		s.loaded = true
		s.duration = s.media.Duration()
		s.logger.Info("syncer: media loaded",
			"duration", s.duration,
			"framerate", s.opts.Framerate,
		)
	}

	s.actualFrame = playback.ActualFrame(s.media.CurrentTime(), s.opts.Framerate)
	s.apply()
}

func (s *Synchronizer) apply() {
	d := playback.Decide(playback.Input{
		Progress:    s.progress,
		Duration:    s.duration,
		Framerate:   s.opts.Framerate,
		MaxSpeed:    s.opts.MaxSpeed,
		ActualFrame: s.actualFrame,
	})
	s.targetFrame = d.TargetFrame
	s.decision = d

	in := inputs{rate: d.Rate, progress: s.progress, targetFrame: d.TargetFrame, duration: s.duration}
	if s.applied && in == s.last {
		return
	}
	s.last = in
	s.applied = true

	switch d.Kind {
	case playback.SnapStart, playback.SnapEnd:
		s.media.SetCurrentTime(d.Time)
	case playback.Forward:
		s.media.SetPlaybackRate(d.Rate)
		if s.media.Paused() {
			if err := s.media.Play(); err != nil {
				s.logger.Warn("syncer: play failed", "error", err)
			}
		}
	case playback.Rewind:
		s.media.Pause()
		if s.rewind.Request(d.Speed, s.rewindTarget) {
			s.logger.Debug("syncer: rewind started", "speed", d.Speed, "target", d.Time)
		}
	default:
		s.media.Pause()
	}

	if s.opts.Observer != nil {
		s.opts.Observer(s.State())
	}
}

// rewindTarget is read lazily by the rewind loop, so it follows the latest progress.
func (s *Synchronizer) rewindTarget() float64 {
	return playback.RewindTarget(s.targetFrame, s.opts.Framerate)
}
