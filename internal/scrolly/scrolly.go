// Package scrolly tracks a scroll container made of stacked blocks and hands the
// resulting scope to render callbacks, at most once per tick.
package scrolly

import (
	"log/slog"
	"time"

	"github.com/ivlev/scrolly/internal/config"
	"github.com/ivlev/scrolly/internal/geometry"
	"github.com/ivlev/scrolly/internal/scope"
	"github.com/ivlev/scrolly/internal/source"
	"github.com/ivlev/scrolly/internal/ticker"
)

// RenderFunc receives the scope computed for a tick.
type RenderFunc func(s scope.Scope)

// Scroller owns the heights, the scroll position and the window settings.
// Scroll, ScrollContainer, Resize and Refresh may be called from any goroutine;
// the work runs on the scheduler's next tick, and so do the render callbacks.
type Scroller struct {
	cfg    config.Config
	src    source.Source
	logger *slog.Logger

	geom         geometry.Geometry
	position     float64
	windowHeight float64
	current      scope.Scope
	renders      []RenderFunc

	scroll  *ticker.Limiter[float64]
	resize  *ticker.Limiter[float64]
	refresh *ticker.Limiter[source.Source]
	reconf  *ticker.Limiter[config.Config]
}

// New creates a Scroller. Until the first measurement the content is a single
// block one window tall.
func New(cfg config.Config, sched ticker.Scheduler, src source.Source, logger *slog.Logger) *Scroller {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scroller{
		cfg:          cfg,
		src:          src,
		logger:       logger,
		windowHeight: cfg.EffectiveWindowHeight(),
	}
	s.geom = geometry.Build([]float64{s.windowHeight})
	s.current = s.compute()

	s.scroll = ticker.Limit(sched, s.handleScroll)
	s.resize = ticker.Limit(sched, s.handleResize)
	s.refresh = ticker.Limit(sched, s.handleRefresh)
	s.reconf = ticker.Limit(sched, s.handleReconfigure)
	return s
}

// PositionFromTop converts the container's top edge in viewport coordinates into
// a scroll position relative to the window top.
func PositionFromTop(windowTop, containerTop float64) float64 {
	return windowTop - containerTop
}

// OnRender registers a render callback.
func (s *Scroller) OnRender(fn RenderFunc) {
	s.renders = append(s.renders, fn)
}

// Scroll reports a new scroll position.
func (s *Scroller) Scroll(position float64) {
	s.scroll.Call(position)
}

// ScrollContainer reports the container's top edge in viewport coordinates.
func (s *Scroller) ScrollContainer(containerTop float64) {
	s.scroll.Call(PositionFromTop(s.cfg.WindowTop, containerTop))
}

// Resize reports a new viewport height.
func (s *Scroller) Resize(viewportHeight float64) {
	s.resize.Call(viewportHeight)
}

// Refresh replaces the height source and re-measures on the next tick.
func (s *Scroller) Refresh(src source.Source) {
	s.refresh.Call(src)
}

// Reconfigure replaces the window settings on the next tick.
func (s *Scroller) Reconfigure(cfg config.Config) {
	s.reconf.Call(cfg)
}

// Scope returns the last computed scope. Call it from the scheduler goroutine.
func (s *Scroller) Scope() scope.Scope { return s.current }

// Geometry returns the current geometry. Call it from the scheduler goroutine.
func (s *Scroller) Geometry() geometry.Geometry { return s.geom }

// Stop drops pending triggers.
func (s *Scroller) Stop() {
	s.scroll.Stop()
	s.resize.Stop()
	s.refresh.Stop()
	s.reconf.Stop()
}

func (s *Scroller) handleScroll(position float64) {
	s.measure()
	s.position = position
	s.emit()
}

func (s *Scroller) handleResize(viewportHeight float64) {
	s.measure()
	s.windowHeight = viewportHeight
	if s.cfg.WindowHeight > 0 {
		s.windowHeight = s.cfg.WindowHeight
	}
	s.emit()
}

func (s *Scroller) handleRefresh(src source.Source) {
	s.src = src
	s.measure()
	s.emit()
}

// handleReconfigure keeps a window height learned from Resize unless the new
// config fixes one or the old config had fixed it.
func (s *Scroller) handleReconfigure(cfg config.Config) {
	wasFixed := s.cfg.WindowHeight > 0
	s.cfg = cfg
	switch {
	case cfg.WindowHeight > 0:
		s.windowHeight = cfg.WindowHeight
	case wasFixed:
		s.windowHeight = cfg.ViewportHeight
	}
	s.measure()
	s.emit()
}

// measure rebuilds the geometry from the source. A failed measurement keeps the
// previous geometry.
func (s *Scroller) measure() {
	if s.src == nil {
		return
	}
	start := time.Now()
	heights, err := s.src.Heights()
	if err != nil {
		s.logger.Warn("scrolly: measure failed, keeping previous geometry", "error", err)
		return
	}
	s.geom = geometry.Build(heights)
	s.logger.Debug("scrolly: measured",
		"blocks", len(heights),
		"scroll_length", s.geom.ScrollLength,
		"took", time.Since(start),
	)
}

func (s *Scroller) compute() scope.Scope {
	return scope.Compute(s.geom, scope.Sample{
		ScrollPosition: s.position,
		TriggerOffset:  s.cfg.TriggerOffset,
		WindowHeight:   s.windowHeight,
	})
}

func (s *Scroller) emit() {
	s.current = s.compute()
	for _, fn := range s.renders {
		fn(s.current)
	}
}
