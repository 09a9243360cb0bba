package scope

import (
	"math"
	"sort"

	"github.com/ivlev/scrolly/internal/geometry"
)

// Sample is one observation of the scroll container.
type Sample struct {
	ScrollPosition float64 // Distance scrolled past the content top, may be negative
	TriggerOffset  float64
	WindowHeight   float64 // Used by Progress.EndEarly
}

// Scope describes where the scroll position sits relative to the block checkpoints.
// It is a pure function of the geometry and the sample; the checkpoints slice is
// shared with the geometry and must not be modified.
type Scope struct {
	SlideIndex     int
	SlideCount     int
	ScrollPosition float64
	ScrollLength   float64
	FromPrevSlide  float64 // +Inf before the first block
	ToNextSlide    float64 // +Inf past the last block
	Active         bool
	TriggerOffset  float64
	WindowHeight   float64

	checkpoints []float64
}

// Compute builds the scope for a scroll sample.
func Compute(g geometry.Geometry, s Sample) Scope {
	cps := g.Checkpoints
	if len(cps) == 0 {
		cps = []float64{0}
	}
	scrollLength := cps[len(cps)-1]
	offsetPosition := s.ScrollPosition - s.TriggerOffset

	// checkpoints are sorted, so the count of those <= offsetPosition is a binary search
	passed := sort.Search(len(cps), func(i int) bool { return cps[i] > offsetPosition })
	slideIndex := passed - 1

	fromPrevSlide := math.Inf(1)
	if offsetPosition >= 0 {
		fromPrevSlide = offsetPosition - at(cps, slideIndex)
	}
	toNextSlide := math.Inf(1)
	if offsetPosition < scrollLength {
		toNextSlide = at(cps, slideIndex+1) - offsetPosition
	}

	return Scope{
		SlideIndex:     slideIndex,
		SlideCount:     len(cps) - 1,
		ScrollPosition: s.ScrollPosition,
		ScrollLength:   scrollLength,
		FromPrevSlide:  fromPrevSlide,
		ToNextSlide:    toNextSlide,
		Active:         s.ScrollPosition >= 0 && s.ScrollPosition < scrollLength,
		TriggerOffset:  s.TriggerOffset,
		WindowHeight:   s.WindowHeight,
		checkpoints:    cps,
	}
}

// Checkpoints returns a copy of the checkpoints the scope was computed from.
func (s Scope) Checkpoints() []float64 {
	out := make([]float64, len(s.checkpoints))
	copy(out, s.checkpoints)
	return out
}

// Enter ramps from 0 to 1 over the distance ending at the top of block index.
// With zero distance it is a step that turns 1 once the checkpoint is reached.
func (s Scope) Enter(index int, distance float64) float64 {
	return s.EnterAt(index, distance, s.TriggerOffset)
}

// EnterAt is Enter with an explicit trigger offset.
func (s Scope) EnterAt(index int, distance, offset float64) float64 {
	index = normalize(index, s.SlideCount)
	v1 := at(s.checkpoints, index)
	v0 := v1 - distance
	v := s.ScrollPosition - offset
	if distance == 0 {
		if v >= v1 {
			return 1
		}
		return 0
	}
	return ClampedInterpolate(v, v0, v1)
}

// Exit is evaluated against the bottom checkpoint of block index.
// With zero distance it is 1 until the checkpoint is reached and 0 afterwards.
func (s Scope) Exit(index int, distance float64) float64 {
	return s.ExitAt(index, distance, s.TriggerOffset)
}

// ExitAt is Exit with an explicit trigger offset.
func (s Scope) ExitAt(index int, distance, offset float64) float64 {
	index = normalize(index, s.SlideCount)
	v0 := at(s.checkpoints, index+1)
	v1 := v0 - distance
	v := s.ScrollPosition - offset
	if distance == 0 {
		if v >= v0 {
			return 0
		}
		return 1
	}
	return ClampedInterpolate(v, v0, v1)
}

// Progress spans the whole scroll length.
func (s Scope) Progress() Progress {
	return s.progress(0, len(s.checkpoints)-1)
}

func (s Scope) progress(start, end int) Progress {
	return Progress{
		start:          start,
		end:            end,
		checkpoints:    s.checkpoints,
		scrollPosition: s.ScrollPosition,
		triggerOffset:  s.TriggerOffset,
		windowHeight:   s.WindowHeight,
	}
}

// at reads a checkpoint; out-of-range access yields NaN rather than a panic.
func at(cps []float64, i int) float64 {
	if i < 0 || i >= len(cps) {
		return math.NaN()
	}
	return cps[i]
}
