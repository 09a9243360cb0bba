// Package director writes scroll scripts that tour a layout block by block.
package director

import (
	"fmt"

	"github.com/ivlev/scrolly/internal/geometry"
	"github.com/ivlev/scrolly/internal/timeline"
)

// Director generates scroll scripts from block heights
type Director struct {
	MinDwell float64 // Minimum time per block (seconds)
	MaxDwell float64 // Maximum time per block (seconds)
	Travel   float64 // Time to scroll from one block to the next (seconds)
}

// NewDirector creates a new Director with default settings
func NewDirector() *Director {
	return &Director{
		MinDwell: 1.0,
		MaxDwell: 3.0,
		Travel:   0.8,
	}
}

// GenerateScroll stops on the top of every block in turn, then scrolls to the end
// of the layout. triggerOffset shifts the stops so each block triggers exactly
// on arrival.
func (d *Director) GenerateScroll(heights []float64, totalDuration, triggerOffset float64) ([]timeline.Keyframe, error) {
	if len(heights) == 0 {
		return nil, fmt.Errorf("no blocks to visit")
	}

	g := geometry.Build(heights)
	dwell := d.calculateDwellTime(totalDuration, len(heights))

	keyframes := []timeline.Keyframe{{Time: 0, Position: triggerOffset}}
	t := 0.0
	for i := 0; i < g.SlideCount(); i++ {
		pos := g.Checkpoint(i) + triggerOffset
		if i > 0 {
			t += d.Travel
			keyframes = append(keyframes, timeline.Keyframe{Time: t, Position: pos})
		}
		t += dwell
		keyframes = append(keyframes, timeline.Keyframe{Time: t, Position: pos, Ease: "linear"})
	}

	t += d.Travel
	keyframes = append(keyframes, timeline.Keyframe{Time: t, Position: g.ScrollLength + triggerOffset})
	return keyframes, nil
}

// calculateDwellTime determines how long to stay on each block
func (d *Director) calculateDwellTime(totalDuration float64, blockCount int) float64 {
	if totalDuration <= 0 {
		return d.MaxDwell
	}

	dwellTime := (totalDuration - d.Travel*float64(blockCount)) / float64(blockCount)

	// Clamp to min/max
	if dwellTime < d.MinDwell {
		dwellTime = d.MinDwell
	}
	if dwellTime > d.MaxDwell {
		dwellTime = d.MaxDwell
	}

	return dwellTime
}
