package timeline

import (
	"fmt"

	"github.com/ivlev/scrolly/internal/analyzer"
	"github.com/ivlev/scrolly/internal/config"
	"github.com/ivlev/scrolly/internal/effects"
	"github.com/ivlev/scrolly/internal/source"
)

// Scenario describes a scroll container, the videos bound to it and a scripted scroll
type Scenario struct {
	Version string        `yaml:"version"`
	Config  config.Config `yaml:"config"`
	Layout  Layout        `yaml:"layout"`
	Videos  []Video       `yaml:"videos,omitempty"`
	Scroll  []Keyframe    `yaml:"scroll,omitempty"`
}

// Layout lists block heights directly or points at a PDF/image source to measure
type Layout struct {
	Heights []float64 `yaml:"heights,omitempty"`
	Source  string    `yaml:"source,omitempty"`  // PDF file, image file or image directory
	Segment string    `yaml:"segment,omitempty"` // Detector splitting a single page image into blocks
	Width   float64   `yaml:"width,omitempty"`   // Layout width the source is scaled to
}

// Open returns the listed heights as a source, or opens the measured source
func (l Layout) Open() (source.Source, error) {
	if len(l.Heights) > 0 || l.Source == "" {
		return source.Static(l.Heights), nil
	}
	if l.Segment != "" {
		det, err := analyzer.NewDetector(l.Segment)
		if err != nil {
			return nil, err
		}
		return source.NewSegmentedSource(l.Source, l.Width, det), nil
	}
	return source.Open(l.Source, l.Width)
}

// Measure reads the block heights once and releases the source
func (l Layout) Measure() ([]float64, error) {
	src, err := l.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	heights, err := src.Heights()
	if err != nil {
		return nil, fmt.Errorf("measure %s: %w", l.Source, err)
	}
	return heights, nil
}

// Video is one media element scrubbed by the scroll
type Video struct {
	Name        string       `yaml:"name"`
	File        string       `yaml:"file,omitempty"`     // Probed for duration when Duration is 0
	Duration    float64      `yaml:"duration,omitempty"` // Seconds
	Framerate   float64      `yaml:"framerate,omitempty"`
	MaxSpeed    float64      `yaml:"maxspeed,omitempty"`
	SeekLatency float64      `yaml:"seek_latency,omitempty"` // Seconds, simulation only
	Effect      effects.Spec `yaml:"effect,omitempty"`
}

// Keyframe is the scroll position at a moment of the script
type Keyframe struct {
	Time     float64 `yaml:"time"`           // Seconds from start
	Position float64 `yaml:"position"`       // Scroll position in layout units
	Ease     string  `yaml:"ease,omitempty"` // "linear" or "ease" (default)
}

// Duration is the time of the last keyframe
func (s *Scenario) Duration() float64 {
	if len(s.Scroll) == 0 {
		return 0
	}
	return s.Scroll[len(s.Scroll)-1].Time
}
