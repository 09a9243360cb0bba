package config

import (
	"errors"
	"fmt"

	"github.com/ivlev/scrolly/internal/playback"
)

// ErrInvalid marks a configuration value outside its allowed range.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	WindowTop      float64 `yaml:"window_top"`
	WindowHeight   float64 `yaml:"window_height"` // 0 = viewport height
	ViewportHeight float64 `yaml:"viewport_height"`
	TriggerOffset  float64 `yaml:"trigger_offset"`
	DontUseSticky  bool    `yaml:"dont_use_sticky"` // Only echoed to clients that position the sticky layers
	Framerate      float64 `yaml:"framerate"`
	MaxSpeed       float64 `yaml:"maxspeed"`
	TickRate       int     `yaml:"tick_rate"` // Scheduler frames per second
	ShowStats      bool    `yaml:"show_stats"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		ViewportHeight: 720,
		Framerate:      playback.DefaultFramerate,
		MaxSpeed:       playback.DefaultMaxSpeed,
		TickRate:       60,
	}
}

// EffectiveWindowHeight falls back to the viewport when no window height is set.
func (c Config) EffectiveWindowHeight() float64 {
	if c.WindowHeight > 0 {
		return c.WindowHeight
	}
	return c.ViewportHeight
}

// Validate reports every out-of-range field.
func (c Config) Validate() error {
	var errs []error
	if c.Framerate <= 0 {
		errs = append(errs, fmt.Errorf("%w: framerate must be positive, got %v", ErrInvalid, c.Framerate))
	}
	if c.MaxSpeed <= 0 {
		errs = append(errs, fmt.Errorf("%w: maxspeed must be positive, got %v", ErrInvalid, c.MaxSpeed))
	}
	if c.WindowHeight < 0 {
		errs = append(errs, fmt.Errorf("%w: window_height must not be negative, got %v", ErrInvalid, c.WindowHeight))
	}
	if c.EffectiveWindowHeight() <= 0 {
		errs = append(errs, fmt.Errorf("%w: no window or viewport height", ErrInvalid))
	}
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalid, c.TickRate))
	}
	return errors.Join(errs...)
}
