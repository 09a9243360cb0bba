package config

import (
	"errors"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Framerate != 60 || cfg.MaxSpeed != 4 {
		t.Errorf("Expected framerate 60 and maxspeed 4, got %v and %v", cfg.Framerate, cfg.MaxSpeed)
	}
	if cfg.WindowTop != 0 || cfg.TriggerOffset != 0 || cfg.DontUseSticky {
		t.Errorf("Unexpected non-zero window defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config invalid: %v", err)
	}
}

func TestEffectiveWindowHeight(t *testing.T) {
	cfg := Default()
	if got := cfg.EffectiveWindowHeight(); got != 720 {
		t.Errorf("Expected viewport fallback 720, got %v", got)
	}
	cfg.WindowHeight = 500
	if got := cfg.EffectiveWindowHeight(); got != 500 {
		t.Errorf("Expected 500, got %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"zero framerate", func(c *Config) { c.Framerate = 0 }, true},
		{"negative maxspeed", func(c *Config) { c.MaxSpeed = -1 }, true},
		{"negative window", func(c *Config) { c.WindowHeight = -10 }, true},
		{"no heights at all", func(c *Config) { c.ViewportHeight = 0 }, true},
		{"window without viewport", func(c *Config) { c.ViewportHeight = 0; c.WindowHeight = 300 }, false},
		{"zero tick rate", func(c *Config) { c.TickRate = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("Expected ErrInvalid, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
