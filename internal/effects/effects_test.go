package effects

import (
	"errors"
	"testing"

	"github.com/ivlev/scrolly/internal/geometry"
	"github.com/ivlev/scrolly/internal/scope"
)

func TestEffects(t *testing.T) {
	g := geometry.Build([]float64{100, 200, 150})
	s := scope.Compute(g, scope.Sample{ScrollPosition: 200, WindowHeight: 100})
	end := 2

	tests := []struct {
		effect Effect
		want   float64
	}{
		{&Full{}, 200.0 / 450},
		{&Full{EndEarly: true}, 200.0 / 350},
		{&At{Index: 1}, 0.5},
		{&At{Index: -3}, 1},
		{&Between{Start: 1, End: &end}, 0.5},
		{&Between{Start: 1}, 100.0 / 350},
		{&Enter{Index: 2, Distance: 200}, 0.5},
		{&Enter{Index: 1}, 1},
		{&Exit{Index: 1, Distance: 200}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.effect.Name(), func(t *testing.T) {
			if got := tt.effect.Progress(s); abs(got-tt.want) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestEffectRegistry(t *testing.T) {
	tests := []struct {
		typ     string
		wantErr bool
	}{
		{"progress", false},
		{"", false}, // default
		{"at", false},
		{"between", false},
		{"enter", false},
		{"exit", false},
		{"parallax", true},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			effect, err := NewEffect(Spec{Type: tt.typ})

			if tt.wantErr {
				if !errors.Is(err, ErrUnknownEffect) {
					t.Errorf("Expected ErrUnknownEffect, got %v", err)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				if effect == nil {
					t.Error("Expected effect, got nil")
				}
			}
		})
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
