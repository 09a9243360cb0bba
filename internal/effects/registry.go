package effects

import (
	"errors"
	"fmt"
)

// ErrUnknownEffect is returned for an unsupported effect type.
var ErrUnknownEffect = errors.New("unknown effect")

// Spec is the scenario-file description of an effect.
type Spec struct {
	Type     string  `yaml:"type"` // progress, at, between, enter, exit
	Index    int     `yaml:"index,omitempty"`
	Start    int     `yaml:"start,omitempty"`
	End      *int    `yaml:"end,omitempty"`
	Distance float64 `yaml:"distance,omitempty"`
	EndEarly bool    `yaml:"end_early,omitempty"`
}

// NewEffect creates an effect based on the specified type
func NewEffect(spec Spec) (Effect, error) {
	switch spec.Type {
	case "progress", "":
		return &Full{EndEarly: spec.EndEarly}, nil
	case "at":
		return &At{Index: spec.Index, EndEarly: spec.EndEarly}, nil
	case "between":
		return &Between{Start: spec.Start, End: spec.End, EndEarly: spec.EndEarly}, nil
	case "enter":
		return &Enter{Index: spec.Index, Distance: spec.Distance}, nil
	case "exit":
		return &Exit{Index: spec.Index, Distance: spec.Distance}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, spec.Type)
	}
}
