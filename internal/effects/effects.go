package effects

import (
	"fmt"

	"github.com/ivlev/scrolly/internal/scope"
)

// Effect turns a scroll scope into a progress signal in [0, 1].
type Effect interface {
	Progress(s scope.Scope) float64
	Name() string
}

// Full tracks progress through the whole scroll length.
type Full struct {
	EndEarly bool
}

func (e *Full) Progress(s scope.Scope) float64 {
	return value(s.Progress(), e.EndEarly)
}

func (e *Full) Name() string { return "progress" }

// At tracks progress through a single block.
type At struct {
	Index    int
	EndEarly bool
}

func (e *At) Progress(s scope.Scope) float64 {
	return value(s.Progress().At(e.Index), e.EndEarly)
}

func (e *At) Name() string { return fmt.Sprintf("at(%d)", e.Index) }

// Between tracks progress across a run of blocks. A nil End runs to the last checkpoint.
type Between struct {
	Start    int
	End      *int
	EndEarly bool
}

func (e *Between) Progress(s scope.Scope) float64 {
	p := s.Progress().From(e.Start)
	if e.End != nil {
		p = s.Progress().Between(e.Start, *e.End)
	}
	return value(p, e.EndEarly)
}

func (e *Between) Name() string {
	if e.End == nil {
		return fmt.Sprintf("between(%d)", e.Start)
	}
	return fmt.Sprintf("between(%d,%d)", e.Start, *e.End)
}

// Enter ramps up over Distance before block Index reaches the trigger line.
type Enter struct {
	Index    int
	Distance float64
}

func (e *Enter) Progress(s scope.Scope) float64 {
	return s.Enter(e.Index, e.Distance)
}

func (e *Enter) Name() string { return fmt.Sprintf("enter(%d,%g)", e.Index, e.Distance) }

// Exit is evaluated against the bottom of block Index.
type Exit struct {
	Index    int
	Distance float64
}

func (e *Exit) Progress(s scope.Scope) float64 {
	return s.Exit(e.Index, e.Distance)
}

func (e *Exit) Name() string { return fmt.Sprintf("exit(%d,%g)", e.Index, e.Distance) }

func value(p scope.Progress, endEarly bool) float64 {
	if endEarly {
		return p.EndEarly()
	}
	return p.Value()
}
