package scope

import (
	"math"
	"testing"
)

func TestProgressFullRange(t *testing.T) {
	s := Compute(testGeometry, Sample{ScrollPosition: 225, WindowHeight: 50})

	if got := s.Progress().Value(); got != 0.5 {
		t.Errorf("Expected 0.5, got %f", got)
	}
	// End one window early: 225 / (450 - 50)
	if got := s.Progress().EndEarly(); math.Abs(got-0.5625) > 1e-9 {
		t.Errorf("Expected 0.5625, got %f", got)
	}
	if got := s.Progress().Eval(false, 25); math.Abs(got-200.0/450) > 1e-9 {
		t.Errorf("Expected %f with offset, got %f", 200.0/450, got)
	}
}

func TestProgressClamped(t *testing.T) {
	for _, pos := range []float64{-500, -1, 0, 451, 10000} {
		s := Compute(testGeometry, Sample{ScrollPosition: pos})
		v := s.Progress().Value()
		if v < 0 || v > 1 {
			t.Errorf("Progress at %.0f out of range: %f", pos, v)
		}
	}
}

func TestProgressAtMatchesBetween(t *testing.T) {
	for _, pos := range []float64{-20, 0, 50, 100, 180, 300, 449, 600} {
		s := Compute(testGeometry, Sample{ScrollPosition: pos})
		p := s.Progress()
		for i := 0; i < s.SlideCount; i++ {
			at := p.At(i).Eval(false, 0)
			between := p.Between(i, i+1).Eval(false, 0)
			if at != between {
				t.Errorf("pos %.0f slide %d: At=%f Between=%f", pos, i, at, between)
			}
		}
	}
}

func TestProgressNegativeIndices(t *testing.T) {
	s := Compute(testGeometry, Sample{ScrollPosition: 400})
	p := s.Progress()

	if got, want := p.From(-1).Value(), p.From(s.SlideCount-1).Value(); got != want {
		t.Errorf("From(-1)=%f, From(%d)=%f", got, s.SlideCount-1, want)
	}
	if got, want := p.Between(-2, -1).Value(), p.Between(1, 2).Value(); got != want {
		t.Errorf("Between(-2,-1)=%f, Between(1,2)=%f", got, want)
	}
	if got, want := p.At(-1).Value(), p.At(2).Value(); got != want {
		t.Errorf("At(-1)=%f, At(2)=%f", got, want)
	}

	start, end := p.At(-1).Range()
	if start != 2 || end != 3 {
		t.Errorf("Expected range [2,3], got [%d,%d]", start, end)
	}
}

func TestProgressComposes(t *testing.T) {
	s := Compute(testGeometry, Sample{ScrollPosition: 200})
	// At(0) of Between(1,3) is a fresh query scoped to block 0
	p := s.Progress().Between(1, 3).At(0)
	if got := p.Value(); got != 1 {
		t.Errorf("Expected 1, got %f", got)
	}
	// Block 1 spans 100..300
	if got := s.Progress().At(1).Value(); got != 0.5 {
		t.Errorf("Expected 0.5, got %f", got)
	}
}

func TestProgressDegenerateRange(t *testing.T) {
	s := Compute(testGeometry, Sample{ScrollPosition: 200})
	if got := s.Progress().Between(1, 1).Value(); !math.IsNaN(got) {
		t.Errorf("Expected NaN for coinciding bounds, got %f", got)
	}
}

func TestClampedInterpolate(t *testing.T) {
	prev := -1.0
	for v := -10.0; v <= 110; v += 5 {
		got := ClampedInterpolate(v, 0, 100)
		if got < 0 || got > 1 {
			t.Errorf("Out of range at %.0f: %f", v, got)
		}
		if got < prev {
			t.Errorf("Not non-decreasing at %.0f: %f < %f", v, got, prev)
		}
		prev = got
	}

	prev = 2
	for v := -10.0; v <= 110; v += 5 {
		got := ClampedInterpolate(v, 100, 0)
		if got > prev {
			t.Errorf("Not non-increasing at %.0f: %f > %f", v, got, prev)
		}
		prev = got
	}

	if !math.IsNaN(ClampedInterpolate(5, 3, 3)) {
		t.Error("Expected NaN for coinciding bounds")
	}
	if math.IsNaN(ClampedInterpolate(3, 3, 4)) {
		t.Error("Unexpected NaN for distinct bounds")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ value, min, max, want float64 }{
		{5, 0, 10, 5}, {-1, 0, 10, 0}, {11, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.value, tt.min, tt.max); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.value, tt.min, tt.max, got, tt.want)
		}
	}
	if !math.IsNaN(Clamp(math.NaN(), 0, 1)) {
		t.Error("Expected NaN to pass through")
	}
}
