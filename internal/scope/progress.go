package scope

// Progress is a scroll progress query scoped to the checkpoint range [start, end].
// Between and At return new, independent queries of the same shape.
type Progress struct {
	start, end     int
	checkpoints    []float64
	scrollPosition float64
	triggerOffset  float64
	windowHeight   float64
}

// Value returns progress through the range at the scope's trigger offset.
func (p Progress) Value() float64 {
	return p.Eval(false, p.triggerOffset)
}

// EndEarly finishes the range one window height before its last checkpoint.
func (p Progress) EndEarly() float64 {
	return p.Eval(true, p.triggerOffset)
}

// Eval computes progress with explicit arguments.
func (p Progress) Eval(endEarly bool, offset float64) float64 {
	v0 := at(p.checkpoints, p.start)
	v1 := at(p.checkpoints, p.end)
	if endEarly {
		v1 -= p.windowHeight
	}
	v := p.scrollPosition - offset
	return ClampedInterpolate(v, v0, v1)
}

// Between narrows the query to [start, end]. Negative indices count back from the last checkpoint.
func (p Progress) Between(start, end int) Progress {
	last := p.lastIndex()
	q := p
	q.start = normalize(start, last)
	q.end = normalize(end, last)
	return q
}

// From is Between(start, lastIndex).
func (p Progress) From(start int) Progress {
	return p.Between(start, p.lastIndex())
}

// At narrows the query to a single block.
func (p Progress) At(index int) Progress {
	q := p
	q.start = normalize(index, p.lastIndex())
	q.end = q.start + 1
	return q
}

// Range returns the checkpoint indices the query spans.
func (p Progress) Range() (start, end int) {
	return p.start, p.end
}

func (p Progress) lastIndex() int {
	return len(p.checkpoints) - 1
}
