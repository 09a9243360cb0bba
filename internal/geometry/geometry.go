package geometry

import "math"

// Geometry holds the cumulative scroll checkpoints of an ordered list of blocks.
type Geometry struct {
	Checkpoints  []float64 // Checkpoints[0] = 0, len = blocks+1
	ScrollLength float64   // Last checkpoint
}

// Build turns block heights into prefix-sum checkpoints.
// An empty height list yields a single checkpoint at 0 and zero scroll length.
func Build(heights []float64) Geometry {
	checkpoints := make([]float64, 1, len(heights)+1)
	for _, h := range heights {
		checkpoints = append(checkpoints, checkpoints[len(checkpoints)-1]+h)
	}

	return Geometry{
		Checkpoints:  checkpoints,
		ScrollLength: checkpoints[len(checkpoints)-1],
	}
}

// SlideCount returns the number of blocks.
func (g Geometry) SlideCount() int {
	if len(g.Checkpoints) == 0 {
		return 0
	}
	return len(g.Checkpoints) - 1
}

// LastIndex is the index of the last checkpoint. Same value as SlideCount.
func (g Geometry) LastIndex() int {
	return g.SlideCount()
}

// Checkpoint returns the checkpoint at index i, or NaN when i is out of range.
func (g Geometry) Checkpoint(i int) float64 {
	if i < 0 || i >= len(g.Checkpoints) {
		return math.NaN()
	}
	return g.Checkpoints[i]
}

// Heights recovers block heights from the checkpoints.
func (g Geometry) Heights() []float64 {
	if len(g.Checkpoints) < 2 {
		return nil
	}
	heights := make([]float64, len(g.Checkpoints)-1)
	for i := range heights {
		heights[i] = g.Checkpoints[i+1] - g.Checkpoints[i]
	}
	return heights
}
