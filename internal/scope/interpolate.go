package scope

import "math"

// Clamp limits value to [min, max]. NaN passes through.
func Clamp(value, min, max float64) float64 {
	return math.Min(math.Max(value, min), max)
}

// ClampedInterpolate maps v linearly from [v0, v1] onto [0, 1] and clamps the result.
// Bounds may be given in either order. Coinciding bounds have no ramp and yield NaN.
func ClampedInterpolate(v, v0, v1 float64) float64 {
	if v1 == v0 {
		return math.NaN()
	}
	return Clamp((v-v0)/(v1-v0), 0, 1)
}

// normalize resolves a negative index relative to length.
func normalize(index, length int) int {
	if index < 0 {
		return index + length
	}
	return index
}
