package timeline

// PositionAt calculates the scroll position at a given time by interpolating between keyframes.
// Keyframes must be sorted by time.
func PositionAt(keyframes []Keyframe, currentTime float64) float64 {
	if len(keyframes) == 0 {
		return 0
	}

	// Before first keyframe, hold the first position
	if currentTime <= keyframes[0].Time {
		return keyframes[0].Position
	}

	// After last keyframe, hold the last position
	last := keyframes[len(keyframes)-1]
	if currentTime >= last.Time {
		return last.Position
	}

	// Find surrounding keyframes
	var prevKf, nextKf Keyframe
	for i := 0; i < len(keyframes)-1; i++ {
		if currentTime >= keyframes[i].Time && currentTime < keyframes[i+1].Time {
			prevKf = keyframes[i]
			nextKf = keyframes[i+1]
			break
		}
	}

	timeDelta := nextKf.Time - prevKf.Time
	if timeDelta == 0 {
		return nextKf.Position
	}
	t := (currentTime - prevKf.Time) / timeDelta

	// The ease of the segment is set on its closing keyframe
	if nextKf.Ease != "linear" {
		t = easeInOutCubic(t)
	}

	return lerp(prevKf.Position, nextKf.Position, t)
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// easeInOutCubic applies smooth easing function
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
