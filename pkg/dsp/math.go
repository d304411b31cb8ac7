package dsp

// Clamp restricts a value to a range.
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Lerp performs linear interpolation between two values.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
