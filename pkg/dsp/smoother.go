// Package dsp holds the small smoothing and math primitives shared by the
// spectral and gesture engines. Both pipelines use the same exponential
// moving average law so smoothed state never jumps discontinuously.
package dsp

// Smoother is a single-value exponential moving average filter.
// The update law is s ← s·factor + x·(1−factor), so a higher factor
// means more inertia.
type Smoother struct {
	value  float64
	factor float64
	primed bool
}

// NewSmoother creates a smoother with the given factor.
// The factor is clamped to [0,1).
func NewSmoother(factor float64) *Smoother {
	return &Smoother{factor: Clamp(factor, 0, 0.999)}
}

// Update feeds a new raw value and returns the smoothed result.
// The first value primes the filter and is returned as-is.
func (s *Smoother) Update(raw float64) float64 {
	if !s.primed {
		s.value = raw
		s.primed = true
		return s.value
	}
	s.value = s.value*s.factor + raw*(1-s.factor)
	return s.value
}

// Decay multiplies the current value toward zero without new input.
// Used when the underlying signal source goes inactive.
func (s *Smoother) Decay(mult float64) float64 {
	s.value *= mult
	return s.value
}

// Value returns the current smoothed value.
func (s *Smoother) Value() float64 {
	return s.value
}

// SetFactor updates the smoothing factor, clamped to [0,1).
func (s *Smoother) SetFactor(factor float64) {
	s.factor = Clamp(factor, 0, 0.999)
}

// Reset clears the filter back to its cold state.
func (s *Smoother) Reset() {
	s.value = 0
	s.primed = false
}
