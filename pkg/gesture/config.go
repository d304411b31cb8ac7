package gesture

import (
	"time"

	"github.com/lumafield/stagesense/pkg/dsp"
)

// Config holds all tunable parameters for gesture recognition.
type Config struct {
	// Pinch
	PinchActivation float64 // Smoothed strength above this counts as pinching
	PinchSmoothing  float64 // EMA factor for pinch strength

	// Swipe
	SwipeVelocity      float64       // Minimum index-tip displacement per frame
	SwipeAxisDominance float64       // One axis must exceed the other by this ratio
	SwipeCooldown      time.Duration // Lockout after a fired swipe

	// Open palm (reset)
	OpenPalmMinFingers int // Extended fingers required out of 5

	// Follow
	FollowSmoothing float64 // EMA factor for both follow stages

	// Body lean
	LeanSmoothing     float64 // EMA factor for the lean scalar
	LeanAmplification float64 // Multiplier on sin(shoulder angle)
}

// DefaultConfig returns the recommended thresholds for stage use.
func DefaultConfig() Config {
	return Config{
		PinchActivation: 0.3,
		PinchSmoothing:  0.8,

		SwipeVelocity:      0.05,
		SwipeAxisDominance: 1.5,
		SwipeCooldown:      500 * time.Millisecond,

		OpenPalmMinFingers: 4,

		FollowSmoothing: 0.7,

		LeanSmoothing:     0.8,
		LeanAmplification: 2.0,
	}
}

// sanitize clamps out-of-range values to their nearest valid bound.
func (c Config) sanitize() Config {
	c.PinchActivation = dsp.Clamp(c.PinchActivation, 0, 1)
	c.PinchSmoothing = dsp.Clamp(c.PinchSmoothing, 0, 0.999)
	c.FollowSmoothing = dsp.Clamp(c.FollowSmoothing, 0, 0.999)
	c.LeanSmoothing = dsp.Clamp(c.LeanSmoothing, 0, 0.999)
	if c.SwipeVelocity <= 0 {
		c.SwipeVelocity = 0.05
	}
	if c.SwipeAxisDominance < 1 {
		c.SwipeAxisDominance = 1.5
	}
	if c.SwipeCooldown < 0 {
		c.SwipeCooldown = 0
	}
	if c.OpenPalmMinFingers < 1 || c.OpenPalmMinFingers > 5 {
		c.OpenPalmMinFingers = 4
	}
	if c.LeanAmplification <= 0 {
		c.LeanAmplification = 2.0
	}
	return c
}
