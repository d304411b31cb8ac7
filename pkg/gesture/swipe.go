package gesture

import (
	"math"
	"time"

	"github.com/lumafield/stagesense/pkg/landmark"
)

// SwipeDirection is the classified axis-dominant direction of a swipe.
type SwipeDirection string

const (
	SwipeLeft  SwipeDirection = "left"
	SwipeRight SwipeDirection = "right"
	SwipeUp    SwipeDirection = "up"
	SwipeDown  SwipeDirection = "down"
)

// Swipe is a discrete swipe event.
type Swipe struct {
	Direction SwipeDirection
	Velocity  float64 // Displacement magnitude that triggered the swipe
}

// swipeClassifier fires a discrete event when the index tip moves fast enough
// along a dominant axis, then locks itself out for a cooldown window.
type swipeClassifier struct {
	velocityThresh float64
	axisDominance  float64
	cooldown       time.Duration
	cooldownUntil  time.Time
}

func newSwipeClassifier(cfg Config) *swipeClassifier {
	return &swipeClassifier{
		velocityThresh: cfg.SwipeVelocity,
		axisDominance:  cfg.SwipeAxisDominance,
		cooldown:       cfg.SwipeCooldown,
	}
}

// process returns a swipe event when one fires this frame. A displacement
// with no dominant axis classifies as no swipe and does not consume the
// cooldown.
func (s *swipeClassifier) process(f landmark.Features, now time.Time) (Swipe, bool) {
	if !f.HasVelocity {
		return Swipe{}, false
	}
	if now.Before(s.cooldownUntil) {
		return Swipe{}, false
	}

	dx, dy := f.Velocity.X, f.Velocity.Y
	mag := math.Hypot(dx, dy)
	if mag < s.velocityThresh {
		return Swipe{}, false
	}

	adx, ady := math.Abs(dx), math.Abs(dy)
	var dir SwipeDirection
	switch {
	case adx > ady*s.axisDominance:
		if dx > 0 {
			dir = SwipeRight
		} else {
			dir = SwipeLeft
		}
	case ady > adx*s.axisDominance:
		// Image-space y grows downward.
		if dy < 0 {
			dir = SwipeUp
		} else {
			dir = SwipeDown
		}
	default:
		// No dominant axis: not a swipe.
		return Swipe{}, false
	}

	s.cooldownUntil = now.Add(s.cooldown)
	return Swipe{Direction: dir, Velocity: mag}, true
}

func (s *swipeClassifier) reset() {
	s.cooldownUntil = time.Time{}
}
