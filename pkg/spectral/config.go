package spectral

import (
	"time"

	"github.com/lumafield/stagesense/pkg/dsp"
)

// Config holds all tunable parameters for the spectral engine.
type Config struct {
	// Band boundaries in Hz. Bins are derived from the sample rate per frame.
	BassLowHz    float64
	BassHighHz   float64
	MidHighHz    float64
	TrebleHighHz float64

	// Sensitivity multiplies raw band energies before clamping (0.1-5.0).
	Sensitivity float64

	// Smoothing is the EMA factor for band energies (0-1, higher = more inertia).
	Smoothing float64

	// DecayMultiplier shrinks smoothed values per tick while audio is inactive.
	DecayMultiplier float64

	// Beat detection (bass energy vs rolling history mean)
	BeatHistorySize int           // Rolling history capacity
	BeatThreshold   float64       // Fire when bass > mean * threshold
	BeatMinInterval time.Duration // Minimum spacing between beats

	// Peak detection (overall energy, shorter history)
	PeakHistorySize int           // Rolling history capacity
	PeakFloor       float64       // Absolute minimum energy to consider
	PeakThreshold   float64       // Fire when overall > mean * threshold
	PeakMinInterval time.Duration // Minimum spacing between peaks
}

// DefaultConfig returns the recommended configuration for music-driven visuals.
func DefaultConfig() Config {
	return Config{
		BassLowHz:    20,
		BassHighHz:   250,
		MidHighHz:    4000,
		TrebleHighHz: 20000,

		Sensitivity: 1.0,
		Smoothing:   0.85,

		DecayMultiplier: 0.95,

		BeatHistorySize: 10,
		BeatThreshold:   1.3,
		BeatMinInterval: 200 * time.Millisecond,

		PeakHistorySize: 5,
		PeakFloor:       0.3,
		PeakThreshold:   1.5,
		PeakMinInterval: 100 * time.Millisecond,
	}
}

// sanitize clamps out-of-range values to their nearest valid bound.
// Malformed configuration is never rejected, only corrected.
func (c Config) sanitize() Config {
	c.Sensitivity = dsp.Clamp(c.Sensitivity, 0.1, 5.0)
	c.Smoothing = dsp.Clamp(c.Smoothing, 0, 0.999)
	c.DecayMultiplier = dsp.Clamp(c.DecayMultiplier, 0, 1)
	if c.BeatHistorySize < 1 {
		c.BeatHistorySize = 1
	}
	if c.PeakHistorySize < 1 {
		c.PeakHistorySize = 1
	}
	if c.BeatThreshold <= 0 {
		c.BeatThreshold = 1.3
	}
	if c.PeakThreshold <= 0 {
		c.PeakThreshold = 1.5
	}
	if c.BeatMinInterval < 0 {
		c.BeatMinInterval = 0
	}
	if c.PeakMinInterval < 0 {
		c.PeakMinInterval = 0
	}
	return c
}
