package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lumafield/stagesense/pkg/gesture"
	"github.com/lumafield/stagesense/pkg/spectral"
)

// Tuning is the on-disk tuning file. Every field is optional; zero values
// keep the engine defaults.
type Tuning struct {
	Spectral SpectralTuning `yaml:"spectral"`
	Gesture  GestureTuning  `yaml:"gesture"`
}

// SpectralTuning overrides spectral engine thresholds. Intervals are in
// milliseconds.
type SpectralTuning struct {
	Sensitivity       float64 `yaml:"sensitivity"`
	Smoothing         float64 `yaml:"smoothing"`
	BeatThreshold     float64 `yaml:"beat_threshold"`
	BeatMinIntervalMS int     `yaml:"beat_min_interval_ms"`
	PeakFloor         float64 `yaml:"peak_floor"`
	PeakThreshold     float64 `yaml:"peak_threshold"`
	PeakMinIntervalMS int     `yaml:"peak_min_interval_ms"`
}

// GestureTuning overrides gesture recognizer thresholds.
type GestureTuning struct {
	PinchActivation   float64 `yaml:"pinch_activation"`
	SwipeVelocity     float64 `yaml:"swipe_velocity"`
	SwipeCooldownMS   int     `yaml:"swipe_cooldown_ms"`
	OpenPalmFingers   int     `yaml:"open_palm_fingers"`
	FollowSmoothing   float64 `yaml:"follow_smoothing"`
	LeanAmplification float64 `yaml:"lean_amplification"`
}

// LoadTuning reads and validates the tuning file at path. Unknown keys are
// rejected so a typo cannot silently fall back to a default.
func LoadTuning(path string) (*Tuning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open tuning file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var t Tuning
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid tuning in %q: %w", path, err)
	}
	return &t, nil
}

// Validate rejects values that the engines would otherwise clamp silently,
// so a bad tuning file fails loudly at startup instead.
func (t *Tuning) Validate() error {
	var errs []error

	if s := t.Spectral.Sensitivity; s != 0 && (s < 0.1 || s > 5) {
		errs = append(errs, fmt.Errorf("spectral.sensitivity %v out of range [0.1, 5]", s))
	}
	if s := t.Spectral.Smoothing; s != 0 && (s < 0 || s >= 1) {
		errs = append(errs, fmt.Errorf("spectral.smoothing %v out of range [0, 1)", s))
	}
	if v := t.Spectral.BeatThreshold; v != 0 && v <= 1 {
		errs = append(errs, fmt.Errorf("spectral.beat_threshold %v must exceed 1", v))
	}
	if v := t.Spectral.BeatMinIntervalMS; v < 0 {
		errs = append(errs, fmt.Errorf("spectral.beat_min_interval_ms %d must not be negative", v))
	}
	if v := t.Spectral.PeakFloor; v < 0 || v > 1 {
		errs = append(errs, fmt.Errorf("spectral.peak_floor %v out of range [0, 1]", v))
	}

	if v := t.Gesture.PinchActivation; v != 0 && (v <= 0 || v >= 1) {
		errs = append(errs, fmt.Errorf("gesture.pinch_activation %v out of range (0, 1)", v))
	}
	if v := t.Gesture.SwipeVelocity; v < 0 {
		errs = append(errs, fmt.Errorf("gesture.swipe_velocity %v must not be negative", v))
	}
	if v := t.Gesture.OpenPalmFingers; v != 0 && (v < 1 || v > 5) {
		errs = append(errs, fmt.Errorf("gesture.open_palm_fingers %d out of range [1, 5]", v))
	}

	return errors.Join(errs...)
}

// SpectralConfig applies the overrides on top of the engine defaults.
func (t *Tuning) SpectralConfig() spectral.Config {
	cfg := spectral.DefaultConfig()
	s := t.Spectral
	if s.Sensitivity != 0 {
		cfg.Sensitivity = s.Sensitivity
	}
	if s.Smoothing != 0 {
		cfg.Smoothing = s.Smoothing
	}
	if s.BeatThreshold != 0 {
		cfg.BeatThreshold = s.BeatThreshold
	}
	if s.BeatMinIntervalMS != 0 {
		cfg.BeatMinInterval = time.Duration(s.BeatMinIntervalMS) * time.Millisecond
	}
	if s.PeakFloor != 0 {
		cfg.PeakFloor = s.PeakFloor
	}
	if s.PeakThreshold != 0 {
		cfg.PeakThreshold = s.PeakThreshold
	}
	if s.PeakMinIntervalMS != 0 {
		cfg.PeakMinInterval = time.Duration(s.PeakMinIntervalMS) * time.Millisecond
	}
	return cfg
}

// GestureConfig applies the overrides on top of the recognizer defaults.
func (t *Tuning) GestureConfig() gesture.Config {
	cfg := gesture.DefaultConfig()
	g := t.Gesture
	if g.PinchActivation != 0 {
		cfg.PinchActivation = g.PinchActivation
	}
	if g.SwipeVelocity != 0 {
		cfg.SwipeVelocity = g.SwipeVelocity
	}
	if g.SwipeCooldownMS != 0 {
		cfg.SwipeCooldown = time.Duration(g.SwipeCooldownMS) * time.Millisecond
	}
	if g.OpenPalmFingers != 0 {
		cfg.OpenPalmMinFingers = g.OpenPalmFingers
	}
	if g.FollowSmoothing != 0 {
		cfg.FollowSmoothing = g.FollowSmoothing
	}
	if g.LeanAmplification != 0 {
		cfg.LeanAmplification = g.LeanAmplification
	}
	return cfg
}
