package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTuningOverrides(t *testing.T) {
	path := writeTuning(t, `
spectral:
  sensitivity: 2.0
  beat_threshold: 1.5
  beat_min_interval_ms: 300
gesture:
  swipe_velocity: 0.08
  open_palm_fingers: 5
`)

	tuning, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}

	sc := tuning.SpectralConfig()
	if sc.Sensitivity != 2.0 {
		t.Errorf("sensitivity = %v, want 2.0", sc.Sensitivity)
	}
	if sc.BeatThreshold != 1.5 {
		t.Errorf("beat threshold = %v, want 1.5", sc.BeatThreshold)
	}
	if sc.BeatMinInterval != 300*time.Millisecond {
		t.Errorf("beat interval = %v, want 300ms", sc.BeatMinInterval)
	}
	// Untouched fields keep defaults.
	if sc.Smoothing != 0.85 {
		t.Errorf("smoothing = %v, want default 0.85", sc.Smoothing)
	}

	gc := tuning.GestureConfig()
	if gc.SwipeVelocity != 0.08 {
		t.Errorf("swipe velocity = %v, want 0.08", gc.SwipeVelocity)
	}
	if gc.OpenPalmMinFingers != 5 {
		t.Errorf("open palm fingers = %d, want 5", gc.OpenPalmMinFingers)
	}
	if gc.SwipeCooldown != 500*time.Millisecond {
		t.Errorf("swipe cooldown = %v, want default 500ms", gc.SwipeCooldown)
	}
}

func TestLoadTuningRejectsUnknownKeys(t *testing.T) {
	path := writeTuning(t, `
spectral:
  sensivity: 2.0
`)
	if _, err := LoadTuning(path); err == nil {
		t.Fatal("misspelled key should fail to load")
	}
}

func TestLoadTuningRejectsOutOfRange(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"sensitivity too high", "spectral:\n  sensitivity: 9.0\n"},
		{"smoothing at one", "spectral:\n  smoothing: 1.0\n"},
		{"beat threshold below one", "spectral:\n  beat_threshold: 0.9\n"},
		{"too many fingers", "gesture:\n  open_palm_fingers: 6\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTuning(t, tc.body)
			if _, err := LoadTuning(path); err == nil {
				t.Errorf("expected validation error for %q", tc.body)
			}
		})
	}
}

func TestLoadTuningMissingFile(t *testing.T) {
	if _, err := LoadTuning("/nonexistent/tuning.yaml"); err == nil {
		t.Fatal("missing file should error")
	}
}
