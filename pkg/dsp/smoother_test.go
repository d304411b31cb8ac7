package dsp

import (
	"math"
	"testing"
)

func TestSmoother_ConvergesMonotonically(t *testing.T) {
	s := NewSmoother(0.85)
	s.Update(0) // prime at zero

	const target = 1.0
	prev := s.Value()
	for i := 0; i < 50; i++ {
		got := s.Update(target)
		if got < prev {
			t.Fatalf("smoothed value regressed at step %d: %v -> %v", i, prev, got)
		}
		if got > target {
			t.Fatalf("smoothed value overshot target at step %d: %v", i, got)
		}
		prev = got
	}
}

func TestSmoother_GeometricErrorBound(t *testing.T) {
	const alpha = 0.85
	const target = 1.0

	s := NewSmoother(alpha)
	s.Update(0)

	initialErr := math.Abs(s.Value() - target)
	for n := 1; n <= 30; n++ {
		s.Update(target)
		bound := math.Pow(alpha, float64(n)) * initialErr
		err := math.Abs(s.Value() - target)
		if err > bound+1e-12 {
			t.Fatalf("step %d: error %v exceeds alpha^n bound %v", n, err, bound)
		}
	}
}

func TestSmoother_FirstValuePrimes(t *testing.T) {
	s := NewSmoother(0.9)
	if got := s.Update(0.42); got != 0.42 {
		t.Errorf("expected first value returned as-is, got %v", got)
	}
}

func TestSmoother_Decay(t *testing.T) {
	s := NewSmoother(0.8)
	s.Update(1.0)

	for i := 0; i < 10; i++ {
		s.Decay(0.95)
	}
	want := math.Pow(0.95, 10)
	if math.Abs(s.Value()-want) > 1e-9 {
		t.Errorf("after 10 decays got %v, want %v", s.Value(), want)
	}
}

func TestSmoother_Reset(t *testing.T) {
	s := NewSmoother(0.8)
	s.Update(0.5)
	s.Update(0.7)
	s.Reset()

	if s.Value() != 0 {
		t.Errorf("expected zero after reset, got %v", s.Value())
	}
	// Should prime again after reset
	if got := s.Update(0.3); got != 0.3 {
		t.Errorf("expected repriming after reset, got %v", got)
	}
}

func TestHistory_RollingMean(t *testing.T) {
	h := NewHistory(3)

	h.Push(1)
	h.Push(2)
	if math.Abs(h.Mean()-1.5) > 1e-9 {
		t.Errorf("partial window mean: got %v, want 1.5", h.Mean())
	}

	h.Push(3)
	h.Push(4) // evicts 1
	if math.Abs(h.Mean()-3.0) > 1e-9 {
		t.Errorf("full window mean: got %v, want 3", h.Mean())
	}
	if !h.Full() {
		t.Error("expected window to be full")
	}
}

func TestHistory_Reset(t *testing.T) {
	h := NewHistory(4)
	h.Push(5)
	h.Push(6)
	h.Reset()

	if h.Len() != 0 || h.Mean() != 0 {
		t.Errorf("expected empty window after reset, got len=%d mean=%v", h.Len(), h.Mean())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-2, 0, 1, 0},
		{7, 0, 1, 1},
		{0, 0, 1, 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.min, tt.max); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.min, tt.max, got, tt.want)
		}
	}
}
