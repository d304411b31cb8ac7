package landmark

import (
	"math"
	"testing"
)

// testHand builds a neutral hand frame with all fingers curled: tips level
// with their PIP joints and the thumb tip over its MCP.
func testHand() *HandFrame {
	var h HandFrame
	for i := range h {
		h[i] = Point{X: 0.5, Y: 0.5}
	}
	return &h
}

// extendFinger raises a finger tip clearly above its PIP joint.
func extendFinger(h *HandFrame, f Finger) {
	switch f {
	case Thumb:
		h[ThumbTip].X = h[ThumbMCP].X + 0.1
	case Index:
		h[IndexTip].Y = h[IndexPIP].Y - 0.1
	case Middle:
		h[MiddleTip].Y = h[MiddlePIP].Y - 0.1
	case Ring:
		h[RingTip].Y = h[RingPIP].Y - 0.1
	case Pinky:
		h[PinkyTip].Y = h[PinkyPIP].Y - 0.1
	}
}

func TestPreprocessor_FingerExtension(t *testing.T) {
	tests := []struct {
		name     string
		extended []Finger
		want     int
	}{
		{"fist", nil, 0},
		{"pointing", []Finger{Index}, 1},
		{"peace", []Finger{Index, Middle}, 2},
		{"open palm", []Finger{Thumb, Index, Middle, Ring, Pinky}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testHand()
			for _, f := range tt.extended {
				extendFinger(h, f)
			}

			p := NewPreprocessor()
			feat := p.Process(h)

			if feat.ExtendedCount != tt.want {
				t.Errorf("ExtendedCount = %d, want %d", feat.ExtendedCount, tt.want)
			}
			for _, f := range tt.extended {
				if !feat.Extended[f] {
					t.Errorf("finger %d not reported extended", f)
				}
			}
		})
	}
}

func TestPreprocessor_ThumbLateralTest(t *testing.T) {
	// A thumb raised vertically but not spread laterally must not count as
	// extended; the thumb test is direction-sensitive.
	h := testHand()
	h[ThumbTip].Y = h[ThumbMCP].Y - 0.1

	p := NewPreprocessor()
	feat := p.Process(h)

	if feat.Extended[Thumb] {
		t.Error("vertically raised thumb should not count as extended")
	}
}

func TestPreprocessor_SmallMarginNotExtended(t *testing.T) {
	h := testHand()
	h[IndexTip].Y = h[IndexPIP].Y - 0.01 // inside the 0.02 margin

	p := NewPreprocessor()
	feat := p.Process(h)

	if feat.Extended[Index] {
		t.Error("tip within margin should not count as extended")
	}
}

func TestPreprocessor_Velocity(t *testing.T) {
	p := NewPreprocessor()

	h1 := testHand()
	h1[IndexTip] = Point{X: 0.4, Y: 0.6}
	f1 := p.Process(h1)
	if f1.HasVelocity {
		t.Error("first frame should have no velocity reference")
	}

	h2 := testHand()
	h2[IndexTip] = Point{X: 0.5, Y: 0.55}
	f2 := p.Process(h2)
	if !f2.HasVelocity {
		t.Fatal("second frame should carry velocity")
	}
	if math.Abs(f2.Velocity.X-0.1) > 1e-9 || math.Abs(f2.Velocity.Y-(-0.05)) > 1e-9 {
		t.Errorf("velocity = %+v, want {0.1 -0.05}", f2.Velocity)
	}

	p.Reset()
	f3 := p.Process(h2)
	if f3.HasVelocity {
		t.Error("velocity reference should be cold after Reset")
	}
}

func TestPoint_Centered(t *testing.T) {
	tests := []struct {
		name   string
		p      Point
		wx, wy float64
	}{
		{"center", Point{X: 0.5, Y: 0.5}, 0, 0},
		{"top-left", Point{X: 0, Y: 0}, -1, 1},
		{"bottom-right", Point{X: 1, Y: 1}, 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.p.Centered()
			if math.Abs(x-tt.wx) > 1e-9 || math.Abs(y-tt.wy) > 1e-9 {
				t.Errorf("Centered() = (%v, %v), want (%v, %v)", x, y, tt.wx, tt.wy)
			}
		})
	}
}

func TestPoint_DistanceTo(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 0.3, Y: 0.4}
	if math.Abs(a.DistanceTo(b)-0.5) > 1e-9 {
		t.Errorf("DistanceTo = %v, want 0.5", a.DistanceTo(b))
	}
}
