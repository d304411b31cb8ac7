package landmark

// Finger identifies one of the five fingers in extension order.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
)

// Extension test margins. The thumb extends laterally in the canonical
// landmark orientation, so it is tested on x; the other fingers extend
// vertically and are tested on y against their PIP joint.
const (
	thumbSpread  = 0.04
	fingerMargin = 0.02
)

// Features are the derived per-frame values shared by all gesture
// classifiers. They carry no smoothing; each classifier applies its own
// time constant.
type Features struct {
	Extended      [5]bool // Indexed by Finger
	ExtendedCount int

	PinchDistance float64 // Thumb tip to index tip, image space
	IndexTipPos   Point

	// Velocity is the frame-to-frame delta of the index tip, not a
	// physically scaled velocity.
	Velocity    Point
	HasVelocity bool
}

// Preprocessor derives features from raw hand frames. It keeps only the
// previous index-tip position, needed for the velocity delta.
type Preprocessor struct {
	lastIndexTip Point
	hasLast      bool
}

// NewPreprocessor creates a cold preprocessor.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{}
}

// Process derives features for one hand frame.
func (p *Preprocessor) Process(h *HandFrame) Features {
	f := Features{
		PinchDistance: h[ThumbTip].DistanceTo(h[IndexTip]),
		IndexTipPos:   h[IndexTip],
	}

	f.Extended[Thumb] = abs(h[ThumbTip].X-h[ThumbMCP].X) > thumbSpread
	f.Extended[Index] = h[IndexTip].Y < h[IndexPIP].Y-fingerMargin
	f.Extended[Middle] = h[MiddleTip].Y < h[MiddlePIP].Y-fingerMargin
	f.Extended[Ring] = h[RingTip].Y < h[RingPIP].Y-fingerMargin
	f.Extended[Pinky] = h[PinkyTip].Y < h[PinkyPIP].Y-fingerMargin

	for _, ext := range f.Extended {
		if ext {
			f.ExtendedCount++
		}
	}

	if p.hasLast {
		f.Velocity = Point{
			X: h[IndexTip].X - p.lastIndexTip.X,
			Y: h[IndexTip].Y - p.lastIndexTip.Y,
		}
		f.HasVelocity = true
	}
	p.lastIndexTip = h[IndexTip]
	p.hasLast = true

	return f
}

// Reset clears the velocity reference so the next frame starts cold.
func (p *Preprocessor) Reset() {
	p.lastIndexTip = Point{}
	p.hasLast = false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
