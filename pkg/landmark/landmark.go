// Package landmark defines the keypoint frames produced by the camera
// inference collaborator and derives the per-frame features the gesture
// classifiers consume. Coordinates arrive in [0,1] image space with the
// origin at the top-left corner.
package landmark

import "math"

// Canonical hand joint indices (21-point hand model).
const (
	Wrist = 0

	ThumbCMC = 1
	ThumbMCP = 2
	ThumbIP  = 3
	ThumbTip = 4

	IndexMCP = 5
	IndexPIP = 6
	IndexDIP = 7
	IndexTip = 8

	MiddleMCP = 9
	MiddlePIP = 10
	MiddleDIP = 11
	MiddleTip = 12

	RingMCP = 13
	RingPIP = 14
	RingDIP = 15
	RingTip = 16

	PinkyMCP = 17
	PinkyPIP = 18
	PinkyDIP = 19
	PinkyTip = 20

	HandPoints = 21
)

// Pose landmark indices used by the body classifiers (33-point pose model).
const (
	LeftShoulder  = 11
	RightShoulder = 12

	PosePoints = 33
)

// Point is a single normalized keypoint. Z is depth relative to the frame
// reference and may be zero for 2-D detectors.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// Centered converts image-space [0,1] coordinates to the centered [-1,1]
// space used by all classifier outputs. The y-axis is flipped so that up in
// screen space is positive.
func (p Point) Centered() (x, y float64) {
	return (p.X - 0.5) * 2, (0.5 - p.Y) * 2
}

// DistanceTo returns the Euclidean distance to another point in image space.
func (p Point) DistanceTo(o Point) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// HandFrame is one 21-point hand observation.
type HandFrame [HandPoints]Point

// PoseFrame is one 33-point body observation.
type PoseFrame [PosePoints]Point

// Frame bundles what the inference collaborator delivered for one camera
// tick. Either slice may be empty when nothing was detected.
type Frame struct {
	Hands []HandFrame
	Pose  *PoseFrame
}
