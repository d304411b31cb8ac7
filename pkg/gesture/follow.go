package gesture

import (
	"github.com/lumafield/stagesense/pkg/dsp"
	"github.com/lumafield/stagesense/pkg/landmark"
)

// FollowUpdate is one follow-mode output: a double-smoothed index-tip
// position in centered [-1,1] coordinates plus the activation flag.
type FollowUpdate struct {
	X, Y   float64
	Active bool
}

// followClassifier tracks the index tip while exactly the index finger is
// extended. Position is double-smoothed (a raw EMA feeding a second follow
// EMA); activation toggles edge-trigger exactly once on enter and exit.
type followClassifier struct {
	active bool

	rawX, rawY       *dsp.Smoother
	followX, followY *dsp.Smoother
}

func newFollowClassifier(cfg Config) *followClassifier {
	return &followClassifier{
		rawX:    dsp.NewSmoother(cfg.FollowSmoothing),
		rawY:    dsp.NewSmoother(cfg.FollowSmoothing),
		followX: dsp.NewSmoother(cfg.FollowSmoothing),
		followY: dsp.NewSmoother(cfg.FollowSmoothing),
	}
}

// process returns a follow update when one is due this frame. While the pose
// qualifies the position updates continuously; the enter and exit transitions
// each produce exactly one update with the new activation state.
func (c *followClassifier) process(f landmark.Features) (FollowUpdate, bool) {
	qualifies := f.Extended[landmark.Index] &&
		!f.Extended[landmark.Middle] &&
		!f.Extended[landmark.Ring] &&
		!f.Extended[landmark.Pinky]

	if !qualifies {
		if c.active {
			// Exit transition: report the last position once, inactive.
			c.active = false
			return FollowUpdate{X: c.followX.Value(), Y: c.followY.Value(), Active: false}, true
		}
		return FollowUpdate{}, false
	}

	cx, cy := f.IndexTipPos.Centered()
	x := c.followX.Update(c.rawX.Update(cx))
	y := c.followY.Update(c.rawY.Update(cy))

	c.active = true
	return FollowUpdate{X: x, Y: y, Active: true}, true
}

func (c *followClassifier) reset() {
	c.active = false
	c.rawX.Reset()
	c.rawY.Reset()
	c.followX.Reset()
	c.followY.Reset()
}
