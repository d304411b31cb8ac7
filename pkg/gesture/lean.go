package gesture

import (
	"math"

	"github.com/lumafield/stagesense/pkg/dsp"
	"github.com/lumafield/stagesense/pkg/landmark"
)

// leanClassifier derives a continuous body-lean scalar from the angle of the
// shoulder line. Leaning tilts the shoulders, so sin(angle) of the
// left-to-right shoulder vector measures the lean; amplification makes small
// tilts usable as a control signal.
type leanClassifier struct {
	amplification float64
	smoother      *dsp.Smoother
}

func newLeanClassifier(cfg Config) *leanClassifier {
	return &leanClassifier{
		amplification: cfg.LeanAmplification,
		smoother:      dsp.NewSmoother(cfg.LeanSmoothing),
	}
}

func (c *leanClassifier) process(pose *landmark.PoseFrame) float64 {
	l := pose[landmark.LeftShoulder]
	r := pose[landmark.RightShoulder]

	angle := math.Atan2(r.Y-l.Y, r.X-l.X)
	lean := math.Sin(angle) * c.amplification

	return c.smoother.Update(lean)
}

func (c *leanClassifier) reset() {
	c.smoother.Reset()
}
