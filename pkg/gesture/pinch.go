package gesture

import (
	"github.com/lumafield/stagesense/pkg/dsp"

	"github.com/lumafield/stagesense/pkg/landmark"
)

// pinchClassifier maps the thumb-index distance to a continuous strength in
// [0,1]. Closer than 0.1 image units is a full pinch; beyond it the strength
// falls off linearly.
type pinchClassifier struct {
	activation float64
	smoother   *dsp.Smoother
	active     bool
}

func newPinchClassifier(cfg Config) *pinchClassifier {
	return &pinchClassifier{
		activation: cfg.PinchActivation,
		smoother:   dsp.NewSmoother(cfg.PinchSmoothing),
	}
}

// process returns the smoothed strength and whether the pinch is active.
// It is continuous: no debounce, re-evaluated every frame.
func (p *pinchClassifier) process(f landmark.Features) (float64, bool) {
	raw := dsp.Clamp(1-f.PinchDistance*10, 0, 1)
	strength := p.smoother.Update(raw)
	p.active = strength > p.activation
	return strength, p.active
}

func (p *pinchClassifier) reset() {
	p.smoother.Reset()
	p.active = false
}
