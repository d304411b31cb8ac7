package spectral

import (
	"time"

	"github.com/lumafield/stagesense/pkg/dsp"
)

// energyDetector fires when the incoming energy exceeds the rolling history
// mean by a relative multiplier, subject to a minimum spacing between firings.
// The beat detector runs it on bass energy; the peak detector runs it on
// overall energy with a shorter history and an absolute floor.
type energyDetector struct {
	history     *dsp.History
	floor       float64 // Absolute minimum energy (0 = disabled)
	threshold   float64 // Relative multiplier over history mean
	minInterval time.Duration
	lastFired   time.Time
}

func newEnergyDetector(historySize int, floor, threshold float64, minInterval time.Duration) *energyDetector {
	return &energyDetector{
		history:     dsp.NewHistory(historySize),
		floor:       floor,
		threshold:   threshold,
		minInterval: minInterval,
	}
}

// process feeds one energy sample and reports whether the detector fired.
// The sample is compared against the mean of prior samples, then recorded.
func (d *energyDetector) process(energy float64, now time.Time) bool {
	mean := d.history.Mean()

	fired := false
	if energy >= d.floor && mean > 0 && energy > mean*d.threshold {
		if d.lastFired.IsZero() || now.Sub(d.lastFired) >= d.minInterval {
			d.lastFired = now
			fired = true
		}
	}

	d.history.Push(energy)
	return fired
}

// reset clears the rolling history and spacing state.
func (d *energyDetector) reset() {
	d.history.Reset()
	d.lastFired = time.Time{}
}
