// Package spectral classifies a raw frequency-magnitude stream into
// normalized band energies and discrete beat/peak events. It consumes one
// magnitude frame per audio tick and publishes smoothed state that consumers
// may read at any time between ticks.
package spectral

import (
	"math"
	"sync"
	"time"

	"github.com/lumafield/stagesense/internal/log"
	"github.com/lumafield/stagesense/pkg/dsp"
)

// BandEnergy groups the normalized energies of the three musical bands plus
// the overall spectrum average. All values are in [0,1].
type BandEnergy struct {
	Bass    float64 `json:"bass"`
	Mid     float64 `json:"mid"`
	Treble  float64 `json:"treble"`
	Overall float64 `json:"overall"`
}

// Engine is the spectral analysis and beat detection engine.
// Analyze must be called from a single goroutine (the audio tick); Bands and
// the setters are safe to call from any goroutine.
type Engine struct {
	mu  sync.RWMutex
	cfg Config

	raw BandEnergy

	sBass    *dsp.Smoother
	sMid     *dsp.Smoother
	sTreble  *dsp.Smoother
	sOverall *dsp.Smoother

	beat *energyDetector
	peak *energyDetector

	onBeat func(intensity float64)
	onPeak func(intensity float64)

	// Injectable clock for deterministic tests.
	now func() time.Time
}

// New creates an engine with the given configuration.
// Out-of-range values are clamped, never rejected.
func New(cfg Config) *Engine {
	cfg = cfg.sanitize()
	return &Engine{
		cfg:      cfg,
		sBass:    dsp.NewSmoother(cfg.Smoothing),
		sMid:     dsp.NewSmoother(cfg.Smoothing),
		sTreble:  dsp.NewSmoother(cfg.Smoothing),
		sOverall: dsp.NewSmoother(cfg.Smoothing),
		beat:     newEnergyDetector(cfg.BeatHistorySize, 0, cfg.BeatThreshold, cfg.BeatMinInterval),
		peak:     newEnergyDetector(cfg.PeakHistorySize, cfg.PeakFloor, cfg.PeakThreshold, cfg.PeakMinInterval),
		now:      time.Now,
	}
}

// SetClock replaces the engine's time source. Offline replay injects a
// simulated clock here so debounce windows track audio time instead of wall
// time.
func (e *Engine) SetClock(fn func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = fn
}

// OnBeat sets the beat callback, invoked synchronously from Analyze with the
// triggering bass intensity in [0,1].
func (e *Engine) OnBeat(fn func(intensity float64)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onBeat = fn
}

// OnPeak sets the peak callback, invoked synchronously from Analyze with the
// triggering overall intensity in [0,1].
func (e *Engine) OnPeak(fn func(intensity float64)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onPeak = fn
}

// Analyze processes one frequency-magnitude frame. Magnitudes are 8-bit
// (0-255), one per spectral bin. When active is false the smoothed bands
// decay toward zero instead of holding their last value. A missing frame or
// unusable sample rate skips the tick, leaving prior smoothed state intact.
func (e *Engine) Analyze(frame []byte, sampleRate float64, active bool) {
	e.mu.Lock()

	if !active {
		e.decayLocked()
		e.mu.Unlock()
		return
	}

	if len(frame) == 0 || sampleRate <= 0 {
		// Coast: nothing to analyze this tick.
		e.mu.Unlock()
		return
	}

	nyquist := sampleRate / 2
	cfg := e.cfg

	bass := e.bandEnergy(frame, cfg.BassLowHz, cfg.BassHighHz, nyquist)
	mid := e.bandEnergy(frame, cfg.BassHighHz, cfg.MidHighHz, nyquist)
	treble := e.bandEnergy(frame, cfg.MidHighHz, cfg.TrebleHighHz, nyquist)
	overall := e.bandEnergy(frame, cfg.BassLowHz, cfg.TrebleHighHz, nyquist)

	e.raw = BandEnergy{Bass: bass, Mid: mid, Treble: treble, Overall: overall}
	e.sBass.Update(bass)
	e.sMid.Update(mid)
	e.sTreble.Update(treble)
	e.sOverall.Update(overall)

	now := e.now()
	beatFired := e.beat.process(bass, now)
	peakFired := e.peak.process(overall, now)
	onBeat, onPeak := e.onBeat, e.onPeak

	e.mu.Unlock()

	// Callbacks run outside the lock so consumers can query Bands.
	if beatFired && onBeat != nil {
		safeCall(func() { onBeat(bass) }, "beat")
	}
	if peakFired && onPeak != nil {
		safeCall(func() { onPeak(overall) }, "peak")
	}
}

// bandEnergy averages the magnitudes across a Hz range, normalizes to [0,1]
// and applies the sensitivity factor.
func (e *Engine) bandEnergy(frame []byte, lowHz, highHz, nyquist float64) float64 {
	lo := int(math.Floor(lowHz / nyquist * float64(len(frame))))
	hi := int(math.Floor(highHz / nyquist * float64(len(frame))))

	if lo < 0 {
		lo = 0
	}
	if hi > len(frame) {
		hi = len(frame)
	}
	if hi <= lo {
		hi = lo + 1
		if hi > len(frame) {
			return 0
		}
	}

	var sum float64
	for _, m := range frame[lo:hi] {
		sum += float64(m)
	}
	avg := sum / float64(hi-lo) / 255.0

	return dsp.Clamp(avg*e.cfg.Sensitivity, 0, 1)
}

// decayLocked shrinks all smoothed bands toward zero. Caller holds e.mu.
func (e *Engine) decayLocked() {
	e.sBass.Decay(e.cfg.DecayMultiplier)
	e.sMid.Decay(e.cfg.DecayMultiplier)
	e.sTreble.Decay(e.cfg.DecayMultiplier)
	e.sOverall.Decay(e.cfg.DecayMultiplier)
}

// Bands returns the latest raw and smoothed band energies.
func (e *Engine) Bands() (raw, smoothed BandEnergy) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	raw = e.raw
	smoothed = BandEnergy{
		Bass:    e.sBass.Value(),
		Mid:     e.sMid.Value(),
		Treble:  e.sTreble.Value(),
		Overall: e.sOverall.Value(),
	}
	return raw, smoothed
}

// SetSensitivity updates the sensitivity factor, clamped to its valid range.
func (e *Engine) SetSensitivity(f float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Sensitivity = dsp.Clamp(f, 0.1, 5.0)
}

// SetSmoothing updates the EMA factor for all bands, clamped to [0,1).
func (e *Engine) SetSmoothing(f float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f = dsp.Clamp(f, 0, 0.999)
	e.cfg.Smoothing = f
	e.sBass.SetFactor(f)
	e.sMid.SetFactor(f)
	e.sTreble.SetFactor(f)
	e.sOverall.SetFactor(f)
}

// Reset returns the engine to its cold state.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.raw = BandEnergy{}
	e.sBass.Reset()
	e.sMid.Reset()
	e.sTreble.Reset()
	e.sOverall.Reset()
	e.beat.reset()
	e.peak.reset()
}

// safeCall isolates consumer callback panics so a misbehaving consumer cannot
// corrupt the engine between ticks.
func safeCall(fn func(), slot string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("consumer callback panicked", "slot", slot, "panic", r)
		}
	}()
	fn()
}
