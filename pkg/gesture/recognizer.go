// Package gesture classifies landmark frames into discrete, debounced
// control events and smoothed continuous parameters: pinch, swipe, open-palm
// reset, follow mode, and body lean. Each classifier owns its own small state
// machine and smoothing constants; nothing is shared between them.
package gesture

import (
	"sync"
	"time"

	"github.com/lumafield/stagesense/internal/log"
	"github.com/lumafield/stagesense/pkg/landmark"
)

// Events groups the per-gesture callbacks. Dispatch is synchronous on the
// camera tick; a panicking callback is isolated and logged.
type Events struct {
	OnPinch    func(strength float64)
	OnSwipe    func(s Swipe)
	OnReset    func()
	OnFollow   func(u FollowUpdate)
	OnBodyLean func(lean float64)
}

// Recognizer runs the landmark preprocessor and all gesture classifiers over
// a stream of camera frames. Process must be called from a single goroutine
// (the camera inference callback); the remaining methods are safe from any
// goroutine.
type Recognizer struct {
	mu      sync.Mutex
	cfg     Config
	enabled bool

	pre    *landmark.Preprocessor
	pinch  *pinchClassifier
	swipe  *swipeClassifier
	palm   *palmClassifier
	follow *followClassifier
	lean   *leanClassifier

	events Events

	// Injectable clock for deterministic tests.
	now func() time.Time
}

// New creates a recognizer with the given configuration.
// Out-of-range values are clamped, never rejected.
func New(cfg Config) *Recognizer {
	cfg = cfg.sanitize()
	return &Recognizer{
		cfg:     cfg,
		enabled: true,
		pre:     landmark.NewPreprocessor(),
		pinch:   newPinchClassifier(cfg),
		swipe:   newSwipeClassifier(cfg),
		palm:    newPalmClassifier(cfg),
		follow:  newFollowClassifier(cfg),
		lean:    newLeanClassifier(cfg),
		now:     time.Now,
	}
}

// SetClock replaces the recognizer's time source, used by offline replay to
// keep swipe cooldowns on recorded time.
func (r *Recognizer) SetClock(fn func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = fn
}

// SetEvents installs the consumer callbacks.
func (r *Recognizer) SetEvents(ev Events) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = ev
}

// Process classifies one landmark frame. Empty frames (no hands, no pose)
// skip classification and leave all state untouched.
func (r *Recognizer) Process(frame landmark.Frame) {
	r.mu.Lock()
	if !r.enabled {
		r.mu.Unlock()
		return
	}

	type emit func()
	var emits []emit
	ev := r.events

	if len(frame.Hands) > 0 {
		// Single-hand design: the first detected hand drives all hand
		// gestures.
		hand := frame.Hands[0]
		feat := r.pre.Process(&hand)
		now := r.now()

		if strength, active := r.pinch.process(feat); active && ev.OnPinch != nil {
			s := strength
			emits = append(emits, func() { ev.OnPinch(s) })
		}

		if sw, fired := r.swipe.process(feat, now); fired && ev.OnSwipe != nil {
			s := sw
			emits = append(emits, func() { ev.OnSwipe(s) })
		}

		if r.palm.process(feat) && ev.OnReset != nil {
			emits = append(emits, func() { ev.OnReset() })
		}

		if u, due := r.follow.process(feat); due && ev.OnFollow != nil {
			fu := u
			emits = append(emits, func() { ev.OnFollow(fu) })
		}
	}

	if frame.Pose != nil {
		lean := r.lean.process(frame.Pose)
		if ev.OnBodyLean != nil {
			emits = append(emits, func() { ev.OnBodyLean(lean) })
		}
	}

	r.mu.Unlock()

	// Callbacks run outside the lock so consumers may call back into the
	// recognizer.
	for _, e := range emits {
		safeEmit(e)
	}
}

// Enabled reports whether recognition is running.
func (r *Recognizer) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// Disable stops recognition and returns every classifier to its cold default
// state, so a future re-enable starts fresh.
func (r *Recognizer) Disable() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = false
	r.resetLocked()
}

// Enable resumes recognition from a cold state.
func (r *Recognizer) Enable() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = true
}

// Reset returns every classifier to its cold default state without changing
// the enabled flag.
func (r *Recognizer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetLocked()
}

func (r *Recognizer) resetLocked() {
	r.pre.Reset()
	r.pinch.reset()
	r.swipe.reset()
	r.follow.reset()
	r.lean.reset()
}

func safeEmit(fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("gesture consumer callback panicked", "panic", rec)
		}
	}()
	fn()
}
