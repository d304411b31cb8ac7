// Package dispatch is the fan-out point between the signal engines and their
// consumers. Each event kind has a named slot holding an ordered list of
// subscribers; emits are synchronous on the emitting engine's own tick and a
// panicking subscriber is isolated so it cannot corrupt the engine.
package dispatch

import (
	"sync"

	"github.com/google/uuid"

	"github.com/lumafield/stagesense/internal/log"
	"github.com/lumafield/stagesense/pkg/gesture"
	"github.com/lumafield/stagesense/pkg/spectral"
)

// Slot names one event kind.
type Slot string

const (
	SlotPinch    Slot = "pinch"
	SlotSwipe    Slot = "swipe"
	SlotReset    Slot = "reset"
	SlotFollow   Slot = "follow"
	SlotBodyLean Slot = "bodylean"
	SlotBeat     Slot = "beat"
	SlotPeak     Slot = "peak"
	SlotBands    Slot = "bands"
)

// Token identifies one subscription for later removal.
type Token string

type subscriber struct {
	token Token
	fn    any
}

// Registry is the multi-consumer publish mechanism. Subscribing appends to
// the slot's ordered list; Replace keeps the original last-registration-wins
// behaviour for consumers that want a single active callback.
type Registry struct {
	mu    sync.RWMutex
	slots map[Slot][]subscriber
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{slots: make(map[Slot][]subscriber)}
}

func (r *Registry) subscribe(slot Slot, fn any) Token {
	r.mu.Lock()
	defer r.mu.Unlock()
	tok := Token(uuid.NewString())
	r.slots[slot] = append(r.slots[slot], subscriber{token: tok, fn: fn})
	return tok
}

func (r *Registry) replace(slot Slot, fn any) Token {
	r.mu.Lock()
	defer r.mu.Unlock()
	tok := Token(uuid.NewString())
	r.slots[slot] = []subscriber{{token: tok, fn: fn}}
	return tok
}

// Unsubscribe removes a subscription by token. Unknown tokens are ignored.
func (r *Registry) Unsubscribe(tok Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for slot, subs := range r.slots {
		for i, s := range subs {
			if s.token == tok {
				r.slots[slot] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// snapshot copies a slot's subscriber list so emits never hold the lock
// while running consumer code.
func (r *Registry) snapshot(slot Slot) []subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subs := r.slots[slot]
	out := make([]subscriber, len(subs))
	copy(out, subs)
	return out
}

// OnPinch subscribes to continuous pinch strength updates.
func (r *Registry) OnPinch(fn func(strength float64)) Token {
	return r.subscribe(SlotPinch, fn)
}

// OnSwipe subscribes to discrete swipe events.
func (r *Registry) OnSwipe(fn func(s gesture.Swipe)) Token {
	return r.subscribe(SlotSwipe, fn)
}

// OnReset subscribes to open-palm reset events.
func (r *Registry) OnReset(fn func()) Token {
	return r.subscribe(SlotReset, fn)
}

// OnFollow subscribes to follow-mode position and activation updates.
func (r *Registry) OnFollow(fn func(u gesture.FollowUpdate)) Token {
	return r.subscribe(SlotFollow, fn)
}

// OnBodyLean subscribes to the continuous body-lean scalar.
func (r *Registry) OnBodyLean(fn func(lean float64)) Token {
	return r.subscribe(SlotBodyLean, fn)
}

// OnBeat subscribes to beat events with their triggering intensity.
func (r *Registry) OnBeat(fn func(intensity float64)) Token {
	return r.subscribe(SlotBeat, fn)
}

// OnPeak subscribes to peak events with their triggering intensity.
func (r *Registry) OnPeak(fn func(intensity float64)) Token {
	return r.subscribe(SlotPeak, fn)
}

// OnBands subscribes to per-tick smoothed band energy updates.
func (r *Registry) OnBands(fn func(b spectral.BandEnergy)) Token {
	return r.subscribe(SlotBands, fn)
}

// ReplaceBeat installs fn as the only beat subscriber.
func (r *Registry) ReplaceBeat(fn func(intensity float64)) Token {
	return r.replace(SlotBeat, fn)
}

// ReplaceSwipe installs fn as the only swipe subscriber.
func (r *Registry) ReplaceSwipe(fn func(s gesture.Swipe)) Token {
	return r.replace(SlotSwipe, fn)
}

// EmitPinch forwards a pinch strength update to all subscribers.
func (r *Registry) EmitPinch(strength float64) {
	for _, s := range r.snapshot(SlotPinch) {
		guard(SlotPinch, func() { s.fn.(func(float64))(strength) })
	}
}

// EmitSwipe forwards a swipe event to all subscribers.
func (r *Registry) EmitSwipe(sw gesture.Swipe) {
	for _, s := range r.snapshot(SlotSwipe) {
		guard(SlotSwipe, func() { s.fn.(func(gesture.Swipe))(sw) })
	}
}

// EmitReset forwards a reset event to all subscribers.
func (r *Registry) EmitReset() {
	for _, s := range r.snapshot(SlotReset) {
		guard(SlotReset, func() { s.fn.(func())() })
	}
}

// EmitFollow forwards a follow update to all subscribers.
func (r *Registry) EmitFollow(u gesture.FollowUpdate) {
	for _, s := range r.snapshot(SlotFollow) {
		guard(SlotFollow, func() { s.fn.(func(gesture.FollowUpdate))(u) })
	}
}

// EmitBodyLean forwards a body-lean update to all subscribers.
func (r *Registry) EmitBodyLean(lean float64) {
	for _, s := range r.snapshot(SlotBodyLean) {
		guard(SlotBodyLean, func() { s.fn.(func(float64))(lean) })
	}
}

// EmitBeat forwards a beat event to all subscribers.
func (r *Registry) EmitBeat(intensity float64) {
	for _, s := range r.snapshot(SlotBeat) {
		guard(SlotBeat, func() { s.fn.(func(float64))(intensity) })
	}
}

// EmitPeak forwards a peak event to all subscribers.
func (r *Registry) EmitPeak(intensity float64) {
	for _, s := range r.snapshot(SlotPeak) {
		guard(SlotPeak, func() { s.fn.(func(float64))(intensity) })
	}
}

// EmitBands forwards a band energy update to all subscribers.
func (r *Registry) EmitBands(b spectral.BandEnergy) {
	for _, s := range r.snapshot(SlotBands) {
		guard(SlotBands, func() { s.fn.(func(spectral.BandEnergy))(b) })
	}
}

// GestureEvents returns a gesture callback set that forwards into the
// registry, for wiring a Recognizer straight to the fan-out.
func (r *Registry) GestureEvents() gesture.Events {
	return gesture.Events{
		OnPinch:    r.EmitPinch,
		OnSwipe:    r.EmitSwipe,
		OnReset:    r.EmitReset,
		OnFollow:   r.EmitFollow,
		OnBodyLean: r.EmitBodyLean,
	}
}

// BindSpectral points a spectral engine's beat and peak callbacks at the
// registry.
func (r *Registry) BindSpectral(e *spectral.Engine) {
	e.OnBeat(r.EmitBeat)
	e.OnPeak(r.EmitPeak)
}

// guard isolates a single subscriber call.
func guard(slot Slot, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("subscriber panicked", "slot", string(slot), "panic", rec)
		}
	}()
	fn()
}

// SubscriberCount returns the number of subscribers on a slot.
func (r *Registry) SubscriberCount(slot Slot) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots[slot])
}
