package dispatch

import (
	"testing"

	"github.com/lumafield/stagesense/pkg/gesture"
	"github.com/lumafield/stagesense/pkg/spectral"
)

func TestRegistry_OrderedFanOut(t *testing.T) {
	r := NewRegistry()

	var order []int
	r.OnBeat(func(float64) { order = append(order, 1) })
	r.OnBeat(func(float64) { order = append(order, 2) })
	r.OnBeat(func(float64) { order = append(order, 3) })

	r.EmitBeat(0.9)

	if len(order) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(order))
	}
	for i, v := range order {
		if v != i+1 {
			t.Fatalf("delivery order %v, want registration order", order)
		}
	}
}

func TestRegistry_Unsubscribe(t *testing.T) {
	r := NewRegistry()

	calls := 0
	tok := r.OnReset(func() { calls++ })
	r.OnReset(func() { calls++ })

	r.EmitReset()
	r.Unsubscribe(tok)
	r.EmitReset()

	if calls != 3 {
		t.Errorf("expected 3 total calls (2 then 1), got %d", calls)
	}
	if n := r.SubscriberCount(SlotReset); n != 1 {
		t.Errorf("expected 1 remaining subscriber, got %d", n)
	}
}

func TestRegistry_ReplaceKeepsSingleSlot(t *testing.T) {
	r := NewRegistry()

	first, second := 0, 0
	r.ReplaceBeat(func(float64) { first++ })
	r.ReplaceBeat(func(float64) { second++ })

	r.EmitBeat(0.5)

	if first != 0 || second != 1 {
		t.Errorf("replace semantics broken: first=%d second=%d", first, second)
	}
}

func TestRegistry_PanickingSubscriberIsolated(t *testing.T) {
	r := NewRegistry()

	delivered := false
	r.OnSwipe(func(gesture.Swipe) { panic("bad consumer") })
	r.OnSwipe(func(gesture.Swipe) { delivered = true })

	r.EmitSwipe(gesture.Swipe{Direction: gesture.SwipeLeft, Velocity: 0.1})

	if !delivered {
		t.Error("panic in one subscriber must not block the next")
	}

	// The registry must stay usable afterwards.
	r.EmitSwipe(gesture.Swipe{Direction: gesture.SwipeRight, Velocity: 0.1})
}

func TestRegistry_GestureEventsForwarding(t *testing.T) {
	r := NewRegistry()

	var got []string
	r.OnPinch(func(float64) { got = append(got, "pinch") })
	r.OnFollow(func(gesture.FollowUpdate) { got = append(got, "follow") })
	r.OnBodyLean(func(float64) { got = append(got, "lean") })

	ev := r.GestureEvents()
	ev.OnPinch(0.7)
	ev.OnFollow(gesture.FollowUpdate{X: 0.1, Y: 0.2, Active: true})
	ev.OnBodyLean(-0.3)

	want := []string{"pinch", "follow", "lean"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

func TestRegistry_BindSpectral(t *testing.T) {
	r := NewRegistry()
	e := spectral.New(spectral.DefaultConfig())

	beats := 0
	r.OnBeat(func(float64) { beats++ })
	r.BindSpectral(e)

	// Quiet history then a spike: one beat through the registry.
	quiet := make([]byte, 64)
	for i := range quiet {
		quiet[i] = 40
	}
	loud := make([]byte, 64)
	for i := range loud {
		loud[i] = 255
	}

	for i := 0; i < 5; i++ {
		e.Analyze(quiet, 44100, true)
	}
	e.Analyze(loud, 44100, true)

	if beats != 1 {
		t.Errorf("expected 1 beat via registry, got %d", beats)
	}
}
