package spectral

import (
	"math"
	"testing"
	"time"
)

// fakeClock advances a fixed amount per tick for deterministic beat spacing.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) tick() {
	c.t = c.t.Add(c.step)
}

// flatFrame returns a frame with every bin at the given magnitude.
func flatFrame(bins int, magnitude byte) []byte {
	f := make([]byte, bins)
	for i := range f {
		f[i] = magnitude
	}
	return f
}

// bassFrame returns a frame whose bass bins (up to bassHz) carry the given
// magnitude and the rest are quiet.
func bassFrame(bins int, sampleRate, bassHz float64, magnitude byte) []byte {
	f := make([]byte, bins)
	nyquist := sampleRate / 2
	hi := int(bassHz / nyquist * float64(bins))
	for i := 0; i < hi && i < bins; i++ {
		f[i] = magnitude
	}
	return f
}

func TestEngine_BandClamping(t *testing.T) {
	tests := []struct {
		name        string
		frame       []byte
		sensitivity float64
	}{
		{"all zero", flatFrame(512, 0), 1.0},
		{"all max", flatFrame(512, 255), 1.0},
		{"all max high sensitivity", flatFrame(512, 255), 5.0},
		{"mid level", flatFrame(512, 128), 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Sensitivity = tt.sensitivity
			e := New(cfg)

			e.Analyze(tt.frame, 44100, true)

			raw, smoothed := e.Bands()
			for name, v := range map[string]float64{
				"bass": raw.Bass, "mid": raw.Mid, "treble": raw.Treble, "overall": raw.Overall,
				"sbass": smoothed.Bass, "soverall": smoothed.Overall,
			} {
				if v < 0 || v > 1 {
					t.Errorf("%s out of [0,1]: %v", name, v)
				}
			}
		})
	}
}

func TestEngine_AllMaxSaturatesBands(t *testing.T) {
	e := New(DefaultConfig())
	e.Analyze(flatFrame(512, 255), 44100, true)

	raw, _ := e.Bands()
	if raw.Bass != 1 || raw.Overall != 1 {
		t.Errorf("expected saturated bands for all-max input, got bass=%v overall=%v", raw.Bass, raw.Overall)
	}
}

func TestEngine_SkipsTickOnMissingInput(t *testing.T) {
	e := New(DefaultConfig())
	e.Analyze(flatFrame(512, 200), 44100, true)
	_, before := e.Bands()

	e.Analyze(nil, 44100, true)
	e.Analyze(flatFrame(512, 200), 0, true)

	_, after := e.Bands()
	if before != after {
		t.Errorf("smoothed state changed on skipped ticks: %+v -> %+v", before, after)
	}
}

func TestEngine_DecaysWhenInactive(t *testing.T) {
	cfg := DefaultConfig()
	e := New(cfg)
	e.Analyze(flatFrame(512, 255), 44100, true)
	_, s0 := e.Bands()

	for i := 0; i < 5; i++ {
		e.Analyze(nil, 0, false)
	}

	_, s1 := e.Bands()
	want := s0.Bass * math.Pow(cfg.DecayMultiplier, 5)
	if math.Abs(s1.Bass-want) > 1e-9 {
		t.Errorf("expected decayed bass %v, got %v", want, s1.Bass)
	}
	if s1.Bass >= s0.Bass {
		t.Error("expected smoothed bass to shrink while inactive")
	}
}

func TestEngine_BeatMinimumSpacing(t *testing.T) {
	cfg := DefaultConfig()
	e := New(cfg)

	clock := &fakeClock{t: time.Unix(0, 0), step: 16 * time.Millisecond} // ~60 Hz ticks
	e.now = clock.now

	var beats []time.Time
	e.OnBeat(func(intensity float64) {
		beats = append(beats, clock.t)
	})

	quiet := bassFrame(512, 44100, 250, 40)
	loud := bassFrame(512, 44100, 250, 255)

	// Alternate loud spikes with quiet ticks so the spikes keep exceeding
	// the rolling mean on every other tick (~8ms apart raw trigger rate).
	for i := 0; i < 10; i++ {
		e.Analyze(quiet, 44100, true)
		clock.tick()
	}
	for i := 0; i < 120; i++ {
		frame := quiet
		if i%2 == 0 {
			frame = loud
		}
		e.Analyze(frame, 44100, true)
		clock.tick()
	}

	if len(beats) < 2 {
		t.Fatalf("expected multiple beats, got %d", len(beats))
	}
	for i := 1; i < len(beats); i++ {
		gap := beats[i].Sub(beats[i-1])
		if gap < cfg.BeatMinInterval {
			t.Errorf("beats %d and %d only %v apart, want >= %v", i-1, i, gap, cfg.BeatMinInterval)
		}
	}
}

func TestEngine_EndToEndSingleBeat(t *testing.T) {
	// Ten ticks of bass energy with a single spike on tick 6 must produce
	// exactly one beat, fired on tick 6.
	cfg := DefaultConfig()
	e := New(cfg)

	clock := &fakeClock{t: time.Unix(0, 0), step: 200 * time.Millisecond}
	e.now = clock.now

	var firedTicks []int
	tick := 0
	e.OnBeat(func(intensity float64) {
		firedTicks = append(firedTicks, tick)
		if intensity < 0.8 {
			t.Errorf("expected spike intensity near 0.9, got %v", intensity)
		}
	})

	spikeAmp := 0.9
	quiet := bassFrame(512, 44100, 250, byte(0.2*255))
	spike := bassFrame(512, 44100, 250, byte(spikeAmp*255))

	sequence := [][]byte{quiet, quiet, quiet, quiet, quiet, spike, quiet, quiet, quiet, quiet}
	for i, frame := range sequence {
		tick = i + 1
		e.Analyze(frame, 44100, true)
		clock.tick()
	}

	if len(firedTicks) != 1 {
		t.Fatalf("expected exactly one beat, got %d (ticks %v)", len(firedTicks), firedTicks)
	}
	if firedTicks[0] != 6 {
		t.Errorf("expected beat on tick 6, got tick %d", firedTicks[0])
	}
}

func TestEngine_CallbackPanicDoesNotBreakTicks(t *testing.T) {
	cfg := DefaultConfig()
	e := New(cfg)

	clock := &fakeClock{t: time.Unix(0, 0), step: 300 * time.Millisecond}
	e.now = clock.now

	fired := 0
	e.OnBeat(func(intensity float64) {
		fired++
		panic("consumer bug")
	})

	quiet := bassFrame(512, 44100, 250, 40)
	loud := bassFrame(512, 44100, 250, 255)

	for i := 0; i < 5; i++ {
		e.Analyze(quiet, 44100, true)
		clock.tick()
	}
	e.Analyze(loud, 44100, true)
	clock.tick()

	// The panic above must not prevent further analysis or firing.
	for i := 0; i < 5; i++ {
		e.Analyze(quiet, 44100, true)
		clock.tick()
	}
	e.Analyze(loud, 44100, true)

	if fired < 2 {
		t.Errorf("expected beats to keep firing after consumer panic, got %d", fired)
	}
}

func TestEngine_SettersClampSilently(t *testing.T) {
	e := New(DefaultConfig())

	e.SetSensitivity(100)
	e.SetSmoothing(42)

	e.Analyze(flatFrame(512, 255), 44100, true)
	raw, _ := e.Bands()
	if raw.Bass > 1 {
		t.Errorf("sensitivity clamp failed, bass=%v", raw.Bass)
	}
}
