package audio

// Synthetic generates deterministic frequency frames with a periodic bass
// kick, for demos and tests that need beats without an audio file.
type Synthetic struct {
	bins       int
	sampleRate float64

	// KickEvery is the tick period of the bass kick.
	KickEvery int
	// Floor and KickLevel are the quiet and kick bass magnitudes (0-255).
	Floor     byte
	KickLevel byte

	tick int
}

// NewSynthetic creates a synthetic source with the given bin count and
// nominal sample rate.
func NewSynthetic(bins int, sampleRate float64) *Synthetic {
	return &Synthetic{
		bins:       bins,
		sampleRate: sampleRate,
		KickEvery:  30,
		Floor:      40,
		KickLevel:  230,
	}
}

// Frame returns the next synthetic magnitude frame. The bass bins carry the
// kick pattern; mid and treble get a sloped floor so every band reads
// nonzero energy.
func (s *Synthetic) Frame() ([]byte, float64, bool) {
	frame := make([]byte, s.bins)

	bassLevel := s.Floor
	if s.KickEvery > 0 && s.tick%s.KickEvery == 0 {
		bassLevel = s.KickLevel
	}

	nyquist := s.sampleRate / 2
	bassHi := int(250 / nyquist * float64(s.bins))
	for i := range frame {
		if i < bassHi {
			frame[i] = bassLevel
		} else {
			// Gentle high-frequency rolloff.
			frame[i] = s.Floor / 2
		}
	}

	s.tick++
	return frame, s.sampleRate, true
}
