// Package audio provides frequency-frame sources for the spectral engine:
// a WAV file source for replay and demos, a synthetic source for tests, and
// an offline DWT onset scan for calibration. The engine itself never decodes
// audio; it only consumes the 8-bit magnitude frames produced here.
package audio

// Source supplies one frequency-magnitude frame per audio tick.
type Source interface {
	// Frame returns the current magnitude frame (one 0-255 value per
	// spectral bin), the source sample rate, and whether the source is
	// still active. An inactive source keeps returning (nil, rate, false)
	// so the engine can run its decay path.
	Frame() (magnitudes []byte, sampleRate float64, active bool)
}
