package audio

import (
	"fmt"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// fftSize is the analysis window length in samples (power of two).
	fftSize = 2048
)

// WAVSource replays a WAV file as a stream of frequency frames. Each call to
// Frame advances the playhead by one tick's worth of samples, so driving it
// at the configured tick rate plays the file back in real time.
type WAVSource struct {
	samples    []float64
	sampleRate float64
	hop        int
	pos        int
	window     []float64
	gain       float64
}

// NewWAVSource decodes the WAV file at path and prepares frames for the
// given tick rate (frames per second).
func NewWAVSource(path string, tickRate int) (*WAVSource, error) {
	if tickRate < 1 {
		tickRate = 60
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: open %q: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audio: decode %q: %w", path, err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("audio: %q has no valid format", path)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}

	return &WAVSource{
		samples:    monoSamples(buf, bitDepth),
		sampleRate: float64(buf.Format.SampleRate),
		hop:        buf.Format.SampleRate / tickRate,
		window:     hannWindow(fftSize),
		gain:       1.0,
	}, nil
}

// Frame returns the spectrum of the window at the current playhead and
// advances by one hop. After the file ends it reports inactive.
func (w *WAVSource) Frame() ([]byte, float64, bool) {
	if w.pos+fftSize > len(w.samples) {
		return nil, w.sampleRate, false
	}

	frame := spectrum(w.samples[w.pos:w.pos+fftSize], w.window, w.gain)
	w.pos += w.hop
	return frame, w.sampleRate, true
}

// Duration returns the decoded length of the file.
func (w *WAVSource) Duration() time.Duration {
	if w.sampleRate == 0 {
		return 0
	}
	return time.Duration(float64(len(w.samples)) / w.sampleRate * float64(time.Second))
}

// Rewind moves the playhead back to the start.
func (w *WAVSource) Rewind() {
	w.pos = 0
}

// monoSamples mixes an interleaved PCM buffer down to normalized mono
// float64 samples in [-1, 1].
func monoSamples(buf *goaudio.IntBuffer, bitDepth int) []float64 {
	channels := 1
	if buf.Format != nil && buf.Format.NumChannels > 1 {
		channels = buf.Format.NumChannels
	}
	scale := float64(int(1) << (bitDepth - 1))

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		samples[i] = sum / float64(channels) / scale
	}
	return samples
}
