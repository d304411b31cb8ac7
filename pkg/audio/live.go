package audio

import (
	"sync"
	"time"
)

// staleAfter is how long a live source reports active after its last push.
const staleAfter = 500 * time.Millisecond

// LiveSource adapts a pushed PCM16 stream (a microphone capture loop, a
// network feed) into spectrum frames. The capture side calls Push from its
// own goroutine; the analysis tick calls Frame. When pushes stop the source
// goes inactive so the engine can decay.
type LiveSource struct {
	mu       sync.Mutex
	rate     int
	buf      []float64 // most recent samples, oldest first
	window   []float64
	lastPush time.Time
	now      func() time.Time
}

// NewLiveSource creates a live source analyzing at the given sample rate.
// Pushed chunks at other rates are resampled on the way in.
func NewLiveSource(sampleRate int) *LiveSource {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	return &LiveSource{
		rate:   sampleRate,
		buf:    make([]float64, 0, fftSize),
		window: hannWindow(fftSize),
		now:    time.Now,
	}
}

// Push appends a PCM16 chunk to the analysis buffer. Only the newest window
// of samples is retained.
func (l *LiveSource) Push(samples []int16, sampleRate int) {
	if len(samples) == 0 {
		return
	}
	if sampleRate != l.rate && sampleRate > 0 {
		samples = Resample(samples, sampleRate, l.rate)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range samples {
		l.buf = append(l.buf, float64(s)/32768)
	}
	if excess := len(l.buf) - fftSize; excess > 0 {
		l.buf = l.buf[excess:]
	}
	l.lastPush = l.now()
}

// Frame returns the spectrum of the newest window. Before the buffer fills,
// or once pushes go stale, it reports inactive.
func (l *LiveSource) Frame() ([]byte, float64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.buf) < fftSize || l.now().Sub(l.lastPush) > staleAfter {
		return nil, float64(l.rate), false
	}
	return spectrum(l.buf, l.window, 1.0), float64(l.rate), true
}

// Resample converts PCM16 audio between sample rates using linear
// interpolation, which is adequate for energy analysis.
func Resample(samples []int16, fromRate, toRate int) []int16 {
	if fromRate == toRate || len(samples) == 0 {
		return samples
	}

	ratio := float64(fromRate) / float64(toRate)
	newLen := int(float64(len(samples)) / ratio)
	if newLen == 0 {
		return []int16{}
	}

	result := make([]int16, newLen)
	for i := 0; i < newLen; i++ {
		srcPos := float64(i) * ratio
		srcIdx := int(srcPos)
		frac := srcPos - float64(srcIdx)

		if srcIdx >= len(samples)-1 {
			result[i] = samples[len(samples)-1]
			continue
		}
		s1 := float64(samples[srcIdx])
		s2 := float64(samples[srcIdx+1])
		result[i] = int16(s1 + frac*(s2-s1))
	}
	return result
}
