package dsp

// History is a fixed-capacity rolling window of samples with a running sum,
// used by the beat and peak detectors to compare the current energy against
// its recent mean.
type History struct {
	samples []float64
	size    int
	next    int
	count   int
	sum     float64
}

// NewHistory creates a rolling window holding up to size samples.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{
		samples: make([]float64, size),
		size:    size,
	}
}

// Push adds a sample, evicting the oldest when full.
func (h *History) Push(v float64) {
	h.sum -= h.samples[h.next]
	h.samples[h.next] = v
	h.sum += v
	h.next = (h.next + 1) % h.size
	if h.count < h.size {
		h.count++
	}
}

// Mean returns the average of the stored samples, or 0 when empty.
func (h *History) Mean() float64 {
	if h.count == 0 {
		return 0
	}
	return h.sum / float64(h.count)
}

// Len returns the number of stored samples.
func (h *History) Len() int {
	return h.count
}

// Full reports whether the window has reached capacity.
func (h *History) Full() bool {
	return h.count == h.size
}

// Reset empties the window.
func (h *History) Reset() {
	for i := range h.samples {
		h.samples[i] = 0
	}
	h.next = 0
	h.count = 0
	h.sum = 0
}
