package audio

import "math"

// fft computes the in-place radix-2 Cooley-Tukey FFT.
// len(x) must be a power of two.
func fft(x []complex128) {
	n := len(x)
	if n <= 1 {
		return
	}

	// Bit-reversal permutation
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j |= bit
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}

	for length := 2; length <= n; length <<= 1 {
		angle := -2 * math.Pi / float64(length)
		wl := complex(math.Cos(angle), math.Sin(angle))
		for start := 0; start < n; start += length {
			w := complex(1, 0)
			for k := 0; k < length/2; k++ {
				u := x[start+k]
				v := x[start+k+length/2] * w
				x[start+k] = u + v
				x[start+k+length/2] = u - v
				w *= wl
			}
		}
	}
}

// hannWindow returns the Hann window of the given size.
func hannWindow(size int) []float64 {
	w := make([]float64, size)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return w
}

// spectrum windows the samples, runs the FFT and maps bin magnitudes to the
// 0-255 range the spectral engine expects. len(samples) must equal
// len(window) and be a power of two; the result has half as many bins.
func spectrum(samples, window []float64, gain float64) []byte {
	n := len(samples)
	buf := make([]complex128, n)
	for i, s := range samples {
		buf[i] = complex(s*window[i], 0)
	}
	fft(buf)

	// Normalize by half the window length: a full-scale sine then maps to
	// roughly the top of the byte range.
	norm := float64(n) / 4
	out := make([]byte, n/2)
	for i := 0; i < n/2; i++ {
		m := math.Hypot(real(buf[i]), imag(buf[i])) / norm * gain * 255
		if m > 255 {
			m = 255
		}
		out[i] = byte(m)
	}
	return out
}
