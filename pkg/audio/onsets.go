package audio

import (
	"fmt"
	"time"

	"github.com/goccmack/godsp"
	"github.com/goccmack/godsp/dwt"
	"github.com/goccmack/godsp/peaks"
)

const (
	// dwtLevel is the number of scales over which the DWT is computed.
	dwtLevel = 4
	// dwtScale is the downsampling factor of the energy envelope.
	dwtScale = 1 << dwtLevel
)

// ScanOnsets runs an offline wavelet-based onset scan over a WAV file and
// returns the onset offsets from the start of the first channel. minSep is
// the minimum spacing between reported onsets. Useful as a reference track
// when calibrating the live beat detector against known material.
func ScanOnsets(path string, minSep time.Duration) ([]time.Duration, error) {
	channels, fs, _ := godsp.ReadWavFile(path)
	if len(channels) == 0 || len(channels[0]) == 0 {
		return nil, fmt.Errorf("audio: %q has no samples", path)
	}

	// Samples/sec of the energy envelope at the highest DWT scale.
	fss := fs / dwtScale
	sep := int(minSep.Seconds() * float64(fss))
	if sep < 1 {
		sep = 1
	}

	db4 := dwt.Daubechies4(channels[0], dwtLevel)
	coefs := db4.GetCoefficients()
	absX := godsp.AbsAll(coefs)
	dsX := godsp.DownSampleAll(absX)
	sumX := godsp.SumVectors(dsX)
	sumX = godsp.DivS(sumX, godsp.Average(sumX))

	pks := peaks.Get(sumX, sep)

	onsets := make([]time.Duration, len(pks))
	for i, pk := range pks {
		onsets[i] = time.Duration(float64(pk) / float64(fss) * float64(time.Second))
	}
	return onsets, nil
}
