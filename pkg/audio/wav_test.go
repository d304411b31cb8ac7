package audio

import (
	"math"
	"testing"

	goaudio "github.com/go-audio/audio"
)

func TestMonoSamplesMixesChannels(t *testing.T) {
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: 2, SampleRate: 44100},
		Data:   []int{16384, -16384, 8192, 8192},
	}

	samples := monoSamples(buf, 16)
	if len(samples) != 2 {
		t.Fatalf("got %d frames, want 2", len(samples))
	}
	if math.Abs(samples[0]) > 1e-9 {
		t.Errorf("opposite channels should cancel, got %v", samples[0])
	}
	if math.Abs(samples[1]-0.25) > 1e-9 {
		t.Errorf("frame 1 = %v, want 0.25", samples[1])
	}
}

func TestMonoSamplesFullScale(t *testing.T) {
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: 1, SampleRate: 44100},
		Data:   []int{32767, -32768},
	}

	samples := monoSamples(buf, 16)
	if samples[0] < 0.99 || samples[0] > 1.0 {
		t.Errorf("positive full scale = %v, want ~1", samples[0])
	}
	if samples[1] != -1.0 {
		t.Errorf("negative full scale = %v, want -1", samples[1])
	}
}

func TestNewWAVSourceMissingFile(t *testing.T) {
	if _, err := NewWAVSource("/nonexistent.wav", 60); err == nil {
		t.Fatal("missing file should error")
	}
}
