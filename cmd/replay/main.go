// Replay runs recorded material through the signal engines offline: a WAV
// file through the spectral engine and optionally a landmark recording
// through the gesture recognizer, printing every event with its offset into
// the recording.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lumafield/stagesense/internal/config"
	"github.com/lumafield/stagesense/internal/log"
	"github.com/lumafield/stagesense/pkg/audio"
	"github.com/lumafield/stagesense/pkg/gesture"
	"github.com/lumafield/stagesense/pkg/landmark"
	"github.com/lumafield/stagesense/pkg/spectral"
)

// recordedFrame is one entry of a landmark recording file: a JSON array of
// frames with millisecond offsets.
type recordedFrame struct {
	OffsetMS int                  `json:"t_ms"`
	Hands    []landmark.HandFrame `json:"hands"`
	Pose     *landmark.PoseFrame  `json:"pose,omitempty"`
}

func main() {
	wavPath := flag.String("wav", "", "WAV file to analyze")
	framesPath := flag.String("frames", "", "Landmark recording JSON (optional)")
	tickRate := flag.Int("tick", config.DefaultTickRate, "Analysis ticks per second")
	onsets := flag.Bool("onsets", false, "Also run the offline wavelet onset scan")
	tuningPath := flag.String("tuning", config.TuningPath(), "Tuning YAML file (optional)")
	flag.Parse()

	log.Init(config.LogLevel())

	if *wavPath == "" && *framesPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: replay -wav file.wav [-frames rec.json] [-onsets]")
		os.Exit(1)
	}

	spectralCfg := spectral.DefaultConfig()
	gestureCfg := gesture.DefaultConfig()
	if *tuningPath != "" {
		tuning, err := config.LoadTuning(*tuningPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		spectralCfg = tuning.SpectralConfig()
		gestureCfg = tuning.GestureConfig()
	}

	if *wavPath != "" {
		if err := replayAudio(*wavPath, *tickRate, spectralCfg); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		if *onsets {
			if err := printOnsets(*wavPath); err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				os.Exit(1)
			}
		}
	}

	if *framesPath != "" {
		if err := replayGestures(*framesPath, gestureCfg); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}
}

// replayAudio pushes the whole file through the engine on a simulated clock,
// so debounce windows follow audio time and the scan finishes immediately.
func replayAudio(path string, tickRate int, cfg spectral.Config) error {
	source, err := audio.NewWAVSource(path, tickRate)
	if err != nil {
		return err
	}

	interval := time.Second / time.Duration(tickRate)
	base := time.Now()
	var offset time.Duration

	engine := spectral.New(cfg)
	engine.SetClock(func() time.Time { return base.Add(offset) })

	engine.OnBeat(func(intensity float64) {
		fmt.Printf("%8s  beat  intensity=%.2f\n", offset.Round(time.Millisecond), intensity)
	})
	engine.OnPeak(func(intensity float64) {
		fmt.Printf("%8s  peak  intensity=%.2f\n", offset.Round(time.Millisecond), intensity)
	})

	fmt.Printf("replaying %s (%s)\n", path, source.Duration().Round(time.Second))
	for {
		frame, rate, active := source.Frame()
		if !active {
			break
		}
		engine.Analyze(frame, rate, true)
		offset += interval
	}

	_, smoothed := engine.Bands()
	fmt.Printf("final bands: bass=%.2f mid=%.2f treble=%.2f overall=%.2f\n",
		smoothed.Bass, smoothed.Mid, smoothed.Treble, smoothed.Overall)
	return nil
}

// printOnsets runs the wavelet scan for comparison with the live detector.
func printOnsets(path string) error {
	found, err := audio.ScanOnsets(path, 200*time.Millisecond)
	if err != nil {
		return err
	}
	fmt.Printf("wavelet scan found %d onsets:\n", len(found))
	for _, o := range found {
		fmt.Printf("%8s  onset\n", o.Round(time.Millisecond))
	}
	return nil
}

// replayGestures runs a landmark recording through the recognizer.
func replayGestures(path string, cfg gesture.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read recording: %w", err)
	}
	var frames []recordedFrame
	if err := json.Unmarshal(data, &frames); err != nil {
		return fmt.Errorf("parse recording: %w", err)
	}

	base := time.Now()
	var offset time.Duration

	rec := gesture.New(cfg)
	rec.SetClock(func() time.Time { return base.Add(offset) })
	rec.SetEvents(gesture.Events{
		OnPinch: func(strength float64) {
			fmt.Printf("%8s  pinch strength=%.2f\n", offset.Round(time.Millisecond), strength)
		},
		OnSwipe: func(s gesture.Swipe) {
			fmt.Printf("%8s  swipe %s velocity=%.3f\n", offset.Round(time.Millisecond), s.Direction, s.Velocity)
		},
		OnReset: func() {
			fmt.Printf("%8s  reset (open palm)\n", offset.Round(time.Millisecond))
		},
		OnFollow: func(u gesture.FollowUpdate) {
			fmt.Printf("%8s  follow active=%t x=%.2f y=%.2f\n", offset.Round(time.Millisecond), u.Active, u.X, u.Y)
		},
		OnBodyLean: func(lean float64) {
			fmt.Printf("%8s  lean %.2f\n", offset.Round(time.Millisecond), lean)
		},
	})

	fmt.Printf("replaying %d landmark frames from %s\n", len(frames), path)
	for _, rf := range frames {
		offset = time.Duration(rf.OffsetMS) * time.Millisecond
		rec.Process(landmark.Frame{Hands: rf.Hands, Pose: rf.Pose})
	}
	return nil
}
