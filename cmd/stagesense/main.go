// StageSense - live audio and gesture interpretation for stage visuals.
// Feeds a WAV file or synthetic source through the spectral engine, runs the
// webcam gesture recognizer, and serves both event streams on a dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lumafield/stagesense/internal/config"
	"github.com/lumafield/stagesense/internal/log"
	"github.com/lumafield/stagesense/pkg/audio"
	"github.com/lumafield/stagesense/pkg/dispatch"
	"github.com/lumafield/stagesense/pkg/gesture"
	"github.com/lumafield/stagesense/pkg/landmark"
	"github.com/lumafield/stagesense/pkg/landmark/capture"
	"github.com/lumafield/stagesense/pkg/spectral"
	"github.com/lumafield/stagesense/pkg/telemetry"
	"github.com/lumafield/stagesense/pkg/web"
)

func main() {
	wavPath := flag.String("wav", "", "WAV file to analyze (synthetic source when empty)")
	tickRate := flag.Int("tick", config.DefaultTickRate, "Audio analysis ticks per second")
	port := flag.String("port", config.DashboardPort(), "Dashboard HTTP port")
	camera := flag.Bool("camera", false, "Enable webcam gesture capture")
	device := flag.Int("device", config.DefaultCameraDevice, "Camera device index")
	tuningPath := flag.String("tuning", config.TuningPath(), "Tuning YAML file (optional)")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	level := config.LogLevel()
	if *debug {
		level = "debug"
	}
	log.Init(level)

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

	var source audio.Source
	if *wavPath != "" {
		wav, err := audio.NewWAVSource(*wavPath, *tickRate)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		log.Info("playing wav", "path", *wavPath, "duration", wav.Duration())
		source = wav
	} else {
		source = audio.NewSynthetic(512, 44100)
		log.Info("using synthetic audio source")
	}

	engine := spectral.New(spectralCfg)
	recognizer := gesture.New(gestureCfg)
	registry := dispatch.NewRegistry()
	registry.BindSpectral(engine)
	recognizer.SetEvents(registry.GestureEvents())

	metrics := telemetry.NewCollector()
	registry.OnBeat(func(float64) { metrics.CountBeat() })
	registry.OnPeak(func(float64) { metrics.CountPeak() })
	registry.OnSwipe(func(gesture.Swipe) { metrics.CountSwipe() })
	metrics.OnWindow(func(s telemetry.Snapshot) {
		log.Info("engine window",
			"audio_ticks", s.AudioTicks,
			"gesture_ticks", s.GestureTicks,
			"avg_tick", s.AvgTickTime(),
			"beats", s.Beats,
			"peaks", s.Peaks,
			"swipes", s.Swipes)
	})

	server := web.NewServer(*port, registry)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runAudioLoop(ctx, source, engine, registry, metrics, *tickRate)
	})

	g.Go(func() error {
		return server.Run(ctx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				metrics.Roll()
			}
		}
	})

	if *camera {
		capCfg := capture.DefaultConfig()
		capCfg.DeviceID = *device
		capCfg.HandModel = config.HandModelPath(capCfg.HandModel)
		capCfg.PoseModel = config.PoseModelPath()

		extractor, err := capture.NewONNX(capCfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		cam, err := capture.Open(capCfg, extractor)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		cam.SetOnFrame(func(frame landmark.Frame) {
			start := time.Now()
			recognizer.Process(frame)
			metrics.RecordGestureTick(time.Since(start))
		})

		g.Go(func() error {
			return cam.Run(ctx)
		})
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Error("runtime error", "error", err)
		os.Exit(1)
	}
}

// runAudioLoop drives the spectral engine at the tick rate and publishes
// smoothed bands after every tick.
func runAudioLoop(ctx context.Context, source audio.Source, engine *spectral.Engine,
	registry *dispatch.Registry, metrics *telemetry.Collector, tickRate int) error {

	interval := time.Second / time.Duration(tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			frame, rate, active := source.Frame()
			engine.Analyze(frame, rate, active)
			_, smoothed := engine.Bands()
			registry.EmitBands(smoothed)
			metrics.RecordAudioTick(time.Since(start))
		}
	}
}
