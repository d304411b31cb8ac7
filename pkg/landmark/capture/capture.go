// Package capture reads webcam frames with OpenCV and runs ONNX landmark
// models over them, producing landmark frames for the gesture recognizer.
package capture

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/lumafield/stagesense/internal/log"
	"github.com/lumafield/stagesense/pkg/landmark"
)

// Config holds the capture pipeline settings.
type Config struct {
	DeviceID  int    // V4L2 / AVFoundation device index
	Width     int    // Capture width in pixels
	Height    int    // Capture height in pixels
	FrameRate int    // Target landmark frames per second
	HandModel string // Path to the ONNX hand landmark model
	PoseModel string // Path to the ONNX pose landmark model (optional)
	MinScore  float32
}

// DefaultConfig returns capture defaults for a laptop webcam.
func DefaultConfig() Config {
	return Config{
		DeviceID:  0,
		Width:     640,
		Height:    480,
		FrameRate: 30,
		HandModel: "models/hand_landmark.onnx",
		PoseModel: "",
		MinScore:  0.5,
	}
}

// Extractor turns a camera image into landmark frames.
type Extractor interface {
	Extract(img gocv.Mat) (landmark.Frame, error)
	Close() error
}

// Capture owns the webcam and drives the extractor at the configured rate.
type Capture struct {
	cfg       Config
	webcam    *gocv.VideoCapture
	extractor Extractor
	onFrame   func(landmark.Frame)
}

// Open opens the capture device and prepares the pipeline. The extractor is
// owned by the capture once passed in and closed together with it.
func Open(cfg Config, ex Extractor) (*Capture, error) {
	if cfg.FrameRate < 1 {
		cfg.FrameRate = 30
	}

	cam, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("capture: open device %d: %w", cfg.DeviceID, err)
	}
	if cfg.Width > 0 {
		cam.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	}
	if cfg.Height > 0 {
		cam.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}

	return &Capture{
		cfg:       cfg,
		webcam:    cam,
		extractor: ex,
	}, nil
}

// SetOnFrame registers the consumer of extracted landmark frames. Must be
// called before Run.
func (c *Capture) SetOnFrame(fn func(landmark.Frame)) {
	c.onFrame = fn
}

// Run pumps camera frames through the extractor until the context is
// cancelled. Frames that fail extraction are dropped with a debug log so a
// transient camera glitch never stalls the loop.
func (c *Capture) Run(ctx context.Context) error {
	defer c.Close()

	img := gocv.NewMat()
	defer img.Close()

	interval := time.Second / time.Duration(c.cfg.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("capture started", "device", c.cfg.DeviceID, "fps", c.cfg.FrameRate)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if ok := c.webcam.Read(&img); !ok || img.Empty() {
				log.Debug("capture: dropped empty camera frame")
				continue
			}

			frame, err := c.extractor.Extract(img)
			if err != nil {
				log.Debug("capture: extract failed", "error", err)
				continue
			}

			if c.onFrame != nil {
				c.onFrame(frame)
			}
		}
	}
}

// Close releases the camera and the extractor.
func (c *Capture) Close() error {
	if c.extractor != nil {
		c.extractor.Close()
	}
	if c.webcam != nil {
		return c.webcam.Close()
	}
	return nil
}
