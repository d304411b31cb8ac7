package capture

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/lumafield/stagesense/pkg/landmark"
)

const (
	handInputSize = 224
	poseInputSize = 256
)

// ONNXExtractor runs MediaPipe-style landmark models through OpenCV's DNN
// module. The hand model is required; the pose model is optional and only
// loaded when a path is configured.
type ONNXExtractor struct {
	handNet  gocv.Net
	poseNet  gocv.Net
	hasPose  bool
	minScore float32
	mu       sync.Mutex // Protects inference
}

// NewONNX loads the landmark models named in cfg.
func NewONNX(cfg Config) (*ONNXExtractor, error) {
	if _, err := os.Stat(cfg.HandModel); os.IsNotExist(err) {
		return nil, fmt.Errorf("capture: hand model not found: %s", cfg.HandModel)
	}

	handNet := gocv.ReadNetFromONNX(cfg.HandModel)
	if handNet.Empty() {
		return nil, fmt.Errorf("capture: failed to load hand model %s", cfg.HandModel)
	}
	handNet.SetPreferableBackend(gocv.NetBackendDefault)
	handNet.SetPreferableTarget(gocv.NetTargetCPU)

	ex := &ONNXExtractor{
		handNet:  handNet,
		minScore: cfg.MinScore,
	}

	if cfg.PoseModel != "" {
		if _, err := os.Stat(cfg.PoseModel); os.IsNotExist(err) {
			handNet.Close()
			return nil, fmt.Errorf("capture: pose model not found: %s", cfg.PoseModel)
		}
		poseNet := gocv.ReadNetFromONNX(cfg.PoseModel)
		if poseNet.Empty() {
			handNet.Close()
			return nil, fmt.Errorf("capture: failed to load pose model %s", cfg.PoseModel)
		}
		poseNet.SetPreferableBackend(gocv.NetBackendDefault)
		poseNet.SetPreferableTarget(gocv.NetTargetCPU)
		ex.poseNet = poseNet
		ex.hasPose = true
	}

	return ex, nil
}

// Extract runs the loaded models over the image and returns normalized
// landmark frames. A hand below the score threshold is omitted rather than
// reported with garbage points.
func (e *ONNXExtractor) Extract(img gocv.Mat) (landmark.Frame, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var frame landmark.Frame

	hand, score, err := e.extractHand(img)
	if err != nil {
		return frame, err
	}
	if score >= e.minScore {
		frame.Hands = append(frame.Hands, hand)
	}

	if e.hasPose {
		pose, pscore, err := e.extractPose(img)
		if err != nil {
			return frame, err
		}
		if pscore >= e.minScore {
			frame.Pose = &pose
		}
	}

	return frame, nil
}

func (e *ONNXExtractor) extractHand(img gocv.Mat) (landmark.HandFrame, float32, error) {
	var hand landmark.HandFrame

	blob := gocv.BlobFromImage(img, 1.0/255.0,
		image.Pt(handInputSize, handInputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	e.handNet.SetInput(blob, "")
	out := e.handNet.Forward("")
	defer out.Close()

	// Hand landmark output: 21 points as (x, y, z) triples in input-image
	// pixels, followed by a presence score.
	flat := out.Clone()
	defer flat.Close()
	total := flat.Total()
	if total < landmark.HandPoints*3 {
		return hand, 0, fmt.Errorf("capture: unexpected hand output size %d", total)
	}

	data, err := flat.DataPtrFloat32()
	if err != nil {
		return hand, 0, fmt.Errorf("capture: read hand output: %w", err)
	}
	for i := 0; i < landmark.HandPoints; i++ {
		hand[i] = landmark.Point{
			X: float64(data[i*3]) / handInputSize,
			Y: float64(data[i*3+1]) / handInputSize,
			Z: float64(data[i*3+2]) / handInputSize,
		}
	}

	score := float32(1)
	if total > landmark.HandPoints*3 {
		score = data[landmark.HandPoints*3]
	}
	return hand, score, nil
}

func (e *ONNXExtractor) extractPose(img gocv.Mat) (landmark.PoseFrame, float32, error) {
	var pose landmark.PoseFrame

	blob := gocv.BlobFromImage(img, 1.0/255.0,
		image.Pt(poseInputSize, poseInputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	e.poseNet.SetInput(blob, "")
	out := e.poseNet.Forward("")
	defer out.Close()

	// Pose landmark output: 33 points as (x, y, z, visibility, presence)
	// rows in input-image pixels.
	flat := out.Clone()
	defer flat.Close()
	total := flat.Total()
	if total < landmark.PosePoints*5 {
		return pose, 0, fmt.Errorf("capture: unexpected pose output size %d", total)
	}

	data, err := flat.DataPtrFloat32()
	if err != nil {
		return pose, 0, fmt.Errorf("capture: read pose output: %w", err)
	}
	minPresence := float32(1)
	for i := 0; i < landmark.PosePoints; i++ {
		pose[i] = landmark.Point{
			X: float64(data[i*5]) / poseInputSize,
			Y: float64(data[i*5+1]) / poseInputSize,
			Z: float64(data[i*5+2]) / poseInputSize,
		}
		if p := data[i*5+4]; p < minPresence {
			minPresence = p
		}
	}
	return pose, minPresence, nil
}

// Close releases the loaded networks.
func (e *ONNXExtractor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handNet.Close()
	if e.hasPose {
		e.poseNet.Close()
	}
	return nil
}
