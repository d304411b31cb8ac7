package gesture

import "github.com/lumafield/stagesense/pkg/landmark"

// palmClassifier recognizes an open palm as the reset gesture. It fires on
// every qualifying tick; consumers are expected to be idempotent.
type palmClassifier struct {
	minFingers int
}

func newPalmClassifier(cfg Config) *palmClassifier {
	return &palmClassifier{minFingers: cfg.OpenPalmMinFingers}
}

func (p *palmClassifier) process(f landmark.Features) bool {
	return f.ExtendedCount >= p.minFingers
}
