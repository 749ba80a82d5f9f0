package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	blurKernel    = 21
	diffThreshold = 25
)

// MotionGate reports whether consecutive frames differ enough to be worth
// running hand detection on. It compares blurred grayscale frames and
// measures the share of pixels that changed.
type MotionGate struct {
	mu        sync.Mutex
	threshold float64
	prev      gocv.Mat
	primed    bool
	level     float64
}

// NewMotionGate creates a gate that opens when more than threshold percent
// of pixels change between frames.
func NewMotionGate(threshold float64) *MotionGate {
	return &MotionGate{threshold: threshold, prev: gocv.NewMat()}
}

// Moving compares frame against the previous one. The first frame only
// primes the gate and reports true so a still hand is processed once.
func (g *MotionGate) Moving(frame *gocv.Mat) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}
	gocv.GaussianBlur(gray, &gray, image.Pt(blurKernel, blurKernel), 0, 0, gocv.BorderDefault)

	if !g.primed || g.prev.Rows() != gray.Rows() || g.prev.Cols() != gray.Cols() {
		gray.CopyTo(&g.prev)
		g.primed = true
		g.level = 100
		return true
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(gray, g.prev, &diff)
	gocv.Threshold(diff, &diff, diffThreshold, 255, gocv.ThresholdBinary)

	g.level = float64(gocv.CountNonZero(diff)) / float64(diff.Rows()*diff.Cols()) * 100
	gray.CopyTo(&g.prev)

	return g.level > g.threshold
}

// Level returns the changed-pixel percentage of the last comparison.
func (g *MotionGate) Level() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.level
}

// Reset forgets the previous frame.
func (g *MotionGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.primed = false
	g.level = 0
}

// Close releases the stored frame.
func (g *MotionGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prev.Close()
	g.primed = false
}
