package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []Hand
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands ...Hand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]Hand, len(m.hands))
	copy(out, m.hands)
	return out, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PoseHand builds a right hand whose fingers are extended (tip above the
// joint two indices below it) or curled according to extended, thumb first.
func PoseHand(extended [5]bool) Hand {
	hand := Hand{
		Points:     make([]Point3D, NumLandmarks),
		Handedness: "Right",
		Score:      0.95,
	}
	hand.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}

	baseX := [5]float64{0.62, 0.56, 0.50, 0.44, 0.38}
	for f, tip := range FingerTips {
		x := baseX[f]
		// tip-3 .. tip: MCP-like base, lower joint, upper joint, tip
		hand.Points[tip-3] = Point3D{X: x, Y: 0.68}
		hand.Points[tip-2] = Point3D{X: x, Y: 0.58}
		if extended[f] {
			hand.Points[tip-1] = Point3D{X: x, Y: 0.48}
			hand.Points[tip] = Point3D{X: x, Y: 0.38}
		} else {
			hand.Points[tip-1] = Point3D{X: x, Y: 0.62, Z: -0.04}
			hand.Points[tip] = Point3D{X: x, Y: 0.66, Z: -0.02}
		}
	}
	return hand
}

// WithIndexTip returns a copy of h with the index fingertip moved to (x, y).
// The index lower joint is shifted along so the finger keeps its pose.
func WithIndexTip(h Hand, x, y float64) Hand {
	out := h
	out.Points = append([]Point3D(nil), h.Points...)
	dy := out.Points[IndexTip].Y - out.Points[IndexPIP].Y
	out.Points[IndexTip] = Point3D{X: x, Y: y}
	out.Points[IndexPIP] = Point3D{X: x, Y: y - dy}
	return out
}

// PointingHand returns a hand with only the index finger extended.
func PointingHand() Hand {
	return PoseHand([5]bool{false, true, false, false, false})
}

// TwoFingerHand returns a hand with index and middle fingers extended.
func TwoFingerHand() Hand {
	return PoseHand([5]bool{false, true, true, false, false})
}

// FistHand returns a hand with every finger curled.
func FistHand() Hand {
	return PoseHand([5]bool{})
}

// OpenPalmHand returns a hand with every finger extended.
func OpenPalmHand() Hand {
	return PoseHand([5]bool{true, true, true, true, true})
}
