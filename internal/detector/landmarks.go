// Package detector provides hand detection interfaces and landmark types.
package detector

import "fmt"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// FingerTips lists the tip landmark of each finger, thumb first.
// The joint two indices below a tip is the one it is compared against.
var FingerTips = [5]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// Point3D is a landmark position. X and Y are normalized to the frame
// ([0,1], Y grows downward); Z is MediaPipe's relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand is one detected hand. Points is expected to hold NumLandmarks entries
// in MediaPipe order, but is kept as a slice so malformed detector output can
// be reported rather than silently padded.
type Hand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"` // "Left" or "Right"
	Score      float64   `json:"score"`
}

// Valid reports whether the hand carries exactly NumLandmarks points.
func (h *Hand) Valid() bool {
	return h != nil && len(h.Points) == NumLandmarks
}

// Landmark returns the point at index i.
func (h *Hand) Landmark(i int) (Point3D, error) {
	if h == nil || i < 0 || i >= len(h.Points) {
		return Point3D{}, fmt.Errorf("landmark %d out of range", i)
	}
	return h.Points[i], nil
}
