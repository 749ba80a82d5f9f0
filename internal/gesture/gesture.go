// Package gesture classifies hand poses into pointer-control intents.
package gesture

import (
	"errors"
	"fmt"

	"github.com/ayusman/mudra/internal/detector"
)

// ErrInvalidHandShape is returned when a hand does not carry exactly
// detector.NumLandmarks points.
var ErrInvalidHandShape = errors.New("invalid hand shape")

// Finger identifies one finger, thumb first.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
)

var fingerNames = [5]string{"thumb", "index", "middle", "ring", "pinky"}

func (f Finger) String() string {
	if f < Thumb || f > Pinky {
		return fmt.Sprintf("finger(%d)", int(f))
	}
	return fingerNames[f]
}

// FingerState holds the extended flag of each finger, thumb to pinky.
type FingerState [5]bool

// Extended reports whether finger f is extended.
func (s FingerState) Extended(f Finger) bool {
	if f < Thumb || f > Pinky {
		return false
	}
	return s[f]
}

// Count returns the number of extended fingers.
func (s FingerState) Count() int {
	n := 0
	for _, up := range s {
		if up {
			n++
		}
	}
	return n
}

// Intent is the pointer-control meaning of a hand pose.
type Intent int

const (
	Idle Intent = iota
	PointerMove
	PointerClick
)

func (i Intent) String() string {
	switch i {
	case Idle:
		return "idle"
	case PointerMove:
		return "move"
	case PointerClick:
		return "click"
	default:
		return fmt.Sprintf("intent(%d)", int(i))
	}
}

// MarshalText renders the intent by name in JSON payloads.
func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// Fingers computes the finger state of a hand. A finger is extended when its
// tip is higher in the image (smaller y) than the joint two landmarks below it.
func Fingers(hand *detector.Hand) (FingerState, error) {
	var state FingerState
	if !hand.Valid() {
		n := 0
		if hand != nil {
			n = len(hand.Points)
		}
		return state, fmt.Errorf("%w: %d landmarks, want %d", ErrInvalidHandShape, n, detector.NumLandmarks)
	}

	for f, tip := range detector.FingerTips {
		state[f] = hand.Points[tip].Y < hand.Points[tip-2].Y
	}
	return state, nil
}

// Classify maps a finger state to an intent. Only the index and middle
// fingers take part; the other three are reserved for future poses.
func (s FingerState) Classify() Intent {
	switch {
	case s[Index] && !s[Middle]:
		return PointerMove
	case s[Index] && s[Middle]:
		return PointerClick
	default:
		return Idle
	}
}

// Classify computes the finger state of hand and classifies it.
func Classify(hand *detector.Hand) (Intent, error) {
	state, err := Fingers(hand)
	if err != nil {
		return Idle, err
	}
	return state.Classify(), nil
}
