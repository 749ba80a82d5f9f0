// Package detector finds hands and their 21 landmarks in camera frames.
package detector

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Detector turns a frame into zero or more hands. Implementations are called
// from a single poll goroutine.
type Detector interface {
	// Detect returns the hands found in frame, in detector order. No hands is
	// an empty slice, not an error.
	Detect(frame *gocv.Mat) ([]Hand, error)

	Close() error
}

// Config tunes the MediaPipe hand model.
type Config struct {
	MaxHands        int
	MinConfidence   float64
	MinTrackingConf float64

	// PythonPath and ScriptPath skip interpreter and script discovery.
	PythonPath string
	ScriptPath string
}

// DefaultConfig returns MediaPipe's Hands() defaults.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}

// Validate checks the model settings are in range.
func (c Config) Validate() error {
	if c.MaxHands < 1 {
		return fmt.Errorf("max hands must be at least 1, got %d", c.MaxHands)
	}
	for name, v := range map[string]float64{
		"min confidence":          c.MinConfidence,
		"min tracking confidence": c.MinTrackingConf,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %g", name, v)
		}
	}
	return nil
}
