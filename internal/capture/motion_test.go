package capture

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

func TestMotionGate_NilFrame(t *testing.T) {
	g := NewMotionGate(1.0)
	defer g.Close()

	if g.Moving(nil) {
		t.Error("nil frame should not count as motion")
	}
}

func TestMotionGate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	black := gocv.NewMatWithSizeFromScalar(gocv.Scalar{}, 120, 160, gocv.MatTypeCV8UC3)
	defer black.Close()

	square := gocv.NewMatWithSizeFromScalar(gocv.Scalar{}, 120, 160, gocv.MatTypeCV8UC3)
	defer square.Close()
	gocv.Rectangle(&square, image.Rect(40, 30, 120, 90), color.RGBA{255, 255, 255, 0}, -1)

	tests := []struct {
		name   string
		frames []*gocv.Mat
		want   bool
	}{
		{"first frame primes open", []*gocv.Mat{&black}, true},
		{"still scene", []*gocv.Mat{&black, &black}, false},
		{"moving square", []*gocv.Mat{&black, &square}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewMotionGate(1.0)
			defer g.Close()

			var got bool
			for _, f := range tt.frames {
				got = g.Moving(f)
			}
			if got != tt.want {
				t.Errorf("Moving() = %v (level %.2f%%), want %v", got, g.Level(), tt.want)
			}
		})
	}
}

func TestMotionGate_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSizeFromScalar(gocv.Scalar{}, 60, 80, gocv.MatTypeCV8UC1)
	defer frame.Close()

	g := NewMotionGate(1.0)
	defer g.Close()

	g.Moving(&frame)
	if g.Moving(&frame) {
		t.Fatal("identical frame should not be motion")
	}

	g.Reset()
	if g.Level() != 0 {
		t.Errorf("Level() after Reset = %f, want 0", g.Level())
	}
	if !g.Moving(&frame) {
		t.Error("first frame after Reset should prime open")
	}
}
