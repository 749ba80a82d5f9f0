package capture

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewCamera_Defaults(t *testing.T) {
	tests := []struct {
		name       string
		config     Config
		wantWidth  int
		wantHeight int
	}{
		{"default config", DefaultConfig(), DefaultWidth, DefaultHeight},
		{"zero size", Config{Device: 1}, DefaultWidth, DefaultHeight},
		{"custom size", Config{Width: 1280, Height: 720}, 1280, 720},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.config).(*cameraImpl)

			if cam.config.Width != tt.wantWidth || cam.config.Height != tt.wantHeight {
				t.Errorf("size = %dx%d, want %dx%d", cam.config.Width, cam.config.Height, tt.wantWidth, tt.wantHeight)
			}
			if cam.IsOpen() {
				t.Error("camera should not be open initially")
			}
		})
	}
}

func TestCamera_ReadBeforeOpen(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	frame, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
	if frame != nil {
		t.Error("ReadFrame() should return nil frame")
	}
}

func TestCamera_CloseWithoutOpen(t *testing.T) {
	cam := NewCamera(DefaultConfig())
	if err := cam.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestCamera_OpenAndRead(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires camera hardware")
	}

	cam := NewCamera(DefaultConfig())
	if err := cam.Open(); err != nil {
		t.Skipf("no camera available: %v", err)
	}
	defer cam.Close()

	frame, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	defer frame.Close()

	if frame.Empty() {
		t.Error("frame should not be empty")
	}
}

func TestMirror(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	mat := gocv.NewMatWithSizeFromScalar(gocv.Scalar{}, 10, 20, gocv.MatTypeCV8UC3)
	defer mat.Close()
	gocv.Rectangle(&mat, image.Rect(0, 0, 5, 10), color.RGBA{255, 255, 255, 0}, -1)

	Mirror(&mat)

	if v := mat.GetVecbAt(5, 19)[0]; v != 255 {
		t.Errorf("right edge after mirror = %d, want 255", v)
	}
	if v := mat.GetVecbAt(5, 0)[0]; v != 0 {
		t.Errorf("left edge after mirror = %d, want 0", v)
	}

	Mirror(nil)
}

func TestEncodeJPEG(t *testing.T) {
	if _, err := EncodeJPEG(nil); !errors.Is(err, ErrNoFrame) {
		t.Errorf("EncodeJPEG(nil) error = %v, want ErrNoFrame", err)
	}

	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	mat := gocv.NewMatWithSizeFromScalar(gocv.Scalar{}, 48, 64, gocv.MatTypeCV8UC3)
	defer mat.Close()

	data, err := EncodeJPEG(&mat)
	if err != nil {
		t.Fatalf("EncodeJPEG() error = %v", err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("EncodeJPEG() output lacks JPEG SOI marker")
	}
}
