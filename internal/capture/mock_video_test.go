package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestMockSource_Playback(t *testing.T) {
	// Create test frames
	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	src := NewMockSource([]*gocv.Mat{&frame1, &frame2}, 30)

	if err := src.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	if src.FrameCount() != 2 {
		t.Errorf("FrameCount() = %d, want 2", src.FrameCount())
	}

	// Read both frames
	f1, err := src.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	f1.Close()

	f2, err := src.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	f2.Close()

	// Third read should signal end of video
	_, err = src.ReadFrame()
	if !errors.Is(err, ErrEndOfVideo) {
		t.Errorf("expected ErrEndOfVideo after all frames consumed, got %v", err)
	}
}

func TestMockSource_ReadBeforeOpen(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	src := NewMockSource([]*gocv.Mat{&frame}, 30)

	if src.IsOpen() {
		t.Error("source should not be open before Open()")
	}

	_, err := src.ReadFrame()
	if !errors.Is(err, ErrVideoNotOpen) {
		t.Errorf("expected ErrVideoNotOpen, got %v", err)
	}
}

func TestMockSource_ReopenRewinds(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	src := NewMockSource([]*gocv.Mat{&frame}, 30)
	src.Open()

	f, err := src.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	f.Close()

	src.Close()
	if err := src.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	f, err = src.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() after reopen error = %v", err)
	}
	f.Close()
}

func TestMockSource_DefaultFPS(t *testing.T) {
	src := NewMockSource(nil, 0)
	if src.FPS() != 30 {
		t.Errorf("FPS() = %f, want 30", src.FPS())
	}
}
