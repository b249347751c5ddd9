// Package capture provides video frame access for swing analysis using
// GoCV (OpenCV).
package capture

import (
	"errors"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// ErrVideoNotOpen is returned when reading from a source that is not open.
var ErrVideoNotOpen = errors.New("video source is not open")

// ErrEndOfVideo is returned by ReadFrame when the source has no more frames.
var ErrEndOfVideo = errors.New("end of video")

// VideoSource defines the interface for frame sources (video files, cameras).
type VideoSource interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	FPS() float64
	FrameCount() int
	IsOpen() bool
}

// fileSource reads frames from a video file using GoCV.
type fileSource struct {
	path    string
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
}

// NewVideoFile creates a VideoSource backed by the video file at path.
func NewVideoFile(path string) VideoSource {
	return &fileSource{path: path}
}

// Open opens the video file for reading.
func (s *fileSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	capture, err := gocv.VideoCaptureFile(s.path)
	if err != nil {
		return err
	}

	s.capture = capture
	s.running = true

	return nil
}

// Close closes the video file and releases resources.
func (s *fileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.capture == nil {
		s.running = false
		return nil
	}

	err := s.capture.Close()
	s.capture = nil
	s.running = false

	return err
}

// ReadFrame reads the next frame from the video.
// The caller is responsible for closing the returned Mat.
// Returns ErrEndOfVideo when no frames remain.
func (s *fileSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.capture == nil {
		return nil, ErrVideoNotOpen
	}

	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok {
		mat.Close()
		return nil, ErrEndOfVideo
	}

	if mat.Empty() {
		mat.Close()
		return nil, ErrEndOfVideo
	}

	return &mat, nil
}

// FPS returns the frame rate reported by the container, or 30 when unknown.
func (s *fileSource) FPS() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil {
		return 0
	}
	fps := s.capture.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		fps = 30
	}
	return fps
}

// FrameCount returns the total frame count reported by the container.
func (s *fileSource) FrameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil {
		return 0
	}
	return int(s.capture.Get(gocv.VideoCaptureFrameCount))
}

// IsOpen returns true if the source is currently open.
func (s *fileSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// ToImage converts a GoCV Mat into an image.Image for the pure-Go pipeline.
func ToImage(mat *gocv.Mat) (image.Image, error) {
	if mat == nil || mat.Empty() {
		return nil, errors.New("empty frame")
	}
	return mat.ToImage()
}
