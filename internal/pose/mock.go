package pose

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	keypoints []Keypoint
	err       error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetKeypoints sets the keypoints that will be returned by Detect.
func (m *MockDetector) SetKeypoints(keypoints []Keypoint) {
	m.keypoints = keypoints
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured keypoints or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Keypoint, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.keypoints, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// ContactKeypoints returns a preset keypoint list for a batter at contact.
// Hands are extended in front of the torso, below the elbows, with the left
// wrist still inside the right wrist.
func ContactKeypoints() []Keypoint {
	return []Keypoint{
		{Name: Nose, X: 320, Y: 120, Score: 0.95},
		{Name: LeftShoulder, X: 280, Y: 180, Score: 0.90},
		{Name: RightShoulder, X: 360, Y: 185, Score: 0.92},
		{Name: LeftElbow, X: 300, Y: 240, Score: 0.85},
		{Name: RightElbow, X: 350, Y: 245, Score: 0.88},
		{Name: LeftWrist, X: 330, Y: 300, Score: 0.80},
		{Name: RightWrist, X: 340, Y: 295, Score: 0.82},
		{Name: LeftHip, X: 300, Y: 320, Score: 0.90},
		{Name: RightHip, X: 350, Y: 322, Score: 0.90},
		{Name: LeftKnee, X: 295, Y: 400, Score: 0.85},
		{Name: RightKnee, X: 355, Y: 400, Score: 0.86},
		{Name: LeftAnkle, X: 290, Y: 470, Score: 0.80},
		{Name: RightAnkle, X: 360, Y: 470, Score: 0.80},
	}
}

// LoadKeypoints returns a preset keypoint list for a batter in the load
// position: hands cocked above the elbows behind the body.
func LoadKeypoints() []Keypoint {
	return []Keypoint{
		{Name: Nose, X: 320, Y: 120, Score: 0.95},
		{Name: LeftShoulder, X: 280, Y: 180, Score: 0.90},
		{Name: RightShoulder, X: 360, Y: 185, Score: 0.92},
		{Name: LeftElbow, X: 270, Y: 220, Score: 0.85},
		{Name: RightElbow, X: 380, Y: 225, Score: 0.87},
		{Name: LeftWrist, X: 260, Y: 190, Score: 0.80},
		{Name: RightWrist, X: 390, Y: 195, Score: 0.83},
		{Name: LeftHip, X: 300, Y: 320, Score: 0.90},
		{Name: RightHip, X: 350, Y: 322, Score: 0.90},
	}
}

// FollowThroughKeypoints returns a preset keypoint list for a batter after
// contact: the lead wrist has crossed over the trailing wrist.
func FollowThroughKeypoints() []Keypoint {
	return []Keypoint{
		{Name: Nose, X: 320, Y: 120, Score: 0.95},
		{Name: LeftShoulder, X: 280, Y: 180, Score: 0.90},
		{Name: RightShoulder, X: 360, Y: 185, Score: 0.92},
		{Name: LeftElbow, X: 310, Y: 240, Score: 0.85},
		{Name: RightElbow, X: 340, Y: 238, Score: 0.86},
		{Name: LeftWrist, X: 380, Y: 290, Score: 0.80},
		{Name: RightWrist, X: 300, Y: 292, Score: 0.80},
		{Name: LeftHip, X: 300, Y: 320, Score: 0.90},
		{Name: RightHip, X: 350, Y: 322, Score: 0.90},
	}
}
