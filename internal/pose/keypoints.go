// Package pose provides body keypoint types and pose detection interfaces
// for swing analysis.
package pose

// JointName identifies a body joint produced by the pose model.
// Names follow the MediaPipe Pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
type JointName string

const (
	Nose          JointName = "nose"
	LeftShoulder  JointName = "left_shoulder"
	RightShoulder JointName = "right_shoulder"
	LeftElbow     JointName = "left_elbow"
	RightElbow    JointName = "right_elbow"
	LeftWrist     JointName = "left_wrist"
	RightWrist    JointName = "right_wrist"
	LeftHip       JointName = "left_hip"
	RightHip      JointName = "right_hip"
	LeftKnee      JointName = "left_knee"
	RightKnee     JointName = "right_knee"
	LeftAnkle     JointName = "left_ankle"
	RightAnkle    JointName = "right_ankle"
)

// DefaultConfidenceThreshold is the score a joint must strictly exceed to be
// trusted by generic angle calculations.
const DefaultConfidenceThreshold = 0.4

// Keypoint is a single named 2D body-joint estimate with a confidence score.
// Coordinates are in image pixel space; Score is in [0,1].
type Keypoint struct {
	Name  JointName `json:"name"`
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Score float64   `json:"score"`
}

// KeypointMap indexes at most one Keypoint per joint name.
type KeypointMap map[JointName]Keypoint

// Index builds a KeypointMap from an unordered keypoint list.
// If a name repeats, the last occurrence wins.
func Index(keypoints []Keypoint) KeypointMap {
	m := make(KeypointMap, len(keypoints))
	for _, kp := range keypoints {
		m[kp.Name] = kp
	}
	return m
}

// Get returns the keypoint for the named joint and whether it is present.
func (m KeypointMap) Get(name JointName) (Keypoint, bool) {
	kp, ok := m[name]
	return kp, ok
}

// HasConfidence reports whether every named joint is present with a score
// strictly greater than threshold.
func (m KeypointMap) HasConfidence(names []JointName, threshold float64) bool {
	for _, name := range names {
		kp, ok := m[name]
		if !ok || kp.Score <= threshold {
			return false
		}
	}
	return true
}
