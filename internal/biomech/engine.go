// Package biomech derives baseball-specific swing biomechanics from an
// indexed keypoint map: bat path angle, hip/shoulder rotation, a per-frame
// swing phase label, and an aggregate confidence score.
package biomech

import (
	"math"

	"github.com/ayusman/swingsight/internal/geometry"
	"github.com/ayusman/swingsight/internal/pose"
)

// Phase is a coarse per-frame swing phase label. It is a stateless
// classification of a single frame, not a state machine: consecutive frames
// of a real swing may label non-monotonically.
type Phase string

const (
	PhaseSetup         Phase = "setup"
	PhaseLoad          Phase = "load"
	PhaseStride        Phase = "stride"
	PhaseContact       Phase = "contact"
	PhaseFollowThrough Phase = "follow-through"
)

// requiredThreshold is the score every required joint must strictly exceed
// before baseball-specific biomechanics are attempted.
const requiredThreshold = 0.3

// requiredJoints are the joints a biomechanics record needs: both shoulders,
// both elbows, and both wrists.
var requiredJoints = []pose.JointName{
	pose.LeftShoulder, pose.RightShoulder,
	pose.LeftElbow, pose.RightElbow,
	pose.LeftWrist, pose.RightWrist,
}

// Record holds the biomechanics derived from one frame's keypoints.
type Record struct {
	LaunchAngle      float64
	BatPathAngle     float64
	ShoulderRotation float64
	HipRotation      *float64
	Phase            Phase
	Confidence       float64
}

// Analyze computes a biomechanics record from the keypoint map. It returns
// nil when any required joint is missing or at or below the confidence
// threshold; generic angle fallbacks remain available to the caller
// independently of this result.
func Analyze(m pose.KeypointMap) *Record {
	if !m.HasConfidence(requiredJoints, requiredThreshold) {
		return nil
	}

	leftShoulder := m[pose.LeftShoulder]
	rightShoulder := m[pose.RightShoulder]
	leftElbow := m[pose.LeftElbow]
	rightElbow := m[pose.RightElbow]
	leftWrist := m[pose.LeftWrist]
	rightWrist := m[pose.RightWrist]

	shoulderAngle := geometry.LineAngle(point(leftShoulder), point(rightShoulder))

	// Pick the arm with the stronger combined wrist+elbow confidence to
	// stand in for the bat path. Ties favor the right side.
	elbow, wrist := rightElbow, rightWrist
	if leftWrist.Score+leftElbow.Score > rightWrist.Score+rightElbow.Score {
		elbow, wrist = leftElbow, leftWrist
	}
	batPath := geometry.LineAngle(point(elbow), point(wrist))

	rec := &Record{
		BatPathAngle:     batPath,
		ShoulderRotation: shoulderAngle,
		Phase:            classifyPhase(leftWrist, rightWrist, leftElbow, rightElbow),
		Confidence:       confidence(m),
		LaunchAngle:      geometry.EstimateLaunchAngle(&shoulderAngle, &batPath),
	}

	if leftHip, ok := m.Get(pose.LeftHip); ok {
		if rightHip, ok := m.Get(pose.RightHip); ok {
			hipAngle := geometry.LineAngle(point(leftHip), point(rightHip))
			rotation := math.Abs(hipAngle - shoulderAngle)
			rec.HipRotation = &rotation
		}
	}

	return rec
}

// classifyPhase labels the frame from wrist and elbow positions. Image
// coordinates grow downward, so a smaller Y means visually higher.
func classifyPhase(leftWrist, rightWrist, leftElbow, rightElbow pose.Keypoint) Phase {
	avgWristY := (leftWrist.Y + rightWrist.Y) / 2
	avgElbowY := (leftElbow.Y + rightElbow.Y) / 2

	switch {
	case avgWristY < avgElbowY:
		return PhaseLoad
	case leftWrist.X > rightWrist.X:
		return PhaseFollowThrough
	default:
		return PhaseContact
	}
}

// confidence is the mean score across all supplied keypoints.
func confidence(m pose.KeypointMap) float64 {
	points := make([]pose.Keypoint, 0, len(m))
	for _, kp := range m {
		points = append(points, kp)
	}
	return geometry.Confidence(points)
}

func point(kp pose.Keypoint) geometry.Point {
	return geometry.Point{X: kp.X, Y: kp.Y}
}
