// Package analysis orchestrates the per-frame swing analysis pipeline and
// whole-video analysis over a bounded worker pool.
package analysis

import (
	"image"

	"github.com/ayusman/swingsight/internal/biomech"
	"github.com/ayusman/swingsight/internal/geometry"
	"github.com/ayusman/swingsight/internal/lines"
	"github.com/ayusman/swingsight/internal/pose"
)

// batLineMinConfidence is the confidence a detected implement line must
// exceed to be treated as the authoritative attack angle signal.
const batLineMinConfidence = 0.3

// SwingMetrics is the per-frame analysis result. Baseball-specific fields
// are nil when the biomechanics engine could not produce a record; generic
// angle fallbacks still populate LaunchAngle.
type SwingMetrics struct {
	LaunchAngle      float64       `json:"launchAngle"`
	AttackAngle      *float64      `json:"attackAngle"`
	BatPathAngle     *float64      `json:"batPathAngle"`
	HipRotation      *float64      `json:"hipRotation"`
	ShoulderRotation *float64      `json:"shoulderRotation"`
	Confidence       float64       `json:"confidence"`
	Phase            biomech.Phase `json:"phase"`
}

// LineDetector finds the strongest straight line inside an image region.
type LineDetector interface {
	Detect(img image.Image, region geometry.Region) *lines.Line
}

// houghDetector is the default LineDetector backed by the lines package.
type houghDetector struct{}

func (houghDetector) Detect(img image.Image, region geometry.Region) *lines.Line {
	return lines.Detect(img, region)
}

// Pipeline analyzes single frames. It holds no per-frame state, so one
// Pipeline may be shared by any number of goroutines.
type Pipeline struct {
	lines LineDetector
}

// NewPipeline creates a Pipeline using the Hough line detector.
func NewPipeline() *Pipeline {
	return &Pipeline{lines: houghDetector{}}
}

// SetLineDetector replaces the line detector implementation.
func (p *Pipeline) SetLineDetector(d LineDetector) {
	if d != nil {
		p.lines = d
	}
}

// AnalyzeFrame computes swing metrics for one frame's keypoints. img may be
// nil, in which case implement-line detection is skipped. The second return
// value is false when the keypoints offer nothing to measure.
func (p *Pipeline) AnalyzeFrame(keypoints []pose.Keypoint, img image.Image) (*SwingMetrics, bool) {
	if len(keypoints) == 0 {
		return nil, false
	}

	m := pose.Index(keypoints)

	shoulderAngle := shoulderLineAngle(m)
	handAngle := handLineAngle(m)
	rec := biomech.Analyze(m)
	batLine := p.detectBatLine(m, img)

	// Attack angle candidates in priority order: detected implement line,
	// biomechanics bat path, generic hand line.
	candidates := []func() *float64{
		func() *float64 {
			if batLine != nil {
				return &batLine.AngleDegrees
			}
			return nil
		},
		func() *float64 {
			if rec != nil {
				return &rec.BatPathAngle
			}
			return nil
		},
		func() *float64 { return handAngle },
	}

	var attackAngle *float64
	for _, candidate := range candidates {
		if v := candidate(); v != nil {
			attackAngle = v
			break
		}
	}

	if shoulderAngle == nil && attackAngle == nil && rec == nil {
		return nil, false
	}

	metrics := &SwingMetrics{
		AttackAngle: attackAngle,
		Confidence:  geometry.Confidence(keypoints),
		Phase:       biomech.PhaseSetup,
	}

	if rec != nil {
		metrics.LaunchAngle = rec.LaunchAngle
		metrics.BatPathAngle = &rec.BatPathAngle
		metrics.HipRotation = rec.HipRotation
		metrics.ShoulderRotation = &rec.ShoulderRotation
		metrics.Phase = rec.Phase
	} else {
		hand := attackAngle
		if hand == nil {
			hand = handAngle
		}
		metrics.LaunchAngle = geometry.EstimateLaunchAngle(shoulderAngle, hand)
	}

	return metrics, true
}

// detectBatLine locates the hand region and runs line detection inside it.
// Any failure here means "no bat line", never a pipeline failure.
func (p *Pipeline) detectBatLine(m pose.KeypointMap, img image.Image) (line *lines.Line) {
	if img == nil {
		return nil
	}

	defer func() {
		if recover() != nil {
			line = nil
		}
	}()

	region := geometry.HandRegion(m)
	if region == nil {
		return nil
	}

	line = p.lines.Detect(img, *region)
	if line == nil || line.Confidence <= batLineMinConfidence {
		return nil
	}
	return line
}

// shoulderLineAngle returns the left-to-right shoulder line angle, or nil
// when either shoulder is missing or below the generic confidence threshold.
func shoulderLineAngle(m pose.KeypointMap) *float64 {
	names := []pose.JointName{pose.LeftShoulder, pose.RightShoulder}
	if !m.HasConfidence(names, pose.DefaultConfidenceThreshold) {
		return nil
	}
	left := m[pose.LeftShoulder]
	right := m[pose.RightShoulder]
	angle := geometry.LineAngle(
		geometry.Point{X: left.X, Y: left.Y},
		geometry.Point{X: right.X, Y: right.Y},
	)
	return &angle
}

// handLineAngle returns the elbow-to-wrist line angle, preferring the right
// arm, or nil when neither arm is usable.
func handLineAngle(m pose.KeypointMap) *float64 {
	sides := [][2]pose.JointName{
		{pose.RightElbow, pose.RightWrist},
		{pose.LeftElbow, pose.LeftWrist},
	}
	for _, side := range sides {
		if !m.HasConfidence(side[:], pose.DefaultConfidenceThreshold) {
			continue
		}
		elbow := m[side[0]]
		wrist := m[side[1]]
		angle := geometry.LineAngle(
			geometry.Point{X: elbow.X, Y: elbow.Y},
			geometry.Point{X: wrist.X, Y: wrist.Y},
		)
		return &angle
	}
	return nil
}
