package analysis

import (
	"image"
	"math"
	"testing"

	"github.com/ayusman/swingsight/internal/biomech"
	"github.com/ayusman/swingsight/internal/geometry"
	"github.com/ayusman/swingsight/internal/lines"
	"github.com/ayusman/swingsight/internal/pose"
)

// stubLineDetector returns a pre-configured line regardless of input.
type stubLineDetector struct {
	line *lines.Line
}

func (s stubLineDetector) Detect(img image.Image, region geometry.Region) *lines.Line {
	return s.line
}

func TestAnalyzeFrame_EmptyKeypoints(t *testing.T) {
	p := NewPipeline()

	if metrics, ok := p.AnalyzeFrame(nil, nil); ok || metrics != nil {
		t.Errorf("expected no result for empty keypoints, got %+v", metrics)
	}
}

func TestAnalyzeFrame_NoExploitableJoints(t *testing.T) {
	p := NewPipeline()

	keypoints := []pose.Keypoint{
		{Name: pose.Nose, X: 320, Y: 120, Score: 0.9},
		{Name: pose.LeftKnee, X: 295, Y: 400, Score: 0.9},
	}

	if metrics, ok := p.AnalyzeFrame(keypoints, nil); ok || metrics != nil {
		t.Errorf("expected no result without usable joints, got %+v", metrics)
	}
}

func TestAnalyzeFrame_DetectedLineWinsAttackAngle(t *testing.T) {
	// A detected bat line above the confidence cutoff must beat the
	// biomechanics bat path in the attack angle priority order.
	p := NewPipeline()
	p.SetLineDetector(stubLineDetector{line: &lines.Line{
		AngleDegrees: 12.0,
		Confidence:   0.5,
	}})

	img := image.NewGray(image.Rect(0, 0, 640, 480))
	metrics, ok := p.AnalyzeFrame(pose.ContactKeypoints(), img)
	if !ok {
		t.Fatal("expected a result")
	}

	if metrics.AttackAngle == nil || *metrics.AttackAngle != 12.0 {
		t.Errorf("expected detected line angle 12.0 as attack angle, got %v", metrics.AttackAngle)
	}
	if metrics.BatPathAngle == nil {
		t.Error("expected biomechanics bat path to still be attached")
	} else if *metrics.BatPathAngle == 12.0 {
		t.Error("bat path should differ from the stub line in this fixture")
	}
}

func TestAnalyzeFrame_LowConfidenceLineIsIgnored(t *testing.T) {
	p := NewPipeline()
	p.SetLineDetector(stubLineDetector{line: &lines.Line{
		AngleDegrees: 12.0,
		Confidence:   0.2,
	}})

	img := image.NewGray(image.Rect(0, 0, 640, 480))
	metrics, ok := p.AnalyzeFrame(pose.ContactKeypoints(), img)
	if !ok {
		t.Fatal("expected a result")
	}

	if metrics.AttackAngle == nil {
		t.Fatal("expected a fallback attack angle")
	}
	if *metrics.AttackAngle == 12.0 {
		t.Error("low-confidence line must not become the attack angle")
	}
	if metrics.BatPathAngle == nil || *metrics.AttackAngle != *metrics.BatPathAngle {
		t.Error("expected attack angle to fall back to the biomechanics bat path")
	}
}

func TestAnalyzeFrame_NoImageFallsBackToBatPath(t *testing.T) {
	p := NewPipeline()

	metrics, ok := p.AnalyzeFrame(pose.ContactKeypoints(), nil)
	if !ok {
		t.Fatal("expected a result")
	}

	if metrics.AttackAngle == nil || metrics.BatPathAngle == nil {
		t.Fatal("expected attack angle and bat path")
	}
	if *metrics.AttackAngle != *metrics.BatPathAngle {
		t.Errorf("expected attack angle %f to equal bat path %f", *metrics.AttackAngle, *metrics.BatPathAngle)
	}
	if metrics.Phase != biomech.PhaseContact {
		t.Errorf("expected contact phase, got %q", metrics.Phase)
	}
}

func TestAnalyzeFrame_NoElbowsStillProducesLaunchAngle(t *testing.T) {
	// Without elbows the biomechanics engine fails, but shoulders alone must
	// still produce a launch angle via the generic fallback.
	p := NewPipeline()

	keypoints := []pose.Keypoint{
		{Name: pose.LeftShoulder, X: 280, Y: 180, Score: 0.9},
		{Name: pose.RightShoulder, X: 360, Y: 185, Score: 0.9},
		{Name: pose.LeftWrist, X: 330, Y: 300, Score: 0.8},
		{Name: pose.RightWrist, X: 340, Y: 295, Score: 0.8},
	}

	metrics, ok := p.AnalyzeFrame(keypoints, nil)
	if !ok {
		t.Fatal("expected a result from the generic fallback")
	}

	if metrics.BatPathAngle != nil || metrics.HipRotation != nil || metrics.ShoulderRotation != nil {
		t.Error("expected biomechanics sub-fields to be nil")
	}
	if metrics.Phase != biomech.PhaseSetup {
		t.Errorf("expected default setup phase, got %q", metrics.Phase)
	}

	shoulder := geometry.LineAngle(geometry.Point{X: 280, Y: 180}, geometry.Point{X: 360, Y: 185})
	want := geometry.EstimateLaunchAngle(&shoulder, nil)
	if math.Abs(metrics.LaunchAngle-want) > 1e-9 {
		t.Errorf("expected launch angle %f, got %f", want, metrics.LaunchAngle)
	}
}

func TestAnalyzeFrame_ConfidenceIsMeanScore(t *testing.T) {
	p := NewPipeline()

	keypoints := []pose.Keypoint{
		{Name: pose.LeftShoulder, X: 280, Y: 180, Score: 0.5},
		{Name: pose.RightShoulder, X: 360, Y: 185, Score: 0.9},
	}

	metrics, ok := p.AnalyzeFrame(keypoints, nil)
	if !ok {
		t.Fatal("expected a result")
	}
	if math.Abs(metrics.Confidence-0.7) > 1e-9 {
		t.Errorf("expected confidence 0.7, got %f", metrics.Confidence)
	}
}

func TestSummarize(t *testing.T) {
	launch := func(v float64) *SwingMetrics {
		return &SwingMetrics{LaunchAngle: v, Confidence: 0.5, Phase: biomech.PhaseContact}
	}

	results := []FrameResult{
		{Index: 0, OK: true, Metrics: launch(10)},
		{Index: 1, OK: true, Metrics: launch(20)},
		{Index: 2, OK: false},
	}

	s := Summarize(results)
	if s.FramesAnalyzed != 3 || s.FramesUsable != 2 {
		t.Errorf("expected 3 analyzed / 2 usable, got %d / %d", s.FramesAnalyzed, s.FramesUsable)
	}
	if math.Abs(s.AvgLaunchAngle-15) > 1e-9 {
		t.Errorf("expected average launch angle 15, got %f", s.AvgLaunchAngle)
	}
	if s.PhaseCounts[string(biomech.PhaseContact)] != 2 {
		t.Errorf("expected 2 contact frames, got %d", s.PhaseCounts[string(biomech.PhaseContact)])
	}
}
