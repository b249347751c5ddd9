package geometry

import (
	"math"
	"testing"

	"github.com/ayusman/swingsight/internal/pose"
)

func TestLineAngle(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"horizontal right", Point{0, 0}, Point{10, 0}, 0},
		{"diagonal down-right", Point{0, 0}, Point{1, 1}, 45},
		{"vertical down", Point{5, 5}, Point{5, 15}, 90},
		{"horizontal left", Point{10, 0}, Point{0, 0}, 180},
		{"diagonal up-right", Point{0, 0}, Point{1, -1}, -45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineAngle(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LineAngle(%v, %v) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLineAngle_DirectionReversal(t *testing.T) {
	// Reversing the points flips the directed angle by 180 degrees.
	pairs := [][2]Point{
		{{0, 0}, {3, 4}},
		{{-2, 5}, {7, 1}},
		{{1, 1}, {1, 9}},
	}

	for _, pair := range pairs {
		forward := LineAngle(pair[0], pair[1])
		backward := LineAngle(pair[1], pair[0])

		diff := math.Abs(forward - backward)
		if math.Abs(diff-180) > 1e-9 {
			t.Errorf("expected 180 degree difference between %f and %f", forward, backward)
		}
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 90},
		{90, 0},
		{180, 90},
		{45, 45},
		{-45, 45},
		{135, 45},
		{270, 0},
		{360, 90},
		{-90, 0},
	}

	for _, tt := range tests {
		got := NormalizeAngle(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeAngle(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeAngle_AlwaysInRange(t *testing.T) {
	for deg := -720.0; deg <= 720.0; deg += 0.25 {
		got := NormalizeAngle(deg)
		if got < 0 || got > 90 {
			t.Fatalf("NormalizeAngle(%f) = %f, outside [0, 90]", deg, got)
		}
	}
}

func TestNormalizeAngle_Period180(t *testing.T) {
	// Two lines 180 degrees apart describe the same undirected line and
	// must normalize identically.
	for deg := -180.0; deg <= 180.0; deg += 1.0 {
		a := NormalizeAngle(deg)
		b := NormalizeAngle(deg + 180)
		if math.Abs(a-b) > 1e-9 {
			t.Fatalf("NormalizeAngle(%f) = %f but NormalizeAngle(%f) = %f", deg, a, deg+180, b)
		}
	}
}

func TestNormalizeAnglePtr_NilPassthrough(t *testing.T) {
	if got := NormalizeAnglePtr(nil); got != nil {
		t.Errorf("expected nil, got %v", *got)
	}

	in := 180.0
	got := NormalizeAnglePtr(&in)
	if got == nil || *got != 90 {
		t.Errorf("expected 90, got %v", got)
	}
}

func TestEstimateLaunchAngle(t *testing.T) {
	shoulder := 0.0 // normalizes to 90
	hand := 90.0    // normalizes to 0

	t.Run("both angles blend 40/60", func(t *testing.T) {
		got := EstimateLaunchAngle(&shoulder, &hand)
		want := 0.4*90 + 0.6*0
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("expected %f, got %f", want, got)
		}
	})

	t.Run("shoulder only", func(t *testing.T) {
		got := EstimateLaunchAngle(&shoulder, nil)
		if math.Abs(got-90) > 1e-9 {
			t.Errorf("expected 90, got %f", got)
		}
	})

	t.Run("hand only", func(t *testing.T) {
		got := EstimateLaunchAngle(nil, &hand)
		if math.Abs(got-0) > 1e-9 {
			t.Errorf("expected 0, got %f", got)
		}
	})

	t.Run("neither falls back to default", func(t *testing.T) {
		got := EstimateLaunchAngle(nil, nil)
		if got != DefaultLaunchAngle {
			t.Errorf("expected exactly %f, got %f", DefaultLaunchAngle, got)
		}
	})
}

func TestConfidence(t *testing.T) {
	points := []pose.Keypoint{
		{Name: pose.LeftWrist, Score: 0.2},
		{Name: pose.RightWrist, Score: 0.4},
		{Name: pose.LeftElbow, Score: 0.6},
	}

	got := Confidence(points)
	if math.Abs(got-0.4) > 1e-9 {
		t.Errorf("expected 0.4, got %f", got)
	}
}

func TestConfidence_Empty(t *testing.T) {
	if got := Confidence(nil); got != 0.0 {
		t.Errorf("expected 0.0 for empty list, got %f", got)
	}
}
