// Package geometry provides the closed-form trigonometry behind swing
// measurements: joint-line angles, the canonical deviation-from-horizontal
// normalization, launch angle estimation, and the hand region of interest.
package geometry

import (
	"math"

	"github.com/ayusman/swingsight/internal/pose"
)

// DefaultLaunchAngle is the empirical fallback returned when neither a
// shoulder line nor a hand line is available.
const DefaultLaunchAngle = 28.0

// Launch angle blend weights. The hand line tracks the implement path more
// directly than the shoulder line, so it carries more weight.
const (
	shoulderWeight = 0.4
	handWeight     = 0.6
)

// Point is a 2D point in image pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LineAngle returns the angle of the directed line a->b in degrees, in
// (-180, 180]. The sign depends on point order, so callers must apply a
// consistent convention: shoulder lines run left->right, hand lines run
// elbow->wrist.
func LineAngle(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
}

// NormalizeAngle folds a raw angle onto a 0-90 degree deviation-from-
// horizontal scale, discarding sign and 180-degree periodicity: near-
// horizontal lines (close to 0 or 180) normalize near 90, vertical lines
// normalize near 0.
func NormalizeAngle(deg float64) float64 {
	m := math.Mod(deg+360, 180)
	if m < 0 {
		m += 180
	}
	return math.Abs(m - 90)
}

// NormalizeAnglePtr applies NormalizeAngle, passing nil through unchanged.
func NormalizeAnglePtr(deg *float64) *float64 {
	if deg == nil {
		return nil
	}
	n := NormalizeAngle(*deg)
	return &n
}

// EstimateLaunchAngle blends the normalized shoulder and hand-line angles
// into a single launch angle estimate. With both inputs it returns a
// weighted blend, with one it returns that one, and with neither it falls
// back to DefaultLaunchAngle.
func EstimateLaunchAngle(shoulderAngle, handAngle *float64) float64 {
	s := NormalizeAnglePtr(shoulderAngle)
	h := NormalizeAnglePtr(handAngle)

	switch {
	case s != nil && h != nil:
		return shoulderWeight**s + handWeight**h
	case s != nil:
		return *s
	case h != nil:
		return *h
	default:
		return DefaultLaunchAngle
	}
}

// Confidence returns the arithmetic mean score of the given keypoints,
// or 0.0 for an empty list.
func Confidence(points []pose.Keypoint) float64 {
	if len(points) == 0 {
		return 0.0
	}

	var sum float64
	for _, kp := range points {
		sum += kp.Score
	}
	return sum / float64(len(points))
}
