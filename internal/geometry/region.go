package geometry

import (
	"github.com/ayusman/swingsight/internal/pose"
)

// Region is an axis-aligned rectangle in image pixel coordinates.
// It is usable for cropping only when Width and Height are positive.
type Region struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// regionGrowth is how much the wrist/elbow bounding box is expanded in each
// axis so the crop plausibly contains a held implement.
const regionGrowth = 0.5

// HandRegion derives the region of interest around the hands from the wrist
// and elbow keypoints. The bounding box of the available points is grown by
// 50% in each axis, symmetrically around its original extent, clamped to
// non-negative origin coordinates. Returns nil when no wrist is present.
func HandRegion(m pose.KeypointMap) *Region {
	_, hasLeft := m.Get(pose.LeftWrist)
	_, hasRight := m.Get(pose.RightWrist)
	if !hasLeft && !hasRight {
		return nil
	}

	var points []pose.Keypoint
	for _, name := range []pose.JointName{
		pose.LeftWrist, pose.RightWrist, pose.LeftElbow, pose.RightElbow,
	} {
		if kp, ok := m.Get(name); ok {
			points = append(points, kp)
		}
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	width := maxX - minX
	height := maxY - minY

	x := minX - width*regionGrowth/2
	y := minY - height*regionGrowth/2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	return &Region{
		X:      x,
		Y:      y,
		Width:  width * (1 + regionGrowth),
		Height: height * (1 + regionGrowth),
	}
}
