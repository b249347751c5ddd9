// Package lines recovers straight implement lines from image regions using
// gradient-magnitude edge detection and a discretized Hough transform.
package lines

import (
	"image"
	"math"

	"github.com/ayusman/swingsight/internal/geometry"
)

// Detection constants.
const (
	// edgeThreshold is the Sobel gradient magnitude above which a pixel is
	// treated as an edge pixel.
	edgeThreshold = 50.0
	// voteThreshold is the minimum Hough votes for a (theta, rho) bin to
	// become a line candidate.
	voteThreshold = 10
	// voteNormalization scales raw votes into a confidence value. The result
	// is deliberately not clamped to [0,1]; callers compare against fixed
	// cutoffs rather than treating it as a probability.
	voteNormalization = 100.0
)

// Line is a detected straight line in image pixel coordinates.
// Confidence is votes/100 and is unbounded above.
type Line struct {
	AngleDegrees float64        `json:"angleDegrees"`
	Confidence   float64        `json:"confidence"`
	Start        geometry.Point `json:"startPoint"`
	End          geometry.Point `json:"endPoint"`
}

// Detect crops img to region, builds a binary edge map, and runs a Hough
// transform over it. It returns the strongest candidate line translated back
// into full-image coordinates, or nil when the crop is degenerate, contains
// no edge pixels, or no bin reaches the vote threshold. Detect never panics
// on malformed-but-well-typed input.
func Detect(img image.Image, region geometry.Region) *Line {
	if img == nil || region.Width <= 0 || region.Height <= 0 {
		return nil
	}

	crop := image.Rect(
		int(math.Round(region.X)),
		int(math.Round(region.Y)),
		int(math.Round(region.X+region.Width)),
		int(math.Round(region.Y+region.Height)),
	).Intersect(img.Bounds())

	w, h := crop.Dx(), crop.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}

	edges := edgeMap(img, crop)
	if len(edges) == 0 {
		return nil
	}

	theta, rho, votes := accumulate(edges, w, h)
	if votes < voteThreshold {
		return nil
	}

	line := reconstruct(theta, rho, w, h)
	line.Confidence = float64(votes) / voteNormalization

	// Translate endpoints back into full-image coordinates.
	ox, oy := float64(crop.Min.X), float64(crop.Min.Y)
	line.Start.X += ox
	line.Start.Y += oy
	line.End.X += ox
	line.End.Y += oy

	return line
}

// edgeMap converts the cropped area to grayscale (mean of channel values) and
// applies a 3x3 Sobel operator to interior pixels, leaving a 1-pixel border
// unprocessed. It returns the crop-local coordinates of all edge pixels.
func edgeMap(img image.Image, crop image.Rectangle) []image.Point {
	w, h := crop.Dx(), crop.Dy()

	gray := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(crop.Min.X+x, crop.Min.Y+y).RGBA()
			gray[y*w+x] = float64((r>>8)+(g>>8)+(b>>8)) / 3.0
		}
	}

	var edges []image.Point
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -gray[(y-1)*w+x-1] + gray[(y-1)*w+x+1] +
				-2*gray[y*w+x-1] + 2*gray[y*w+x+1] +
				-gray[(y+1)*w+x-1] + gray[(y+1)*w+x+1]
			gy := -gray[(y-1)*w+x-1] - 2*gray[(y-1)*w+x] - gray[(y-1)*w+x+1] +
				gray[(y+1)*w+x-1] + 2*gray[(y+1)*w+x] + gray[(y+1)*w+x+1]

			if math.Sqrt(gx*gx+gy*gy) > edgeThreshold {
				edges = append(edges, image.Point{X: x, Y: y})
			}
		}
	}
	return edges
}

// accumulate runs Hough voting over the edge pixels: theta is stepped at one
// degree over [0,180), rho = x*cos(theta) + y*sin(theta), and each
// (theta, round(rho)) bin collects a vote. It returns the strongest bin.
func accumulate(edges []image.Point, w, h int) (theta int, rho, votes int) {
	var sin, cos [180]float64
	for t := 0; t < 180; t++ {
		rad := float64(t) * math.Pi / 180
		sin[t] = math.Sin(rad)
		cos[t] = math.Cos(rad)
	}

	// rho ranges over [-diag, diag] for a w x h crop.
	diag := int(math.Ceil(math.Hypot(float64(w), float64(h))))
	acc := make([]int, 180*(2*diag+1))

	for _, p := range edges {
		for t := 0; t < 180; t++ {
			r := int(math.Round(float64(p.X)*cos[t] + float64(p.Y)*sin[t]))
			acc[t*(2*diag+1)+r+diag]++
		}
	}

	best := -1
	for t := 0; t < 180; t++ {
		for r := -diag; r <= diag; r++ {
			v := acc[t*(2*diag+1)+r+diag]
			if v > best {
				best = v
				theta = t
				rho = r
			}
		}
	}
	return theta, rho, best
}

// reconstruct solves the line equation rho = x*cos(theta) + y*sin(theta) at
// the crop's left/right boundaries, or top/bottom when the line is closer to
// vertical, producing crop-local endpoints.
func reconstruct(theta, rho, w, h int) *Line {
	rad := float64(theta) * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)

	line := &Line{AngleDegrees: float64(theta)}

	if math.Abs(sin) >= math.Abs(cos) {
		x0, x1 := 0.0, float64(w-1)
		line.Start = geometry.Point{X: x0, Y: (float64(rho) - x0*cos) / sin}
		line.End = geometry.Point{X: x1, Y: (float64(rho) - x1*cos) / sin}
	} else {
		y0, y1 := 0.0, float64(h-1)
		line.Start = geometry.Point{X: (float64(rho) - y0*sin) / cos, Y: y0}
		line.End = geometry.Point{X: (float64(rho) - y1*sin) / cos, Y: y1}
	}
	return line
}
