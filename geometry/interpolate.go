package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"math"
)

// Interpolate returns the point at the given fraction of the length of the line together with the direction of the
// segment containing it. The direction is the angle in radians counter-clockwise from the positive x-axis (east). The
// fraction is clamped to [0, 1]. Lines without length have no such point.
func Interpolate(ls orb.LineString, fraction float64) (orb.Point, float64, bool) {
	if len(ls) < 2 || math.IsNaN(fraction) {
		return orb.Point{}, 0, false
	}

	total := planar.Length(ls)
	if total == 0 {
		return orb.Point{}, 0, false
	}

	target := clampFraction(fraction) * total
	travelled := 0.0
	lastSegment := -1

	for i := 1; i < len(ls); i++ {
		segmentLength := planar.Distance(ls[i-1], ls[i])
		if segmentLength == 0 {
			continue
		}
		lastSegment = i

		if target <= travelled+segmentLength {
			return lerp(ls[i-1], ls[i], (target-travelled)/segmentLength), Direction(ls[i-1], ls[i]), true
		}

		travelled += segmentLength
	}

	// Rounding errors of the travelled distance may leave the target slightly behind the last vertex
	return ls[len(ls)-1], Direction(ls[lastSegment-1], ls[lastSegment]), true
}

// Direction returns the angle of the vector from a to b in radians.
func Direction(a orb.Point, b orb.Point) float64 {
	return math.Atan2(b[1]-a[1], b[0]-a[0])
}
