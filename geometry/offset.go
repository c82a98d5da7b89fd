package geometry

import (
	"github.com/paulmach/orb"
	"math"
)

// parallelTolerance is the smallest cross product of two unit directions for which their offset segments are
// intersected. Below it, the segments are treated as collinear.
const parallelTolerance = 1e-12

// Offset creates the parallel curve of the line at the given distance. Looking along the line, a positive distance
// moves it to the right and a negative distance to the left. Consecutive segments are joined at the intersection of
// their offset lines (miter join). The result is nil when the line has fewer than two distinct vertices.
func Offset(ls orb.LineString, distance float64) orb.LineString {
	points := withoutDuplicates(ls)
	if len(points) < 2 {
		return nil
	}

	if distance == 0 {
		return points
	}

	type offsetSegment struct {
		start     orb.Point
		end       orb.Point
		direction orb.Point
	}

	segments := make([]offsetSegment, len(points)-1)
	for i := 1; i < len(points); i++ {
		dx := points[i][0] - points[i-1][0]
		dy := points[i][1] - points[i-1][1]
		length := math.Hypot(dx, dy)
		ux, uy := dx/length, dy/length

		// (uy, -ux) is the unit normal pointing to the right of the direction of travel
		nx, ny := uy*distance, -ux*distance

		segments[i-1] = offsetSegment{
			start:     orb.Point{points[i-1][0] + nx, points[i-1][1] + ny},
			end:       orb.Point{points[i][0] + nx, points[i][1] + ny},
			direction: orb.Point{ux, uy},
		}
	}

	result := make(orb.LineString, 0, len(points))
	result = append(result, segments[0].start)

	for i := 1; i < len(segments); i++ {
		previous := segments[i-1]
		current := segments[i]

		joint, ok := intersectLines(previous.start, previous.direction, current.start, current.direction)
		if !ok {
			joint = previous.end
		}
		result = append(result, joint)
	}

	result = append(result, segments[len(segments)-1].end)

	return result
}

// intersectLines intersects the two infinite lines given by a point and a direction each.
func intersectLines(p orb.Point, r orb.Point, q orb.Point, s orb.Point) (orb.Point, bool) {
	denominator := cross(r, s)
	if math.Abs(denominator) < parallelTolerance {
		return orb.Point{}, false
	}

	t := cross(orb.Point{q[0] - p[0], q[1] - p[1]}, s) / denominator
	return orb.Point{p[0] + t*r[0], p[1] + t*r[1]}, true
}

func cross(a orb.Point, b orb.Point) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

func withoutDuplicates(ls orb.LineString) orb.LineString {
	result := make(orb.LineString, 0, len(ls))
	for i, p := range ls {
		if i > 0 && p.Equal(result[len(result)-1]) {
			continue
		}
		result = append(result, p)
	}
	return result
}
