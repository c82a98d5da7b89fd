package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"math"
)

// CutTwice splits the line at the two fractions of its length into the parts before the first fraction, between both
// fractions and after the second fraction. Fractions are clamped to [0, 1]. A part that would have no length is nil,
// so a cut with f0 >= f1 has no middle part.
func CutTwice(ls orb.LineString, f0 float64, f1 float64) (before orb.LineString, middle orb.LineString, after orb.LineString) {
	if len(ls) < 2 || math.IsNaN(f0) || math.IsNaN(f1) {
		return nil, nil, nil
	}

	total := planar.Length(ls)
	if total == 0 {
		return nil, nil, nil
	}

	f0 = clampFraction(f0)
	f1 = clampFraction(f1)

	if f0 > 0 {
		before = sub(ls, total, 0, math.Min(f0, f1))
	}
	if f1 > f0 {
		middle = sub(ls, total, f0, f1)
	}
	if f1 < 1 {
		after = sub(ls, total, math.Max(f0, f1), 1)
	}

	return before, middle, after
}

// sub returns the part of the line between the two fractions. The fractions must be within [0, 1] with f0 < f1.
func sub(ls orb.LineString, total float64, f0 float64, f1 float64) orb.LineString {
	if f1 <= f0 {
		return nil
	}

	startDistance := f0 * total
	endDistance := f1 * total

	var result orb.LineString
	travelled := 0.0

	for i := 1; i < len(ls); i++ {
		segmentStart := ls[i-1]
		segmentEnd := ls[i]
		segmentLength := planar.Distance(segmentStart, segmentEnd)
		segmentEndDistance := travelled + segmentLength

		if result == nil && segmentLength > 0 && (startDistance < segmentEndDistance || i == len(ls)-1) {
			result = append(result, lerp(segmentStart, segmentEnd, (startDistance-travelled)/segmentLength))
		}

		if result != nil {
			if endDistance <= segmentEndDistance {
				if segmentLength > 0 {
					result = append(result, lerp(segmentStart, segmentEnd, (endDistance-travelled)/segmentLength))
				} else {
					result = append(result, segmentEnd)
				}
				break
			}
			result = append(result, segmentEnd)
		}

		travelled = segmentEndDistance
	}

	if result != nil && len(result) < 2 {
		result = append(result, ls[len(ls)-1])
	}

	return result
}

func lerp(a orb.Point, b orb.Point, t float64) orb.Point {
	return orb.Point{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
	}
}

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
