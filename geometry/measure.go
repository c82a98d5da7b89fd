package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Measures assigns each vertex of the line a value linearly interpolated by travelled distance between mFrom at the
// first and mTo at the last vertex.
func Measures(ls orb.LineString, mFrom float64, mTo float64) []float64 {
	measures := make([]float64, len(ls))
	if len(ls) == 0 {
		return measures
	}

	total := planar.Length(ls)
	travelled := 0.0

	for i := range ls {
		if i > 0 {
			travelled += planar.Distance(ls[i-1], ls[i])
		}

		if total == 0 {
			measures[i] = mFrom
		} else {
			measures[i] = mFrom + (mTo-mFrom)*travelled/total
		}
	}

	// Avoid rounding errors on the last vertex
	if total != 0 {
		measures[len(ls)-1] = mTo
	}

	return measures
}
