package query

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"iter"
	"math"
	"nlr/feature"
	"nlr/geometry"
	"nlr/index"
)

// LineQuery selects the parts of a road between two SLKs. Features touching the range only at its boundary are not
// part of the result.
type LineQuery struct {
	Road         string
	SlkFrom      float32
	SlkTo        float32
	Carriageways feature.CarriagewaySet
	Offset       float32 // Metres, positive values are right of the road when facing increasing SLK
	Format       Format
	Measure      bool // Whether each vertex of the result should carry its SLK
}

func (q *LineQuery) Print() {
	sigolo.Debugf("Line query: road=%s slk=[%g, %g) cwy=%s offset=%g f=%s m=%t", q.Road, q.SlkFrom, q.SlkTo, q.Carriageways.String(), q.Offset, q.Format.String(), q.Measure)
}

// PointQuery selects the location at one SLK of a road. In contrast to line queries, features ending or starting at
// the SLK are part of the result.
type PointQuery struct {
	Road         string
	Slk          float32
	Carriageways feature.CarriagewaySet
	Offset       float32 // Metres, same convention as LineQuery.Offset
	Format       Format
}

func (q *PointQuery) Print() {
	sigolo.Debugf("Point query: road=%s slk=%g cwy=%s offset=%g f=%s", q.Road, q.Slk, q.Carriageways.String(), q.Offset, q.Format.String())
}

type LineResult struct {
	Geometry orb.LineString
	Measures []float64 // SLK of each vertex, only set for queries with LineQuery.Measure
}

type PointResult struct {
	Point     orb.Point
	Direction float64 // Radians counter-clockwise from east
}

type Executor struct {
	index *index.SpatialIndex
}

func NewExecutor(spatialIndex *index.SpatialIndex) *Executor {
	return &Executor{index: spatialIndex}
}

// Lines returns a lazy sequence of the cut (and optionally offset) geometry of each feature overlapping the requested
// SLK range. Features without resulting geometry are skipped.
func (e *Executor) Lines(q *LineQuery) (iter.Seq[LineResult], error) {
	features, err := e.index.Query(q.Road, q.Carriageways)
	if err != nil {
		return nil, err
	}

	degreeOffset, err := offsetInDegrees(q.Offset)
	if err != nil {
		return nil, err
	}

	return func(yield func(LineResult) bool) {
		for f := range features {
			attributes := &f.Attributes
			if !(attributes.EndSlk > q.SlkFrom && attributes.StartSlk < q.SlkTo) {
				continue
			}

			lengthKm := float64(attributes.LengthKm())
			fractionStart := float64(q.SlkFrom-attributes.StartSlk) / lengthKm
			fractionEnd := float64(q.SlkTo-attributes.StartSlk) / lengthKm

			_, middle, _ := geometry.CutTwice(f.Geometry, fractionStart, fractionEnd)
			if middle == nil {
				sigolo.Tracef("Feature %s %s [%g, %g) has no geometry within the query range", attributes.Road, attributes.Carriageway.String(), attributes.StartSlk, attributes.EndSlk)
				continue
			}

			if degreeOffset != 0 {
				middle = geometry.Offset(middle, degreeOffset)
				if middle == nil {
					continue
				}
			}

			result := LineResult{Geometry: middle}
			if q.Measure {
				mFrom := math.Max(float64(q.SlkFrom), float64(attributes.StartSlk))
				mTo := math.Min(float64(q.SlkTo), float64(attributes.EndSlk))
				result.Measures = geometry.Measures(middle, mFrom, mTo)
			}

			if !yield(result) {
				return
			}
		}
	}, nil
}

// Points returns a lazy sequence of the interpolated location on each feature containing the requested SLK. Features
// of zero length are skipped.
func (e *Executor) Points(q *PointQuery) (iter.Seq[PointResult], error) {
	features, err := e.index.Query(q.Road, q.Carriageways)
	if err != nil {
		return nil, err
	}

	degreeOffset, err := offsetInDegrees(q.Offset)
	if err != nil {
		return nil, err
	}

	return func(yield func(PointResult) bool) {
		for f := range features {
			attributes := &f.Attributes
			if !(attributes.EndSlk >= q.Slk && attributes.StartSlk <= q.Slk) {
				continue
			}
			if attributes.StartSlk == attributes.EndSlk {
				sigolo.Tracef("Skip feature %s %s of zero length at SLK %g", attributes.Road, attributes.Carriageway.String(), attributes.StartSlk)
				continue
			}

			fraction := float64(q.Slk-attributes.StartSlk) / float64(attributes.LengthKm())

			line := f.Geometry
			if degreeOffset != 0 {
				line = geometry.Offset(line, degreeOffset)
				if line == nil {
					continue
				}
			}

			point, direction, ok := geometry.Interpolate(line, fraction)
			if !ok {
				continue
			}

			if !yield(PointResult{Point: point, Direction: direction}) {
				return
			}
		}
	}, nil
}

// offsetInDegrees validates and converts the offset of a query. Queries from the batch wire format bypass the
// parameter validation, so NaN counts as no offset here as well.
func offsetInDegrees(offsetMetres float32) (float64, error) {
	offset := float64(offsetMetres)
	if math.IsNaN(offset) {
		return 0, nil
	}
	if math.IsInf(offset, 0) {
		return 0, newParameterError("offset", "Value must be a finite number")
	}
	return geometry.MetresToDegrees(offset), nil
}
