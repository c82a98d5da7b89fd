package io

import (
	"encoding/json"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
	"iter"
	"math"
	"nlr/geometry"
	"nlr/query"
	"strconv"
	"strings"
	"time"
)

// FormatLines renders all line results in the given format. An empty result is a valid, empty geometry.
func FormatLines(results iter.Seq[query.LineResult], format query.Format, measured bool) ([]byte, error) {
	if !format.SupportsLines() {
		return nil, query.NewUnsupportedFormatError(format, "line")
	}

	formatStartTime := time.Now()

	var data []byte
	var err error
	if measured {
		data, err = formatMeasuredLines(results, format)
	} else {
		data, err = formatLines(results, format)
	}
	if err != nil {
		return nil, err
	}

	sigolo.Debugf("Formatted lines as %s in %s", format.String(), time.Since(formatStartTime))
	return data, nil
}

func formatLines(results iter.Seq[query.LineResult], format query.Format) ([]byte, error) {
	lines := orb.MultiLineString{}
	for result := range results {
		lines = append(lines, result.Geometry)
	}

	switch format {
	case query.FormatGeoJson:
		return linesAsGeoJson(lines)
	case query.FormatWkt:
		return wkt.Marshal(lines), nil
	case query.FormatJson:
		data, err := json.Marshal(lines)
		return data, errors.Wrap(err, "Unable to marshal lines as JSON")
	case query.FormatLatLon, query.FormatLatLonDir:
		return nil, query.NewUnsupportedFormatError(format, "line")
	}
	return nil, query.NewUnsupportedFormatError(format, "line")
}

func formatMeasuredLines(results iter.Seq[query.LineResult], format query.Format) ([]byte, error) {
	lines := [][][3]float64{}
	for result := range results {
		line := make([][3]float64, len(result.Geometry))
		for i, point := range result.Geometry {
			line[i] = [3]float64{point[0], point[1], result.Measures[i]}
		}
		lines = append(lines, line)
	}

	switch format {
	case query.FormatGeoJson:
		return measuredLinesAsGeoJson(lines)
	case query.FormatWkt:
		return measuredLinesAsWkt(lines), nil
	case query.FormatJson:
		data, err := json.Marshal(lines)
		return data, errors.Wrap(err, "Unable to marshal measured lines as JSON")
	case query.FormatLatLon, query.FormatLatLonDir:
		return nil, query.NewUnsupportedFormatError(format, "line")
	}
	return nil, query.NewUnsupportedFormatError(format, "line")
}

func measuredLinesAsWkt(lines [][][3]float64) []byte {
	if len(lines) == 0 {
		return []byte("MULTILINESTRING M EMPTY")
	}

	var sb strings.Builder
	sb.WriteString("MULTILINESTRING M (")
	for i, line := range lines {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(")
		for j, vertex := range line {
			if j > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(formatNumber(vertex[0]))
			sb.WriteString(" ")
			sb.WriteString(formatNumber(vertex[1]))
			sb.WriteString(" ")
			sb.WriteString(formatNumber(vertex[2]))
		}
		sb.WriteString(")")
	}
	sb.WriteString(")")

	return []byte(sb.String())
}

// FormatPoints renders all point results in the given format. The latlon formats aggregate all points into their mean
// location. Points are expected, so an empty result is an ErrNoMatchingPoints error for every format.
func FormatPoints(results iter.Seq[query.PointResult], format query.Format) ([]byte, error) {
	formatStartTime := time.Now()

	points := orb.MultiPoint{}
	var directions []float64
	for result := range results {
		points = append(points, result.Point)
		directions = append(directions, result.Direction)
	}

	if len(points) == 0 {
		return nil, query.ErrNoMatchingPoints
	}

	var data []byte
	var err error

	switch format {
	case query.FormatGeoJson:
		data, err = pointsAsGeoJson(points)
	case query.FormatWkt:
		data = wkt.Marshal(points)
	case query.FormatJson:
		data, err = json.Marshal(points)
		err = errors.Wrap(err, "Unable to marshal points as JSON")
	case query.FormatLatLon:
		mean := meanPoint(points)
		data = []byte(formatNumber(mean.Lat()) + "," + formatNumber(mean.Lon()))
	case query.FormatLatLonDir:
		mean := meanPoint(points)
		direction := geometry.MeanAngle(directions) * 180 / math.Pi
		data = []byte(formatNumber(mean.Lat()) + "," + formatNumber(mean.Lon()) + "," + formatNumber(direction))
	default:
		return nil, query.NewUnsupportedFormatError(format, "point")
	}
	if err != nil {
		return nil, err
	}

	sigolo.Debugf("Formatted %d points as %s in %s", len(points), format.String(), time.Since(formatStartTime))
	return data, nil
}

// meanPoint is the component-wise arithmetic mean of the points.
func meanPoint(points orb.MultiPoint) orb.Point {
	var x, y float64
	for _, point := range points {
		x += point[0]
		y += point[1]
	}
	n := float64(len(points))
	return orb.Point{x / n, y / n}
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
