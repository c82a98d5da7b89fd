package io

import (
	"encoding/json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

func linesAsGeoJson(lines orb.MultiLineString) ([]byte, error) {
	geoJsonFeature := geojson.NewFeature(lines)

	geojsonBytes, err := geoJsonFeature.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Unable to marshal lines as GeoJSON")
	}

	return geojsonBytes, nil
}

func pointsAsGeoJson(points orb.MultiPoint) ([]byte, error) {
	geoJsonFeature := geojson.NewFeature(points)

	geojsonBytes, err := geoJsonFeature.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Unable to marshal points as GeoJSON")
	}

	return geojsonBytes, nil
}

// measuredGeometry is a GeoJSON geometry with a third coordinate for the M value. The orb geometries only support two
// dimensions.
type measuredGeometry struct {
	Type        string         `json:"type"`
	Coordinates [][][3]float64 `json:"coordinates"`
}

type measuredFeature struct {
	Type       string           `json:"type"`
	Geometry   measuredGeometry `json:"geometry"`
	Properties map[string]any   `json:"properties"`
}

func measuredLinesAsGeoJson(lines [][][3]float64) ([]byte, error) {
	geoJsonFeature := measuredFeature{
		Type: "Feature",
		Geometry: measuredGeometry{
			Type:        "MultiLineString",
			Coordinates: lines,
		},
		Properties: map[string]any{},
	}

	geojsonBytes, err := json.Marshal(geoJsonFeature)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to marshal measured lines as GeoJSON")
	}

	return geojsonBytes, nil
}
