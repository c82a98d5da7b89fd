package query

import (
	"encoding/json"
	"fmt"
)

// Format is the output encoding of a query result.
type Format int

const (
	FormatGeoJson Format = iota
	FormatWkt
	FormatJson
	FormatLatLon
	FormatLatLonDir
)

func ParseFormat(s string) (Format, error) {
	switch s {
	case "geojson":
		return FormatGeoJson, nil
	case "wkt":
		return FormatWkt, nil
	case "json":
		return FormatJson, nil
	case "latlon":
		return FormatLatLon, nil
	case "latlondir":
		return FormatLatLonDir, nil
	}
	return FormatGeoJson, newParameterError("f", fmt.Sprintf("Unknown format '%s', expected one of geojson, wkt, json, latlon or latlondir", s))
}

func (f Format) String() string {
	switch f {
	case FormatGeoJson:
		return "geojson"
	case FormatWkt:
		return "wkt"
	case FormatJson:
		return "json"
	case FormatLatLon:
		return "latlon"
	case FormatLatLonDir:
		return "latlondir"
	}
	return fmt.Sprintf("[!UNKNOWN Format %d]", f)
}

// SupportsLines is false for the aggregating point formats.
func (f Format) SupportsLines() bool {
	switch f {
	case FormatGeoJson, FormatWkt, FormatJson:
		return true
	case FormatLatLon, FormatLatLonDir:
		return false
	}
	return false
}

func (f Format) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *Format) UnmarshalJSON(data []byte) error {
	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return err
	}

	*f, err = ParseFormat(s)
	return err
}
