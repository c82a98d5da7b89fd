package importing

import (
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"nlr/feature"
)

const esriGeometryPolyline = "esriGeometryPolyline"

// esriFeatureSet is the narrow subset of an EsriJSON feature set page returned by the road network service.
type esriFeatureSet struct {
	GeometryType          string        `json:"geometryType"`
	Features              []esriFeature `json:"features"`
	ExceededTransferLimit bool          `json:"exceededTransferLimit"`
}

type esriFeature struct {
	Attributes feature.Attributes `json:"attributes"`
	Geometry   esriPolyline       `json:"geometry"`
}

type esriPolyline struct {
	Paths []orb.LineString `json:"paths"`
}

// toFeature uses the first path as geometry. The road network only contains single part polylines.
func (f *esriFeature) toFeature() (feature.Feature, error) {
	if len(f.Geometry.Paths) == 0 || len(f.Geometry.Paths[0]) == 0 {
		return feature.Feature{}, errors.Errorf("Feature of road %s carriageway %s at SLK %g has no geometry", f.Attributes.Road, f.Attributes.Carriageway.String(), f.Attributes.StartSlk)
	}

	return feature.Feature{
		Attributes: f.Attributes,
		Geometry:   f.Geometry.Paths[0],
	}, nil
}
