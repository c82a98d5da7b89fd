package feature

import (
	"cmp"
	"github.com/paulmach/orb"
	"strings"
)

type Attributes struct {
	Road        string      `json:"ROAD"`
	Carriageway Carriageway `json:"CWY"`
	StartSlk    float32     `json:"START_SLK"` // Kilometres
	EndSlk      float32     `json:"END_SLK"`   // Kilometres, expected to be greater than StartSlk
}

// Compare defines the order of the feature store: road (lexicographic), then carriageway (Left < Right < Single), then
// start SLK.
func (a *Attributes) Compare(other *Attributes) int {
	if c := strings.Compare(a.Road, other.Road); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Carriageway, other.Carriageway); c != 0 {
		return c
	}
	return cmp.Compare(a.StartSlk, other.StartSlk)
}

func (a *Attributes) LengthKm() float32 {
	return a.EndSlk - a.StartSlk
}

// Feature is one piece of a road with a polyline geometry of at least one vertex. Features are never modified once
// they are part of a Store.
type Feature struct {
	Attributes Attributes     `json:"attributes"`
	Geometry   orb.LineString `json:"geometry"`
}
