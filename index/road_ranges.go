package index

import "nlr/feature"

// Range is a half-open range [Start, End) of positions in the feature store.
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int {
	return r.End - r.Start
}

// RoadRanges holds one optional range per carriageway of a road. The array index is the feature.Carriageway value.
type RoadRanges struct {
	ranges [3]*Range
}

func (r *RoadRanges) Get(cwy feature.Carriageway) (Range, bool) {
	if cwy < feature.Left || cwy > feature.Single {
		return Range{}, false
	}
	rng := r.ranges[cwy]
	if rng == nil {
		return Range{}, false
	}
	return *rng, true
}

func (r *RoadRanges) set(cwy feature.Carriageway, rng Range) {
	r.ranges[cwy] = &rng
}
