package index

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"iter"
	"nlr/feature"
	"sort"
	"time"
	"unicode/utf8"
)

// SpatialIndex maps the first letter of a road to the roads starting with that letter and each road to the ranges of
// its carriageways within the sorted feature store. It is built once and never modified afterward, so it can be used
// from any number of goroutines without locking.
type SpatialIndex struct {
	store  *feature.Store
	lookup map[rune]map[string]*RoadRanges
}

// Build creates the index with a single scan over the sorted store. The store is expected to be sorted as defined by
// feature.Attributes.Compare.
func Build(store *feature.Store) (*SpatialIndex, error) {
	if store == nil || store.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	sigolo.Infof("Start indexing %d features", store.Len())
	indexStartTime := time.Now()

	index := &SpatialIndex{
		store:  store,
		lookup: map[rune]map[string]*RoadRanges{},
	}

	features := store.Features()
	sliceStart := 0 // Inclusive
	previous := &features[0].Attributes

	for i := 1; i < len(features); i++ {
		current := &features[i].Attributes

		if current.Road != previous.Road || current.Carriageway != previous.Carriageway {
			err := index.closeSlice(previous, sliceStart, i)
			if err != nil {
				return nil, err
			}
			sliceStart = i
		}

		previous = current
	}

	// The run that is still open at the end of the store
	err := index.closeSlice(previous, sliceStart, len(features))
	if err != nil {
		return nil, err
	}

	indexDuration := time.Since(indexStartTime)
	sigolo.Infof("Indexed %d roads with %d first letters in %s", index.RoadCount(), len(index.lookup), indexDuration)
	index.Print()

	return index, nil
}

func (idx *SpatialIndex) closeSlice(attributes *feature.Attributes, start int, end int) error {
	firstLetter, size := utf8.DecodeRuneInString(attributes.Road)
	if size == 0 {
		return errors.Errorf("Unable to index features %d to %d: road is empty", start, end)
	}

	roads, ok := idx.lookup[firstLetter]
	if !ok {
		roads = map[string]*RoadRanges{}
		idx.lookup[firstLetter] = roads
	}

	ranges, ok := roads[attributes.Road]
	if !ok {
		ranges = &RoadRanges{}
		roads[attributes.Road] = ranges
	}

	if _, exists := ranges.Get(attributes.Carriageway); exists {
		return errors.Errorf("Unable to index features %d to %d: road %s carriageway %s appeared twice, the dataset is not sorted", start, end, attributes.Road, attributes.Carriageway)
	}

	ranges.set(attributes.Carriageway, Range{Start: start, End: end})
	sigolo.Tracef("Road %s carriageway %s covers features [%d, %d)", attributes.Road, attributes.Carriageway, start, end)

	return nil
}

// Lookup returns the carriageway ranges of the given road.
func (idx *SpatialIndex) Lookup(road string) (*RoadRanges, error) {
	firstLetter, size := utf8.DecodeRuneInString(road)
	if size == 0 {
		return nil, newMalformedRoadIdError(road)
	}

	roads, ok := idx.lookup[firstLetter]
	if !ok {
		return nil, newRoadLookupError(road, UnknownFirstLetter)
	}

	ranges, ok := roads[road]
	if !ok {
		return nil, newRoadLookupError(road, UnknownRoad)
	}

	return ranges, nil
}

// Query returns a lazy sequence over all features of the road on the selected carriageways. The features of the left
// carriageway come first, then right, then single, each in store order.
func (idx *SpatialIndex) Query(road string, carriageways feature.CarriagewaySet) (iter.Seq[*feature.Feature], error) {
	ranges, err := idx.Lookup(road)
	if err != nil {
		return nil, err
	}

	return func(yield func(*feature.Feature) bool) {
		for _, cwy := range carriageways.Carriageways() {
			rng, ok := ranges.Get(cwy)
			if !ok {
				continue
			}
			for i := rng.Start; i < rng.End; i++ {
				if !yield(idx.store.Get(i)) {
					return
				}
			}
		}
	}, nil
}

func (idx *SpatialIndex) Store() *feature.Store {
	return idx.store
}

func (idx *SpatialIndex) RoadCount() int {
	count := 0
	for _, roads := range idx.lookup {
		count += len(roads)
	}
	return count
}

// Print logs the amount of roads per first letter. Only logs something on trace level.
func (idx *SpatialIndex) Print() {
	if !sigolo.ShouldLogTrace() {
		return
	}

	var letters []rune
	for letter := range idx.lookup {
		letters = append(letters, letter)
	}
	sort.Slice(letters, func(i, j int) bool {
		return letters[i] < letters[j]
	})

	for _, letter := range letters {
		sigolo.Tracef("First letter '%c' has %d roads", letter, len(idx.lookup[letter]))
	}
}
