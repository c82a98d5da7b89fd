package feature

import (
	"slices"
)

// Store is the immutable, sorted sequence of all road features. The order is defined by Attributes.Compare and is
// established by the data acquisition, the store itself never sorts.
type Store struct {
	features []Feature
}

func NewStore(features []Feature) *Store {
	return &Store{features: features}
}

func (s *Store) Len() int {
	return len(s.features)
}

func (s *Store) Get(i int) *Feature {
	return &s.features[i]
}

// Slice returns the features within the half-open range [start, end).
func (s *Store) Slice(start int, end int) []Feature {
	return s.features[start:end]
}

// Features returns all features. The returned slice must not be modified.
func (s *Store) Features() []Feature {
	return s.features
}

func (s *Store) IsSorted() bool {
	return slices.IsSortedFunc(s.features, compareFeatures)
}

// SortFeatures sorts the given features into store order. Features with equal attributes keep their relative order.
func SortFeatures(features []Feature) {
	slices.SortStableFunc(features, compareFeatures)
}

func compareFeatures(a Feature, b Feature) int {
	return a.Attributes.Compare(&b.Attributes)
}
