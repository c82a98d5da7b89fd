package index

import "sync/atomic"

// Holder shares the current index with all request handlers. A refreshed dataset is published by swapping the pointer
// as a whole; queries that already loaded the old index keep using it until they are done.
type Holder struct {
	current atomic.Pointer[SpatialIndex]
}

func NewHolder(index *SpatialIndex) *Holder {
	h := &Holder{}
	h.current.Store(index)
	return h
}

func (h *Holder) Load() *SpatialIndex {
	return h.current.Load()
}

// Swap publishes the new index and returns the previous one.
func (h *Holder) Swap(index *SpatialIndex) *SpatialIndex {
	return h.current.Swap(index)
}
