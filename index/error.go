package index

import (
	"fmt"
	"github.com/pkg/errors"
	"nlr/util"
)

// ErrEmptyDataset is returned when an index should be built from a store without any features.
var ErrEmptyDataset = errors.New("Dataset is empty: zero features received")

type RoadLookupReason string

const (
	UnknownFirstLetter RoadLookupReason = "unknown first letter"
	UnknownRoad        RoadLookupReason = "unknown road"
)

// RoadLookupError is returned when a road is not part of the index. This is a rejected query, not a server problem.
type RoadLookupError struct {
	Message string           `json:"message"`
	Road    string           `json:"road"`
	Reason  RoadLookupReason `json:"reason"`
	stack   util.Stack
}

func newRoadLookupError(road string, reason RoadLookupReason) *RoadLookupError {
	var message string
	switch reason {
	case UnknownFirstLetter:
		message = fmt.Sprintf("Road lookup failed: First letter of road '%s' did not match any in lookup table.", road)
	default:
		message = fmt.Sprintf("Road lookup failed: Road '%s' not found in second level lookup table.", road)
	}

	return &RoadLookupError{
		Message: message,
		Road:    road,
		Reason:  reason,
		stack:   util.CurrentStack(),
	}
}

func (e *RoadLookupError) Format(s fmt.State, verb rune) {
	util.FormatError(s, verb, e, e.stack)
}

func (e *RoadLookupError) Error() string {
	return e.Message
}

// MalformedRoadIdError is returned for road IDs that can't be looked up at all, e.g. the empty string.
type MalformedRoadIdError struct {
	Message string `json:"message"`
	Road    string `json:"road"`
	stack   util.Stack
}

func newMalformedRoadIdError(road string) *MalformedRoadIdError {
	return &MalformedRoadIdError{
		Message: fmt.Sprintf("Malformed road ID '%s': Could not get first letter of road.", road),
		Road:    road,
		stack:   util.CurrentStack(),
	}
}

func (e *MalformedRoadIdError) Format(s fmt.State, verb rune) {
	util.FormatError(s, verb, e, e.stack)
}

func (e *MalformedRoadIdError) Error() string {
	return e.Message
}
