package query

import (
	"fmt"
	"github.com/pkg/errors"
	"nlr/util"
)

// ErrNoMatchingPoints is returned by point formats when no feature contains the requested SLK. Empty line results are
// valid and don't cause this error.
var ErrNoMatchingPoints = errors.New("Found no points")

// UnsupportedFormatError is returned when a format is requested that can't encode the kind of query, e.g. latlon for
// a line query.
type UnsupportedFormatError struct {
	Message         string `json:"message"`
	RequestedFormat Format `json:"format"`
	stack           util.Stack
}

func NewUnsupportedFormatError(format Format, queryKind string) *UnsupportedFormatError {
	return &UnsupportedFormatError{
		Message:         fmt.Sprintf("Format %s is not supported for %s queries.", format.String(), queryKind),
		RequestedFormat: format,
		stack:           util.CurrentStack(),
	}
}

func (e *UnsupportedFormatError) Format(s fmt.State, verb rune) {
	util.FormatError(s, verb, e, e.stack)
}

func (e *UnsupportedFormatError) Error() string {
	return e.Message
}

// ParameterError is returned for missing, unknown or invalid query parameters.
type ParameterError struct {
	Message   string `json:"message"`
	Parameter string `json:"parameter"`
	stack     util.Stack
}

func newParameterError(parameter string, message string) *ParameterError {
	return &ParameterError{
		Message:   fmt.Sprintf("Invalid parameter '%s': %s", parameter, message),
		Parameter: parameter,
		stack:     util.CurrentStack(),
	}
}

func (e *ParameterError) Format(s fmt.State, verb rune) {
	util.FormatError(s, verb, e, e.stack)
}

func (e *ParameterError) Error() string {
	return e.Message
}
