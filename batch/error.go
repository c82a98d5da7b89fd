package batch

import (
	"fmt"
	"nlr/util"
)

// DecodeError is returned for batch requests that can't be decoded. The whole batch is rejected in this case.
type DecodeError struct {
	Message  string `json:"message"`
	Position int    `json:"position"` // Byte offset of the binary entry or index of the JSON entry
	cause    error
	stack    util.Stack
}

func newDecodeError(position int, cause error) *DecodeError {
	return &DecodeError{
		Message:  fmt.Sprintf("Unable to decode batch entry at position %d: %s", position, cause.Error()),
		Position: position,
		cause:    cause,
		stack:    util.CurrentStack(),
	}
}

func (e *DecodeError) Format(s fmt.State, verb rune) {
	util.FormatError(s, verb, e, e.stack)
}

func (e *DecodeError) Error() string {
	return e.Message
}

func (e *DecodeError) Unwrap() error {
	return e.cause
}
