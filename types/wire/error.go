// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
)

// MessageError describes an issue with a serialized header or AuxPow payload.
// Func names the decoding routine and Field the element that could not be
// read or was out of bounds.
type MessageError struct {
	Func        string // Function name
	Field       string // Offending field
	Description string // Human readable description of the issue

	Err error // Underlying I/O or codec error, if any
}

// Error satisfies the error interface and prints human-readable errors.
func (e *MessageError) Error() string {
	if e.Func != "" {
		return fmt.Sprintf("%v: %v: %v", e.Func, e.Field, e.Description)
	}
	return fmt.Sprintf("%v: %v", e.Field, e.Description)
}

// Unwrap returns the underlying error.
func (e *MessageError) Unwrap() error {
	return e.Err
}

// messageError creates an error for the given function, field and description.
func messageError(f, field, format string, args ...interface{}) *MessageError {
	return &MessageError{Func: f, Field: field, Description: fmt.Sprintf(format, args...)}
}

// fieldError attaches the field context to err.  A MessageError produced by
// a nested decoder keeps its own, more precise, field.
func fieldError(f, field string, err error) error {
	if msgErr, ok := err.(*MessageError); ok {
		if msgErr.Field == "" {
			msgErr.Field = field
		}
		return msgErr
	}
	return &MessageError{Func: f, Field: field, Description: err.Error(), Err: err}
}
