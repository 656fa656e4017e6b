// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import "fmt"

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific database Error.
const (
	// ErrDbTypeRegistered indicates two different database drivers
	// attempt to register with the name database type.
	ErrDbTypeRegistered = ErrorKind("ErrDbTypeRegistered")

	// ErrDbUnknownType indicates there is no driver registered for
	// the specified database type.
	ErrDbUnknownType = ErrorKind("ErrDbUnknownType")

	// ErrNotFound indicates the requested key, header or height is not
	// stored.
	ErrNotFound = ErrorKind("ErrNotFound")

	// ErrCorruption indicates a stored record can't be decoded.
	ErrCorruption = ErrorKind("ErrCorruption")

	// ErrDriverSpecific indicates the Err field is a driver-specific error.
	ErrDriverSpecific = ErrorKind("ErrDriverSpecific")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to database operation.  It has full
// support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	RawErr      error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.RawErr != nil {
		return e.Description + ": " + e.RawErr.Error()
	}
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}

func makeErrorf(kind ErrorKind, format string, args ...interface{}) Error {
	return makeError(kind, fmt.Sprintf(format, args...))
}

// DriverError wraps an error returned by a backend.
func DriverError(desc string, err error) error {
	if err == nil {
		return nil
	}
	return Error{Err: ErrDriverSpecific, RawErr: err, Description: desc}
}
