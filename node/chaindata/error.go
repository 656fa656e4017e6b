// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"errors"
	"fmt"

	"gitlab.com/jaxnet/auxpowd/types/wire"
)

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific RuleError.
const (
	// ErrEmptyCoinbase indicates the parent coinbase has no inputs or no
	// outputs.
	ErrEmptyCoinbase = ErrorKind("ErrEmptyCoinbase")

	// ErrChainBranchTooLong indicates the chain merkle branch has 32 or
	// more hashes.
	ErrChainBranchTooLong = ErrorKind("ErrChainBranchTooLong")

	// ErrCoinbaseBranchSizeMismatch indicates the coinbase merkle branch
	// does not have the depth required by the network.
	ErrCoinbaseBranchSizeMismatch = ErrorKind("ErrCoinbaseBranchSizeMismatch")

	// ErrMergedMiningHeaderMissing indicates the coinbase script has no
	// merged mining tag.
	ErrMergedMiningHeaderMissing = ErrorKind("ErrMergedMiningHeaderMissing")

	// ErrDuplicateMergedMiningHeader indicates the merged mining tag occurs
	// more than once in the coinbase script.
	ErrDuplicateMergedMiningHeader = ErrorKind("ErrDuplicateMergedMiningHeader")

	// ErrMergedMiningHeaderTooLate indicates the merged mining tag starts
	// after the first 20 bytes of the coinbase script.
	ErrMergedMiningHeaderTooLate = ErrorKind("ErrMergedMiningHeaderTooLate")

	// ErrHeaderNotAdjacentToRoot indicates the chain merkle root does not
	// immediately follow the merged mining tag.
	ErrHeaderNotAdjacentToRoot = ErrorKind("ErrHeaderNotAdjacentToRoot")

	// ErrMissingMergedMiningSizeAndNonce indicates the coinbase script ends
	// before the chain merkle size and nonce.
	ErrMissingMergedMiningSizeAndNonce = ErrorKind("ErrMissingMergedMiningSizeAndNonce")

	// ErrChainMerkleSizeMismatch indicates the chain merkle size in the
	// coinbase does not match the chain branch length.
	ErrChainMerkleSizeMismatch = ErrorKind("ErrChainMerkleSizeMismatch")

	// ErrWrongMerkleSlot indicates the chain branch side mask is not the
	// slot derived from the nonce and chain id.
	ErrWrongMerkleSlot = ErrorKind("ErrWrongMerkleSlot")

	// ErrParentSharesChainID indicates the parent block carries the chain
	// id of the chain being validated.
	ErrParentSharesChainID = ErrorKind("ErrParentSharesChainID")

	// ErrNotGenerateTransaction indicates the coinbase branch does not
	// point at the first transaction of the parent block.
	ErrNotGenerateTransaction = ErrorKind("ErrNotGenerateTransaction")

	// ErrChainMerkleRootMismatch indicates the chain merkle root computed
	// from the block hash is not committed in the coinbase script.
	ErrChainMerkleRootMismatch = ErrorKind("ErrChainMerkleRootMismatch")

	// ErrCoinbaseMerkleRootMismatch indicates the coinbase branch does not
	// lead to the merkle root of the parent header.
	ErrCoinbaseMerkleRootMismatch = ErrorKind("ErrCoinbaseMerkleRootMismatch")

	// ErrInsufficientParentWork indicates the parent header hash is above
	// the target of the block.
	ErrInsufficientParentWork = ErrorKind("ErrInsufficientParentWork")

	// ErrMalformedWireFormat indicates the header or its AuxPow payload
	// could not be decoded.
	ErrMalformedWireFormat = ErrorKind("ErrMalformedWireFormat")

	// ErrAuxPowMismatch indicates the AuxPow payload presence does not
	// match the version flag.
	ErrAuxPowMismatch = ErrorKind("ErrAuxPowMismatch")

	// ErrAuxPowBeforeStart indicates a merge mined header below the height
	// from which merged mining is accepted.
	ErrAuxPowBeforeStart = ErrorKind("ErrAuxPowBeforeStart")

	// ErrWrongChainID indicates the header version carries a foreign chain
	// id.
	ErrWrongChainID = ErrorKind("ErrWrongChainID")

	// ErrUnexpectedDifficulty indicates specified bits do not align with
	// the expected value either because it doesn't match the calculated
	// value based on difficulty rules or it is out of the valid range.
	ErrUnexpectedDifficulty = ErrorKind("ErrUnexpectedDifficulty")

	// ErrHighHash indicates the block does not hash to a value which is
	// lower than the required target difficultly.
	ErrHighHash = ErrorKind("ErrHighHash")

	// ErrInvalidTime indicates the time in the passed header has a precision
	// that is more than one second.
	ErrInvalidTime = ErrorKind("ErrInvalidTime")

	// ErrTimeTooOld indicates the time is either before the median time of
	// the last several blocks per the chain consensus rules.
	ErrTimeTooOld = ErrorKind("ErrTimeTooOld")

	// ErrDuplicateHeader indicates a header with the same hash already
	// exists.
	ErrDuplicateHeader = ErrorKind("ErrDuplicateHeader")

	// ErrOrphanHeader indicates the parent of a header is not known.
	ErrOrphanHeader = ErrorKind("ErrOrphanHeader")

	// ErrTimeTooNew indicates the time is too far in the future as compared
	// the current time.
	ErrTimeTooNew = ErrorKind("ErrTimeTooNew")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// RuleError identifies a rule violation.  It has full support for errors.Is
// and errors.As, so the caller can ascertain the specific reason for the
// error by checking the underlying error.
type RuleError struct {
	Description string
	Err         error

	// Field names the offending wire field of an ErrMalformedWireFormat.
	Field string

	// Cause is the decoding error behind an ErrMalformedWireFormat.
	Cause error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e RuleError) Unwrap() error {
	return e.Err
}

// Is reports whether the cause of the rule error matches target.  The error
// kind is matched through Unwrap.
func (e RuleError) Is(target error) bool {
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// As finds the first error in the cause chain that matches target.
func (e RuleError) As(target interface{}) bool {
	return e.Cause != nil && errors.As(e.Cause, target)
}

// NewRuleError creates a RuleError given a set of arguments.
func NewRuleError(kind ErrorKind, desc string) RuleError {
	return RuleError{Err: kind, Description: desc}
}

func ruleError(kind ErrorKind, desc string) RuleError {
	return NewRuleError(kind, desc)
}

// ruleErrorf creates a RuleError with a formatted description.
func ruleErrorf(kind ErrorKind, format string, args ...interface{}) RuleError {
	return ruleError(kind, fmt.Sprintf(format, args...))
}

// MalformedError converts a decoding failure into an ErrMalformedWireFormat
// rule error keeping the name of the offending field.
func MalformedError(err error) error {
	if err == nil {
		return nil
	}
	rErr := RuleError{
		Err:         ErrMalformedWireFormat,
		Description: "malformed header: " + err.Error(),
		Cause:       err,
	}
	var msgErr *wire.MessageError
	if errors.As(err, &msgErr) {
		rErr.Field = msgErr.Field
	}
	return rErr
}

// ErrorKindOf returns the kind of a rule error, or an empty kind when err is
// not a rule error.
func ErrorKindOf(err error) ErrorKind {
	var kind ErrorKind
	if errors.As(err, &kind) {
		return kind
	}
	return ""
}

// DecodeHeader parses a serialized header and reports decoding failures as
// ErrMalformedWireFormat.
func DecodeHeader(raw []byte) (*wire.BlockHeader, error) {
	header, err := wire.DecodeHeader(raw)
	if err != nil {
		return nil, MalformedError(err)
	}
	return header, nil
}
