// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"time"

	"gitlab.com/jaxnet/auxpowd/types/chaincfg"
	"gitlab.com/jaxnet/auxpowd/types/pow"
	"gitlab.com/jaxnet/auxpowd/types/wire"
)

// CheckHeaderProofOfWork ensures the header bits are in range and that the
// header carries enough work, either through its own scrypt hash or through
// the AuxPow of a merge mined parent block.
func CheckHeaderProofOfWork(header *wire.BlockHeader, params *chaincfg.Params) error {
	target := pow.CompactToBig(header.Bits)
	if !pow.TargetInRange(target, params.PowLimit) {
		return ruleErrorf(ErrUnexpectedDifficulty,
			"target difficulty of %064x is out of range, max %064x", target, params.PowLimit)
	}

	version := header.Version
	if !version.IsLegacy() && params.StrictChainID && version.ChainID() != params.ChainID {
		return ruleErrorf(ErrWrongChainID,
			"block chain id %#x, expected %#x", version.ChainID(), params.ChainID)
	}

	if header.AuxPow == nil {
		if version.IsAuxPow() {
			return ruleError(ErrAuxPowMismatch, "no auxpow on block with auxpow version")
		}

		powHash := header.PowHash()
		if !pow.HashMeetsTarget(&powHash, target) {
			return ruleErrorf(ErrHighHash,
				"proof of work hash %064x is higher than expected max of %064x",
				pow.HashToBig(&powHash), target)
		}
		return nil
	}

	if !version.IsAuxPow() {
		return ruleError(ErrAuxPowMismatch, "auxpow on block with non-auxpow version")
	}

	// The merkle slot follows the chain id the header declares, which is the
	// network id whenever StrictChainID is set.
	return checkAuxPow(header.AuxPow, header.BlockHash(), version.ChainID(), target, &params.AuxPowParams)
}

// CheckBlockHeaderSanity performs context-free checks on a header: proof of
// work and timestamp sanity against the adjusted local time.
func CheckBlockHeaderSanity(header *wire.BlockHeader, params *chaincfg.Params, adjustedTime time.Time) error {
	if err := CheckHeaderProofOfWork(header, params); err != nil {
		return err
	}
	return CheckHeaderTimestamp(header, adjustedTime)
}

// CheckHeaderTimestamp ensures the header time has one second precision and
// is not too far ahead of the adjusted local time.
func CheckHeaderTimestamp(header *wire.BlockHeader, adjustedTime time.Time) error {
	// A block timestamp must not have a greater precision than one second.
	// This check is necessary because Go time.Time values support
	// nanosecond precision whereas the consensus rules only apply to
	// seconds and it's much nicer to deal with standard Go time values
	// instead of converting to seconds everywhere.
	if !header.Timestamp.Equal(time.Unix(header.Timestamp.Unix(), 0)) {
		return ruleErrorf(ErrInvalidTime,
			"block timestamp of %v has a higher precision than one second", header.Timestamp)
	}

	// Ensure the block time is not too far in the future.
	maxTimestamp := adjustedTime.Add(time.Second * chaincfg.MaxBlockTimeOffsetSeconds)
	if header.Timestamp.After(maxTimestamp) {
		return ruleErrorf(ErrTimeTooNew,
			"block timestamp of %v is too far in the future", header.Timestamp)
	}

	return nil
}
