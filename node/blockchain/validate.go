// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"

	"gitlab.com/jaxnet/auxpowd/node/chaindata"
	"gitlab.com/jaxnet/auxpowd/types/blocknode"
	"gitlab.com/jaxnet/auxpowd/types/chaincfg"
	"gitlab.com/jaxnet/auxpowd/types/wire"
)

// CheckHeaderContext performs several validation checks on the block header
// which depend on its position within the header chain.  prevNode must be the
// parent of header.
func CheckHeaderContext(header *wire.BlockHeader, prevNode blocknode.IBlockNode, params *chaincfg.Params) error {
	// The height of this block is one more than the referenced previous
	// block.
	blockHeight := prevNode.Height() + 1

	if header.Version.IsAuxPow() && blockHeight < params.AuxPowStartHeight {
		str := fmt.Sprintf("merge mined block at height %d, merged mining starts at height %d",
			blockHeight, params.AuxPowStartHeight)
		return chaindata.NewRuleError(chaindata.ErrAuxPowBeforeStart, str)
	}

	// Ensure the timestamp for the block header is after the
	// median time of the last several blocks (medianTimeBlocks).
	medianTime := prevNode.CalcPastMedianTime()
	if !header.Timestamp.After(medianTime) {
		str := fmt.Sprintf("block timestamp of %v is not after expected %v",
			header.Timestamp, medianTime)
		return chaindata.NewRuleError(chaindata.ErrTimeTooOld, str)
	}

	// Ensure the difficulty specified in the block header matches
	// the calculated difficulty based on the previous block and
	// difficulty retarget rules.
	expectedDifficulty, err := CalcNextRequiredDifficulty(prevNode, header.Timestamp, params)
	if err != nil {
		return err
	}
	if header.Bits != expectedDifficulty {
		str := fmt.Sprintf("block difficulty of %08x is not the expected value of %08x at height %d",
			header.Bits, expectedDifficulty, blockHeight)
		return chaindata.NewRuleError(chaindata.ErrUnexpectedDifficulty, str)
	}

	return nil
}
