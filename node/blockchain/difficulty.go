// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/jaxnet/auxpowd/types/blocknode"
	"gitlab.com/jaxnet/auxpowd/types/chaincfg"
	"gitlab.com/jaxnet/auxpowd/types/pow"
)

// ErrMissingAncestor is returned when the retarget window reaches past the
// known part of the chain.
var ErrMissingAncestor = errors.New("unable to obtain previous retarget block")

// legacy clamp heights of the original retarget rules.
const (
	legacyClampHeightHigh = 10000
	legacyClampHeightLow  = 5000
)

// CalcRetargetTimespan limits the measured timespan of a retarget window
// ending right before height.  Before the Digishield fork the timespan is
// clamped with factors depending on the height, after it the timespan is
// first dampened to an eighth of its deviation and then clamped to
// [3/4, 3/2] of the target.
func CalcRetargetTimespan(height int32, actual time.Duration, params *chaincfg.PowParams) time.Duration {
	retarget := int64(params.RetargetTimespan(height) / time.Second)
	modulated := int64(actual / time.Second)

	var minTimespan, maxTimespan int64
	switch {
	case params.IsDigishield(height):
		modulated = retarget + (modulated-retarget)/8
		minTimespan = retarget - retarget/4
		maxTimespan = retarget + retarget/2
	case height > legacyClampHeightHigh:
		minTimespan = retarget / 4
		maxTimespan = retarget * 4
	case height > legacyClampHeightLow:
		minTimespan = retarget / 8
		maxTimespan = retarget * 4
	default:
		minTimespan = retarget / 16
		maxTimespan = retarget * 4
	}

	if modulated < minTimespan {
		modulated = minTimespan
	} else if modulated > maxTimespan {
		modulated = maxTimespan
	}

	return time.Duration(modulated) * time.Second
}

// CalcRetarget returns the compact target of the header at height given the
// bits of its parent and the measured timespan of the retarget window.
//
//  newTarget = oldTarget * modulatedTimespan / retargetTimespan
//
// The result uses integer division and is capped at the proof of work limit.
func CalcRetarget(height int32, lastBits uint32, actual time.Duration, params *chaincfg.PowParams) uint32 {
	modulated := CalcRetargetTimespan(height, actual, params)
	retarget := params.RetargetTimespan(height)

	oldTarget := pow.CompactToBig(lastBits)
	newTarget := new(big.Int).Mul(oldTarget, big.NewInt(int64(modulated/time.Second)))
	newTarget.Div(newTarget, big.NewInt(int64(retarget/time.Second)))

	if newTarget.Cmp(params.PowLimit) > 0 {
		newTarget.Set(params.PowLimit)
	}

	// The new target logging is intentionally converting the bits back to a
	// number instead of using newTarget since conversion to the compact
	// representation loses precision.
	newTargetBits := pow.BigToCompact(newTarget)
	log.Debug().Msgf("Difficulty retarget at block height %d", height)
	log.Debug().Msgf("Old target %08x (%064x)", lastBits, oldTarget)
	log.Debug().Msgf("New target %08x (%064x)", newTargetBits, pow.CompactToBig(newTargetBits))
	log.Debug().Msgf("Actual timespan %v, adjusted timespan %v, target timespan %v",
		actual, modulated, retarget)

	return newTargetBits
}

// findPrevTestNetDifficulty returns the difficulty of the previous block which
// did not have the special testnet minimum difficulty rule applied.
func findPrevTestNetDifficulty(startNode blocknode.IBlockNode, params *chaincfg.PowParams) uint32 {
	// Search backwards through the chain for the last block without
	// the special rule applied.
	iterNode := startNode
	for iterNode != nil && iterNode.Height()%params.RetargetInterval(iterNode.Height()) != 0 &&
		iterNode.Bits() == params.PowLimitBits {

		iterNode = iterNode.Parent()
	}

	// Return the found difficulty or the minimum difficulty if no
	// appropriate block was found.
	lastBits := params.PowLimitBits
	if iterNode != nil {
		lastBits = iterNode.Bits()
	}
	return lastBits
}

// allowMinDifficulty reports whether the header following lastNode may be
// mined at the minimum difficulty because too much time passed since lastNode.
func allowMinDifficulty(lastNode blocknode.IBlockNode, newBlockTime time.Time, params *chaincfg.PowParams) bool {
	if !params.ReduceMinDifficulty {
		return false
	}
	reductionTime := int64(params.MinDiffReductionTime / time.Second)
	return newBlockTime.Unix() > lastNode.Timestamp()+reductionTime
}

// CalcNextRequiredDifficulty calculates the required difficulty for the header
// after lastNode based on the difficulty retarget rules.  A nil lastNode means
// the genesis header is requested.
func CalcNextRequiredDifficulty(lastNode blocknode.IBlockNode, newBlockTime time.Time,
	params *chaincfg.Params) (uint32, error) {
	// Genesis block.
	if lastNode == nil {
		return params.PowLimitBits, nil
	}

	powParams := &params.PowParams
	height := lastNode.Height() + 1
	interval := powParams.RetargetInterval(height)

	if powParams.IsDigishield(height) && lastNode.Height() >= powParams.DigishieldMinDifficultyHeight &&
		allowMinDifficulty(lastNode, newBlockTime, powParams) {
		return powParams.PowLimitBits, nil
	}

	// Return the previous block's difficulty requirements if this block
	// is not at a difficulty retarget interval.
	if height%interval != 0 {
		if powParams.ReduceMinDifficulty {
			// Return minimum difficulty when more than the desired
			// amount of time has elapsed without mining a block.
			if allowMinDifficulty(lastNode, newBlockTime, powParams) {
				return powParams.PowLimitBits, nil
			}

			// The block was mined within the desired timeframe, so
			// return the difficulty for the last block which did
			// not have the special minimum difficulty rule applied.
			return findPrevTestNetDifficulty(lastNode, powParams), nil
		}

		return lastNode.Bits(), nil
	}

	if powParams.PowNoRetargeting {
		return lastNode.Bits(), nil
	}

	// The first retarget only has interval-1 blocks behind it.
	goBack := interval
	if height == interval {
		goBack = interval - 1
	}

	firstNode := lastNode.RelativeAncestor(goBack)
	if firstNode == nil {
		return 0, errors.Wrapf(ErrMissingAncestor, "retarget at height %d goes back %d blocks",
			height, goBack)
	}

	actual := time.Duration(lastNode.Timestamp()-firstNode.Timestamp()) * time.Second
	return CalcRetarget(height, lastNode.Bits(), actual, powParams), nil
}
