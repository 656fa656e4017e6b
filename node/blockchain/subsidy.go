// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"gitlab.com/jaxnet/auxpowd/types/chaincfg"
)

// CalcBlockSubsidy returns the subsidy amount in koinu a block at the provided
// height should have.
//
// Before the Digishield fork the reward was random up to twice the halving
// schedule value, the maximum is returned for those heights.
func CalcBlockSubsidy(height int32, params *chaincfg.Params) int64 {
	if height >= params.StableSubsidyHeight {
		return params.StableSubsidy
	}

	subsidy := params.BaseSubsidy >> uint(height/params.SubsidyReductionInterval)
	if height < params.DigishieldHeight {
		subsidy *= 2
	}
	return subsidy
}
