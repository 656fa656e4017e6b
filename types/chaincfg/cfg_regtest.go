// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math/big"
	"time"
)

var (
	// regressionPowLimit is the highest proof of work value a block can
	// have for the regression test network.  It is the value 2^255 - 1.
	regressionPowLimit            = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)
	regressionPowLimitBits uint32 = 0x207fffff
)

// RegressionNetParams defines the network parameters for the regression test
// network.  Difficulty never changes and almost any scrypt hash is valid.
var RegressionNetParams = Params{
	Name:         "regtest",
	Net:          0xdab5bffa,
	DefaultPort:  "18444",
	GenesisBlock: regTestGenesisBlock,
	GenesisHash:  regTestGenesisHash,

	PowParams: PowParams{
		PowLimit:                      regressionPowLimit,
		PowLimitBits:                  regressionPowLimitBits,
		TargetTimespan:                time.Hour * 4,
		TargetTimePerBlock:            time.Minute,
		DigishieldHeight:              10,
		DigishieldTargetTimespan:      time.Minute,
		PowNoRetargeting:              true,
		ReduceMinDifficulty:           true,
		MinDiffReductionTime:          time.Minute * 2,
		DigishieldMinDifficultyHeight: 10,
	},

	AuxPowParams: AuxPowParams{
		ChainID:             0x0062,
		StrictChainID:       true,
		AuxPowStartHeight:   20,
		CoinbaseBranchDepth: 3,
	},

	SubsidyParams: SubsidyParams{
		BaseSubsidy:              500000 * KoinuPerDoge,
		SubsidyReductionInterval: 150,
		StableSubsidyHeight:      600000,
		StableSubsidy:            10000 * KoinuPerDoge,
	},
}
