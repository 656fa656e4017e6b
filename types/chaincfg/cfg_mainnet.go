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
	// mainPowLimit is the highest proof of work value a block can have for
	// the main network: 0x1e0fffff in compact form.
	mainPowLimit            = new(big.Int).Lsh(big.NewInt(0x0fffff), 8*(0x1e-3))
	mainPowLimitBits uint32 = 0x1e0fffff
)

// MainNetParams defines the network parameters for the main network.
var MainNetParams = Params{
	Name:         "mainnet",
	Net:          0xc0c0c0c0,
	DefaultPort:  "22556",
	GenesisBlock: mainNetGenesisBlock,
	GenesisHash:  mainNetGenesisHash,

	PowParams: PowParams{
		PowLimit:                 mainPowLimit,
		PowLimitBits:             mainPowLimitBits,
		TargetTimespan:           time.Hour * 4,
		TargetTimePerBlock:       time.Minute,
		DigishieldHeight:         145000,
		DigishieldTargetTimespan: time.Minute,
		PowNoRetargeting:         false,
		ReduceMinDifficulty:      false,
		MinDiffReductionTime:     0,
	},

	AuxPowParams: AuxPowParams{
		ChainID:             0x0062,
		StrictChainID:       true,
		AuxPowStartHeight:   371337,
		CoinbaseBranchDepth: 3,
	},

	SubsidyParams: SubsidyParams{
		BaseSubsidy:              500000 * KoinuPerDoge,
		SubsidyReductionInterval: 100000,
		StableSubsidyHeight:      600000,
		StableSubsidy:            10000 * KoinuPerDoge,
	},
}
