// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"
)

// TestNetParams defines the network parameters for the test network.
var TestNetParams = Params{
	Name:         "testnet",
	Net:          0xdcb7c1fc,
	DefaultPort:  "44556",
	GenesisBlock: testNetGenesisBlock,
	GenesisHash:  testNetGenesisHash,

	PowParams: PowParams{
		PowLimit:                      mainPowLimit,
		PowLimitBits:                  mainPowLimitBits,
		TargetTimespan:                time.Hour * 4,
		TargetTimePerBlock:            time.Minute,
		DigishieldHeight:              145000,
		DigishieldTargetTimespan:      time.Minute,
		PowNoRetargeting:              false,
		ReduceMinDifficulty:           true,
		MinDiffReductionTime:          time.Minute * 2,
		DigishieldMinDifficultyHeight: 157500,
	},

	AuxPowParams: AuxPowParams{
		ChainID:             0x0062,
		StrictChainID:       false,
		AuxPowStartHeight:   158100,
		CoinbaseBranchDepth: 3,
	},

	SubsidyParams: MainNetParams.SubsidyParams,
}
