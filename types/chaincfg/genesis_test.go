// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/jaxnet/auxpowd/types/pow"
)

func TestGenesisBlocks(t *testing.T) {
	for _, params := range []*Params{&MainNetParams, &TestNetParams, &RegressionNetParams} {
		t.Run(params.Name, func(t *testing.T) {
			hash := params.GenesisBlock.BlockHash()
			assert.Equal(t, *params.GenesisHash, hash)

			powHash := params.GenesisBlock.PowHash()
			target := pow.CompactToBig(params.GenesisBlock.Bits)
			assert.True(t, pow.HashMeetsTarget(&powHash, target), "genesis pow hash %v", powHash)
			assert.True(t, pow.TargetInRange(target, params.PowLimit))
		})
	}
}

func TestPowLimitBits(t *testing.T) {
	for _, params := range []*Params{&MainNetParams, &TestNetParams, &RegressionNetParams} {
		assert.Equal(t, params.PowLimitBits, pow.BigToCompact(params.PowLimit), params.Name)
	}
}

func TestRetargetInterval(t *testing.T) {
	p := MainNetParams.PowParams
	assert.Equal(t, int32(240), p.RetargetInterval(p.DigishieldHeight-1))
	assert.Equal(t, int32(1), p.RetargetInterval(p.DigishieldHeight))
	assert.False(t, p.IsDigishield(144999))
	assert.True(t, p.IsDigishield(145000))
}

func TestChainFromName(t *testing.T) {
	tests := []struct {
		name string
		want *Params
	}{
		{"mainnet", &MainNetParams},
		{"main", &MainNetParams},
		{"Test", &TestNetParams},
		{"testnet", &TestNetParams},
		{"regtest", &RegressionNetParams},
	}
	for _, tt := range tests {
		got, err := ChainFromName(tt.name)
		require.NoError(t, err, tt.name)
		assert.Same(t, tt.want, got)
	}

	_, err := ChainFromName("litecoin")
	assert.ErrorIs(t, err, ErrUnknownNet)

	assert.ErrorIs(t, Register(&MainNetParams), ErrDuplicateNet)
}
