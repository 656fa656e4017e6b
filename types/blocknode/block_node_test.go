// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocknode

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/jaxnet/auxpowd/types/chaincfg"
	"gitlab.com/jaxnet/auxpowd/types/pow"
	"gitlab.com/jaxnet/auxpowd/types/wire"
)

func chainOf(n int, start time.Time, spacing time.Duration) []*BlockNode {
	genesis := chaincfg.MainNetParams.GenesisBlock
	nodes := []*BlockNode{NewBlockNode(genesis, nil)}
	for i := 1; i < n; i++ {
		prev := nodes[i-1]
		header := &wire.BlockHeader{
			Version:   wire.NewBlockVersion(2, 0x62, false),
			PrevBlock: prev.GetHash(),
			Timestamp: start.Add(time.Duration(i) * spacing),
			Bits:      genesis.Bits,
			Nonce:     uint32(i),
		}
		nodes = append(nodes, NewBlockNode(header, prev))
	}
	return nodes
}

func TestBlockNodeLinks(t *testing.T) {
	nodes := chainOf(20, time.Unix(1386325540, 0), time.Minute)
	tip := nodes[19]

	assert.Equal(t, int32(19), tip.Height())
	assert.Equal(t, nodes[18].GetHash(), tip.PrevHash())
	assert.Equal(t, nodes[5], tip.Ancestor(5))
	assert.Equal(t, nodes[9], tip.RelativeAncestor(10))
	assert.Nil(t, tip.Ancestor(20))
	assert.Nil(t, tip.Ancestor(-1))
	assert.Nil(t, nodes[0].Parent())

	want := new(big.Int).Mul(pow.CalcWork(0x1e0ffff0), big.NewInt(20))
	assert.Equal(t, 0, want.Cmp(tip.WorkSum()))
	assert.Equal(t, 0, pow.CalcWork(0x1e0ffff0).Cmp(nodes[0].WorkSum()))
}

func TestBlockNodeHeader(t *testing.T) {
	nodes := chainOf(3, time.Unix(1386325540, 0), time.Minute)

	header := nodes[2].Header()
	assert.Equal(t, nodes[2].GetHash(), header.BlockHash())
	assert.Equal(t, nodes[1].GetHash(), header.PrevBlock)

	genesis := nodes[0].Header()
	assert.Equal(t, *chaincfg.MainNetParams.GenesisHash, genesis.BlockHash())
}

func TestCalcPastMedianTime(t *testing.T) {
	start := time.Unix(1600000000, 0)
	nodes := chainOf(30, start, time.Minute)

	// 11 blocks ending at height 29 start at 19, the median is 24.
	assert.Equal(t, start.Add(24*time.Minute), nodes[29].CalcPastMedianTime())

	// genesis has a different timestamp, heights 0..2 -> median is height 1
	assert.Equal(t, start.Add(time.Minute), nodes[2].CalcPastMedianTime())
}

func TestBlockStatus(t *testing.T) {
	nodes := chainOf(1, time.Now(), time.Minute)
	node := nodes[0]
	require.Equal(t, StatusNone, node.Status())

	node.SetStatus(StatusValid)
	assert.True(t, node.Status().KnownValid())
	assert.False(t, node.Status().KnownInvalid())
}
