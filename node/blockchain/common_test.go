// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"gitlab.com/jaxnet/auxpowd/types/blocknode"
	"gitlab.com/jaxnet/auxpowd/types/wire"
)

// chainStart is the timestamp of the first node of generated test chains.
var chainStart = time.Unix(1386325540, 0)

// nodeShape returns the bits and the timestamp of the test node at height.
type nodeShape func(height int32) (bits uint32, timestamp time.Time)

// evenChain returns a shape with constant bits and block spacing.
func evenChain(bits uint32, spacing time.Duration) nodeShape {
	return func(height int32) (uint32, time.Time) {
		return bits, chainStart.Add(time.Duration(height) * spacing)
	}
}

// buildChain links n header nodes starting at height zero.
func buildChain(n int, shape nodeShape) []*blocknode.BlockNode {
	nodes := make([]*blocknode.BlockNode, 0, n)
	var parent *blocknode.BlockNode
	for i := 0; i < n; i++ {
		bits, ts := shape(int32(i))
		header := &wire.BlockHeader{
			Version:    wire.NewBlockVersion(2, 0x62, false),
			MerkleRoot: chainhash.DoubleHashH([]byte{byte(i), byte(i >> 8)}),
			Timestamp:  ts,
			Bits:       bits,
			Nonce:      uint32(i),
		}
		if parent != nil {
			header.PrevBlock = parent.GetHash()
		}
		parent = blocknode.NewBlockNode(header, parent)
		nodes = append(nodes, parent)
	}
	return nodes
}

// truncatedNode claims a height its ancestry does not back.
type truncatedNode struct {
	*blocknode.BlockNode
	height int32
}

func (n truncatedNode) Height() int32 { return n.height }

func (n truncatedNode) RelativeAncestor(int32) blocknode.IBlockNode { return nil }
