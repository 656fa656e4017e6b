// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocknode

import (
	"math/big"
	"sort"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"gitlab.com/jaxnet/auxpowd/types/chaincfg"
	"gitlab.com/jaxnet/auxpowd/types/pow"
	"gitlab.com/jaxnet/auxpowd/types/wire"
)

const (
	// StatusValid indicates that the header has been fully validated.
	StatusValid BlockStatus = 1 << iota

	// StatusValidateFailed indicates that the header has failed validation.
	StatusValidateFailed

	// StatusNone indicates that the block has no validation state flags set.
	//
	// NOTE: This must be defined last in order to avoid influencing iota.
	StatusNone BlockStatus = 0
)

// BlockStatus is a bit field representing the validation state of the block.
type BlockStatus byte

// KnownValid returns whether the header is known to be valid.
func (status BlockStatus) KnownValid() bool {
	return status&StatusValid != 0
}

// KnownInvalid returns whether the header is known to be invalid.
func (status BlockStatus) KnownInvalid() bool {
	return status&StatusValidateFailed != 0
}

// IBlockNode is a read-only view of a header linked into the chain.
type IBlockNode interface {
	GetHash() chainhash.Hash
	PrevHash() chainhash.Hash

	Height() int32
	Version() wire.BlockVersion
	Bits() uint32
	Timestamp() int64
	WorkSum() *big.Int
	Status() BlockStatus
	IsAuxPow() bool

	Parent() IBlockNode
	Ancestor(height int32) IBlockNode
	RelativeAncestor(distance int32) IBlockNode
	CalcPastMedianTime() time.Time
	Header() *wire.BlockHeader
}

// BlockNode represents a header within the header chain.
type BlockNode struct {
	parent  *BlockNode     // parent is the parent block for this node.
	hash    chainhash.Hash // hash is the double sha 256 of the header.
	workSum *big.Int       // workSum is the total amount of work in the chain up to and including this node.
	height  int32          // height is the position in the block chain.

	// Some fields from block headers to aid in best chain selection and
	// reconstructing headers from memory.  These must be treated as
	// immutable.
	version    wire.BlockVersion
	bits       uint32
	nonce      uint32
	timestamp  int64
	merkleRoot chainhash.Hash

	status BlockStatus
}

// NewBlockNode returns a new block node for the given block header and parent
// node, calculating the height and workSum from the respective fields on the
// parent. This function is NOT safe for concurrent access.
func NewBlockNode(header *wire.BlockHeader, parent *BlockNode) *BlockNode {
	node := &BlockNode{
		hash:       header.BlockHash(),
		workSum:    pow.CalcWork(header.Bits),
		version:    header.Version,
		bits:       header.Bits,
		nonce:      header.Nonce,
		timestamp:  header.Timestamp.Unix(),
		merkleRoot: header.MerkleRoot,
	}
	if parent != nil {
		node.parent = parent
		node.height = parent.height + 1
		node.workSum = node.workSum.Add(parent.workSum, node.workSum)
	}
	return node
}

func (node *BlockNode) GetHash() chainhash.Hash      { return node.hash }
func (node *BlockNode) Height() int32                { return node.height }
func (node *BlockNode) Version() wire.BlockVersion   { return node.version }
func (node *BlockNode) Bits() uint32                 { return node.bits }
func (node *BlockNode) Timestamp() int64             { return node.timestamp }
func (node *BlockNode) WorkSum() *big.Int            { return node.workSum }
func (node *BlockNode) Status() BlockStatus          { return node.status }
func (node *BlockNode) SetStatus(status BlockStatus) { node.status = status }
func (node *BlockNode) IsAuxPow() bool               { return node.version.IsAuxPow() }
func (node *BlockNode) ParentNode() *BlockNode       { return node.parent }

// RelativeAncestor returns the ancestor block node a relative 'distance' blocks
// before this node.  This is equivalent to calling Ancestor with the node's
// height minus provided distance.
//
// This function is safe for concurrent access.
func (node *BlockNode) RelativeAncestor(distance int32) IBlockNode {
	return node.Ancestor(node.height - distance)
}

// Parent returns the parent node or nil for the genesis node.
func (node *BlockNode) Parent() IBlockNode {
	if node.parent == nil {
		return nil
	}
	return node.parent
}

// PrevHash returns the hash of the parent node.
func (node *BlockNode) PrevHash() chainhash.Hash {
	if node.parent == nil {
		return chainhash.Hash{}
	}
	return node.parent.hash
}

// Header constructs the 80-byte part of the block header from the node.  The
// AuxPow payload is not kept in memory.
//
// This function is safe for concurrent access.
func (node *BlockNode) Header() *wire.BlockHeader {
	return &wire.BlockHeader{
		Version:    node.version,
		PrevBlock:  node.PrevHash(),
		MerkleRoot: node.merkleRoot,
		Timestamp:  time.Unix(node.timestamp, 0),
		Bits:       node.bits,
		Nonce:      node.nonce,
	}
}

// Ancestor returns the ancestor block node at the provided height by following
// the chain backwards from this node.  The returned block will be nil when a
// height is requested that is after the height of the passed node or is less
// than zero.
//
// This function is safe for concurrent access.
func (node *BlockNode) Ancestor(height int32) IBlockNode {
	if height < 0 || height > node.height {
		return nil
	}

	n := node
	for ; n != nil && n.height != height; n = n.parent {
		// Intentionally left blank
	}
	if n == nil {
		return nil
	}
	return n
}

// CalcPastMedianTime calculates the median time of the previous few blocks
// prior to, and including, the block node.
//
// This function is safe for concurrent access.
func (node *BlockNode) CalcPastMedianTime() time.Time {
	timestamps := make([]int64, 0, chaincfg.MedianTimeBlocks)
	for n := node; n != nil && len(timestamps) < chaincfg.MedianTimeBlocks; n = n.parent {
		timestamps = append(timestamps, n.timestamp)
	}

	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	// NOTE: The consensus rules incorrectly calculate the median for even
	// numbers of blocks.  Since the number of blocks used is odd, this only
	// affects the first few blocks of the chain.
	return time.Unix(timestamps[len(timestamps)/2], 0)
}
