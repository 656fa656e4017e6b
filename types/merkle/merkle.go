// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"errors"
	"math"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/minio/sha256-simd"
)

// MaxBranchLength is the upper bound of branch hashes that can appear in a
// merged mining proof.
const MaxBranchLength = 32

var ErrIndexOutOfRange = errors.New("leaf index is out of range")

// Proof is an inclusion proof of a single leaf in a bitcoin-style merkle tree.
// Hashes are ordered from the leaf level up to the level just below the root.
// Bit i of SideMask is set when the i-th sibling is the LEFT operand at
// level i.
type Proof struct {
	Hashes   []chainhash.Hash
	SideMask uint32
}

// ComputeRoot folds the branch over the leaf and returns the resulting root.
// An empty branch yields the leaf itself.
func (p Proof) ComputeRoot(leaf chainhash.Hash) chainhash.Hash {
	acc := leaf
	for i := range p.Hashes {
		if (p.SideMask>>uint(i))&1 == 1 {
			acc = HashMerkleBranches(&p.Hashes[i], &acc)
		} else {
			acc = HashMerkleBranches(&acc, &p.Hashes[i])
		}
	}
	return acc
}

// Validate returns true when the leaf together with the branch reproduces root.
func (p Proof) Validate(leaf, root chainhash.Hash) bool {
	computed := p.ComputeRoot(leaf)
	return computed.IsEqual(&root)
}

// Copy returns a deep copy of the proof.
func (p Proof) Copy() Proof {
	clone := Proof{SideMask: p.SideMask}
	if p.Hashes != nil {
		clone.Hashes = make([]chainhash.Hash, len(p.Hashes))
		copy(clone.Hashes, p.Hashes)
	}
	return clone
}

// HashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the hash of their concatenation.
func HashMerkleBranches(left, right *chainhash.Hash) chainhash.Hash {
	var hash [chainhash.HashSize * 2]byte
	copy(hash[:chainhash.HashSize], left[:])
	copy(hash[chainhash.HashSize:], right[:])

	first := sha256.Sum256(hash[:])
	return sha256.Sum256(first[:])
}

// nextPowerOfTwo returns the next highest power of two from a given number if
// it is not already a power of two.
func nextPowerOfTwo(n int) int {
	if n&(n-1) == 0 {
		return n
	}

	exponent := uint(math.Log2(float64(n))) + 1
	return 1 << exponent
}

// BuildMerkleTreeStore creates a merkle tree from a slice of leaves, stores it
// using a linear array, and returns the array. The root is the last element.
// A missing right node at any level is paired with a copy of the left one.
func BuildMerkleTreeStore(leaves []chainhash.Hash) []*chainhash.Hash {
	if len(leaves) == 0 {
		return nil
	}

	nextPoT := nextPowerOfTwo(len(leaves))
	arraySize := nextPoT*2 - 1
	merkles := make([]*chainhash.Hash, arraySize)

	for i := range leaves {
		leaf := leaves[i]
		merkles[i] = &leaf
	}

	offset := nextPoT
	for i := 0; i < arraySize-1; i += 2 {
		switch {
		case merkles[i] == nil:
			merkles[offset] = nil

		case merkles[i+1] == nil:
			newHash := HashMerkleBranches(merkles[i], merkles[i])
			merkles[offset] = &newHash

		default:
			newHash := HashMerkleBranches(merkles[i], merkles[i+1])
			merkles[offset] = &newHash
		}
		offset++
	}

	return merkles
}

// MerkleRoot returns the root of the tree built over leaves.
func MerkleRoot(leaves []chainhash.Hash) chainhash.Hash {
	store := BuildMerkleTreeStore(leaves)
	if len(store) == 0 {
		return chainhash.Hash{}
	}
	return *store[len(store)-1]
}

// BuildProof extracts the inclusion proof of the leaf at index.
func BuildProof(leaves []chainhash.Hash, index int) (Proof, error) {
	if index < 0 || index >= len(leaves) {
		return Proof{}, ErrIndexOutOfRange
	}

	store := BuildMerkleTreeStore(leaves)
	width := nextPowerOfTwo(len(leaves))

	proof := Proof{Hashes: []chainhash.Hash{}}
	levelStart := 0
	pos := index
	for level := 0; width > 1; level++ {
		sibling := store[levelStart+(pos^1)]
		if sibling == nil {
			// right edge of an odd level, the node is paired with itself
			sibling = store[levelStart+pos]
		}
		proof.Hashes = append(proof.Hashes, *sibling)
		if pos&1 == 1 {
			proof.SideMask |= 1 << uint(level)
		}

		levelStart += width
		width >>= 1
		pos >>= 1
	}

	return proof, nil
}
