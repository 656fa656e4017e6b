// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func s2h(s string) chainhash.Hash {
	return chainhash.DoubleHashH([]byte(s))
}

func TestHashMerkleBranchesMatchesDoubleSHA(t *testing.T) {
	left, right := s2h("left"), s2h("right")

	buf := append(left[:], right[:]...)
	assert.Equal(t, chainhash.DoubleHashH(buf), HashMerkleBranches(&left, &right))
}

func TestBuildProof(t *testing.T) {
	pair := func(a, b chainhash.Hash) chainhash.Hash {
		return HashMerkleBranches(&a, &b)
	}

	tests := []struct {
		name   string
		leaves []chainhash.Hash
		index  int
		want   Proof
	}{
		{
			name:   "single leaf",
			leaves: []chainhash.Hash{s2h("leaf_0")},
			index:  0,
			want:   Proof{Hashes: []chainhash.Hash{}},
		},
		{
			name:   "two leaves, left",
			leaves: []chainhash.Hash{s2h("leaf_0"), s2h("leaf_1")},
			index:  0,
			want:   Proof{Hashes: []chainhash.Hash{s2h("leaf_1")}},
		},
		{
			name:   "two leaves, right",
			leaves: []chainhash.Hash{s2h("leaf_0"), s2h("leaf_1")},
			index:  1,
			want:   Proof{Hashes: []chainhash.Hash{s2h("leaf_0")}, SideMask: 1},
		},
		{
			name:   "odd leaf count duplicates the tail",
			leaves: []chainhash.Hash{s2h("leaf_0"), s2h("leaf_1"), s2h("leaf_2")},
			index:  0,
			want: Proof{Hashes: []chainhash.Hash{
				s2h("leaf_1"),
				pair(s2h("leaf_2"), s2h("leaf_2")),
			}},
		},
		{
			name:   "tail leaf of odd level",
			leaves: []chainhash.Hash{s2h("leaf_0"), s2h("leaf_1"), s2h("leaf_2")},
			index:  2,
			want: Proof{
				Hashes: []chainhash.Hash{
					s2h("leaf_2"),
					pair(s2h("leaf_0"), s2h("leaf_1")),
				},
				SideMask: 2,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildProof(tt.leaves, tt.index)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			root := MerkleRoot(tt.leaves)
			assert.True(t, got.Validate(tt.leaves[tt.index], root))
		})
	}
}

func TestBuildProofOutOfRange(t *testing.T) {
	_, err := BuildProof([]chainhash.Hash{s2h("a")}, 1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = BuildProof(nil, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestEmptyProofReturnsLeaf(t *testing.T) {
	leaf := s2h("lonely")
	assert.Equal(t, leaf, Proof{}.ComputeRoot(leaf))
}

func TestCopyIsDeep(t *testing.T) {
	p := Proof{Hashes: []chainhash.Hash{s2h("a")}, SideMask: 1}
	c := p.Copy()
	c.Hashes[0] = s2h("b")
	assert.Equal(t, s2h("a"), p.Hashes[0])
}

func genLeaves(t *rapid.T) []chainhash.Hash {
	n := rapid.IntRange(1, 70).Draw(t, "leafCount")
	leaves := make([]chainhash.Hash, n)
	for i := range leaves {
		b := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "leaf")
		copy(leaves[i][:], b)
	}
	return leaves
}

func TestPropertyProofReproducesRoot(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		leaves := genLeaves(t)
		index := rapid.IntRange(0, len(leaves)-1).Draw(t, "index")

		proof, err := BuildProof(leaves, index)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		root := MerkleRoot(leaves)
		if got := proof.ComputeRoot(leaves[index]); got != root {
			t.Fatalf("root mismatch: got %v, want %v", got, root)
		}
	})
}

func TestPropertySiblingBitFlipBreaksProof(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		leaves := genLeaves(t)
		if len(leaves) < 2 {
			leaves = append(leaves, s2h("filler"))
		}
		index := rapid.IntRange(0, len(leaves)-1).Draw(t, "index")

		proof, err := BuildProof(leaves, index)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		root := MerkleRoot(leaves)

		mutated := proof.Copy()
		sibling := rapid.IntRange(0, len(mutated.Hashes)-1).Draw(t, "sibling")
		bit := rapid.IntRange(0, chainhash.HashSize*8-1).Draw(t, "bit")
		mutated.Hashes[sibling][bit/8] ^= 1 << uint(bit%8)

		if mutated.Validate(leaves[index], root) {
			t.Fatalf("mutated proof still validates: sibling %d bit %d", sibling, bit)
		}
	})
}
