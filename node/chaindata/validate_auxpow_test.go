// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"errors"
	"io"
	"math/big"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/jaxnet/auxpowd/types/chaincfg"
	"gitlab.com/jaxnet/auxpowd/types/wire"
)

var childHashStub = chainhash.DoubleHashH([]byte("only_for_documentation_and_tests"))

func TestGetExpectedIndex(t *testing.T) {
	assert.Equal(t, uint32(40), GetExpectedIndex(0x9f909ff0, 98, 6))
	assert.Equal(t, uint32(0), GetExpectedIndex(0x9f909ff0, 98, 0))

	for h := 0; h < 31; h++ {
		assert.Less(t, GetExpectedIndex(0xdeadbeef, 98, h), uint32(1)<<uint(h))
	}
}

func TestCheckAuxPowValid(t *testing.T) {
	for _, height := range []int{0, 1, 3, 6} {
		tpl := newAuxPowTemplate(childHashStub)
		tpl.chainHeight = height
		tpl.nonce = 0x9f909ff0
		aux := tpl.build(t)

		err := CheckAuxPow(aux, childHashStub, easyTarget, testAuxPowParams())
		assert.NoError(t, err, "chain height %d", height)
	}
}

func TestCheckAuxPowRules(t *testing.T) {
	tests := []struct {
		name   string
		tune   func(tpl *auxPowTemplate)
		mutate func(aux *wire.AuxPow)
		child  chainhash.Hash
		target *big.Int
		want   ErrorKind
	}{
		{
			name:   "coinbase without outputs",
			mutate: func(aux *wire.AuxPow) { aux.CoinbaseTx.TxOut = nil },
			want:   ErrEmptyCoinbase,
		},
		{
			name:   "coinbase without inputs",
			mutate: func(aux *wire.AuxPow) { aux.CoinbaseTx.TxIn = nil },
			want:   ErrEmptyCoinbase,
		},
		{
			name: "chain branch of 32 hashes",
			mutate: func(aux *wire.AuxPow) {
				aux.ChainBranch.Hashes = make([]chainhash.Hash, 32)
			},
			want: ErrChainBranchTooLong,
		},
		{
			name: "coinbase branch too short",
			mutate: func(aux *wire.AuxPow) {
				aux.CoinbaseBranch.Hashes = aux.CoinbaseBranch.Hashes[:2]
			},
			want: ErrCoinbaseBranchSizeMismatch,
		},
		{
			name: "coinbase branch of a two transaction parent",
			tune: func(tpl *auxPowTemplate) { tpl.parentTxs = 2 },
			want: ErrCoinbaseBranchSizeMismatch,
		},
		{
			name: "no merged mining header",
			tune: func(tpl *auxPowTemplate) {
				tpl.script = func(root chainhash.Hash, size, nonce uint32) []byte {
					return append([]byte{0x03, 0xe1, 0xc7, 0x20}, root[:]...)
				}
			},
			want: ErrMergedMiningHeaderMissing,
		},
		{
			name: "two merged mining headers",
			tune: func(tpl *auxPowTemplate) {
				tpl.script = func(root chainhash.Hash, size, nonce uint32) []byte {
					s := standardCommitmentScript(root, size, nonce)
					return append(s, wire.MergedMiningHeader...)
				}
			},
			want: ErrDuplicateMergedMiningHeader,
		},
		{
			name: "merged mining header after byte 20",
			tune: func(tpl *auxPowTemplate) {
				tpl.script = func(root chainhash.Hash, size, nonce uint32) []byte {
					return append(make([]byte, 21), wire.MergedMiningCommitment(root, size, nonce)...)
				}
			},
			want: ErrMergedMiningHeaderTooLate,
		},
		{
			name: "merged mining header at byte 20",
			tune: func(tpl *auxPowTemplate) {
				tpl.script = func(root chainhash.Hash, size, nonce uint32) []byte {
					return append(make([]byte, 20), wire.MergedMiningCommitment(root, size, nonce)...)
				}
			},
			want: "",
		},
		{
			name: "no room for the root after the header",
			tune: func(tpl *auxPowTemplate) {
				tpl.script = func(root chainhash.Hash, size, nonce uint32) []byte {
					return append([]byte{0x01, 0x02}, append(wire.MergedMiningHeader, root[:16]...)...)
				}
			},
			want: ErrHeaderNotAdjacentToRoot,
		},
		{
			name: "root committed away from the header",
			tune: func(tpl *auxPowTemplate) {
				tpl.script = func(root chainhash.Hash, size, nonce uint32) []byte {
					commitment := wire.MergedMiningCommitment(chainhash.Hash{}, size, nonce)
					// the real root, reversed, follows the zero placeholder commitment
					tail := wire.MergedMiningCommitment(root, size, nonce)[4:36]
					return append(commitment, tail...)
				}
			},
			want: ErrHeaderNotAdjacentToRoot,
		},
		{
			name: "size and nonce missing",
			tune: func(tpl *auxPowTemplate) {
				tpl.script = func(root chainhash.Hash, size, nonce uint32) []byte {
					return wire.MergedMiningCommitment(root, size, nonce)[:36+4]
				}
			},
			want: ErrMissingMergedMiningSizeAndNonce,
		},
		{
			name: "merkle size does not match branch",
			tune: func(tpl *auxPowTemplate) {
				tpl.chainHeight = 2
				tpl.script = func(root chainhash.Hash, size, nonce uint32) []byte {
					return standardCommitmentScript(root, size*2, nonce)
				}
			},
			want: ErrChainMerkleSizeMismatch,
		},
		{
			name: "chain branch in the wrong slot",
			tune: func(tpl *auxPowTemplate) {
				tpl.chainHeight = 6
				tpl.nonce = 0x9f909ff0
			},
			mutate: func(aux *wire.AuxPow) { aux.ChainBranch.SideMask = 41 },
			want:   ErrWrongMerkleSlot,
		},
		{
			name: "parent carries our chain id",
			tune: func(tpl *auxPowTemplate) {
				tpl.parentVersion = int32(wire.NewBlockVersion(2, 0x62, true))
			},
			want: ErrParentSharesChainID,
		},
		{
			name:   "coinbase is not the first transaction",
			mutate: func(aux *wire.AuxPow) { aux.CoinbaseBranch.SideMask = 1 },
			want:   ErrNotGenerateTransaction,
		},
		{
			name:  "commitment for another block",
			child: chainhash.DoubleHashH([]byte("another block")),
			want:  ErrChainMerkleRootMismatch,
		},
		{
			name: "coinbase not in parent block",
			mutate: func(aux *wire.AuxPow) {
				aux.ParentBlock.MerkleRoot = chainhash.Hash{}
			},
			want: ErrCoinbaseMerkleRootMismatch,
		},
		{
			name:   "parent work too low",
			target: big.NewInt(1),
			want:   ErrInsufficientParentWork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := newAuxPowTemplate(childHashStub)
			if tt.tune != nil {
				tt.tune(&tpl)
			}
			aux := tpl.build(t)
			if tt.mutate != nil {
				tt.mutate(aux)
			}

			child := childHashStub
			if tt.child != (chainhash.Hash{}) {
				child = tt.child
			}
			target := easyTarget
			if tt.target != nil {
				target = tt.target
			}

			err := CheckAuxPow(aux, child, target, testAuxPowParams())
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)

			var rErr RuleError
			require.True(t, errors.As(err, &rErr))
			assert.Equal(t, tt.want, ErrorKindOf(err))
		})
	}
}

func TestParentSharesChainIDWithValidProof(t *testing.T) {
	tpl := newAuxPowTemplate(childHashStub)
	tpl.parentVersion = int32(wire.NewBlockVersion(2, tpl.chainID, false))
	aux := tpl.build(t)

	err := CheckAuxPow(aux, childHashStub, easyTarget, testAuxPowParams())
	assert.True(t, errors.Is(err, ErrParentSharesChainID), "got %v", err)

	// the same proof is accepted for a chain with another id
	params := testAuxPowParams()
	params.ChainID = 0x63
	tpl.chainID = params.ChainID
	aux = tpl.build(t)
	err = CheckAuxPow(aux, childHashStub, easyTarget, params)
	assert.NoError(t, err)

	// Without StrictChainID the header may declare any chain id, the parent
	// is still compared with the network chain id.
	testParams := chaincfg.TestNetParams
	testParams.PowParams = chaincfg.RegressionNetParams.PowParams
	require.False(t, testParams.StrictChainID)

	tests := []struct {
		name          string
		parentChainID uint32
		wantErr       error
	}{
		{"parent has network id", testParams.ChainID, ErrParentSharesChainID},
		{"parent has foreign id", 0x0001, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := &wire.BlockHeader{
				Version:   wire.NewBlockVersion(2, 0x0001, true),
				PrevBlock: *testParams.GenesisHash,
				Timestamp: time.Unix(1644811503, 0),
				Bits:      testParams.PowLimitBits,
			}
			tpl := newAuxPowTemplate(header.BlockHash())
			tpl.chainID = header.Version.ChainID()
			tpl.parentVersion = int32(wire.NewBlockVersion(2, tt.parentChainID, false))
			header.AuxPow = tpl.build(t)

			err := CheckHeaderProofOfWork(header, &testParams)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestCheckAuxPowSurvivesWireRoundTrip(t *testing.T) {
	tpl := newAuxPowTemplate(childHashStub)
	tpl.chainHeight = 4
	tpl.nonce = 77
	aux := tpl.build(t)

	header := &wire.BlockHeader{Version: wire.NewBlockVersion(2, 0x62, true), AuxPow: aux}
	raw, err := header.Bytes()
	require.NoError(t, err)

	decoded, err := DecodeHeader(raw)
	require.NoError(t, err)
	assert.NoError(t, CheckAuxPow(decoded.AuxPow, childHashStub, easyTarget, testAuxPowParams()))
}

func TestMalformedError(t *testing.T) {
	header := &wire.BlockHeader{Version: wire.NewBlockVersion(2, 0x62, true)}
	header.AuxPow = newAuxPowTemplate(childHashStub).build(t)
	raw, err := header.Bytes()
	require.NoError(t, err)

	_, err = DecodeHeader(raw[:len(raw)-10])
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedWireFormat))

	var rErr RuleError
	require.True(t, errors.As(err, &rErr))
	assert.Equal(t, "ParentBlock", rErr.Field)
	assert.Equal(t, ErrMalformedWireFormat, ErrorKindOf(err))

	// The decoder error stays reachable behind the rule error.
	var msgErr *wire.MessageError
	require.True(t, errors.As(err, &msgErr))
	assert.Equal(t, "ParentBlock", msgErr.Field)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF))

	assert.Nil(t, MalformedError(nil))
}
