// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"fmt"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
	"gitlab.com/jaxnet/auxpowd/types/chaincfg"
	"gitlab.com/jaxnet/auxpowd/types/merkle"
	"gitlab.com/jaxnet/auxpowd/types/pow"
	"gitlab.com/jaxnet/auxpowd/types/wire"
)

// easyTarget accepts roughly every second scrypt hash.
var easyTarget = pow.CompactToBig(chaincfg.RegressionNetParams.PowLimitBits)

// auxPowTemplate describes a merge mined parent block committing to a child
// block hash.  Tests tweak single fields to trigger a specific rule.
type auxPowTemplate struct {
	childHash     chainhash.Hash
	chainID       uint32
	chainHeight   int
	nonce         uint32
	script        func(root chainhash.Hash, size, nonce uint32) []byte
	parentVersion int32
	parentTxs     int
	target        *big.Int
}

func newAuxPowTemplate(childHash chainhash.Hash) auxPowTemplate {
	return auxPowTemplate{
		childHash:     childHash,
		chainID:       chaincfg.RegressionNetParams.ChainID,
		chainHeight:   0,
		nonce:         0,
		script:        standardCommitmentScript,
		parentVersion: 0x20000000,
		parentTxs:     5,
		target:        easyTarget,
	}
}

// standardCommitmentScript returns a coinbase script that starts with the
// BIP34 height push followed by the merged mining commitment.
func standardCommitmentScript(root chainhash.Hash, size, nonce uint32) []byte {
	prefix, err := txscript.NewScriptBuilder().AddInt64(2148321).Script()
	if err != nil {
		panic(err)
	}
	return append(prefix, wire.MergedMiningCommitment(root, size, nonce)...)
}

func (tpl auxPowTemplate) build(t *testing.T) *wire.AuxPow {
	t.Helper()

	chainLeaves := make([]chainhash.Hash, 1<<uint(tpl.chainHeight))
	for i := range chainLeaves {
		chainLeaves[i] = chainhash.DoubleHashH([]byte(fmt.Sprintf("aux-chain-%d", i)))
	}
	slot := int(GetExpectedIndex(tpl.nonce, tpl.chainID, tpl.chainHeight))
	chainLeaves[slot] = tpl.childHash

	chainBranch, err := merkle.BuildProof(chainLeaves, slot)
	require.NoError(t, err)
	chainRoot := merkle.MerkleRoot(chainLeaves)

	coinbase := btcwire.NewMsgTx(1)
	coinbase.AddTxIn(&btcwire.TxIn{
		PreviousOutPoint: btcwire.OutPoint{Index: math.MaxUint32},
		SignatureScript:  tpl.script(chainRoot, uint32(len(chainLeaves)), tpl.nonce),
		Sequence:         math.MaxUint32,
	})
	coinbase.AddTxOut(&btcwire.TxOut{Value: 25 * 1e8, PkScript: []byte{txscript.OP_TRUE}})

	txHashes := make([]chainhash.Hash, tpl.parentTxs)
	txHashes[0] = coinbase.TxHash()
	for i := 1; i < len(txHashes); i++ {
		txHashes[i] = chainhash.DoubleHashH([]byte(fmt.Sprintf("parent-tx-%d", i)))
	}
	coinbaseBranch, err := merkle.BuildProof(txHashes, 0)
	require.NoError(t, err)

	aux := &wire.AuxPow{
		CoinbaseTx:     coinbase,
		CoinbaseBranch: coinbaseBranch,
		ChainBranch:    chainBranch,
		ParentBlock: btcwire.BlockHeader{
			Version:    tpl.parentVersion,
			PrevBlock:  chainhash.DoubleHashH([]byte("parent-prev")),
			MerkleRoot: merkle.MerkleRoot(txHashes),
			Timestamp:  time.Unix(1644811503, 0),
			Bits:       0x207fffff,
		},
	}

	for {
		powHash := aux.ParentPowHash()
		if pow.HashMeetsTarget(&powHash, tpl.target) {
			break
		}
		aux.ParentBlock.Nonce++
	}
	aux.ParentHash = aux.ParentBlockHash()

	return aux
}

func testAuxPowParams() *chaincfg.AuxPowParams {
	params := chaincfg.RegressionNetParams.AuxPowParams
	return &params
}
