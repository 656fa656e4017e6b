package wire

import (
	"math"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"gitlab.com/jaxnet/auxpowd/types/merkle"
)

func testCoinbase(script []byte) *btcwire.MsgTx {
	tx := btcwire.NewMsgTx(1)
	tx.AddTxIn(&btcwire.TxIn{
		PreviousOutPoint: btcwire.OutPoint{Index: math.MaxUint32},
		SignatureScript:  script,
		Sequence:         math.MaxUint32,
	})
	tx.AddTxOut(&btcwire.TxOut{Value: 50 * 1e8, PkScript: []byte{0x51}})
	return tx
}

func testAuxPow() *AuxPow {
	childRoot := chainhash.DoubleHashH([]byte("child"))
	script := append([]byte{0x03, 0x01, 0x02, 0x03}, MergedMiningCommitment(childRoot, 1, 7)...)
	coinbase := testCoinbase(script)

	leaves := []chainhash.Hash{
		coinbase.TxHash(),
		chainhash.DoubleHashH([]byte("tx1")),
		chainhash.DoubleHashH([]byte("tx2")),
		chainhash.DoubleHashH([]byte("tx3")),
		chainhash.DoubleHashH([]byte("tx4")),
	}
	branch, _ := merkle.BuildProof(leaves, 0)

	parent := btcwire.BlockHeader{
		Version:    0x20000000,
		PrevBlock:  chainhash.DoubleHashH([]byte("parent-prev")),
		MerkleRoot: merkle.MerkleRoot(leaves),
		Timestamp:  time.Unix(1600000000, 0),
		Bits:       0x1d00ffff,
		Nonce:      42,
	}

	return &AuxPow{
		CoinbaseTx:     coinbase,
		ParentHash:     parent.BlockHash(),
		CoinbaseBranch: branch,
		ChainBranch: merkle.Proof{
			Hashes:   []chainhash.Hash{chainhash.DoubleHashH([]byte("sibling"))},
			SideMask: 1,
		},
		ParentBlock: parent,
	}
}
