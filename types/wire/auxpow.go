// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"gitlab.com/jaxnet/auxpowd/types/merkle"
	"gitlab.com/jaxnet/auxpowd/types/pow"
)

const (
	// MaxBranchHashes bounds the number of hashes accepted for either merkle
	// branch while decoding.  Consensus limits are enforced by the validator.
	MaxBranchHashes = 64

	// MaxAuxPowPayload bounds the size of the AuxPow payload.  The coinbase
	// is the only unbounded part, and it can not be larger than a block.
	MaxAuxPowPayload = 1000000

	// MergedMiningCommitmentSize is the size of tag + root + size + nonce.
	MergedMiningCommitmentSize = 4 + chainhash.HashSize + 4 + 4
)

// MergedMiningHeader is the tag that precedes the chain merkle root in the
// parent coinbase script.
var MergedMiningHeader = []byte{0xfa, 0xbe, 'm', 'm'}

// AuxPow proves that the parent chain block ParentBlock commits to the child
// block through the coinbase transaction.
//
// Wire layout:
//
//	coinbase tx | parent hash | coinbase branch | coinbase mask LE32 |
//	chain branch | chain mask LE32 | parent header (80 bytes)
type AuxPow struct {
	// CoinbaseTx is the parent block coinbase carrying the commitment.
	CoinbaseTx *btcwire.MsgTx

	// ParentHash is the hash of the parent block as declared by the miner.
	// It is kept for wire compatibility, validation uses ParentBlock.
	ParentHash chainhash.Hash

	// CoinbaseBranch links CoinbaseTx to ParentBlock.MerkleRoot.
	CoinbaseBranch merkle.Proof

	// ChainBranch links the child block hash to the root in the coinbase.
	ChainBranch merkle.Proof

	// ParentBlock is the merge mined parent chain header.
	ParentBlock btcwire.BlockHeader
}

// ParentBlockHash returns the SHA256d hash of the parent header.
func (a *AuxPow) ParentBlockHash() chainhash.Hash {
	return a.ParentBlock.BlockHash()
}

// ParentPowHash returns the scrypt hash of the parent header.
func (a *AuxPow) ParentPowHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, BaseHeaderPayload))
	_ = a.ParentBlock.Serialize(buf)
	return pow.ScryptHash(buf.Bytes())
}

// Serialize encodes the AuxPow payload.
func (a *AuxPow) Serialize(w io.Writer) error {
	if a.CoinbaseTx == nil {
		return messageError("AuxPow.Serialize", "CoinbaseTx", "coinbase is missing")
	}
	if err := a.CoinbaseTx.SerializeNoWitness(w); err != nil {
		return err
	}
	if err := WriteElement(w, &a.ParentHash); err != nil {
		return err
	}
	if err := writeBranch(w, a.CoinbaseBranch); err != nil {
		return err
	}
	if err := writeBranch(w, a.ChainBranch); err != nil {
		return err
	}
	return a.ParentBlock.Serialize(w)
}

// Deserialize decodes the AuxPow payload.  Failures are returned as
// *MessageError naming the field that could not be read.
func (a *AuxPow) Deserialize(r io.Reader) error {
	const fn = "AuxPow.Deserialize"

	tx := new(btcwire.MsgTx)
	if err := tx.DeserializeNoWitness(r); err != nil {
		return fieldError(fn, "CoinbaseTx", err)
	}
	a.CoinbaseTx = tx

	if err := ReadElement(r, &a.ParentHash); err != nil {
		return fieldError(fn, "ParentHash", err)
	}

	var err error
	if a.CoinbaseBranch, err = readBranch(r, fn, "CoinbaseBranch"); err != nil {
		return err
	}
	if a.ChainBranch, err = readBranch(r, fn, "ChainBranch"); err != nil {
		return err
	}

	if err = a.ParentBlock.Deserialize(r); err != nil {
		return fieldError(fn, "ParentBlock", err)
	}
	return nil
}

// SerializeSize returns the number of bytes Serialize produces.
func (a *AuxPow) SerializeSize() int {
	n := chainhash.HashSize + BaseHeaderPayload
	if a.CoinbaseTx != nil {
		n += a.CoinbaseTx.SerializeSizeStripped()
	}
	n += HashArraySerializeSize(a.CoinbaseBranch.Hashes) + 4
	n += HashArraySerializeSize(a.ChainBranch.Hashes) + 4
	return n
}

// Copy creates a deep copy of the AuxPow.
func (a *AuxPow) Copy() *AuxPow {
	clone := &AuxPow{
		ParentHash:     a.ParentHash,
		CoinbaseBranch: a.CoinbaseBranch.Copy(),
		ChainBranch:    a.ChainBranch.Copy(),
		ParentBlock:    a.ParentBlock,
	}
	if a.CoinbaseTx != nil {
		clone.CoinbaseTx = a.CoinbaseTx.Copy()
	}
	return clone
}

func readBranch(r io.Reader, fn, field string) (merkle.Proof, error) {
	hashes, err := ReadHashArray(r, MaxBranchHashes, fn, field)
	if err != nil {
		return merkle.Proof{}, err
	}
	var mask uint32
	if err = ReadElement(r, &mask); err != nil {
		return merkle.Proof{}, fieldError(fn, field+".SideMask", err)
	}
	return merkle.Proof{Hashes: hashes, SideMask: mask}, nil
}

func writeBranch(w io.Writer, branch merkle.Proof) error {
	if err := WriteHashArray(w, branch.Hashes); err != nil {
		return err
	}
	return WriteElement(w, branch.SideMask)
}

// MergedMiningCommitment builds the coinbase script fragment committing to
// chainRoot: the tag, the root in reversed byte order, the chain merkle size
// and the nonce.
func MergedMiningCommitment(chainRoot chainhash.Hash, size, nonce uint32) []byte {
	buf := make([]byte, 0, MergedMiningCommitmentSize)
	buf = append(buf, MergedMiningHeader...)
	for i := chainhash.HashSize - 1; i >= 0; i-- {
		buf = append(buf, chainRoot[i])
	}
	var tail [8]byte
	littleEndian.PutUint32(tail[:4], size)
	littleEndian.PutUint32(tail[4:], nonce)
	return append(buf, tail[:]...)
}
