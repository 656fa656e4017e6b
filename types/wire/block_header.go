// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"gitlab.com/jaxnet/auxpowd/types/pow"
)

// BaseHeaderPayload is the size of the header without the AuxPow payload.
// Version 4 bytes + Timestamp 4 bytes + Bits 4 bytes + Nonce 4 bytes +
// PrevBlock and MerkleRoot hashes.
const BaseHeaderPayload = 16 + (chainhash.HashSize * 2)

// MaxBlockHeaderPayload is the maximum number of bytes a header together with
// its AuxPow payload can be.
const MaxBlockHeaderPayload = BaseHeaderPayload + MaxAuxPowPayload

// BlockHeader is the child chain block header.  AuxPow is present if and only
// if the version carries the AuxPow flag.
type BlockHeader struct {
	// Version of the block.  This is not the same as the protocol version.
	Version BlockVersion

	// Hash of the previous block header in the block chain.
	PrevBlock chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	MerkleRoot chainhash.Hash

	// Time the block was created.  This is, unfortunately, encoded as a
	// uint32 on the wire and therefore is limited to 2106.
	Timestamp time.Time

	// Difficulty target for the block.
	Bits uint32

	// Nonce used to generate the block.
	Nonce uint32

	// AuxPow is the merged mining proof.
	AuxPow *AuxPow
}

// NewBlockHeader returns a new BlockHeader using the provided version, previous
// block hash, merkle root hash, difficulty bits, and nonce used to generate the
// block with defaults for the remaining fields.
func NewBlockHeader(version BlockVersion, prevHash, merkleRootHash *chainhash.Hash,
	bits uint32, nonce uint32) *BlockHeader {
	// Limit the timestamp to one second precision since the protocol
	// doesn't support better.
	return &BlockHeader{
		Version:    version,
		PrevBlock:  *prevHash,
		MerkleRoot: *merkleRootHash,
		Timestamp:  time.Unix(time.Now().Unix(), 0),
		Bits:       bits,
		Nonce:      nonce,
	}
}

// BlockHash computes the block identifier hash for the given block header.
// The AuxPow payload is not part of the identifier.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	// Encode the header and double sha256 everything.  Ignore the error
	// returns since there is no way the encode could fail except being out
	// of memory which would cause a run-time panic.
	buf := bytes.NewBuffer(make([]byte, 0, BaseHeaderPayload))
	_ = h.SerializeBase(buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// PowHash computes the scrypt hash of the 80-byte header.  It is checked
// against the target for headers that are not merge mined.
func (h *BlockHeader) PowHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, BaseHeaderPayload))
	_ = h.SerializeBase(buf)
	return pow.ScryptHash(buf.Bytes())
}

// SerializeBase writes the 80-byte header without the AuxPow payload.
func (h *BlockHeader) SerializeBase(w io.Writer) error {
	sec := uint32(h.Timestamp.Unix())
	return WriteElements(w, h.Version, &h.PrevBlock, &h.MerkleRoot,
		sec, h.Bits, h.Nonce)
}

// Serialize encodes the header and, when flagged, the AuxPow payload.
func (h *BlockHeader) Serialize(w io.Writer) error {
	if err := h.checkAuxPowPresence("BlockHeader.Serialize"); err != nil {
		return err
	}
	if err := h.SerializeBase(w); err != nil {
		return err
	}
	if h.AuxPow == nil {
		return nil
	}
	return h.AuxPow.Serialize(w)
}

// Deserialize decodes a header from r.  The AuxPow payload is read only when
// the version carries the AuxPow flag.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	const fn = "BlockHeader.Deserialize"

	fields := []struct {
		name string
		elem interface{}
	}{
		{"Version", &h.Version},
		{"PrevBlock", &h.PrevBlock},
		{"MerkleRoot", &h.MerkleRoot},
		{"Timestamp", (*Uint32Time)(&h.Timestamp)},
		{"Bits", &h.Bits},
		{"Nonce", &h.Nonce},
	}
	for _, f := range fields {
		if err := ReadElement(r, f.elem); err != nil {
			return fieldError(fn, f.name, err)
		}
	}

	h.AuxPow = nil
	if !h.Version.IsAuxPow() {
		return nil
	}

	aux := new(AuxPow)
	if err := aux.Deserialize(r); err != nil {
		return err
	}
	h.AuxPow = aux
	return nil
}

// Bytes returns the serialized header.
func (h *BlockHeader) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, h.SerializeSize()))
	if err := h.Serialize(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SerializeSize returns the number of bytes it would take to serialize the
// header.
func (h *BlockHeader) SerializeSize() int {
	if h.AuxPow == nil {
		return BaseHeaderPayload
	}
	return BaseHeaderPayload + h.AuxPow.SerializeSize()
}

// Copy creates a deep copy of a BlockHeader so that the original does not get
// modified when the copy is manipulated.
func (h *BlockHeader) Copy() *BlockHeader {
	clone := *h
	if h.AuxPow != nil {
		clone.AuxPow = h.AuxPow.Copy()
	}
	return &clone
}

func (h *BlockHeader) checkAuxPowPresence(fn string) error {
	switch {
	case h.Version.IsAuxPow() && h.AuxPow == nil:
		return messageError(fn, "AuxPow", "version %08x has the AuxPow flag but no payload", uint32(h.Version))
	case !h.Version.IsAuxPow() && h.AuxPow != nil:
		return messageError(fn, "AuxPow", "payload present but version %08x has no AuxPow flag", uint32(h.Version))
	}
	return nil
}

// DecodeHeader parses a serialized header.  Inputs longer than
// MaxBlockHeaderPayload and trailing bytes are rejected.
func DecodeHeader(raw []byte) (*BlockHeader, error) {
	if len(raw) > MaxBlockHeaderPayload {
		return nil, messageError("DecodeHeader", "AuxPow",
			"header is %d bytes, max %d", len(raw), MaxBlockHeaderPayload)
	}

	r := bytes.NewReader(raw)
	h := new(BlockHeader)
	if err := h.Deserialize(r); err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, messageError("DecodeHeader", "BlockHeader", "%d trailing bytes", r.Len())
	}
	return h, nil
}
