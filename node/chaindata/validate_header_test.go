// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"errors"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"gitlab.com/jaxnet/auxpowd/types/chaincfg"
	"gitlab.com/jaxnet/auxpowd/types/pow"
	"gitlab.com/jaxnet/auxpowd/types/wire"
)

func solvedHeader(version wire.BlockVersion, params *chaincfg.Params) *wire.BlockHeader {
	header := &wire.BlockHeader{
		Version:    version,
		PrevBlock:  *params.GenesisHash,
		MerkleRoot: chainhash.DoubleHashH([]byte("merkle")),
		Timestamp:  time.Unix(1644811503, 0),
		Bits:       params.PowLimitBits,
	}
	target := pow.CompactToBig(header.Bits)
	for {
		powHash := header.PowHash()
		if pow.HashMeetsTarget(&powHash, target) {
			return header
		}
		header.Nonce++
	}
}

func TestCheckHeaderProofOfWork(t *testing.T) {
	params := &chaincfg.RegressionNetParams

	t.Run("genesis", func(t *testing.T) {
		for _, p := range []*chaincfg.Params{&chaincfg.MainNetParams, &chaincfg.TestNetParams, params} {
			assert.NoError(t, CheckHeaderProofOfWork(p.GenesisBlock, p), p.Name)
		}
	})

	t.Run("solved header", func(t *testing.T) {
		header := solvedHeader(wire.NewBlockVersion(2, params.ChainID, false), params)
		assert.NoError(t, CheckHeaderProofOfWork(header, params))

		header.Nonce++
		for powHash := header.PowHash(); pow.HashMeetsTarget(&powHash, params.PowLimit); powHash = header.PowHash() {
			header.Nonce++
		}
		err := CheckHeaderProofOfWork(header, params)
		assert.True(t, errors.Is(err, ErrHighHash), "got %v", err)
	})

	t.Run("bits above limit", func(t *testing.T) {
		header := solvedHeader(wire.NewBlockVersion(2, params.ChainID, false), params)
		err := CheckHeaderProofOfWork(header, &chaincfg.MainNetParams)
		assert.True(t, errors.Is(err, ErrUnexpectedDifficulty), "got %v", err)
	})

	t.Run("foreign chain id", func(t *testing.T) {
		header := solvedHeader(wire.NewBlockVersion(2, 0x01, false), params)
		err := CheckHeaderProofOfWork(header, params)
		assert.True(t, errors.Is(err, ErrWrongChainID), "got %v", err)

		// testnet does not enforce the chain id
		testParams := chaincfg.TestNetParams
		testParams.PowParams = params.PowParams
		assert.NoError(t, CheckHeaderProofOfWork(header, &testParams))
	})

	t.Run("auxpow flag without payload", func(t *testing.T) {
		header := solvedHeader(wire.NewBlockVersion(2, params.ChainID, true), params)
		err := CheckHeaderProofOfWork(header, params)
		assert.True(t, errors.Is(err, ErrAuxPowMismatch), "got %v", err)
	})

	t.Run("merge mined header", func(t *testing.T) {
		header := &wire.BlockHeader{
			Version:    wire.NewBlockVersion(2, params.ChainID, true),
			PrevBlock:  *params.GenesisHash,
			MerkleRoot: chainhash.DoubleHashH([]byte("merkle")),
			Timestamp:  time.Unix(1644811503, 0),
			Bits:       params.PowLimitBits,
		}
		header.AuxPow = newAuxPowTemplate(header.BlockHash()).build(t)
		assert.NoError(t, CheckHeaderProofOfWork(header, params))

		header.Version = header.Version.SetAuxPow(false)
		err := CheckHeaderProofOfWork(header, params)
		assert.True(t, errors.Is(err, ErrAuxPowMismatch), "got %v", err)
	})
}

func TestCheckBlockHeaderSanity(t *testing.T) {
	params := &chaincfg.RegressionNetParams
	header := solvedHeader(wire.NewBlockVersion(2, params.ChainID, false), params)
	now := header.Timestamp

	assert.NoError(t, CheckBlockHeaderSanity(header, params, now))

	err := CheckBlockHeaderSanity(header, params, now.Add(-3*time.Hour))
	assert.True(t, errors.Is(err, ErrTimeTooNew), "got %v", err)

	precise := header.Copy()
	precise.Timestamp = precise.Timestamp.Add(time.Millisecond)
	err = CheckBlockHeaderSanity(precise, params, now)
	// the scrypt hash ignores sub-second precision, so the proof stays valid
	assert.True(t, errors.Is(err, ErrInvalidTime), "got %v", err)
}
