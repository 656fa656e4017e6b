// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"bytes"
	"encoding/binary"
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"gitlab.com/jaxnet/auxpowd/types/chaincfg"
	"gitlab.com/jaxnet/auxpowd/types/merkle"
	"gitlab.com/jaxnet/auxpowd/types/pow"
	"gitlab.com/jaxnet/auxpowd/types/wire"
)

// MaxMergedMiningHeaderOffset is the last position in the coinbase script at
// which the merged mining tag may start.
const MaxMergedMiningHeaderOffset = 20

// mmCommitment is the parsed merged mining commitment of a parent coinbase.
type mmCommitment struct {
	script  []byte
	tagPos  int
	rootPos int
	size    uint32
	nonce   uint32
}

// GetExpectedIndex returns the slot of the chain in the merged mining tree of
// height h that a miner using nonce has to fill.  All arithmetic wraps
// at 32 bits.
func GetExpectedIndex(nonce, chainID uint32, h int) uint32 {
	rand := nonce
	rand = rand*1103515245 + 12345
	rand += chainID
	rand = rand*1103515245 + 12345

	return rand % (uint32(1) << uint(h))
}

// CheckAuxPow verifies that aux proves the block with childHash was merge
// mined with enough work for target.  The cheap structural checks run
// before any hash is computed.  The returned error is a RuleError.
func CheckAuxPow(aux *wire.AuxPow, childHash chainhash.Hash, target *big.Int, params *chaincfg.AuxPowParams) error {
	return checkAuxPow(aux, childHash, params.ChainID, target, params)
}

// checkAuxPow is CheckAuxPow with the merkle slot derived from childChainID,
// the chain id the child header declares.  The parent block is always
// checked against the network chain id.
func checkAuxPow(aux *wire.AuxPow, childHash chainhash.Hash, childChainID uint32, target *big.Int, params *chaincfg.AuxPowParams) error {
	commitment, err := checkAuxPowStructure(aux, childChainID, params)
	if err != nil {
		log.Trace().Err(err).Stringer("block", childHash).Msg("auxpow structure rejected")
		return err
	}

	err = checkAuxPowCommitments(aux, commitment, childHash, target)
	if err != nil {
		log.Trace().Err(err).Stringer("block", childHash).Msg("auxpow commitment rejected")
	}
	return err
}

func checkAuxPowStructure(aux *wire.AuxPow, childChainID uint32, params *chaincfg.AuxPowParams) (*mmCommitment, error) {
	coinbase := aux.CoinbaseTx
	if coinbase == nil || len(coinbase.TxIn) == 0 || len(coinbase.TxOut) == 0 {
		return nil, ruleError(ErrEmptyCoinbase, "auxpow coinbase has no inputs or outputs")
	}

	chainHeight := len(aux.ChainBranch.Hashes)
	if chainHeight >= merkle.MaxBranchLength {
		return nil, ruleErrorf(ErrChainBranchTooLong,
			"auxpow chain merkle branch is too long: %d", chainHeight)
	}

	if len(aux.CoinbaseBranch.Hashes) != params.CoinbaseBranchDepth {
		return nil, ruleErrorf(ErrCoinbaseBranchSizeMismatch,
			"auxpow coinbase branch has %d hashes, expected %d",
			len(aux.CoinbaseBranch.Hashes), params.CoinbaseBranchDepth)
	}

	script := coinbase.TxIn[0].SignatureScript
	tagPos := bytes.Index(script, wire.MergedMiningHeader)
	if tagPos < 0 {
		return nil, ruleError(ErrMergedMiningHeaderMissing,
			"merged mining header not found in the parent coinbase")
	}
	if bytes.Contains(script[tagPos+1:], wire.MergedMiningHeader) {
		return nil, ruleError(ErrDuplicateMergedMiningHeader,
			"multiple merged mining headers in the parent coinbase")
	}
	if tagPos > MaxMergedMiningHeaderOffset {
		return nil, ruleErrorf(ErrMergedMiningHeaderTooLate,
			"merged mining header starts at byte %d, limit is %d",
			tagPos, MaxMergedMiningHeaderOffset)
	}

	c := &mmCommitment{
		script:  script,
		tagPos:  tagPos,
		rootPos: tagPos + len(wire.MergedMiningHeader),
	}
	if len(script) < c.rootPos+chainhash.HashSize {
		return nil, ruleError(ErrHeaderNotAdjacentToRoot,
			"no room for the chain merkle root after the merged mining header")
	}

	tail := script[c.rootPos+chainhash.HashSize:]
	if len(tail) < 8 {
		return nil, ruleError(ErrMissingMergedMiningSizeAndNonce,
			"merkle size and nonce missing after the chain merkle root")
	}
	c.size = binary.LittleEndian.Uint32(tail[:4])
	c.nonce = binary.LittleEndian.Uint32(tail[4:8])

	if c.size != uint32(1)<<uint(chainHeight) {
		return nil, ruleErrorf(ErrChainMerkleSizeMismatch,
			"chain merkle size %d does not match branch length %d", c.size, chainHeight)
	}

	expectedIndex := GetExpectedIndex(c.nonce, childChainID, chainHeight)
	if aux.ChainBranch.SideMask != expectedIndex {
		return nil, ruleErrorf(ErrWrongMerkleSlot,
			"chain branch index %d, expected %d for nonce %08x",
			aux.ChainBranch.SideMask, expectedIndex, c.nonce)
	}

	parentChainID := wire.BlockVersion(uint32(aux.ParentBlock.Version)).ChainID()
	if parentChainID == params.ChainID {
		return nil, ruleErrorf(ErrParentSharesChainID,
			"parent block has the network chain id %#x", parentChainID)
	}

	if aux.CoinbaseBranch.SideMask != 0 {
		return nil, ruleErrorf(ErrNotGenerateTransaction,
			"coinbase branch index is %d, the coinbase must be first",
			aux.CoinbaseBranch.SideMask)
	}

	return c, nil
}

func checkAuxPowCommitments(aux *wire.AuxPow, c *mmCommitment, childHash chainhash.Hash, target *big.Int) error {
	chainRoot := aux.ChainBranch.ComputeRoot(childHash)
	committed := reverseHash(chainRoot)

	if !bytes.Equal(c.script[c.rootPos:c.rootPos+chainhash.HashSize], committed[:]) {
		if bytes.Contains(c.script, committed[:]) {
			return ruleError(ErrHeaderNotAdjacentToRoot,
				"chain merkle root is not right after the merged mining header")
		}
		return ruleErrorf(ErrChainMerkleRootMismatch,
			"chain merkle root %v is not committed in the parent coinbase", chainRoot)
	}

	coinbaseHash := aux.CoinbaseTx.TxHash()
	if !aux.CoinbaseBranch.Validate(coinbaseHash, aux.ParentBlock.MerkleRoot) {
		return ruleErrorf(ErrCoinbaseMerkleRootMismatch,
			"coinbase %v is not included in parent merkle root %v",
			coinbaseHash, aux.ParentBlock.MerkleRoot)
	}

	parentPowHash := aux.ParentPowHash()
	if !pow.HashMeetsTarget(&parentPowHash, target) {
		return ruleErrorf(ErrInsufficientParentWork,
			"parent proof of work hash %064x is higher than target %064x",
			pow.HashToBig(&parentPowHash), target)
	}

	return nil
}

func reverseHash(h chainhash.Hash) chainhash.Hash {
	for i, j := 0, chainhash.HashSize-1; i < j; i, j = i+1, j-1 {
		h[i], h[j] = h[j], h[i]
	}
	return h
}
