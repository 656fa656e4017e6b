// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
	"gitlab.com/jaxnet/auxpowd/types/merkle"
	"gitlab.com/jaxnet/auxpowd/types/pow"
	"gitlab.com/jaxnet/auxpowd/types/wire"
)

type headerView struct {
	Hash        string      `json:"hash"`
	PowHash     string      `json:"pow_hash"`
	Version     uint32      `json:"version"`
	BaseVersion uint32      `json:"base_version"`
	ChainID     uint32      `json:"chain_id"`
	PrevBlock   string      `json:"prev_block"`
	MerkleRoot  string      `json:"merkle_root"`
	Time        int64       `json:"time"`
	Bits        string      `json:"bits"`
	Nonce       uint32      `json:"nonce"`
	Difficulty  float64     `json:"difficulty"`
	AuxPow      *auxPowView `json:"auxpow,omitempty"`
}

type branchView struct {
	Hashes   []string `json:"hashes"`
	SideMask uint32   `json:"side_mask"`
}

type auxPowView struct {
	CoinbaseTxHash  string     `json:"coinbase_tx_hash"`
	ParentHash      string     `json:"parent_hash"`
	CoinbaseBranch  branchView `json:"coinbase_branch"`
	ChainBranch     branchView `json:"chain_branch"`
	ParentBlockHash string     `json:"parent_block_hash"`
	ParentPowHash   string     `json:"parent_pow_hash"`
	ParentVersion   int32      `json:"parent_version"`
	ParentTime      int64      `json:"parent_time"`
	ParentBits      string     `json:"parent_bits"`
}

func newBranchView(proof merkle.Proof) branchView {
	view := branchView{Hashes: make([]string, 0, len(proof.Hashes)), SideMask: proof.SideMask}
	for _, hash := range proof.Hashes {
		view.Hashes = append(view.Hashes, hash.String())
	}
	return view
}

func (app *App) newHeaderView(header *wire.BlockHeader) headerView {
	powHash := header.PowHash()
	view := headerView{
		Hash:        header.BlockHash().String(),
		PowHash:     powHash.String(),
		Version:     uint32(header.Version),
		BaseVersion: header.Version.BaseVersion(),
		ChainID:     header.Version.ChainID(),
		PrevBlock:   header.PrevBlock.String(),
		MerkleRoot:  header.MerkleRoot.String(),
		Time:        header.Timestamp.Unix(),
		Bits:        fmt.Sprintf("%08x", header.Bits),
		Nonce:       header.Nonce,
		Difficulty:  pow.CalcDifficulty(header.Bits, app.params.PowLimit),
	}

	if aux := header.AuxPow; aux != nil {
		var coinbaseHash chainhash.Hash
		if aux.CoinbaseTx != nil {
			coinbaseHash = aux.CoinbaseTx.TxHash()
		}
		view.AuxPow = &auxPowView{
			CoinbaseTxHash:  coinbaseHash.String(),
			ParentHash:      aux.ParentHash.String(),
			CoinbaseBranch:  newBranchView(aux.CoinbaseBranch),
			ChainBranch:     newBranchView(aux.ChainBranch),
			ParentBlockHash: aux.ParentBlockHash().String(),
			ParentPowHash:   aux.ParentPowHash().String(),
			ParentVersion:   aux.ParentBlock.Version,
			ParentTime:      aux.ParentBlock.Timestamp.Unix(),
			ParentBits:      fmt.Sprintf("%08x", aux.ParentBlock.Bits),
		}
	}
	return view
}

func (app *App) decodeCmd(c *cli.Context) error {
	header, err := readHeader(c)
	if err != nil {
		return err
	}

	if !c.Bool(flagJSON) {
		spew.Fdump(c.App.Writer, header)
		return nil
	}

	data, err := json.MarshalIndent(app.newHeaderView(header), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(data))
	return nil
}
