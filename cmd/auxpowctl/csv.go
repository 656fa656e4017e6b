// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/gocarina/gocsv"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/tmthrgd/go-hex"
	"github.com/urfave/cli/v2"
	"gitlab.com/jaxnet/auxpowd/database"
	"gitlab.com/jaxnet/auxpowd/node/blockchain"
	"gitlab.com/jaxnet/auxpowd/node/chaindata"
	"gitlab.com/jaxnet/auxpowd/types/blocknode"
	"gitlab.com/jaxnet/auxpowd/types/wire"
)

// HeaderRow is one header of a CSV export.
type HeaderRow struct {
	Height    int32  `csv:"height"`
	Hash      string `csv:"hash"`
	Version   string `csv:"version"`
	Bits      string `csv:"bits"`
	Timestamp int64  `csv:"timestamp"`
	AuxPow    bool   `csv:"auxpow"`
	Raw       string `csv:"raw"`
}

func newHeaderRow(height int32, hash chainhash.Hash, raw []byte, header *wire.BlockHeader) HeaderRow {
	return HeaderRow{
		Height:    height,
		Hash:      hash.String(),
		Version:   fmt.Sprintf("%08x", uint32(header.Version)),
		Bits:      fmt.Sprintf("%08x", header.Bits),
		Timestamp: header.Timestamp.Unix(),
		AuxPow:    header.AuxPow != nil,
		Raw:       hex.EncodeToString(raw),
	}
}

// Header returns the header of the row.  The raw column wins when present,
// otherwise a header is rebuilt from the fields difficulty depends on.
func (row *HeaderRow) Header(prevHash chainhash.Hash) (*wire.BlockHeader, error) {
	if row.Raw != "" {
		raw, err := hex.DecodeString(row.Raw)
		if err != nil {
			return nil, errors.Wrapf(err, "height %d: invalid raw header", row.Height)
		}
		return chaindata.DecodeHeader(raw)
	}

	version, err := strconv.ParseUint(row.Version, 16, 32)
	if err != nil {
		return nil, errors.Wrapf(err, "height %d: invalid version", row.Height)
	}
	bits, err := strconv.ParseUint(row.Bits, 16, 32)
	if err != nil {
		return nil, errors.Wrapf(err, "height %d: invalid bits", row.Height)
	}

	return &wire.BlockHeader{
		Version:   wire.BlockVersion(version).SetAuxPow(false),
		PrevBlock: prevHash,
		Timestamp: time.Unix(row.Timestamp, 0),
		Bits:      uint32(bits),
		Nonce:     uint32(row.Height),
	}, nil
}

func (app *App) exportCmd(c *cli.Context) error {
	db, err := database.Open(c.String(flagDBType), c.String(flagDB))
	if err != nil {
		return errors.Wrap(err, "unable to open database")
	}
	defer db.Close()

	var rows []HeaderRow
	err = db.ForEach(func(height int32, hash chainhash.Hash, raw []byte) error {
		header, err := wire.DecodeHeader(raw)
		if err != nil {
			return errors.Wrapf(err, "stored header %s", hash)
		}
		rows = append(rows, newHeaderRow(height, hash, raw, header))
		return nil
	})
	if err != nil {
		return err
	}

	var out io.Writer = c.App.Writer
	if path := c.String(flagOut); path != "" {
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
		if err != nil {
			return errors.Wrap(err, "unable to open out file")
		}
		defer file.Close()
		out = file
	}

	return gocsv.Marshal(&rows, out)
}

// retargetResult is the outcome of replaying the difficulty of one header.
type retargetResult struct {
	Height   int32
	Declared uint32
	Expected uint32
}

// replayDifficulty rebuilds the chain described by rows, which must start at
// the genesis and be contiguous, and computes the required bits of every
// header after the genesis.
func (app *App) replayDifficulty(rows []HeaderRow) ([]retargetResult, error) {
	if len(rows) == 0 {
		return nil, errors.New("no headers to replay")
	}

	results := make([]retargetResult, 0, len(rows)-1)
	var prev *blocknode.BlockNode
	for i := range rows {
		row := &rows[i]
		if row.Height != int32(i) {
			return nil, errors.Errorf("row %d has height %d, headers must be contiguous from the genesis", i, row.Height)
		}

		var prevHash chainhash.Hash
		if prev != nil {
			prevHash = prev.GetHash()
		}
		header, err := row.Header(prevHash)
		if err != nil {
			return nil, err
		}

		if prev != nil {
			expected, err := blockchain.CalcNextRequiredDifficulty(prev, header.Timestamp, app.params)
			if err != nil {
				return nil, errors.Wrapf(err, "height %d", row.Height)
			}
			results = append(results, retargetResult{
				Height:   row.Height,
				Declared: header.Bits,
				Expected: expected,
			})
		}
		prev = blocknode.NewBlockNode(header, prev)
	}
	return results, nil
}

func (app *App) nextBitsCmd(c *cli.Context) error {
	file, err := os.Open(c.String(flagCSV))
	if err != nil {
		return errors.Wrap(err, "unable to open csv")
	}
	defer file.Close()

	var rows []HeaderRow
	if err := gocsv.Unmarshal(file, &rows); err != nil {
		return errors.Wrap(err, "unable to parse csv")
	}

	results, err := app.replayDifficulty(rows)
	if err != nil {
		return err
	}

	printAll := c.Bool(flagAll)
	mismatches := 0
	table := tablewriter.NewWriter(c.App.Writer)
	table.SetHeader([]string{"Height", "Declared", "Expected", "Status"})
	for _, res := range results {
		status := "ok"
		if res.Declared != res.Expected {
			status = "MISMATCH"
			mismatches++
		} else if !printAll {
			continue
		}
		table.Append([]string{
			strconv.Itoa(int(res.Height)),
			fmt.Sprintf("%08x", res.Declared),
			fmt.Sprintf("%08x", res.Expected),
			status,
		})
	}
	table.Render()

	fmt.Fprintf(c.App.Writer, "checked %d headers on %s, %d mismatches\n",
		len(results), app.params.Name, mismatches)
	return nil
}
