// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmthrgd/go-hex"
	"gitlab.com/jaxnet/auxpowd/config"
	"gitlab.com/jaxnet/auxpowd/database"
	"gitlab.com/jaxnet/auxpowd/node/chaindata"
	"gitlab.com/jaxnet/auxpowd/node/headerchain"
	"gitlab.com/jaxnet/auxpowd/types/chaincfg"
	"gitlab.com/jaxnet/auxpowd/types/pow"
	"gitlab.com/jaxnet/auxpowd/types/wire"
)

var regtest = &chaincfg.RegressionNetParams

func mineHeader(prev *wire.BlockHeader, seed uint32, solved bool) *wire.BlockHeader {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], seed)

	header := &wire.BlockHeader{
		Version:    wire.NewBlockVersion(4, regtest.ChainID, false),
		PrevBlock:  prev.BlockHash(),
		MerkleRoot: chainhash.DoubleHashH(buf[:]),
		Timestamp:  prev.Timestamp.Add(time.Minute),
		Bits:       regtest.PowLimitBits,
	}
	target := pow.CompactToBig(header.Bits)
	for {
		powHash := header.PowHash()
		if pow.HashMeetsTarget(&powHash, target) == solved {
			return header
		}
		header.Nonce++
	}
}

func mineChain(n int) []*wire.BlockHeader {
	headers := make([]*wire.BlockHeader, 0, n)
	prev := regtest.GenesisBlock
	for i := 0; i < n; i++ {
		prev = mineHeader(prev, uint32(i), true)
		headers = append(headers, prev)
	}
	return headers
}

func hexLine(t *testing.T, header *wire.BlockHeader) string {
	raw, err := header.Bytes()
	require.NoError(t, err)
	return hex.EncodeToString(raw)
}

func newImporter(t *testing.T, batchSize int) *headerImporter {
	db, err := database.Open("leveldb", t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	chain, err := headerchain.New(headerchain.Config{DB: db, ChainParams: regtest})
	require.NoError(t, err)

	return &headerImporter{chain: chain, workers: 2, batchSize: batchSize, log: zerolog.Nop()}
}

func TestImportReader(t *testing.T) {
	headers := mineChain(5)
	unsolved := mineHeader(headers[2], 99, false)

	lines := []string{
		hexLine(t, headers[0]),
		hexLine(t, headers[1]),
		"# comment",
		"",
		hexLine(t, headers[2]),
		hexLine(t, headers[1]),
		hexLine(t, unsolved),
		"  " + hexLine(t, headers[3]) + "  ",
		hexLine(t, headers[4]),
	}

	for _, batchSize := range []int{1, 2, 100} {
		imp := newImporter(t, batchSize)

		stats, err := imp.importReader(context.Background(), strings.NewReader(strings.Join(lines, "\n")))
		require.NoError(t, err, "batch size %d", batchSize)
		assert.Equal(t, importStats{Accepted: 5, Duplicates: 1, Rejected: 1}, stats, "batch size %d", batchSize)

		best := imp.chain.BestSnapshot()
		assert.Equal(t, int32(5), best.Height)
		assert.Equal(t, headers[4].BlockHash(), best.Hash)
	}
}

func TestImportReaderOrphan(t *testing.T) {
	headers := mineChain(3)
	imp := newImporter(t, 10)

	input := hexLine(t, headers[0]) + "\n" + hexLine(t, headers[2]) + "\n"
	stats, err := imp.importReader(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, importStats{Accepted: 1, Rejected: 1}, stats)
}

func TestImportReaderMalformed(t *testing.T) {
	headers := mineChain(1)
	imp := newImporter(t, 10)

	_, err := imp.importReader(context.Background(), strings.NewReader("zz\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")

	input := hexLine(t, headers[0]) + "\n" + hexLine(t, headers[0])[:40] + "\n"
	_, err = imp.importReader(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, chaindata.ErrMalformedWireFormat, chaindata.ErrorKindOf(err))
}

func TestImportReaderCancelled(t *testing.T) {
	headers := mineChain(2)
	imp := newImporter(t, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := hexLine(t, headers[0]) + "\n" + hexLine(t, headers[1]) + "\n"
	_, err := imp.importReader(ctx, strings.NewReader(input))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), imp.chain.BestSnapshot().Height)
}

func TestImportFile(t *testing.T) {
	headers := mineChain(3)
	imp := newImporter(t, 2)

	path := filepath.Join(t.TempDir(), "headers.hex")
	var content []string
	for _, header := range headers {
		content = append(content, hexLine(t, header))
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(content, "\n")), 0o600))

	stats, err := imp.importFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Accepted)

	_, err = imp.importFile(context.Background(), filepath.Join(t.TempDir(), "absent.hex"))
	assert.Error(t, err)
}

func TestRunImportsHeaderFiles(t *testing.T) {
	headers := mineChain(4)

	path := filepath.Join(t.TempDir(), "headers.hex")
	var content []string
	for _, header := range headers {
		content = append(content, hexLine(t, header))
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(content, "\n")), 0o600))

	cfg, _, err := config.Load([]string{
		"-C", filepath.Join(t.TempDir(), "absent.toml"),
		"-b", t.TempDir(),
		"--net", "regtest",
		"--metrics=",
		"-i", path,
	})
	require.NoError(t, err)

	require.NoError(t, run(context.Background(), cfg, zerolog.Nop()))

	db, err := database.Open(cfg.DbType, cfg.DBPath())
	require.NoError(t, err)
	defer db.Close()

	hash, height, err := db.FetchTip()
	require.NoError(t, err)
	assert.Equal(t, int32(4), height)
	assert.Equal(t, headers[3].BlockHash(), hash)
}

func TestInterruptListener(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx := interruptListener(parent, zerolog.Nop())
	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled with its parent")
	}

	ctx = interruptListener(context.Background(), zerolog.Nop())
	shutdownRequestChannel <- struct{}{}

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled by a shutdown request")
	}
}
