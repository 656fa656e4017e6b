// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/tmthrgd/go-hex"
	"gitlab.com/jaxnet/auxpowd/node/chaindata"
	"gitlab.com/jaxnet/auxpowd/node/headerchain"
	"gitlab.com/jaxnet/auxpowd/types/wire"
)

// maxHeaderLineLen bounds a single hex line, merge mined headers carry the
// parent coinbase and can be a few kilobytes long.
const maxHeaderLineLen = 1 << 20

type importStats struct {
	Accepted   int
	Duplicates int
	Rejected   int
}

// headerImporter feeds header files into the chain.  Each batch is validated
// in parallel and then accepted in file order.
type headerImporter struct {
	chain     *headerchain.HeaderChain
	workers   int
	batchSize int
	log       zerolog.Logger
}

func (imp *headerImporter) importFile(ctx context.Context, path string) (importStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return importStats{}, errors.Wrap(err, "unable to open header file")
	}
	defer file.Close()

	stats, err := imp.importReader(ctx, file)
	return stats, errors.Wrapf(err, "import of %s failed", path)
}

// importReader reads one hex encoded header per line.  Empty lines and lines
// starting with # are skipped.  A line that is not a header aborts the import.
func (imp *headerImporter) importReader(ctx context.Context, r io.Reader) (importStats, error) {
	var stats importStats

	batchSize := imp.batchSize
	if batchSize <= 0 {
		batchSize = 1
	}
	batch := make([]*wire.BlockHeader, 0, batchSize)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxHeaderLineLen)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		raw, err := hex.DecodeString(line)
		if err != nil {
			return stats, errors.Wrapf(err, "line %d", lineNo)
		}
		header, err := chaindata.DecodeHeader(raw)
		if err != nil {
			return stats, errors.Wrapf(err, "line %d", lineNo)
		}

		batch = append(batch, header)
		if len(batch) < batchSize {
			continue
		}
		if err := imp.processBatch(ctx, batch, &stats); err != nil {
			return stats, err
		}
		batch = batch[:0]
	}
	if err := scanner.Err(); err != nil {
		return stats, err
	}

	if len(batch) > 0 {
		if err := imp.processBatch(ctx, batch, &stats); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (imp *headerImporter) processBatch(ctx context.Context, batch []*wire.BlockHeader, stats *importStats) error {
	results, err := imp.chain.ValidateHeaders(ctx, batch, imp.workers)
	if err != nil {
		return err
	}

	for i, header := range batch {
		hash := header.BlockHash()
		if results[i] != nil {
			stats.Rejected++
			imp.log.Warn().Err(results[i]).Stringer("hash", hash).Msg("Header rejected")
			continue
		}

		height, err := imp.chain.ProcessHeader(header)
		switch {
		case err == nil:
			stats.Accepted++
			imp.log.Trace().Int32("height", height).Stringer("hash", hash).Msg("Header accepted")

		case chaindata.ErrorKindOf(err) == chaindata.ErrDuplicateHeader:
			stats.Duplicates++

		case chaindata.ErrorKindOf(err) != "":
			stats.Rejected++
			imp.log.Warn().Err(err).Stringer("hash", hash).Msg("Header rejected")

		default:
			return err
		}
	}
	return nil
}
