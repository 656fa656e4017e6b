// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package headerchain

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"gitlab.com/jaxnet/auxpowd/node/chaindata"
	"gitlab.com/jaxnet/auxpowd/types/wire"
	"golang.org/x/sync/errgroup"
)

func (b *HeaderChain) isVerified(hash chainhash.Hash) bool {
	b.cacheLock.Lock()
	defer b.cacheLock.Unlock()
	return b.verified.Get(hash) != nil
}

func (b *HeaderChain) markVerified(hash chainhash.Hash) {
	b.cacheLock.Lock()
	b.verified.Set(hash, struct{}{})
	b.cacheLock.Unlock()
}

// checkHeaderSanity runs the context free checks.  The proof of work,
// including the AuxPow of merge mined headers, is verified once per hash.
func (b *HeaderChain) checkHeaderSanity(header *wire.BlockHeader, hash chainhash.Hash) error {
	start := time.Now()
	defer func() { b.metrics.ObserveValidation(time.Since(start)) }()

	if !b.isVerified(hash) {
		if err := chaindata.CheckHeaderProofOfWork(header, b.params); err != nil {
			return err
		}
		b.markVerified(hash)
	}
	return chaindata.CheckHeaderTimestamp(header, b.timeSource())
}

// ValidateHeaders runs the context free checks of headers on up to workers
// goroutines.  The i-th error belongs to the i-th header.  Headers that pass
// are remembered so ProcessHeader does not repeat their proof of work.
//
// A non-nil second result means the batch was interrupted by ctx, headers
// not reached have a nil error.
func (b *HeaderChain) ValidateHeaders(ctx context.Context, headers []*wire.BlockHeader, workers int) ([]error, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if len(headers) < workers {
		workers = len(headers)
	}

	results := make([]error, len(headers))
	var counter atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}

				idx := counter.Add(1) - 1
				if idx >= int64(len(headers)) {
					return nil
				}

				header := headers[idx]
				err := b.checkHeaderSanity(header, header.BlockHash())
				if err != nil {
					b.metrics.ObserveRejected(string(chaindata.ErrorKindOf(err)))
				}
				results[idx] = err
			}
		})
	}

	return results, g.Wait()
}
