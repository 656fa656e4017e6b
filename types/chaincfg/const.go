// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

const (
	// KoinuPerDoge is the number of base units in one coin.
	KoinuPerDoge = 1e8

	// MaxBlockTimeOffsetSeconds is how far in the future a header timestamp
	// may be relative to the local clock.
	MaxBlockTimeOffsetSeconds = 2 * 60 * 60

	// MedianTimeBlocks is the number of previous headers used to compute the
	// median time a new header must exceed.
	MedianTimeBlocks = 11
)
