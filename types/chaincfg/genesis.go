// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"

	"gitlab.com/jaxnet/auxpowd/types/wire"
)

// genesisMerkleRoot is the hash of the single coinbase transaction shared by
// the genesis blocks of all networks.
var genesisMerkleRoot = newHashFromStr("5b2a3f53f605d62c53e62932dac6925e3d74afa5a4b459745c36d42d0ed26a69")

func newGenesisHeader(timestamp int64, bits, nonce uint32) *wire.BlockHeader {
	return &wire.BlockHeader{
		Version:    1,
		MerkleRoot: *genesisMerkleRoot,
		Timestamp:  time.Unix(timestamp, 0),
		Bits:       bits,
		Nonce:      nonce,
	}
}

var (
	mainNetGenesisBlock = newGenesisHeader(1386325540, 0x1e0ffff0, 99943)
	mainNetGenesisHash  = newHashFromStr("1a91e3dace36e2be3bf030a65679fe821aa1d6ef92e7c9902eb318182c355691")

	testNetGenesisBlock = newGenesisHeader(1391503289, 0x1e0ffff0, 997879)
	testNetGenesisHash  = newHashFromStr("bb0a78264637406b6360aad926284d544d7049f45189db5664f3c4d07350559e")

	regTestGenesisBlock = newGenesisHeader(1296688602, 0x207fffff, 2)
	regTestGenesisHash  = newHashFromStr("3d2160a3b5dc4a9d62e7e66a295f70313ac808440ef7400d6c0772171ce973a5")
)
