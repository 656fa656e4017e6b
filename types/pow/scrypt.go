// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pow

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/scrypt"
)

// Scrypt parameters used by litecoin-family chains for the proof-of-work hash.
const (
	ScryptN      = 1024
	ScryptR      = 1
	ScryptP      = 1
	ScryptKeyLen = chainhash.HashSize
)

// ScryptHash computes the proof-of-work hash of the serialized header.
// The header is used as both password and salt.
func ScryptHash(header []byte) chainhash.Hash {
	var hash chainhash.Hash
	dk, err := scrypt.Key(header, header, ScryptN, ScryptR, ScryptP, ScryptKeyLen)
	if err != nil {
		// scrypt.Key fails only on invalid cost parameters, which are
		// constants here.
		panic(err)
	}
	copy(hash[:], dk)
	return hash
}
