// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
)

const (
	// MaxVarIntPayload is the maximum payload size for a variable length integer.
	MaxVarIntPayload = 9

	// encodingPver is the protocol version passed to the btcd codecs.  Header
	// and transaction encodings do not depend on it.
	encodingPver = 0
)

var littleEndian = binary.LittleEndian

// Uint32Time represents a unix timestamp encoded with a uint32.  It is used as
// a way to signal the ReadElement function how to decode a timestamp into a Go
// time.Time since it is otherwise ambiguous.
type Uint32Time time.Time

// ReadElement reads the next sequence of bytes from r using little endian
// depending on the concrete type of element pointed to.
func ReadElement(r io.Reader, element interface{}) error {
	var buf [4]byte
	switch e := element.(type) {
	case *uint32:
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = littleEndian.Uint32(buf[:])
		return nil

	case *int32:
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = int32(littleEndian.Uint32(buf[:]))
		return nil

	case *BlockVersion:
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = BlockVersion(littleEndian.Uint32(buf[:]))
		return nil

	// Unix timestamp encoded as a uint32.
	case *Uint32Time:
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = Uint32Time(time.Unix(int64(littleEndian.Uint32(buf[:])), 0))
		return nil

	case *chainhash.Hash:
		_, err := io.ReadFull(r, e[:])
		return err
	}

	return binary.Read(r, littleEndian, element)
}

// ReadElements reads multiple items from r.  It is equivalent to multiple
// calls to ReadElement.
func ReadElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		err := ReadElement(r, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteElement writes the little endian representation of element to w.
func WriteElement(w io.Writer, element interface{}) error {
	var buf [4]byte
	switch e := element.(type) {
	case uint32:
		littleEndian.PutUint32(buf[:], e)
		_, err := w.Write(buf[:])
		return err

	case int32:
		littleEndian.PutUint32(buf[:], uint32(e))
		_, err := w.Write(buf[:])
		return err

	case BlockVersion:
		littleEndian.PutUint32(buf[:], uint32(e))
		_, err := w.Write(buf[:])
		return err

	case *chainhash.Hash:
		_, err := w.Write(e[:])
		return err
	}

	return binary.Write(w, littleEndian, element)
}

// WriteElements writes multiple items to w.  It is equivalent to multiple
// calls to WriteElement.
func WriteElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		err := WriteElement(w, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadHashArray reads a varint-prefixed list of hashes.  The count must not
// exceed maxAllowed.  fieldName is used for error reporting.
func ReadHashArray(r io.Reader, maxAllowed uint64, funcName, fieldName string) ([]chainhash.Hash, error) {
	count, err := btcwire.ReadVarInt(r, encodingPver)
	if err != nil {
		return nil, fieldError(funcName, fieldName, err)
	}

	// Prevent hash arrays larger than the max allowed.  It would be possible
	// to cause memory exhaustion and panics without a sane upper bound on
	// this count.
	if count > maxAllowed {
		return nil, messageError(funcName, fieldName,
			"too many hashes [count %d, max %d]", count, maxAllowed)
	}

	hashes := make([]chainhash.Hash, count)
	for i := range hashes {
		if err = ReadElement(r, &hashes[i]); err != nil {
			return nil, fieldError(funcName, fieldName, err)
		}
	}
	return hashes, nil
}

// WriteHashArray writes a varint-prefixed list of hashes.
func WriteHashArray(w io.Writer, hashes []chainhash.Hash) error {
	if err := btcwire.WriteVarInt(w, encodingPver, uint64(len(hashes))); err != nil {
		return err
	}
	for i := range hashes {
		if err := WriteElement(w, &hashes[i]); err != nil {
			return err
		}
	}
	return nil
}

// HashArraySerializeSize returns the number of bytes WriteHashArray produces.
func HashArraySerializeSize(hashes []chainhash.Hash) int {
	return btcwire.VarIntSerializeSize(uint64(len(hashes))) + len(hashes)*chainhash.HashSize
}
