// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

const (
	// VersionAuxPowFlag marks a block version whose header carries an AuxPow
	// payload.
	VersionAuxPowFlag BlockVersion = 1 << 8

	// BlockMinVersionAuxPow is the smallest raw version that may carry the
	// AuxPow flag: chain id 0x62 and base version 2.
	BlockMinVersionAuxPow uint32 = 0x00620002

	// VersionChainIDShift is the bit offset of the chain id in the version.
	VersionChainIDShift = 16

	versionChainIDMask = 0xffff
	versionBaseMask    = 0xff
)

// BlockVersion is the raw 32-bit header version.  It packs the base version
// into bits 0-7, the version flags into bits 8-15 and the merged mining chain
// id into bits 16-31.
type BlockVersion uint32

// NewBlockVersion composes a raw version from its parts.
func NewBlockVersion(base, chainID uint32, auxPow bool) BlockVersion {
	v := BlockVersion(base&versionBaseMask | (chainID&versionChainIDMask)<<VersionChainIDShift)
	return v.SetAuxPow(auxPow)
}

// ChainID returns the merged mining chain id.
func (v BlockVersion) ChainID() uint32 {
	return (uint32(v) >> VersionChainIDShift) & versionChainIDMask
}

// BaseVersion returns the version without flags and chain id.
func (v BlockVersion) BaseVersion() uint32 {
	return uint32(v) & versionBaseMask
}

// IsAuxPow reports whether the AuxPow flag bit is set.
func (v BlockVersion) IsAuxPow() bool {
	return v&VersionAuxPowFlag != 0
}

func (v BlockVersion) SetAuxPow(auxPow bool) BlockVersion {
	if auxPow {
		return v | VersionAuxPowFlag
	}
	return v &^ VersionAuxPowFlag
}

// WithChainID replaces the chain id bits.
func (v BlockVersion) WithChainID(chainID uint32) BlockVersion {
	v &^= versionChainIDMask << VersionChainIDShift
	return v | BlockVersion((chainID&versionChainIDMask)<<VersionChainIDShift)
}

// IsLegacy reports whether the version predates chain ids.
func (v BlockVersion) IsLegacy() bool {
	return v == 1 || v == 2
}

// IsAuxPowBlockVersion reports whether the raw version is high enough to be
// merge mined and has the AuxPow flag set.
func IsAuxPowBlockVersion(version uint32) bool {
	return version >= BlockMinVersionAuxPow && BlockVersion(version).IsAuxPow()
}
