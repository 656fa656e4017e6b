// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"gitlab.com/jaxnet/auxpowd/types/wire"
)

var (
	// ErrDuplicateNet describes an error where the parameters for a network
	// could not be set due to the network already being a standard
	// network or previously-registered into this package.
	ErrDuplicateNet = errors.New("duplicate network")

	// ErrUnknownNet is returned when a network name is not registered.
	ErrUnknownNet = errors.New("unknown network")
)

// bigOne is 1 represented as a big.Int.  It is defined here to avoid
// the overhead of creating it multiple times.
var bigOne = big.NewInt(1)

// Params defines a dogecoin-style network by its parameters.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net btcwire.BitcoinNet

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort string

	// GenesisBlock defines the first header of the chain.
	GenesisBlock *wire.BlockHeader

	// GenesisHash is the starting block hash.
	GenesisHash *chainhash.Hash

	PowParams
	AuxPowParams
	SubsidyParams
}

// PowParams holds the proof-of-work and retarget rules.
type PowParams struct {
	// PowLimit defines the highest allowed proof of work value for a block
	// as a uint256.
	PowLimit *big.Int

	// PowLimitBits defines the highest allowed proof of work value for a
	// block in compact form.
	PowLimitBits uint32

	// TargetTimespan is the desired amount of time that should elapse
	// before the block difficulty requirement is examined to determine how
	// it should be changed in order to maintain the desired block
	// generation rate.
	TargetTimespan time.Duration

	// TargetTimePerBlock is the desired amount of time to generate each
	// block.
	TargetTimePerBlock time.Duration

	// DigishieldHeight is the first height retargeted every block with the
	// Digishield timespan.
	DigishieldHeight int32

	// DigishieldTargetTimespan replaces TargetTimespan from DigishieldHeight.
	DigishieldTargetTimespan time.Duration

	// PowNoRetargeting keeps the difficulty of the previous block forever.
	PowNoRetargeting bool

	// ReduceMinDifficulty defines whether the network should reduce the
	// minimum required difficulty after a long enough period of time has
	// passed without finding a block.  This is really only useful for test
	// networks and should not be set on a main network.
	ReduceMinDifficulty bool

	// MinDiffReductionTime is the amount of time after which the minimum
	// required difficulty should be reduced when a block hasn't been found.
	//
	// NOTE: This only applies if ReduceMinDifficulty is true.
	MinDiffReductionTime time.Duration

	// DigishieldMinDifficultyHeight is the height from which the minimum
	// difficulty exception also applies to Digishield retargets.
	//
	// NOTE: This only applies if ReduceMinDifficulty is true.
	DigishieldMinDifficultyHeight int32
}

// AuxPowParams holds the merged mining rules.
type AuxPowParams struct {
	// ChainID is the merged mining chain id of the network.
	ChainID uint32

	// StrictChainID rejects headers without the chain id and parent blocks
	// that carry it.
	StrictChainID bool

	// AuxPowStartHeight is the first height at which merge mined headers
	// are accepted.
	AuxPowStartHeight int32

	// CoinbaseBranchDepth is the exact depth of the parent coinbase branch.
	CoinbaseBranchDepth int
}

// SubsidyParams holds the block reward schedule.
type SubsidyParams struct {
	// BaseSubsidy is the starting subsidy in koinu.
	BaseSubsidy int64

	// SubsidyReductionInterval is the interval of blocks before the subsidy
	// is halved.
	SubsidyReductionInterval int32

	// StableSubsidyHeight is the height from which StableSubsidy is paid.
	StableSubsidyHeight int32

	// StableSubsidy is the flat subsidy in koinu.
	StableSubsidy int64
}

// IsDigishield reports whether the header at height is retargeted with the
// Digishield rules.
func (p *PowParams) IsDigishield(height int32) bool {
	return height >= p.DigishieldHeight
}

// RetargetTimespan returns the timespan targeted by a retarget at height.
func (p *PowParams) RetargetTimespan(height int32) time.Duration {
	if p.IsDigishield(height) {
		return p.DigishieldTargetTimespan
	}
	return p.TargetTimespan
}

// RetargetInterval returns the number of blocks between retargets at height.
func (p *PowParams) RetargetInterval(height int32) int32 {
	return int32(p.RetargetTimespan(height) / p.TargetTimePerBlock)
}

var registeredNets = map[string]*Params{}

// Register registers the network parameters for a network.  This may error
// with ErrDuplicateNet if the network is already registered (either due to
// a previous Register call, or the network being one of the default networks).
func Register(params *Params) error {
	if _, ok := registeredNets[params.Name]; ok {
		return ErrDuplicateNet
	}
	registeredNets[params.Name] = params
	return nil
}

// mustRegister performs the same function as Register except it panics if there
// is an error.  This should only be called from package init functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

// ChainFromName returns the parameters of a registered network.  "main",
// "test" and "regtest" are accepted as aliases.
func ChainFromName(name string) (*Params, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "main":
		name = MainNetParams.Name
	case "test", "testnet3":
		name = TestNetParams.Name
	case "regression":
		name = RegressionNetParams.Name
	}

	params, ok := registeredNets[name]
	if !ok {
		return nil, ErrUnknownNet
	}
	return params, nil
}

// newHashFromStr converts the passed big-endian hex string into a
// chainhash.Hash.  It only differs from the one available in chainhash in
// that it panics on an error since it will only (and must only) be called
// with hard-coded, and therefore known good, hashes.
func newHashFromStr(hexStr string) *chainhash.Hash {
	hash, err := chainhash.NewHashFromStr(hexStr)
	if err != nil {
		panic(err)
	}
	return hash
}

func init() {
	mustRegister(&MainNetParams)
	mustRegister(&TestNetParams)
	mustRegister(&RegressionNetParams)
}
