// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2022 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package headerchain

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/floatdrop/lru"
	"github.com/pkg/errors"
	"gitlab.com/jaxnet/auxpowd/database"
	"gitlab.com/jaxnet/auxpowd/node/blockchain"
	"gitlab.com/jaxnet/auxpowd/node/chaindata"
	"gitlab.com/jaxnet/auxpowd/node/metrics"
	"gitlab.com/jaxnet/auxpowd/types/blocknode"
	"gitlab.com/jaxnet/auxpowd/types/chaincfg"
	"gitlab.com/jaxnet/auxpowd/types/pow"
	"gitlab.com/jaxnet/auxpowd/types/wire"
)

// DefaultCacheSize is the number of verified header hashes remembered when
// Config.CacheSize is not set.
const DefaultCacheSize = 4096

// Config is a descriptor which specifies the header chain instance
// configuration.
type Config struct {
	// DB defines the database which houses the headers and will be used
	// to store all new headers.
	DB database.DB

	// ChainParams identifies which chain parameters the chain is
	// associated with.
	ChainParams *chaincfg.Params

	// CacheSize is the number of headers whose proof of work is remembered
	// after it was verified.
	CacheSize int

	// Metrics receives the validation results.  It may be nil.
	Metrics *metrics.HeaderMetrics

	// TimeSource returns the adjusted network time.  time.Now is used when
	// it is nil.
	TimeSource func() time.Time
}

// BestState houses information about the current best header.  The returned
// snapshot must be treated as immutable since it is shared by all callers.
type BestState struct {
	Hash       chainhash.Hash // The hash of the header.
	Height     int32          // The height of the header.
	Bits       uint32         // The difficulty bits of the header.
	WorkSum    *big.Int       // Total work of the chain up to the header.
	MedianTime time.Time      // Median time as per CalcPastMedianTime.
	Difficulty float64        // Difficulty relative to the pow limit.
}

func newBestState(node *blocknode.BlockNode, params *chaincfg.Params) *BestState {
	return &BestState{
		Hash:       node.GetHash(),
		Height:     node.Height(),
		Bits:       node.Bits(),
		WorkSum:    new(big.Int).Set(node.WorkSum()),
		MedianTime: node.CalcPastMedianTime(),
		Difficulty: pow.CalcDifficulty(node.Bits(), params.PowLimit),
	}
}

// HeaderChain provides functions for working with a chain of merge mined
// headers.  It includes functionality such as rejecting duplicate and
// invalid headers, selecting the chain with the most work and tracking the
// best tip.
type HeaderChain struct {
	db         database.DB
	params     *chaincfg.Params
	metrics    *metrics.HeaderMetrics
	timeSource func() time.Time

	// verified remembers hashes of headers whose proof of work passed.
	cacheLock sync.Mutex
	verified  *lru.LRU[chainhash.Hash, struct{}]

	// chainLock protects concurrent access to the index and the main chain.
	chainLock sync.RWMutex
	index     map[chainhash.Hash]*blocknode.BlockNode
	bestChain []*blocknode.BlockNode

	// stateLock protects the best state snapshot.
	stateLock     sync.RWMutex
	stateSnapshot *BestState
}

// New returns a HeaderChain instance using the provided configuration.  The
// stored main chain is loaded, an empty database is initialized with the
// genesis header.
func New(cfg Config) (*HeaderChain, error) {
	if cfg.DB == nil {
		return nil, errors.New("header chain config must specify a database")
	}
	if cfg.ChainParams == nil {
		return nil, errors.New("header chain config must specify chain parameters")
	}

	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	timeSource := cfg.TimeSource
	if timeSource == nil {
		timeSource = time.Now
	}

	b := &HeaderChain{
		db:         cfg.DB,
		params:     cfg.ChainParams,
		metrics:    cfg.Metrics,
		timeSource: timeSource,
		verified:   lru.New[chainhash.Hash, struct{}](cacheSize),
		index:      make(map[chainhash.Hash]*blocknode.BlockNode),
	}

	if err := b.initChainState(); err != nil {
		return nil, err
	}

	best := b.BestSnapshot()
	log.Info().Msgf("Chain state (height %d, hash %v, work %v)", best.Height, best.Hash, best.WorkSum)
	return b, nil
}

// initChainState loads the main chain from the database or stores the
// genesis header when the database is empty.
func (b *HeaderChain) initChainState() error {
	_, _, err := b.db.FetchTip()
	if errors.Is(err, database.ErrNotFound) {
		return b.createChainState()
	}
	if err != nil {
		return err
	}

	var parent *blocknode.BlockNode
	err = b.db.ForEach(func(height int32, hash chainhash.Hash, raw []byte) error {
		header, err := wire.DecodeHeader(raw)
		if err != nil {
			return errors.Wrapf(err, "stored header %v at height %d", hash, height)
		}
		if parent == nil && hash != *b.params.GenesisHash {
			return fmt.Errorf("stored genesis %v does not match network genesis %v",
				hash, b.params.GenesisHash)
		}
		if parent != nil && header.PrevBlock != parent.GetHash() {
			return fmt.Errorf("stored header %v at height %d does not connect to %v",
				hash, height, parent.GetHash())
		}

		node := blocknode.NewBlockNode(header, parent)
		node.SetStatus(blocknode.StatusValid)
		if node.GetHash() != hash {
			return fmt.Errorf("stored header at height %d hashes to %v, indexed as %v",
				height, node.GetHash(), hash)
		}
		b.index[hash] = node
		b.bestChain = append(b.bestChain, node)
		parent = node
		return nil
	})
	if err != nil {
		return err
	}
	if parent == nil {
		return fmt.Errorf("database tip is set but the main chain is empty")
	}

	b.stateSnapshot = newBestState(parent, b.params)
	return nil
}

func (b *HeaderChain) createChainState() error {
	genesis := b.params.GenesisBlock
	raw, err := genesis.Bytes()
	if err != nil {
		return err
	}

	hash := *b.params.GenesisHash
	if err := b.db.PutHeader(hash, 0, raw); err != nil {
		return err
	}
	if err := b.db.SetTip(hash, 0); err != nil {
		return err
	}

	node := blocknode.NewBlockNode(genesis, nil)
	node.SetStatus(blocknode.StatusValid)
	b.index[hash] = node
	b.bestChain = []*blocknode.BlockNode{node}
	b.stateSnapshot = newBestState(node, b.params)
	return nil
}

// ProcessHeader is the main workhorse for handling insertion of new headers
// into the header chain.  It includes functionality such as rejecting
// duplicate headers, ensuring headers follow all rules and best chain
// selection.  It returns the height the header was connected at.
//
// This function is safe for concurrent access.
func (b *HeaderChain) ProcessHeader(header *wire.BlockHeader) (int32, error) {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()

	height, err := b.processHeader(header)
	if err != nil {
		b.metrics.ObserveRejected(string(chaindata.ErrorKindOf(err)))
		return 0, err
	}
	return height, nil
}

// processHeader must be called with the chain lock held (for writes).
func (b *HeaderChain) processHeader(header *wire.BlockHeader) (int32, error) {
	hash := header.BlockHash()
	log.Trace().Msgf("Processing header %v", hash)

	// The header must not already exist in the main chain or side chains.
	if _, exists := b.index[hash]; exists {
		str := fmt.Sprintf("already have header %v", hash)
		return 0, chaindata.NewRuleError(chaindata.ErrDuplicateHeader, str)
	}

	prevNode, ok := b.index[header.PrevBlock]
	if !ok {
		str := fmt.Sprintf("previous header %v of %v is unknown", header.PrevBlock, hash)
		return 0, chaindata.NewRuleError(chaindata.ErrOrphanHeader, str)
	}

	if err := b.checkHeaderSanity(header, hash); err != nil {
		return 0, err
	}
	if err := blockchain.CheckHeaderContext(header, prevNode, b.params); err != nil {
		return 0, err
	}

	raw, err := header.Bytes()
	if err != nil {
		return 0, err
	}

	node := blocknode.NewBlockNode(header, prevNode)
	node.SetStatus(blocknode.StatusValid)
	if err := b.db.PutHeader(hash, node.Height(), raw); err != nil {
		return 0, err
	}
	b.index[hash] = node
	b.metrics.ObserveAccepted(header.Version.IsAuxPow())

	tip := b.bestChain[len(b.bestChain)-1]
	if node.WorkSum().Cmp(tip.WorkSum()) > 0 {
		if err := b.connectBestChain(node); err != nil {
			return 0, err
		}
	} else {
		log.Debug().Msgf("Extended side chain with header %v at height %d", hash, node.Height())
	}

	return node.Height(), nil
}

// onMainChain reports whether node is part of the best chain.
func (b *HeaderChain) onMainChain(node *blocknode.BlockNode) bool {
	height := int(node.Height())
	return height < len(b.bestChain) && b.bestChain[height] == node
}

// connectBestChain makes node the new tip, reorganizing the main chain when
// node does not extend it.
//
// This function MUST be called with the chain lock held (for writes).
func (b *HeaderChain) connectBestChain(node *blocknode.BlockNode) error {
	var attach []*blocknode.BlockNode
	for n := node; n != nil && !b.onMainChain(n); n = n.ParentNode() {
		attach = append(attach, n)
	}

	forkHeight := node.Height() - int32(len(attach))
	if detached := int32(len(b.bestChain)) - 1 - forkHeight; detached > 0 {
		log.Info().Msgf("Reorganize: detaching %d headers above height %d, new tip %v",
			detached, forkHeight, node.GetHash())
	}

	bestChain := make([]*blocknode.BlockNode, forkHeight+1, int(node.Height())+1)
	copy(bestChain, b.bestChain[:forkHeight+1])
	hashes := make([]chainhash.Hash, 0, len(attach))
	for i := len(attach) - 1; i >= 0; i-- {
		bestChain = append(bestChain, attach[i])
		hashes = append(hashes, attach[i].GetHash())
	}

	// The in-memory chain only moves once the height index and tip are on disk.
	if err := b.db.SetMainChain(forkHeight+1, hashes); err != nil {
		return err
	}
	b.bestChain = bestChain

	state := newBestState(node, b.params)
	b.stateLock.Lock()
	b.stateSnapshot = state
	b.stateLock.Unlock()

	b.metrics.ObserveBest(state.Height, state.Difficulty)
	return nil
}

// BestSnapshot returns information about the current best chain header and
// related state as of the current point in time.
//
// This function is safe for concurrent access.
func (b *HeaderChain) BestSnapshot() *BestState {
	b.stateLock.RLock()
	snapshot := b.stateSnapshot
	b.stateLock.RUnlock()
	return snapshot
}

// HaveHeader returns whether or not the chain instance has the header
// represented by the passed hash, in the main chain or in a side chain.
//
// This function is safe for concurrent access.
func (b *HeaderChain) HaveHeader(hash chainhash.Hash) bool {
	b.chainLock.RLock()
	_, ok := b.index[hash]
	b.chainLock.RUnlock()
	return ok
}

// HeaderByHash returns the full header identified by the given hash together
// with its height.  Headers from both the main and side chains are returned.
func (b *HeaderChain) HeaderByHash(hash chainhash.Hash) (*wire.BlockHeader, int32, error) {
	raw, height, err := b.db.FetchHeader(hash)
	if err != nil {
		return nil, 0, err
	}
	header, err := wire.DecodeHeader(raw)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "stored header %v", hash)
	}
	return header, height, nil
}

// HeaderByHeight returns the main chain header at height.
//
// This function is safe for concurrent access.
func (b *HeaderChain) HeaderByHeight(height int32) (*wire.BlockHeader, error) {
	b.chainLock.RLock()
	if height < 0 || int(height) >= len(b.bestChain) {
		b.chainLock.RUnlock()
		return nil, fmt.Errorf("no header at height %d exists", height)
	}
	hash := b.bestChain[height].GetHash()
	b.chainLock.RUnlock()

	header, _, err := b.HeaderByHash(hash)
	return header, err
}

// NextRequiredBits calculates the required difficulty for the header after
// the end of the current best chain.
//
// This function is safe for concurrent access.
func (b *HeaderChain) NextRequiredBits(timestamp time.Time) (uint32, error) {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()
	return blockchain.CalcNextRequiredDifficulty(b.bestChain[len(b.bestChain)-1], timestamp, b.params)
}

// NetName returns the name of the network the chain follows.
func (b *HeaderChain) NetName() string {
	return b.params.Name
}

// Stats returns the chain values exported as metrics.
func (b *HeaderChain) Stats() map[string]float64 {
	best := b.BestSnapshot()

	b.chainLock.RLock()
	indexed := len(b.index)
	b.chainLock.RUnlock()

	b.cacheLock.Lock()
	cached := b.verified.Len()
	b.cacheLock.Unlock()

	return map[string]float64{
		"height":          float64(best.Height),
		"bits":            float64(best.Bits),
		"median_time":     float64(best.MedianTime.Unix()),
		"indexed_headers": float64(indexed),
		"verified_cache":  float64(cached),
	}
}
