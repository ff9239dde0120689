// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package runtime

import (
	"crypto/ecdsa"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog/log"
	"github.com/sprintertech/lane-bridge/chains"
	"github.com/sprintertech/lane-bridge/headerchain"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/policy"
	"github.com/sprintertech/lane-bridge/proof"
	"golang.org/x/crypto/blake2b"
)

const JUSTIFICATIONS_BUFFER = 128

var (
	ErrUnknownBlock       = errors.New("unknown block")
	ErrUnknownTransaction = errors.New("unknown transaction")
)

type Config struct {
	Name        string
	Messages    MessagesConfig
	HeaderChain headerchain.Config
	Bridge      *policy.MessageBridge
	// BlockDispatchWeight bounds the declared weight of messages dispatched in one block.
	BlockDispatchWeight policy.Weight
	// Authorities finalize blocks of the chain.
	Authorities []*ecdsa.PrivateKey
	Dispatcher  Dispatcher
}

type TxID uint64

type transaction struct {
	id    TxID
	call  Call
	block uint64
	err   error
}

type Block struct {
	Header        headerchain.Header
	Transactions  []TxID
	Events        []Event
	Justification *headerchain.Justification

	setID       uint64
	authorities []*ecdsa.PrivateKey
	state       *proof.StateTrie
}

// JustifiedHeader is a finality notification of the chain.
type JustifiedHeader struct {
	Header        headerchain.Header
	Justification headerchain.Justification
}

// Chain is an in-process chain running the bridge modules. Blocks are produced and finalized
// on demand and every state transition is serialized.
type Chain struct {
	lock sync.RWMutex
	cfg  Config

	state    *State
	balances *Balances
	headers  *headerchain.Pallet
	messages *Messages

	blocks    []*Block
	byHash    map[types.Hash]uint64
	finalized uint64

	txs     map[TxID]*transaction
	pending []*transaction
	nextTx  TxID
	events  []Event

	authorities     []*ecdsa.PrivateKey
	setID           uint64
	scheduledChange []*ecdsa.PrivateKey

	subscribers map[int]chan JustifiedHeader
	nextSub     int
}

// NewChain creates the chain with a finalized genesis block.
func NewChain(cfg Config) (*Chain, error) {
	if cfg.Bridge == nil {
		return nil, fmt.Errorf("chain %s has no message bridge policy", cfg.Name)
	}
	if len(cfg.Authorities) == 0 {
		return nil, fmt.Errorf("chain %s has no authorities", cfg.Name)
	}
	if cfg.Dispatcher == nil {
		cfg.Dispatcher = DispatcherFunc(func(lane.Message, policy.MessagePayload) error { return nil })
	}

	c := &Chain{
		cfg:         cfg,
		state:       NewState(),
		balances:    NewBalances(),
		headers:     headerchain.NewPallet(cfg.HeaderChain),
		byHash:      make(map[types.Hash]uint64),
		txs:         make(map[TxID]*transaction),
		authorities: cfg.Authorities,
		subscribers: make(map[int]chan JustifiedHeader),
	}
	c.messages = newMessages(cfg.Messages, c.state, c.balances, cfg.Bridge, c.headers, c)
	c.messages.initializeLanes()

	genesis, err := c.seal(0, types.Hash{}, nil)
	if err != nil {
		return nil, err
	}
	justification, err := headerchain.NewJustification(0, genesis.Header, genesis.setID, genesis.authorities)
	if err != nil {
		return nil, err
	}
	genesis.Justification = &justification
	return c, nil
}

func (c *Chain) Name() string {
	return c.cfg.Name
}

// AuthoritySet returns the authority set that finalizes the next produced block.
func (c *Chain) AuthoritySet() headerchain.AuthoritySet {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return headerchain.AuthoritySet{Authorities: addresses(c.authorities), SetID: c.setID}
}

// ScheduleAuthorityChange makes the next produced block a mandatory header that enacts the new set.
func (c *Chain) ScheduleAuthorityChange(authorities []*ecdsa.PrivateKey) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.scheduledChange = authorities
}

// InitializeBridge initializes the header chain of the bridged chain.
func (c *Chain) InitializeBridge(origin headerchain.Origin, data headerchain.InitializationData) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.headers.Initialize(origin, data)
}

// Endow deposits amount to account, used to fund accounts at genesis.
func (c *Chain) Endow(account lane.RelayerID, amount *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.balances.Deposit(account, amount)
}

func (c *Chain) Balance(account lane.RelayerID) *big.Int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.balances.Balance(account)
}

// Submit queues the call for the next block.
func (c *Chain) Submit(call Call) TxID {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.nextTx++
	tx := &transaction{id: c.nextTx, call: call}
	c.txs[tx.id] = tx
	c.pending = append(c.pending, tx)
	return tx.id
}

// TxStatus returns the status of a submitted transaction. Transactions that fail to
// dispatch are lost as soon as they are included.
func (c *Chain) TxStatus(id TxID) (chains.TxStatus, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	tx, ok := c.txs[id]
	if !ok {
		return chains.TxLost, ErrUnknownTransaction
	}
	switch {
	case tx.block == 0:
		return chains.TxPending, nil
	case tx.err != nil:
		return chains.TxLost, nil
	case tx.block <= c.finalized:
		return chains.TxFinalized, nil
	default:
		return chains.TxIncluded, nil
	}
}

// TxError returns the dispatch error of an included transaction.
func (c *Chain) TxError(id TxID) error {
	c.lock.RLock()
	defer c.lock.RUnlock()

	tx, ok := c.txs[id]
	if !ok {
		return ErrUnknownTransaction
	}
	return tx.err
}

// ProduceBlock executes queued transactions and seals a new block.
func (c *Chain) ProduceBlock() (headerchain.Header, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	number := uint64(len(c.blocks))
	remaining := c.cfg.BlockDispatchWeight
	processor := &budgetProcessor{chain: c, dispatcher: c.cfg.Dispatcher, remaining: &remaining}

	c.headers.OnInitialize()
	c.messages.processQueued(processor)

	pending := c.pending
	c.pending = nil
	ids := make([]TxID, 0, len(pending))
	for _, tx := range pending {
		tx.block = number
		tx.err = tx.call.dispatch(c, processor)
		if tx.err != nil {
			log.Debug().Str("chain", c.cfg.Name).Err(tx.err).Msgf("Transaction %d (%s) failed", tx.id, tx.call.Name())
		}
		ids = append(ids, tx.id)
	}

	block, err := c.seal(number, c.blocks[number-1].Header.Hash(), ids)
	if err != nil {
		return headerchain.Header{}, err
	}
	log.Debug().Str("chain", c.cfg.Name).Msgf("Produced block %d with %d transactions", number, len(ids))
	return block.Header, nil
}

func (c *Chain) seal(number uint64, parent types.Hash, txs []TxID) (*Block, error) {
	root, snapshot, err := c.state.Commit()
	if err != nil {
		return nil, err
	}

	header := headerchain.Header{
		ParentHash:     parent,
		Number:         number,
		StateRoot:      root,
		ExtrinsicsRoot: extrinsicsRoot(txs),
	}
	block := &Block{
		Transactions: txs,
		Events:       c.events,
		setID:        c.setID,
		authorities:  c.authorities,
		state:        snapshot,
	}
	if c.scheduledChange != nil {
		header.ScheduledChange = &headerchain.ScheduledChange{NextAuthorities: addresses(c.scheduledChange)}
		c.authorities = c.scheduledChange
		c.setID++
		c.scheduledChange = nil
	}
	block.Header = header

	c.blocks = append(c.blocks, block)
	c.byHash[header.Hash()] = number
	c.events = nil
	return block, nil
}

// Finalize finalizes blocks up to number. Justifications are generated for the target block
// and every mandatory block in between and sent to subscribers.
func (c *Chain) Finalize(number uint64) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if number >= uint64(len(c.blocks)) {
		return fmt.Errorf("%w: %d", ErrUnknownBlock, number)
	}

	for n := c.finalized + 1; n <= number; n++ {
		block := c.blocks[n]
		if n != number && !block.Header.IsMandatory() {
			continue
		}

		justification, err := headerchain.NewJustification(n, block.Header, block.setID, block.authorities)
		if err != nil {
			return err
		}
		block.Justification = &justification
		c.notify(JustifiedHeader{Header: block.Header, Justification: justification})
	}

	if number > c.finalized {
		c.finalized = number
	}
	return nil
}

func (c *Chain) notify(justified JustifiedHeader) {
	for id, subscriber := range c.subscribers {
		select {
		case subscriber <- justified:
		default:
			log.Warn().Str("chain", c.cfg.Name).Msgf("Justification subscriber %d is full, dropping justification %d", id, justified.Header.Number)
		}
	}
}

// SubscribeJustifications returns a channel of future justifications and a function that
// ends the subscription.
func (c *Chain) SubscribeJustifications() (<-chan JustifiedHeader, func()) {
	c.lock.Lock()
	defer c.lock.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan JustifiedHeader, JUSTIFICATIONS_BUFFER)
	c.subscribers[id] = ch

	return ch, func() {
		c.lock.Lock()
		defer c.lock.Unlock()

		if subscriber, ok := c.subscribers[id]; ok {
			close(subscriber)
			delete(c.subscribers, id)
		}
	}
}

// CloseSubscriptions ends every justification subscription.
func (c *Chain) CloseSubscriptions() {
	c.lock.Lock()
	defer c.lock.Unlock()

	for id, subscriber := range c.subscribers {
		close(subscriber)
		delete(c.subscribers, id)
	}
}

func (c *Chain) depositEvent(event Event) {
	c.events = append(c.events, event)
}

func (c *Chain) GenesisHash() types.Hash {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.blocks[0].Header.Hash()
}

func (c *Chain) BestHeader() headerchain.Header {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.blocks[len(c.blocks)-1].Header
}

func (c *Chain) BestFinalizedHeader() headerchain.Header {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.blocks[c.finalized].Header
}

func (c *Chain) HeaderByNumber(number uint64) (headerchain.Header, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if number >= uint64(len(c.blocks)) {
		return headerchain.Header{}, false
	}
	return c.blocks[number].Header, true
}

// Justification returns the justification of a finalized block, if the block was justified.
func (c *Chain) Justification(number uint64) (headerchain.Justification, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if number > c.finalized || c.blocks[number].Justification == nil {
		return headerchain.Justification{}, false
	}
	return *c.blocks[number].Justification, true
}

func (c *Chain) Events(number uint64) []Event {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if number >= uint64(len(c.blocks)) {
		return nil
	}
	return c.blocks[number].Events
}

// BestFinalizedPeer returns the best bridged chain header imported by the header chain.
func (c *Chain) BestFinalizedPeer() (chains.HeaderID, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.headers.BestFinalized()
}

func (c *Chain) OutboundLaneData(id lane.LaneID) lane.OutboundLaneData {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.messages.OutboundLaneData(id)
}

func (c *Chain) InboundLaneData(id lane.LaneID) lane.InboundLaneData {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.messages.InboundLaneData(id)
}

func (c *Chain) OutboundMessage(id lane.LaneID, nonce lane.MessageNonce) (lane.MessageData, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.messages.OutboundMessage(id, nonce)
}

// OutboundLaneDataAt reads the outbound lane state of the block at.
func (c *Chain) OutboundLaneDataAt(id lane.LaneID, at types.Hash) (lane.OutboundLaneData, error) {
	var data lane.OutboundLaneData
	err := c.readAt(at, c.messages.keys.OutboundLaneDataKey(id), &data)
	return data, err
}

// InboundLaneDataAt reads the inbound lane state of the block at.
func (c *Chain) InboundLaneDataAt(id lane.LaneID, at types.Hash) (lane.InboundLaneData, error) {
	data := lane.DefaultInboundLaneData()
	err := c.readAt(at, c.messages.keys.InboundLaneDataKey(id), &data)
	return data, err
}

func (c *Chain) readAt(at types.Hash, key []byte, target interface{}) error {
	block, err := c.block(at)
	if err != nil {
		return err
	}

	value, err := block.state.Get(key)
	if err != nil || value == nil {
		return err
	}
	return codec.Decode(value, target)
}

// ProveMessages proves messages [begin, end] of the lane, and the outbound lane state if
// includeState is set, at the block at.
func (c *Chain) ProveMessages(id lane.LaneID, begin, end lane.MessageNonce, includeState bool, at types.Hash) (proof.MessagesProof, error) {
	block, err := c.block(at)
	if err != nil {
		return proof.MessagesProof{}, err
	}

	keys := make([][]byte, 0)
	for nonce := begin; nonce <= end && begin != 0; nonce++ {
		keys = append(keys, c.messages.keys.MessageKey(id, nonce))
	}
	if includeState {
		keys = append(keys, c.messages.keys.OutboundLaneDataKey(id))
	}

	nodes, err := block.state.Prove(keys...)
	if err != nil {
		return proof.MessagesProof{}, err
	}
	return proof.MessagesProof{
		BridgedHeaderHash: at,
		StorageProof:      nodes,
		Lane:              id,
		NoncesStart:       begin,
		NoncesEnd:         end,
	}, nil
}

// ProveMessagesDelivery proves the inbound lane state at the block at.
func (c *Chain) ProveMessagesDelivery(id lane.LaneID, at types.Hash) (proof.MessagesDeliveryProof, error) {
	block, err := c.block(at)
	if err != nil {
		return proof.MessagesDeliveryProof{}, err
	}

	nodes, err := block.state.Prove(c.messages.keys.InboundLaneDataKey(id))
	if err != nil {
		return proof.MessagesDeliveryProof{}, err
	}
	return proof.MessagesDeliveryProof{
		BridgedHeaderHash: at,
		StorageProof:      nodes,
		Lane:              id,
	}, nil
}

func (c *Chain) block(hash types.Hash) (*Block, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	number, ok := c.byHash[hash]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBlock, hash.Hex())
	}
	return c.blocks[number], nil
}

func addresses(keys []*ecdsa.PrivateKey) []common.Address {
	result := make([]common.Address, len(keys))
	for i, key := range keys {
		result[i] = crypto.PubkeyToAddress(key.PublicKey)
	}
	return result
}

func extrinsicsRoot(txs []TxID) types.Hash {
	encoded := make([]byte, 8*len(txs))
	for i, tx := range txs {
		binary.LittleEndian.PutUint64(encoded[i*8:], uint64(tx))
	}
	return types.Hash(blake2b.Sum256(encoded))
}
