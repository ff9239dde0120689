// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package headerchain

import (
	"errors"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/rs/zerolog/log"
	"github.com/sprintertech/lane-bridge/chains"
	"github.com/sprintertech/lane-bridge/lane"
)

var (
	ErrBadOrigin                  = errors.New("origin is not allowed to call this method")
	ErrAlreadyInitialized         = errors.New("header chain is already initialized")
	ErrNotInitialized             = errors.New("header chain is not initialized")
	ErrHalted                     = errors.New("header chain operations are halted")
	ErrTooManyRequests            = errors.New("too many finality proofs in this block")
	ErrOldHeader                  = errors.New("header is not newer than the best finalized header")
	ErrInvalidJustification       = errors.New("invalid justification")
	ErrInvalidAuthoritySet        = errors.New("invalid authority set")
	ErrUnsupportedScheduledChange = errors.New("delayed authority set changes are not supported")
)

// Origin is the caller of a dispatchable method.
type Origin struct {
	Root   bool
	Signer lane.RelayerID
}

func RootOrigin() Origin {
	return Origin{Root: true}
}

func SignedOrigin(signer lane.RelayerID) Origin {
	return Origin{Signer: signer}
}

type Config struct {
	// MaxRequests is the number of finality proofs accepted before OnInitialize calls decay the counter.
	MaxRequests uint32
	// HeadersToKeep bounds the number of imported headers whose state roots are kept.
	HeadersToKeep int
}

type InitializationData struct {
	Header       Header
	AuthoritySet AuthoritySet
	IsHalted     bool
}

type storedHeader struct {
	number    uint64
	stateRoot types.Hash
}

// Pallet is the on-chain light client of the bridged chain. Calls are serialized by the
// enclosing runtime.
type Pallet struct {
	cfg Config

	initialized  bool
	halted       bool
	owner        *lane.RelayerID
	requestCount uint32

	best         chains.HeaderID
	authoritySet AuthoritySet
	headers      map[types.Hash]storedHeader
	imported     []types.Hash
}

func NewPallet(cfg Config) *Pallet {
	return &Pallet{
		cfg:     cfg,
		headers: make(map[types.Hash]storedHeader),
	}
}

// Initialize sets the first finalized header and authority set. Only root or the owner may
// call it and only once.
func (p *Pallet) Initialize(origin Origin, data InitializationData) error {
	if !p.isRootOrOwner(origin) {
		return ErrBadOrigin
	}
	if p.initialized {
		return ErrAlreadyInitialized
	}
	if len(data.AuthoritySet.Authorities) == 0 {
		return ErrInvalidAuthoritySet
	}

	p.initialized = true
	p.halted = data.IsHalted
	p.authoritySet = data.AuthoritySet
	p.importHeader(data.Header)

	log.Info().Msgf("Initialized header chain at %s with authority set %d", p.best, p.authoritySet.SetID)
	return nil
}

// SubmitFinalityProof imports a header finalized by the current authority set.
func (p *Pallet) SubmitFinalityProof(origin Origin, header Header, justification Justification) error {
	if !p.initialized {
		return ErrNotInitialized
	}
	if p.halted {
		return ErrHalted
	}
	if p.cfg.MaxRequests != 0 && p.requestCount >= p.cfg.MaxRequests {
		return ErrTooManyRequests
	}
	if header.Number <= p.best.Number {
		return fmt.Errorf("%w: %d, best is %d", ErrOldHeader, header.Number, p.best.Number)
	}

	err := VerifyJustification(justification, header, p.authoritySet)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidJustification, err)
	}

	if header.ScheduledChange != nil {
		if header.ScheduledChange.Delay != 0 {
			return ErrUnsupportedScheduledChange
		}
		if len(header.ScheduledChange.NextAuthorities) == 0 {
			return ErrInvalidAuthoritySet
		}

		p.authoritySet = AuthoritySet{
			Authorities: header.ScheduledChange.NextAuthorities,
			SetID:       p.authoritySet.SetID + 1,
		}
		log.Info().Msgf("Enacted authority set %d at header %d", p.authoritySet.SetID, header.Number)
	}

	p.requestCount++
	p.importHeader(header)
	return nil
}

// OnInitialize is called at the start of every block of the chain hosting the pallet.
func (p *Pallet) OnInitialize() {
	if p.requestCount > 0 {
		p.requestCount--
	}
}

func (p *Pallet) SetOwner(origin Origin, owner *lane.RelayerID) error {
	if !p.isRootOrOwner(origin) {
		return ErrBadOrigin
	}

	p.owner = owner
	return nil
}

func (p *Pallet) HaltOperations(origin Origin) error {
	return p.setOperational(origin, true)
}

func (p *Pallet) ResumeOperations(origin Origin) error {
	return p.setOperational(origin, false)
}

func (p *Pallet) setOperational(origin Origin, halted bool) error {
	if !p.isRootOrOwner(origin) {
		return ErrBadOrigin
	}

	p.halted = halted
	return nil
}

func (p *Pallet) IsHalted() bool {
	return p.halted
}

func (p *Pallet) IsInitialized() bool {
	return p.initialized
}

// BestFinalized returns the best imported header, false if the pallet is not initialized.
func (p *Pallet) BestFinalized() (chains.HeaderID, bool) {
	return p.best, p.initialized
}

func (p *Pallet) AuthoritySet() AuthoritySet {
	return p.authoritySet
}

func (p *Pallet) IsKnownHeader(hash types.Hash) bool {
	_, ok := p.headers[hash]
	return ok
}

// StateRoot returns the state root of an imported finalized header.
func (p *Pallet) StateRoot(hash types.Hash) (types.Hash, bool) {
	header, ok := p.headers[hash]
	return header.stateRoot, ok
}

func (p *Pallet) importHeader(header Header) {
	hash := header.Hash()
	p.best = chains.HeaderID{Number: header.Number, Hash: hash}
	p.headers[hash] = storedHeader{number: header.Number, stateRoot: header.StateRoot}
	p.imported = append(p.imported, hash)

	if p.cfg.HeadersToKeep > 0 && len(p.imported) > p.cfg.HeadersToKeep {
		delete(p.headers, p.imported[0])
		p.imported = p.imported[1:]
	}
}

func (p *Pallet) isRootOrOwner(origin Origin) bool {
	if origin.Root {
		return true
	}
	return p.owner != nil && *p.owner == origin.Signer
}
