// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package headerchain

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sprintertech/lane-bridge/chains"
	"golang.org/x/crypto/blake2b"
)

// AuthoritySet is the set of keys whose signatures finalize headers.
type AuthoritySet struct {
	Authorities []common.Address
	SetID       uint64
}

func (s AuthoritySet) Contains(authority common.Address) bool {
	for _, a := range s.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// Threshold is the minimal number of signatures that is more than 2/3 of the set.
func (s AuthoritySet) Threshold() int {
	n := len(s.Authorities)
	if n == 0 {
		return 1
	}
	return n - (n-1)/3
}

// ScheduledChange announces the authority set that becomes active after Delay blocks.
type ScheduledChange struct {
	NextAuthorities []common.Address
	Delay           uint64
}

// Header is the header of a bridged chain block.
type Header struct {
	ParentHash      types.Hash
	Number          uint64
	StateRoot       types.Hash
	ExtrinsicsRoot  types.Hash
	ScheduledChange *ScheduledChange
}

func (h Header) Encode(encoder scale.Encoder) error {
	err := encoder.Encode(h.ParentHash)
	if err != nil {
		return err
	}
	err = encoder.Encode(h.Number)
	if err != nil {
		return err
	}
	err = encoder.Encode(h.StateRoot)
	if err != nil {
		return err
	}
	err = encoder.Encode(h.ExtrinsicsRoot)
	if err != nil {
		return err
	}

	if h.ScheduledChange == nil {
		return encoder.EncodeOption(false, nil)
	}
	return encoder.EncodeOption(true, *h.ScheduledChange)
}

func (h *Header) Decode(decoder scale.Decoder) error {
	err := decoder.Decode(&h.ParentHash)
	if err != nil {
		return err
	}
	err = decoder.Decode(&h.Number)
	if err != nil {
		return err
	}
	err = decoder.Decode(&h.StateRoot)
	if err != nil {
		return err
	}
	err = decoder.Decode(&h.ExtrinsicsRoot)
	if err != nil {
		return err
	}

	var hasChange bool
	change := ScheduledChange{}
	err = decoder.DecodeOption(&hasChange, &change)
	if err != nil {
		return err
	}
	if hasChange {
		h.ScheduledChange = &change
	} else {
		h.ScheduledChange = nil
	}
	return nil
}

// Hash is the blake2b-256 hash of the encoded header.
func (h Header) Hash() types.Hash {
	encoded, err := codec.Encode(h)
	if err != nil {
		return types.Hash{}
	}
	return types.Hash(blake2b.Sum256(encoded))
}

func (h Header) ID() chains.HeaderID {
	return chains.HeaderID{Number: h.Number, Hash: h.Hash()}
}

// IsMandatory reports whether the header changes the authority set and so has to be
// imported by the bridged header chain.
func (h Header) IsMandatory() bool {
	return h.ScheduledChange != nil
}
