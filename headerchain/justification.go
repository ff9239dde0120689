// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package headerchain

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type SignedPrecommit struct {
	Authority common.Address
	Signature [65]byte
}

// Justification proves that the authority set finalized TargetHash. The encoding starts with
// round, target hash and target number so the target of a proof can be read without
// decoding signatures.
type Justification struct {
	Round        uint64
	TargetHash   types.Hash
	TargetNumber uint32
	Precommits   []SignedPrecommit
}

func EncodeJustification(j Justification) ([]byte, error) {
	return codec.Encode(j)
}

func DecodeJustification(data []byte) (Justification, error) {
	var j Justification
	err := codec.Decode(data, &j)
	return j, err
}

type signedMessage struct {
	Round        uint64
	TargetHash   types.Hash
	TargetNumber uint32
	SetID        uint64
}

func precommitHash(round uint64, target Header, setID uint64) ([]byte, error) {
	encoded, err := codec.Encode(signedMessage{
		Round:        round,
		TargetHash:   target.Hash(),
		TargetNumber: uint32(target.Number),
		SetID:        setID,
	})
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(encoded), nil
}

// NewJustification signs target with every key.
func NewJustification(round uint64, target Header, setID uint64, keys []*ecdsa.PrivateKey) (Justification, error) {
	hash, err := precommitHash(round, target, setID)
	if err != nil {
		return Justification{}, err
	}

	precommits := make([]SignedPrecommit, 0, len(keys))
	for _, key := range keys {
		sig, err := crypto.Sign(hash, key)
		if err != nil {
			return Justification{}, err
		}

		precommit := SignedPrecommit{Authority: crypto.PubkeyToAddress(key.PublicKey)}
		copy(precommit.Signature[:], sig)
		precommits = append(precommits, precommit)
	}

	return Justification{
		Round:        round,
		TargetHash:   target.Hash(),
		TargetNumber: uint32(target.Number),
		Precommits:   precommits,
	}, nil
}

// VerifyJustification checks that more than 2/3 of the authority set signed the target header.
func VerifyJustification(j Justification, target Header, set AuthoritySet) error {
	if j.TargetHash != target.Hash() || uint64(j.TargetNumber) != target.Number {
		return fmt.Errorf("justification targets %d/%s", j.TargetNumber, j.TargetHash.Hex())
	}

	hash, err := precommitHash(j.Round, target, set.SetID)
	if err != nil {
		return err
	}

	signed := make(map[common.Address]bool)
	for _, precommit := range j.Precommits {
		if !set.Contains(precommit.Authority) {
			return fmt.Errorf("precommit of unknown authority %s", precommit.Authority)
		}
		if signed[precommit.Authority] {
			return fmt.Errorf("duplicate precommit of authority %s", precommit.Authority)
		}

		pub, err := crypto.SigToPub(hash, precommit.Signature[:])
		if err != nil {
			return fmt.Errorf("invalid precommit signature of %s: %w", precommit.Authority, err)
		}
		if crypto.PubkeyToAddress(*pub) != precommit.Authority {
			return fmt.Errorf("precommit of %s is signed by another key", precommit.Authority)
		}
		signed[precommit.Authority] = true
	}

	if len(signed) < set.Threshold() {
		return fmt.Errorf("%d precommits, %d required", len(signed), set.Threshold())
	}
	return nil
}
