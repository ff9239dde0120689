// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package proof

import (
	"errors"
	"fmt"

	"github.com/sprintertech/lane-bridge/lane"
)

var (
	ErrUnknownLane             = errors.New("unknown lane")
	ErrMissingRequiredHeader   = errors.New("bridged header is not finalized or unknown")
	ErrMalformedProof          = errors.New("malformed storage proof")
	ErrTooManyMessages         = errors.New("too many messages requested")
	ErrEmptyProof              = errors.New("proof contains neither messages nor lane state")
	ErrMissingRequiredMessage  = errors.New("message is missing from the proof")
	ErrFailedToDecodeMessage   = errors.New("failed to decode message")
	ErrFailedToDecodeLaneState = errors.New("failed to decode lane state")
	ErrMissingLaneState        = errors.New("lane state is missing from the proof")
	ErrWeightOutOfRange        = errors.New("declared message weight is out of range")
)

// VerificationError is returned for every rejected proof.
type VerificationError struct {
	Lane  lane.LaneID
	Nonce lane.MessageNonce
	Err   error
}

func (e *VerificationError) Error() string {
	if e.Nonce == 0 {
		return fmt.Sprintf("lane %s: %s", e.Lane, e.Err)
	}
	return fmt.Sprintf("lane %s, nonce %d: %s", e.Lane, e.Nonce, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

func verificationError(id lane.LaneID, nonce lane.MessageNonce, err error) error {
	return &VerificationError{Lane: id, Nonce: nonce, Err: err}
}
