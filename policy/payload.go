// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package policy

import (
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
)

// MessagePayload is the wire shape of an outbound message: the encoded call to dispatch at the
// bridged chain, its declared dispatch weight and the fee paid for delivery.
type MessagePayload struct {
	Call   []byte
	Weight Weight
	Fee    *big.Int
}

func (p MessagePayload) Encode(encoder scale.Encoder) error {
	err := encoder.Encode(p.Call)
	if err != nil {
		return err
	}

	err = encoder.Encode(types.NewU64(uint64(p.Weight)))
	if err != nil {
		return err
	}

	fee := p.Fee
	if fee == nil {
		fee = big.NewInt(0)
	}
	return encoder.Encode(types.NewU128(*fee))
}

func (p *MessagePayload) Decode(decoder scale.Decoder) error {
	err := decoder.Decode(&p.Call)
	if err != nil {
		return err
	}

	var weight types.U64
	err = decoder.Decode(&weight)
	if err != nil {
		return err
	}
	p.Weight = Weight(weight)

	var fee types.U128
	err = decoder.Decode(&fee)
	if err != nil {
		return err
	}
	p.Fee = fee.Int
	return nil
}

func EncodePayload(payload MessagePayload) ([]byte, error) {
	return codec.Encode(payload)
}

func DecodePayload(data []byte) (MessagePayload, error) {
	var payload MessagePayload
	err := codec.Decode(data, &payload)
	return payload, err
}
