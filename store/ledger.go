// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package store

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/rs/zerolog/log"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const REWARDS_PREFIX = "rewards"

// Reward is a range of messages delivered by this relayer and the fee paid for them at the
// source chain.
type Reward struct {
	Direction string            `json:"direction"`
	Lane      string            `json:"lane"`
	Begin     lane.MessageNonce `json:"begin"`
	End       lane.MessageNonce `json:"end"`
	Fee       *big.Int          `json:"fee"`
	Confirmed bool              `json:"confirmed"`
}

// RewardLedger persists delivered message ranges in LevelDB. Keys are ordered by lane,
// direction and the first nonce of the range.
type RewardLedger struct {
	db *leveldb.DB
}

func NewRewardLedger(path string) (*RewardLedger, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open reward ledger at %s: %w", path, err)
	}
	return &RewardLedger{db: db}, nil
}

// NewMemoryRewardLedger creates a ledger that is lost on Close.
func NewMemoryRewardLedger() (*RewardLedger, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &RewardLedger{db: db}, nil
}

func (l *RewardLedger) Close() error {
	return l.db.Close()
}

func (l *RewardLedger) RecordDelivery(direction string, id lane.LaneID, messages lane.DeliveredMessages, fee *big.Int) error {
	if fee == nil {
		fee = big.NewInt(0)
	}
	reward := Reward{
		Direction: direction,
		Lane:      id.String(),
		Begin:     messages.Begin,
		End:       messages.End,
		Fee:       fee,
	}
	value, err := json.Marshal(reward)
	if err != nil {
		return err
	}

	log.Debug().Str("lane", reward.Lane).Str("direction", direction).Msgf("Recording delivery of messages [%d, %d]", messages.Begin, messages.End)
	return l.db.Put(rewardKey(id, direction, messages.Begin), value, nil)
}

// ConfirmDelivery marks ranges ending at or below upTo as confirmed at the source chain.
func (l *RewardLedger) ConfirmDelivery(direction string, id lane.LaneID, upTo lane.MessageNonce) error {
	batch := new(leveldb.Batch)
	iter := l.db.NewIterator(util.BytesPrefix(directionPrefix(id, direction)), nil)
	for iter.Next() {
		var reward Reward
		err := json.Unmarshal(iter.Value(), &reward)
		if err != nil {
			iter.Release()
			return err
		}
		if reward.Confirmed || reward.End > upTo {
			continue
		}

		reward.Confirmed = true
		value, err := json.Marshal(reward)
		if err != nil {
			iter.Release()
			return err
		}
		batch.Put(append([]byte{}, iter.Key()...), value)
	}
	iter.Release()
	err := iter.Error()
	if err != nil {
		return err
	}

	if batch.Len() == 0 {
		return nil
	}
	return l.db.Write(batch, nil)
}

// Rewards returns every recorded range of the lane in both directions.
func (l *RewardLedger) Rewards(id lane.LaneID) ([]Reward, error) {
	rewards := make([]Reward, 0)
	iter := l.db.NewIterator(util.BytesPrefix(lanePrefix(id)), nil)
	defer iter.Release()

	for iter.Next() {
		var reward Reward
		err := json.Unmarshal(iter.Value(), &reward)
		if err != nil {
			return nil, err
		}
		rewards = append(rewards, reward)
	}
	return rewards, iter.Error()
}

// Totals sums fees of confirmed and pending ranges of the lane.
func (l *RewardLedger) Totals(id lane.LaneID) (confirmed *big.Int, pending *big.Int, err error) {
	rewards, err := l.Rewards(id)
	if err != nil {
		return nil, nil, err
	}

	confirmed = big.NewInt(0)
	pending = big.NewInt(0)
	for _, reward := range rewards {
		if reward.Confirmed {
			confirmed.Add(confirmed, reward.Fee)
		} else {
			pending.Add(pending, reward.Fee)
		}
	}
	return confirmed, pending, nil
}

func lanePrefix(id lane.LaneID) []byte {
	return []byte(fmt.Sprintf("%s:%s:", REWARDS_PREFIX, id))
}

func directionPrefix(id lane.LaneID, direction string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s:", REWARDS_PREFIX, id, direction))
}

// rewardKey pads the nonce so that keys iterate in nonce order.
func rewardKey(id lane.LaneID, direction string, begin lane.MessageNonce) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s:%020d", REWARDS_PREFIX, id, direction, begin))
}
