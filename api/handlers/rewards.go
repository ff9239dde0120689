// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package handlers

import (
	"math/big"
	"net/http"

	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/store"
)

type RewardReader interface {
	Rewards(id lane.LaneID) ([]store.Reward, error)
	Totals(id lane.LaneID) (*big.Int, *big.Int, error)
}

type RewardEntry struct {
	Direction string            `json:"direction"`
	Begin     lane.MessageNonce `json:"begin"`
	End       lane.MessageNonce `json:"end"`
	Fee       BigInt            `json:"fee"`
	Confirmed bool              `json:"confirmed"`
}

type RewardsResponse struct {
	Lane      string        `json:"lane"`
	Confirmed BigInt        `json:"confirmed"`
	Pending   BigInt        `json:"pending"`
	Rewards   []RewardEntry `json:"rewards"`
}

type RewardsHandler struct {
	ledger RewardReader
}

func NewRewardsHandler(ledger RewardReader) *RewardsHandler {
	return &RewardsHandler{
		ledger: ledger,
	}
}

// HandleRequest returns message ranges delivered by this relayer on the requested lane
func (h *RewardsHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	id, err := laneVar(r)
	if err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}

	rewards, err := h.ledger.Rewards(id)
	if err != nil {
		JSONError(w, err, http.StatusInternalServerError)
		return
	}
	confirmed, pending, err := h.ledger.Totals(id)
	if err != nil {
		JSONError(w, err, http.StatusInternalServerError)
		return
	}

	resp := RewardsResponse{
		Lane:      id.String(),
		Confirmed: BigInt{confirmed},
		Pending:   BigInt{pending},
		Rewards:   make([]RewardEntry, len(rewards)),
	}
	for i, reward := range rewards {
		resp.Rewards[i] = RewardEntry{
			Direction: reward.Direction,
			Begin:     reward.Begin,
			End:       reward.End,
			Fee:       BigInt{reward.Fee},
			Confirmed: reward.Confirmed,
		}
	}
	JSONResponse(w, resp)
}
