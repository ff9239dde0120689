// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package handlers

import (
	"net/http"

	"github.com/sprintertech/lane-bridge/relay"
)

type StatusProvider interface {
	All() []relay.LaneStatus
	Statuses(lane string) ([]relay.LaneStatus, error)
}

type LanesHandler struct {
	statuses StatusProvider
}

func NewLanesHandler(statuses StatusProvider) *LanesHandler {
	return &LanesHandler{
		statuses: statuses,
	}
}

// HandleList returns last observed statuses of every relayed lane direction
func (h *LanesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, h.statuses.All())
}

// HandleLane returns last observed statuses of both directions of the requested lane
func (h *LanesHandler) HandleLane(w http.ResponseWriter, r *http.Request) {
	id, err := laneVar(r)
	if err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}

	statuses, err := h.statuses.Statuses(id.String())
	if err != nil {
		JSONError(w, err, http.StatusNotFound)
		return
	}
	JSONResponse(w, statuses)
}
