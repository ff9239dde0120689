// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package handlers_test

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sprintertech/lane-bridge/api/handlers"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/store"
	"github.com/stretchr/testify/suite"
)

type RewardsHandlerTestSuite struct {
	suite.Suite

	ledger  *store.RewardLedger
	handler *handlers.RewardsHandler
}

func TestRunRewardsHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(RewardsHandlerTestSuite))
}

func (s *RewardsHandlerTestSuite) SetupTest() {
	ledger, err := store.NewMemoryRewardLedger()
	s.Nil(err)
	s.ledger = ledger
	s.handler = handlers.NewRewardsHandler(ledger)
}

func (s *RewardsHandlerTestSuite) TearDownTest() {
	s.Nil(s.ledger.Close())
}

func (s *RewardsHandlerTestSuite) Test_HandleRequest_InvalidLane() {
	req := httptest.NewRequest(http.MethodGet, "/v1/rewards/0x01", nil)
	req = mux.SetURLVars(req, map[string]string{
		"lane": "0x01",
	})
	recorder := httptest.NewRecorder()

	s.handler.HandleRequest(recorder, req)

	s.Equal(http.StatusBadRequest, recorder.Code)
}

func (s *RewardsHandlerTestSuite) Test_HandleRequest_ValidLane() {
	id := lane.LaneID{'t', 'e', 's', 't'}
	s.Nil(s.ledger.RecordDelivery("a-b", id, lane.DeliveredMessages{Begin: 1, End: 2}, big.NewInt(30)))
	s.Nil(s.ledger.RecordDelivery("a-b", id, lane.DeliveredMessages{Begin: 3, End: 3}, big.NewInt(12)))
	s.Nil(s.ledger.ConfirmDelivery("a-b", id, 2))

	req := httptest.NewRequest(http.MethodGet, "/v1/rewards/test", nil)
	req = mux.SetURLVars(req, map[string]string{
		"lane": "test",
	})
	recorder := httptest.NewRecorder()

	s.handler.HandleRequest(recorder, req)

	s.Equal(http.StatusOK, recorder.Code)
	var resp map[string]interface{}
	s.Nil(json.Unmarshal(recorder.Body.Bytes(), &resp))
	s.Equal("0x74657374", resp["lane"])
	s.Equal("30", resp["confirmed"])
	s.Equal("12", resp["pending"])
	s.Len(resp["rewards"], 2)
}
