// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package price_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sprintertech/lane-bridge/price"
	"github.com/stretchr/testify/suite"
)

func quoteResponse(prices map[string]string) []byte {
	response := price.CoinmarketcapResponse{
		Data: make(map[string]price.TokenData),
	}
	for symbol, p := range prices {
		response.Data[symbol] = price.TokenData{
			Quote: price.Quote{USD: price.USDQuote{Price: decimal.RequireFromString(p)}},
		}
	}
	respBytes, _ := json.Marshal(response)
	return respBytes
}

type CoinmarketcapAPITestSuite struct {
	suite.Suite
	api        *price.CoinmarketcapAPI
	testServer *httptest.Server
}

func TestRunCoinmarketcapAPITestSuite(t *testing.T) {
	suite.Run(t, new(CoinmarketcapAPITestSuite))
}

func (s *CoinmarketcapAPITestSuite) SetupTest() {
	s.testServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/cryptocurrency/quotes/latest" && r.URL.Query().Get("symbol") == "DOT" {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(quoteResponse(map[string]string{"DOT": "4.125"}))
			return
		}

		w.WriteHeader(http.StatusBadRequest)
	}))

	s.api = price.NewCoinmarketcapAPI(s.testServer.URL, "test-api-key", 0)
}

func (s *CoinmarketcapAPITestSuite) TearDownTest() {
	s.testServer.Close()
}

func (s *CoinmarketcapAPITestSuite) TestTokenPrice_Success() {
	p, err := s.api.TokenPrice(context.Background(), "DOT")

	s.Nil(err)
	s.True(decimal.RequireFromString("4.125").Equal(p))
}

func (s *CoinmarketcapAPITestSuite) TestTokenPrice_InvalidSymbol() {
	p, err := s.api.TokenPrice(context.Background(), "INVALID")

	s.NotNil(err)
	s.True(p.IsZero())
}

func (s *CoinmarketcapAPITestSuite) TestTokenPrice_APIError() {
	s.testServer.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"status": {"error_code": 500, "error_message": "Internal Server Error"}}`)
	})

	p, err := s.api.TokenPrice(context.Background(), "DOT")

	s.NotNil(err)
	s.Contains(err.Error(), "HTTP request failed with status code 500")
	s.True(p.IsZero())
}

func (s *CoinmarketcapAPITestSuite) TestTokenPrice_ErrorStatus() {
	s.testServer.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"status": {"error_code": 1002, "error_message": "API key missing"}}`)
	})

	_, err := s.api.TokenPrice(context.Background(), "DOT")

	s.NotNil(err)
	s.Contains(err.Error(), "1002")
}
