// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package price

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"
)

const (
	PRICE_RETRIES         = 3
	PRICE_RETRY_WAIT_MIN  = time.Millisecond * 500
	PRICE_RETRY_WAIT_MAX  = time.Second * 5
	PRICE_REQUEST_TIMEOUT = time.Second * 10
)

type USDQuote struct {
	Price decimal.Decimal `json:"price"`
}

type Quote struct {
	USD USDQuote `json:"USD"`
}

type TokenData struct {
	Quote Quote `json:"quote"`
}

type ResponseStatus struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type CoinmarketcapResponse struct {
	Status ResponseStatus       `json:"status"`
	Data   map[string]TokenData `json:"data"`
}

type CoinmarketcapAPI struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewCoinmarketcapAPI creates the client retrying failed requests up to retries times after the
// initial attempt.
func NewCoinmarketcapAPI(url string, apiKey string, retries int) *CoinmarketcapAPI {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retries
	retryClient.RetryWaitMin = PRICE_RETRY_WAIT_MIN
	retryClient.RetryWaitMax = PRICE_RETRY_WAIT_MAX
	retryClient.HTTPClient.Timeout = PRICE_REQUEST_TIMEOUT
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	return &CoinmarketcapAPI{
		url:        url,
		apiKey:     apiKey,
		httpClient: retryClient.StandardClient(),
	}
}

// TokenPrice returns the USD price of the token.
func (c *CoinmarketcapAPI) TokenPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/v1/cryptocurrency/quotes/latest?symbol=%s", c.url, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Accepts", "application/json")
	req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("HTTP request failed with status code %d", resp.StatusCode)
	}

	response, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, err
	}
	var cmcResponse CoinmarketcapResponse
	err = json.Unmarshal(response, &cmcResponse)
	if err != nil {
		return decimal.Zero, err
	}

	if cmcResponse.Status.ErrorCode != 0 {
		return decimal.Zero, fmt.Errorf("API Error: %d - %s", cmcResponse.Status.ErrorCode, cmcResponse.Status.ErrorMessage)
	}

	data, ok := cmcResponse.Data[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("no quote for token %s", symbol)
	}
	return data.Quote.USD.Price, nil
}
