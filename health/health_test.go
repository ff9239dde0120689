// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package health_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sprintertech/lane-bridge/health"
	"github.com/stretchr/testify/suite"
)

type HealthTestSuite struct {
	suite.Suite
}

func TestRunHealthTestSuite(t *testing.T) {
	suite.Run(t, new(HealthTestSuite))
}

func (s *HealthTestSuite) Test_Handler_Healthy() {
	recorder := httptest.NewRecorder()

	health.Handler(func() error { return nil })(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	s.Equal(http.StatusOK, recorder.Code)
	s.Equal("ok", recorder.Body.String())
}

func (s *HealthTestSuite) Test_Handler_FailedCheck() {
	recorder := httptest.NewRecorder()

	health.Handler(
		func() error { return nil },
		func() error { return errors.New("reward ledger closed") },
	)(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	s.Equal(http.StatusServiceUnavailable, recorder.Code)
	s.Equal("reward ledger closed", recorder.Body.String())
}
