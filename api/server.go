// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/sprintertech/lane-bridge/api/handlers"
)

func NewRouter(lanesHandler *handlers.LanesHandler, rewardsHandler *handlers.RewardsHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/v1/lanes", lanesHandler.HandleList).Methods("GET")
	r.HandleFunc("/v1/lanes/{lane}", lanesHandler.HandleLane).Methods("GET")
	r.HandleFunc("/v1/rewards/{lane}", rewardsHandler.HandleRequest).Methods("GET")
	return r
}

// Serve serves the bridge API until ctx is done.
func Serve(
	ctx context.Context,
	addr string,
	lanesHandler *handlers.LanesHandler,
	rewardsHandler *handlers.RewardsHandler,
) {
	server := &http.Server{
		Addr:        addr,
		Handler:     NewRouter(lanesHandler, rewardsHandler),
		ReadTimeout: time.Second * 10,
	}
	go func() {
		log.Info().Msgf("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		log.Err(err).Msgf("Error shutting down server")
	} else {
		log.Info().Msgf("Server shut down gracefully.")
	}
}
