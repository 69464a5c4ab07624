package main

import (
	"fmt"

	"stock-trend/src/logger"
	"stock-trend/src/models"
)

// -----------------------------------------------------------------------------

// startServers launches the clock, the HTTP server and the gRPC server.
// The returned channel receives the first fatal server error.
func startServers(a *app, config *models.MConfig, appLogger *logger.Logger) <-chan error {
	errs := make(chan error, 3)

	// 1. Midnight roll of the reference date
	if err := a.clock.Start(); err != nil {
		errs <- err
		return errs
	}

	// 2. HTTP + websocket
	go func() {
		if err := a.api.Start(); err != nil {
			errs <- fmt.Errorf("http: %w", err)
		}
	}()

	// 3. gRPC chart service (disabled with grpc_port < 0)
	if config.GrpcPort > 0 {
		go func() {
			if err := a.grpc.ListenAndServe(config.GrpcHost, config.GrpcPort); err != nil {
				errs <- fmt.Errorf("grpc: %w", err)
			}
		}()
	} else {
		appLogger.Info("gRPC chart service disabled")
	}

	return errs
}
