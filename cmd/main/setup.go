package main

import (
	"fmt"
	"time"

	"stock-trend/src/analysis"
	datasource "stock-trend/src/data_source"
	"stock-trend/src/grpc_control"
	"stock-trend/src/interfaces"
	"stock-trend/src/logger"
	"stock-trend/src/models"
	"stock-trend/src/network"
	"stock-trend/src/server"
	"stock-trend/src/utils"
)

// app holds the long-lived components wired by setupApp
type app struct {
	clock   *utils.ReferenceClock
	sources *datasource.SourceManager
	api     *server.APIServer
	grpc    *grpc_control.Server
}

// -----------------------------------------------------------------------------

// setupApp builds every component from config
func setupApp(config *models.MConfig, appLogger *logger.Logger) (*app, error) {
	loc, err := utils.LoadLocation(config.Timezone)
	if err != nil {
		return nil, err
	}
	clock := utils.NewReferenceClock(loc, nil, logger.NewLogger(config, "ReferenceClock"))
	appLogger.Info("Reference date %s (%s)", clock.Today().Format(models.DateLayout), loc)

	networkManager := setupNetwork(config)

	appLogger.Info("Initializing data sources...")
	sources, err := datasource.NewSourceManagerFromConfig(config, networkManager, logger.NewLogger(config, "SourceManager"))
	if err != nil {
		return nil, fmt.Errorf("data sources: %w", err)
	}

	market := utils.NewMarketScheduler(logger.NewLogger(config, "MarketScheduler"))
	facade, err := analysis.NewAnalysisFacade(config, sources, clock, market, logger.NewLogger(config, "Analysis"))
	if err != nil {
		sources.Close()
		return nil, fmt.Errorf("analysis: %w", err)
	}

	api := server.NewAPIServer(config, facade, logger.NewLogger(config, "APIServer"))

	grpcLogger := logger.NewLogger(config, "ChartService")
	grpcServer := grpc_control.NewServer(grpc_control.NewChartService(facade, config.Chart.Height, grpcLogger), grpcLogger)

	// websocket clients learn about the new reference date on roll
	var exchanger interfaces.IDataExchanger = api
	clock.OnRoll(func(today time.Time) {
		exchanger.Broadcast(today)
	})

	return &app{clock: clock, sources: sources, api: api, grpc: grpcServer}, nil
}

// -----------------------------------------------------------------------------

// setupNetwork initializes the network manager
func setupNetwork(config *models.MConfig) interfaces.INetworkManager {
	networkLogger := logger.NewLogger(config, "NetworkManager")
	return network.NewAsyncNetworkManager(config, networkLogger)
}

// -----------------------------------------------------------------------------

func (a *app) shutdown(appLogger *logger.Logger) {
	a.clock.Stop()
	if err := a.api.Stop(); err != nil {
		appLogger.Warning("HTTP shutdown: %v", err)
	}
	a.grpc.Stop()
	if err := a.sources.Close(); err != nil {
		appLogger.Warning("Closing sources: %v", err)
	}
}
