package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stock-trend/src/config"
	"stock-trend/src/logger"

	"github.com/joho/godotenv"
)

// -----------------------------------------------------------------------------

func main() {
	// 1. Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	envPath := flag.String("env", ".env", "optional dotenv file with credentials")
	writeConfig := flag.Bool("write-config", false, "write the built-in defaults to -config and exit")
	flag.Parse()

	if *writeConfig {
		if err := config.Default().Save(*configPath); err != nil {
			fmt.Printf("Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default config to %s\n", *configPath)
		return
	}

	// 2. Environment before config, so overrides and credentials apply
	if err := godotenv.Load(*envPath); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading %s: %v\n", *envPath, err)
		os.Exit(1)
	}

	// 3. Load config
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// 4. Setup Logger
	appLogger := logger.NewLogger(conf.MConfig, conf.Name)
	defer logger.Sync()

	// 5. Setup Components
	app, err := setupApp(conf.MConfig, appLogger)
	if err != nil {
		appLogger.Critical("Startup failed: %v", err)
	}

	// 6. Start Servers
	errs := startServers(app, conf.MConfig, appLogger)

	// 7. Wait for a signal or a server failure
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		appLogger.Info("Received %s, shutting down", s)
	case err := <-errs:
		appLogger.Error("Server failed: %v", err)
	}

	app.shutdown(appLogger)
	appLogger.Info("Shutdown complete.")
}
