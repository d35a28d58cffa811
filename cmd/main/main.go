package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"windfarm-observer/src/config"
	"windfarm-observer/src/logger"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	config, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(config.MConfig, config.Name)

	// 1. Storage and download collaborators
	db := setupDatabase(config.MConfig, appLogger)
	if db != nil {
		defer db.Close()
	}
	networkManager := setupNetwork(config.MConfig)

	// 2. Plant data cache behind every read path
	cache := setupPlantCache(config.MConfig, db, networkManager)

	// 3. Analysis and auth
	dashboard := setupDashboard(config.MConfig, cache)
	authManager := setupAuth(config.MConfig, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Load the dataset in the background; requests before it lands wait on the cache
	go func() {
		if err := cache.Warm(ctx); err != nil {
			appLogger.Warning("Initial plant data load failed, will retry on demand: %v", err)
		}
	}()

	// 5. Servers
	srv, grpcServer := startServers(ctx, config.MConfig, appLogger, dashboard, authManager)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	cancel()

	if grpcServer != nil {
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(5 * time.Second):
			grpcServer.Stop()
		}
	}
	if err := srv.Stop(); err != nil {
		appLogger.Error("Server shutdown failed: %v", err)
	}
	appLogger.Info("Bye.")
}
