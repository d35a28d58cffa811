package main

import (
	"windfarm-observer/src/analysis"
	"windfarm-observer/src/auth"
	"windfarm-observer/src/interfaces"
	"windfarm-observer/src/logger"
	"windfarm-observer/src/models"
	"windfarm-observer/src/network"
	"windfarm-observer/src/plant"
	"windfarm-observer/src/storage"

	"golang.org/x/crypto/bcrypt"
)

// -----------------------------------------------------------------------------

// setupDatabase opens the staging store; nil when storage is disabled
func setupDatabase(config *models.MConfig, appLogger *logger.Logger) interfaces.IDatabase {
	dbLogger := logger.NewLogger(config, "Storage")
	db, err := storage.NewDatabase(config, dbLogger)
	if err != nil {
		appLogger.Critical("Failed to init db: %v", err)
	}
	if db == nil {
		appLogger.Info("Tabular store disabled, the archive is parsed on every start")
		return nil
	}
	if err := db.Initialize(); err != nil {
		appLogger.Critical("Failed to migrate db: %v", err)
	}
	return db
}

// -----------------------------------------------------------------------------

// setupNetwork initializes the network manager
func setupNetwork(config *models.MConfig) interfaces.INetworkManager {
	networkLogger := logger.NewLogger(config, "NetworkManager")
	return network.NewAsyncNetworkManager(config, networkLogger)
}

// -----------------------------------------------------------------------------

func setupPlantCache(config *models.MConfig, db interfaces.IDatabase, nm interfaces.INetworkManager) *plant.PlantDataCache {
	loader := plant.NewArchiveLoader(config, db, nm, logger.NewLogger(config, "PlantLoader"))
	return plant.NewPlantDataCache(loader, logger.NewLogger(config, "PlantCache"))
}

// -----------------------------------------------------------------------------

func setupDashboard(config *models.MConfig, source interfaces.IPlantSource) *analysis.DashboardService {
	facade := analysis.NewAnalysisFacade(config, logger.NewLogger(config, "Analysis"))
	return analysis.NewDashboardService(source, facade, logger.NewLogger(config, "Dashboard"))
}

// -----------------------------------------------------------------------------

func setupAuth(config *models.MConfig, appLogger *logger.Logger) *auth.AuthManager {
	users, err := auth.DemoUsers(bcrypt.DefaultCost)
	if err != nil {
		appLogger.Critical("Failed to hash demo users: %v", err)
	}
	am, err := auth.NewAuthManager(config.Auth, users, logger.NewLogger(config, "Auth"))
	if err != nil {
		appLogger.Critical("Failed to init auth: %v", err)
	}
	return am
}
