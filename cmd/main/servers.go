package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"windfarm-observer/src/analysis"
	"windfarm-observer/src/auth"
	pb "windfarm-observer/src/grpc_control"
	"windfarm-observer/src/logger"
	"windfarm-observer/src/models"
	"windfarm-observer/src/server"

	"google.golang.org/grpc"
)

// -----------------------------------------------------------------------------

// startServers orchestrates the startup of all server components
func startServers(
	ctx context.Context,
	config *models.MConfig,
	appLogger *logger.Logger,
	dashboard *analysis.DashboardService,
	authManager *auth.AuthManager,
) (*server.FastAPIServer, *grpc.Server) {

	// 1. FastAPIServer
	srv := server.NewFastAPIServer(config, logger.NewLogger(config, "FastAPIServer"), dashboard, authManager)
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Critical("Server failed: %v", err)
		}
	}()

	// 2. Live feed
	if config.Live.Enabled {
		interval := time.Duration(config.Live.BroadcastIntervalSeconds) * time.Second
		go srv.RunLiveFeed(ctx, interval)
	}

	// 3. gRPC Control Server
	if config.GrpcPort == 0 {
		return srv, nil
	}
	addr := fmt.Sprintf("%s:%d", config.GrpcHost, config.GrpcPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		appLogger.Critical("failed to listen for gRPC: %v", err)
	}
	grpcServer := grpc.NewServer()
	controlService := pb.NewControlService(dashboard, logger.NewLogger(config, "ControlService"))
	pb.RegisterPlantControlServer(grpcServer, controlService)

	go func() {
		appLogger.Info("Starting gRPC Control Server on %s", addr)
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Error("gRPC server stopped: %v", err)
		}
	}()
	return srv, grpcServer
}
