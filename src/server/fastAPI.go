package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"windfarm-observer/src/analysis"
	"windfarm-observer/src/auth"
	"windfarm-observer/src/interfaces"
	"windfarm-observer/src/logger"
	"windfarm-observer/src/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// -----------------------------------------------------------------------------
// FastAPIServer
// -----------------------------------------------------------------------------

type FastAPIServer struct {
	Config    *models.MConfig
	Logger    *logger.Logger
	Dashboard *analysis.DashboardService
	Auth      *auth.AuthManager
	engine    *gin.Engine
	http      *http.Server

	// WebSocket clients
	clients    map[*Client]struct{}
	clientsMu  sync.RWMutex
	broadcast  chan *models.MLiveUpdate // Buffered queue
	register   chan *Client
	unregister chan *Client
	direct     chan directMessage
	done       chan struct{}
	stopOnce   sync.Once

	// Latest live update per range
	latestState map[string]*models.MLiveUpdate
	stateMutex  sync.RWMutex
}

var _ interfaces.IDataExchanger = (*FastAPIServer)(nil)

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewFastAPIServer(cfg *models.MConfig, log *logger.Logger, dashboard *analysis.DashboardService, am *auth.AuthManager) *FastAPIServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &FastAPIServer{
		Config:    cfg,
		Logger:    log,
		Dashboard: dashboard,
		Auth:      am,
		engine:    gin.New(),
		clients:   make(map[*Client]struct{}),
		// Queue size of 256 absorbs bursts of updates
		broadcast:   make(chan *models.MLiveUpdate, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		direct:      make(chan directMessage),
		done:        make(chan struct{}),
		latestState: make(map[string]*models.MLiveUpdate),
	}

	s.engine.Use(gin.Recovery())
	if cfg.LogLevel == "DEBUG" {
		s.engine.Use(gin.Logger())
	}
	s.engine.Use(requestIDMiddleware(), metricsMiddleware(), s.corsMiddleware())

	// setup web routes
	s.setupRoutes()

	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *FastAPIServer) setupRoutes() {
	s.engine.GET("/health", s.getHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	prefix := s.Config.APIPrefix
	if prefix == "" {
		prefix = "/api"
	}
	api := s.engine.Group(prefix)

	api.GET("/metrics/summary", s.getSummary)
	api.GET("/metrics/:metric", s.getMetricValue)

	api.GET("/analysis/power-curve", s.getPowerCurve)
	api.GET("/analysis/aep", s.requireRole(auth.RoleEngineer), s.getAEP)

	api.GET("/turbines/status", s.getTurbineStatus)
	api.GET("/geospatial/turbines", s.getGeospatial)

	api.POST("/auth/login", s.postLogin)
	api.GET("/auth/me", s.requireRole(auth.RoleViewer), s.getMe)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------

// Handler exposes the router, mainly for tests
func (s *FastAPIServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *FastAPIServer) Start() error {
	s.Logger.Info("Starting server on %s", s.http.Addr)

	go s.handleWebsockets()

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.done)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = s.http.Shutdown(ctx)
	})
	return err
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getHealth(c *gin.Context) {
	s.clientsMu.RLock()
	connections := len(s.clients)
	s.clientsMu.RUnlock()

	status := s.Dashboard.Status()
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"loaded":      status.Loaded,
		"plant":       status,
		"connections": connections,
	})
}
