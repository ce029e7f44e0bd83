package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"bus-track/internal/config"
	"bus-track/internal/mylogger"
	"bus-track/internal/tracking-service/adapters/driven/bm"
	"bus-track/internal/tracking-service/adapters/driven/cache"
	"bus-track/internal/tracking-service/adapters/driven/db"
	"bus-track/internal/tracking-service/adapters/driven/ws"
	"bus-track/internal/tracking-service/adapters/driver/myhttp/handle"
	"bus-track/internal/tracking-service/adapters/driver/myhttp/middleware"
	driven "bus-track/internal/tracking-service/core/ports/driven"
	"bus-track/internal/tracking-service/core/services"
)

const WaitTime = 10

type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	mylog  mylogger.Logger
	db     *db.DataBase
	mb     driven.ITrackingBroker
	cache  *cache.SnapshotCache
	feed   *ws.FeedManager
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
	wg     sync.WaitGroup
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	s := &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}

	return s
}

// Run initializes adapters and routes, then listens until the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	database, err := db.ConnectDB(s.ctx, s.cfg.DB, mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = database
	mylog.Info("Successful database connection")

	mb, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	mylog.Info("Successful message broker connection")

	snapCache, err := cache.New(s.ctx, *s.cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	s.cache = snapCache
	mylog.Info("Successful cache connection")

	s.feed = ws.NewFeedManager(s.mylog)

	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.TrackingServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.TrackingServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	s.wg.Wait()

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.feed != nil {
		s.feed.Close()
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("Failed to close message broker", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.mylog.Error("Failed to close cache", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Info("Database closed")
	}

	s.mylog.Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure wires repositories, services and handlers onto the mux.
func (s *Server) Configure() {
	// Repositories
	locationRepo := db.NewLocationRepository(s.db)
	vehicleRepo := db.NewVehicleRepository(s.db)
	driverRepo := db.NewDriverRepository(s.db)
	deviceRepo := db.NewDeviceRepository(s.db)
	alertRepo := db.NewAlertRepository(s.db)
	geofenceRepo := db.NewGeofenceRepository(s.db)
	progressRepo := db.NewProgressRepository(s.db)

	// services
	status := services.NewStatusDeriver(s.cfg.Tracking)
	alertService := services.NewAlertService(s.cfg.Tracking, s.mylog, alertRepo, geofenceRepo, driverRepo, vehicleRepo, locationRepo, s.mb)
	trackingService := services.NewTrackingService(s.cfg.Tracking, s.mylog, status, alertService, vehicleRepo, driverRepo, deviceRepo, locationRepo, s.mb, s.feed, s.cache)
	queryService := services.NewQueryService(s.cfg.Tracking, s.mylog, status, vehicleRepo, locationRepo, alertRepo, s.cache)
	progressService := services.NewProgressService(s.mylog, progressRepo, vehicleRepo)

	// handlers
	trackingHandler := handle.NewTrackingHandler(trackingService, s.mylog)
	queryHandler := handle.NewQueryHandler(queryService, s.mylog)
	alertsHandler := handle.NewAlertsHandler(alertService, s.mylog)
	progressHandler := handle.NewProgressHandler(progressService, s.mylog)
	feedHandler := handle.NewFeedHandler(s.feed, s.mylog)

	mdl := middleware.NewAuthMiddleware(s.cfg.App.PublicJwtSecret)

	// ingestion
	s.mux.Handle("POST /vehicles/{vehicle_id}/location", trackingHandler.SubmitVehicleLocation())
	s.mux.Handle("POST /drivers/location", mdl.RequireRole(trackingHandler.SubmitDriverLocation(), middleware.RoleDriver))

	// queries
	s.mux.Handle("GET /vehicles/positions", queryHandler.Positions())
	s.mux.Handle("GET /vehicles/{vehicle_id}/history", queryHandler.History())
	s.mux.Handle("GET /fleet/summary", mdl.RequireRole(queryHandler.FleetSummary(), middleware.RoleStaff))

	// route progress
	s.mux.Handle("GET /vehicles/{vehicle_id}/progress", progressHandler.GetProgress())
	s.mux.Handle("POST /vehicles/{vehicle_id}/progress", mdl.RequireRole(progressHandler.RecordProgress(), middleware.RoleStaff))

	// alerts
	s.mux.Handle("POST /vehicles/{vehicle_id}/emergency", mdl.RequireRole(alertsHandler.RaiseEmergency(), middleware.RoleDriver, middleware.RoleStaff))
	s.mux.Handle("GET /alerts/speed", mdl.RequireRole(alertsHandler.ListSpeedAlerts(), middleware.RoleStaff))
	s.mux.Handle("GET /alerts/emergency", mdl.RequireRole(alertsHandler.ListEmergencyAlerts(), middleware.RoleStaff))
	s.mux.Handle("POST /alerts/speed/{alert_id}/acknowledge", mdl.RequireRole(alertsHandler.AcknowledgeSpeedAlert(), middleware.RoleStaff))
	s.mux.Handle("POST /alerts/emergency/{alert_id}/resolve", mdl.RequireRole(alertsHandler.ResolveEmergencyAlert(), middleware.RoleStaff))

	// websocket live feed
	s.mux.HandleFunc("GET /ws/feed", feedHandler.HandleFeed)
}
