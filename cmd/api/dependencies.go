package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rutalocal/planner-api/internal/domain/auth"
	"github.com/rutalocal/planner-api/internal/domain/catalog"
	"github.com/rutalocal/planner-api/internal/domain/mapsync"
	"github.com/rutalocal/planner-api/internal/domain/planner"
	"github.com/rutalocal/planner-api/internal/domain/planner/handler"
	"github.com/rutalocal/planner-api/internal/domain/save"
	"github.com/rutalocal/planner-api/internal/types"
	"github.com/rutalocal/planner-api/pkg/config"
	"github.com/rutalocal/planner-api/pkg/db"
	"github.com/rutalocal/planner-api/pkg/events"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger
	Bus    events.Bus

	// Repositories
	CatalogRepo catalog.Repository

	// Services
	CatalogService catalog.Service
	PlannerService planner.Service
	SessionVerify  *auth.Verifier

	// Handlers
	PlannerHandler *handler.PlannerHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
		Bus:    events.NewInMemoryBus(),
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	deps.initRepositories()
	deps.initServices()
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

func (d *Dependencies) initRepositories() {
	d.CatalogRepo = catalog.NewRepository(d.DB.Pool, d.Logger)
	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices() {
	d.CatalogService = catalog.NewService(d.CatalogRepo, d.Logger)
	d.SessionVerify = auth.NewVerifier([]byte(d.Config.Auth.JWTSecret), d.Logger)

	routesAPI := save.NewHTTPClient(d.Config.RoutesAPI.BaseURL, d.Logger)
	mapCfg := mapsync.Config{
		DefaultCenter: types.Coordinate{
			Lat: d.Config.Map.DefaultCenterLat,
			Lng: d.Config.Map.DefaultCenterLng,
		},
		DefaultZoom: d.Config.Map.DefaultZoom,
		FitPadding:  d.Config.Map.FitPadding,
	}
	d.PlannerService = planner.NewService(d.CatalogService, routesAPI, d.Bus, mapCfg, d.Logger)

	d.Logger.Info("services initialized")
}

func (d *Dependencies) initHandlers() {
	d.PlannerHandler = handler.NewPlannerHandler(d.PlannerService, d.CatalogService, d.Logger)
	d.Logger.Info("handlers initialized")
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
