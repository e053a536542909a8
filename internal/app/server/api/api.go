//Server API surface:
//POST /api/engineer/register        # Register (public)
//POST /api/engineer/login           # Login, issues bearer token (public)
//GET  /api/assets                   # List assets with last-inspection summaries (auth)
//POST /api/assets                   # Register an asset (auth)
//GET  /api/assets/{id}              # Get one asset (auth)
//PUT  /api/assets/{id}              # Update asset details (auth)
//GET  /api/inspections              # List own inspections (auth)
//POST /api/inspections              # Create inspection (auth)
//GET  /api/inspections/{id}         # Get one inspection (auth)
//PUT  /api/inspections/{id}         # Update inspection (auth)
//DELETE /api/inspections/{id}       # Delete inspection (auth)
//POST /api/sync/push                # Batched offline changes (auth)
//POST /api/sync/pull                # Changes since cursor (auth)
//POST /api/sync/inspection          # Single idempotent create (auth)
//POST /api/sync/inspections/batch   # Batched idempotent creates (auth)
//GET  /api/sync/status              # Last recorded pull cursor (auth)

package api

import (
	assetAPI "fieldsync/internal/app/server/api/http/asset"
	engineerAPI "fieldsync/internal/app/server/api/http/engineer"
	healthAPI "fieldsync/internal/app/server/api/http/health"
	inspectionAPI "fieldsync/internal/app/server/api/http/inspection"
	"fieldsync/internal/app/server/api/http/middleware"
	"fieldsync/internal/app/server/api/http/middleware/auth"
	"fieldsync/internal/app/server/api/http/middleware/logger"
	syncAPI "fieldsync/internal/app/server/api/http/sync"
	"fieldsync/internal/domain/asset"
	"fieldsync/internal/domain/engineer"
	"fieldsync/internal/domain/inspection"
	"fieldsync/internal/domain/session"
	"fieldsync/internal/domain/sync"
	"fieldsync/internal/infrastructure/cache"
	"fieldsync/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health     *healthAPI.Handler
	Engineer   *engineerAPI.Handler
	Asset      *assetAPI.Handler
	Inspection *inspectionAPI.Handler
	Sync       *syncAPI.Handler
}

// New builds a *chi.Mux with every operation registered through huma.
func New(storage *postgres.Storage, cursors *cache.CursorStore, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("FieldSync API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(storage, cursors, log)
	h.Health.SetupRoutes(API)
	h.Engineer.SetupRoutes(API)
	h.Asset.SetupRoutes(API)
	h.Inspection.SetupRoutes(API)
	h.Sync.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, cursors *cache.CursorStore, log *slog.Logger) *Handlers {
	sessionRepo := postgres.NewSessionRepository(storage, log)
	sessionService := session.NewService(sessionRepo, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	engineerRepo := postgres.NewEngineerRepository(storage, log)
	engineerService := engineer.NewService(engineerRepo, engineer.NewAccountValidator(), log)
	middlewares.Add(loggerMW.Middleware())
	engineerHandler := engineerAPI.NewHandler(engineerService, sessionService, log, middlewares.GetAllAndClear())

	assetRepo := postgres.NewAssetRepository(storage, log)
	assetService := asset.NewService(assetRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	assetHandler := assetAPI.NewHandler(assetService, log, middlewares.GetAllAndClear())

	inspectionRepo := postgres.NewInspectionRepository(storage, log)
	inspectionService := inspection.NewService(inspectionRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	inspectionHandler := inspectionAPI.NewHandler(inspectionService, log, middlewares.GetAllAndClear())

	syncRepo := postgres.NewSyncRepository(storage, log)
	// Avoid handing the service a typed-nil interface when redis is not configured.
	var cursorStore sync.CursorStore
	if cursors != nil {
		cursorStore = cursors
	}
	syncService := sync.NewService(syncRepo, cursorStore, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	syncHandler := syncAPI.NewHandler(syncService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:     healthHandler,
		Engineer:   engineerHandler,
		Asset:      assetHandler,
		Inspection: inspectionHandler,
		Sync:       syncHandler,
	}
}
