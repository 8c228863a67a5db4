package routes

import (
	"context"
	"net/http"
	"time"

	"fleet-console/internal/config"
	"fleet-console/internal/delivery/http/handler"
	"fleet-console/internal/delivery/http/views"
	"fleet-console/internal/domain/account"
	"fleet-console/internal/domain/session"
	"fleet-console/internal/infrastructure/fleetapi"
	"fleet-console/internal/logger"
	"fleet-console/internal/metrics"
	"fleet-console/internal/middleware"
	"fleet-console/internal/notify"
	accountUsecase "fleet-console/internal/usecase/account"
	"fleet-console/internal/usecase/asset"
	"fleet-console/internal/usecase/auth"
	"fleet-console/internal/usecase/cargo"
	"fleet-console/internal/usecase/driver"
	"fleet-console/internal/usecase/location"
	"fleet-console/internal/usecase/transport"
	"fleet-console/internal/usecase/worklog"
	"fleet-console/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRoutes wires the fleet API repositories, services and page handlers
// onto a gin engine. The session cleanup job runs until ctx is cancelled.
func SetupRoutes(ctx context.Context, cfg *config.Config, sessions session.Repository) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HTMLRender = views.MustNew()

	// Add middleware in order: recovery, request ID, logging, metrics, security headers, CORS, request size limit, general rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(metrics.Middleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	if len(cfg.CORS.AllowedOrigins) > 0 {
		router.Use(middleware.CORSMiddleware(&cfg.CORS))
	}
	router.Use(middleware.RequestSizeLimitMiddleware(cfg.Server.MaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := sessions.Health(c.Request.Context()); err != nil {
			logger.Warn("Session store health check failed", zap.Error(err))
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "Session store unavailable")
			return
		}

		utils.SuccessResponse(c, http.StatusOK, "Service is running", gin.H{
			"status":       "healthy",
			"sessionStore": cfg.Session.Store,
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	client := fleetapi.NewClient(fleetapi.Config{
		BaseURL:        cfg.FleetAPI.BaseURL,
		Timeout:        cfg.FleetAPI.Timeout,
		RefreshTimeout: cfg.FleetAPI.RefreshTimeout,
		SessionTTL:     cfg.Session.TTL,
	}, sessions)

	notices := notify.NewCenter(cfg.Notify.DedupeWindow)
	driverLookup := fleetapi.NewDriverLookup(client, cfg.FleetAPI.DriverLookupTTL)

	transportRepository := fleetapi.NewTransportRepository(client)
	driverRepository := fleetapi.NewDriverRepository(client)
	driverSelf := fleetapi.NewDriverSelfService(client)
	vehicleRepository := fleetapi.NewVehicleRepository(client)
	trailerRepository := fleetapi.NewTrailerRepository(client)
	locationRepository := fleetapi.NewLocationRepository(client)
	cargoRepository := fleetapi.NewCargoRepository(client)
	userRepository := fleetapi.NewUserRepository(client)

	authService := auth.NewService(fleetapi.NewAuthRepository(client), sessions, cfg.Session.TTL)
	accountService := accountUsecase.NewService(
		userRepository,
		fleetapi.NewAccountRepository(client),
		fleetapi.NewAdminRepository(client),
		fleetapi.NewLoginHistoryRepository(client),
	)
	transportService := transport.NewService(
		transportRepository,
		driverRepository,
		driverLookup,
		driverSelf,
		vehicleRepository,
		trailerRepository,
		locationRepository,
		cargoRepository,
		transport.NewBusy(),
	)
	assetService := asset.NewService(vehicleRepository, trailerRepository)
	driverService := driver.NewService(driverRepository, userRepository, driverLookup, driverSelf)
	cargoService := cargo.NewService(cargoRepository)
	locationService := location.NewService(locationRepository)
	worklogService := worklog.NewService(fleetapi.NewWorkLogRepository(client), transportRepository, driverLookup, driverSelf)

	// Per-session state is dropped on logout and when a refresh fails.
	forget := func(sessionID string) {
		notices.Forget(sessionID)
		driverLookup.Forget(sessionID)
	}
	authService.OnSessionEnd(forget)
	client.Refresher().OnExpired(forget)

	go authService.StartSessionCleanupJob(ctx, cfg.Session.CleanupInterval,
		func(maxIdle time.Duration) { notices.Purge(maxIdle) },
		driverLookup.Purge,
	)

	base := handler.NewBase(notices, &cfg.Session)
	authHandler := handler.NewAuthHandler(base, authService, accountService)
	transportHandler := handler.NewTransportHandler(base, transportService, cargoService)
	assetHandler := handler.NewAssetHandler(base, assetService)
	driverManageHandler := handler.NewDriverManageHandler(base, driverService)
	driverHandler := handler.NewDriverHandler(base, transportService, driverService)
	cargoHandler := handler.NewCargoHandler(base, cargoService, transportService)
	locationHandler := handler.NewLocationHandler(base, locationService)
	userHandler := handler.NewUserHandler(base, accountService)
	worklogHandler := handler.NewWorkLogHandler(base, worklogService)

	router.Use(middleware.SessionMiddleware(authService, &cfg.Session))

	authHandler.RegisterPublicRoutes(router, middleware.LoginRateLimitMiddleware(
		cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst, authHandler.LoginThrottled))

	protected := router.Group("")
	protected.Use(middleware.AuthRequired())
	{
		authHandler.RegisterRoutes(protected)

		dispatcher := protected.Group("")
		dispatcher.Use(middleware.DispatcherOnly())
		{
			transportHandler.RegisterRoutes(dispatcher)
			assetHandler.RegisterRoutes(dispatcher)
			driverManageHandler.RegisterRoutes(dispatcher)
		}

		office := protected.Group("")
		office.Use(middleware.RoleMiddleware(account.RoleDispatcher, account.RoleAdmin))
		{
			cargoHandler.RegisterRoutes(office)
			locationHandler.RegisterRoutes(office)
		}

		staff := protected.Group("")
		staff.Use(middleware.RoleMiddleware(account.RoleDispatcher, account.RoleAdmin, account.RoleDriver))
		{
			worklogHandler.RegisterRoutes(staff)
		}

		admin := protected.Group("")
		admin.Use(middleware.AdminOnly())
		{
			userHandler.RegisterRoutes(admin)
		}

		driverGroup := protected.Group("")
		driverGroup.Use(middleware.DriverOnly())
		{
			driverHandler.RegisterRoutes(driverGroup)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, middleware.MenuPath)
	})

	logger.Info("All routes initialized", zap.String("session_store", cfg.Session.Store))
	return router
}
