package app

import (
	"context"
	"log"
	"time"

	"jobtrack/internal/config"
	"jobtrack/internal/database"
	"jobtrack/internal/database/migration"
	dbpostgres "jobtrack/internal/database/postgres"
	"jobtrack/internal/delivery/http/handler"
	"jobtrack/internal/delivery/http/middleware"
	"jobtrack/internal/delivery/http/routes"
	"jobtrack/internal/infrastructure/cache"
	"jobtrack/internal/infrastructure/fetcher"
	"jobtrack/internal/infrastructure/oauth"
	"jobtrack/internal/pkg/jwt"
	"jobtrack/internal/repository"
	"jobtrack/internal/usecase"
)

// Container owns every long-lived dependency and the wiring between them.
type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Routes *routes.Registry

	logger *log.Logger
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	runner := migration.Runner{Dir: cfg.App.MigrationsDir}
	if err := runner.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	redisCache := cache.NewRedis(cfg.Redis, logger)

	userRepo := repository.NewPostgresUserRepository(db)
	jobRepo := repository.NewPostgresJobRepository()
	appRepo := repository.NewPostgresApplicationRepository(db)
	settingsRepo := repository.NewPostgresSettingsRepository(db)

	jwtSvc := jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	callbackURL := cfg.App.BackendOrigin + "/api/v1/auth/callback"
	providers := oauth.NewRegistry(
		oauth.NewGoogle(cfg.OAuth.Google.ClientID, cfg.OAuth.Google.ClientSecret, callbackURL),
		oauth.NewLinkedIn(cfg.OAuth.LinkedIn.ClientID, cfg.OAuth.LinkedIn.ClientSecret, callbackURL),
	)

	pageFetcher := fetcher.New(cfg.Fetch.Timeout, cfg.Fetch.HeadlessEnabled, logger)

	registry := usecase.NewJobRegistry(jobRepo)
	lifecycle := usecase.NewApplicationLifecycleUsecase(db, registry, appRepo, jobRepo, userRepo, redisCache, logger)
	listing := usecase.NewApplicationListingUsecase(appRepo)
	dashboard := usecase.NewDashboardUsecase(userRepo, appRepo, redisCache, cfg.Redis.TTL, logger)
	auth := usecase.NewAuthUsecase(userRepo, jwtSvc, cfg.Admin.IsAdminEmail, len(cfg.Admin.Emails) > 0, logger)
	admin := usecase.NewAdminUsecase(settingsRepo, userRepo, redisCache, cfg.Redis.TTL, logger)

	routeRegistry := &routes.Registry{
		Health:       handler.NewHealthHandler(db),
		Auth:         handler.NewAuthHandler(auth, providers, cfg.App.FrontendURL),
		Applications: handler.NewApplicationHandler(lifecycle, listing),
		Jobs:         handler.NewJobsHandler(pageFetcher),
		Dashboard:    handler.NewDashboardHandler(dashboard),
		Admin:        handler.NewAdminHandler(admin),
		AuthMw:       middleware.NewAuthMiddleware(jwtSvc, userRepo),
		AdminMw:      middleware.NewAdminMiddleware(),
	}

	return &Container{
		Config: cfg,
		DB:     db,
		Cache:  redisCache,
		Routes: routeRegistry,
		logger: logger,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
