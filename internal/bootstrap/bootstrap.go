package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/personnel/internal/app/controllers"
	appMigrations "github.com/yigit/personnel/internal/app/migrations"
	appRepos "github.com/yigit/personnel/internal/app/repositories"
	appRoutes "github.com/yigit/personnel/internal/app/routes"
	appServices "github.com/yigit/personnel/internal/app/services"
	"github.com/yigit/personnel/internal/app/views"
	"github.com/yigit/personnel/internal/config"
	"github.com/yigit/personnel/internal/db"
	appMiddleware "github.com/yigit/personnel/internal/middleware"
	"github.com/yigit/personnel/internal/pkg/filestorage"
	"github.com/yigit/personnel/internal/pkg/logger"
)

// formOverheadBytes is the room left for text fields and multipart headers
// on top of storage.max_upload_size
const formOverheadBytes = 1 << 20

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                 *appRepos.Repositories
	FileStorage           filestorage.FileStorage
	Acceptor              *filestorage.Acceptor
	EmployeeService       *appServices.EmployeeService
	EmployeeController    *appControllers.EmployeeController
	EmployeeAPIController *appControllers.EmployeeAPIController
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: cfg.Logging.Format == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the configured employee store. For Postgres the
// returned pool is non-nil and owned by the caller; the schema is created,
// and reset first when database.reset_on_startup is set.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, *pgxpool.Pool, error) {
	if cfg.Database.Driver == config.DatabaseDriverMemory {
		lgr.Info().Msg("Using in-memory employee store")
		return appRepos.NewMemoryRepositories(), nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}
	dbPool := database.Pool

	lgr.Info().Bool("reset", cfg.Database.ResetOnStartup).Msg("Preparing database schema...")
	if err := appMigrations.NewMigrator(dbPool).Apply(ctx, cfg.Database.ResetOnStartup); err != nil {
		lgr.Error().Err(err).Msg("Database schema setup error")
		dbPool.Close()
		return nil, nil, fmt.Errorf("database schema setup failed: %w", err)
	}
	lgr.Info().Msg("Database schema ready.")

	return appRepos.NewRepositories(dbPool), dbPool, nil
}

// SetupFileStorage creates the configured document store
func SetupFileStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (filestorage.FileStorage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMinio:
		minioCfg := cfg.Storage.Minio
		storage, err := filestorage.NewMinioStorage(ctx, filestorage.MinioConfig{
			Endpoint:  minioCfg.Endpoint,
			AccessKey: minioCfg.AccessKey,
			SecretKey: minioCfg.SecretKey,
			Bucket:    minioCfg.Bucket,
			UseSSL:    minioCfg.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		lgr.Info().Str("endpoint", minioCfg.Endpoint).Str("bucket", minioCfg.Bucket).Msg("Using MinIO document storage")
		return storage, nil
	default:
		storage, err := filestorage.NewLocalStorage(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		lgr.Info().Str("path", cfg.Storage.Path).Msg("Using local document storage")
		return storage, nil
	}
}

// BuildDependencies initializes storage, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Repos: repos, Logger: lgr}

	var err error
	deps.FileStorage, err = SetupFileStorage(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Acceptor = filestorage.NewAcceptor(deps.FileStorage, cfg.Storage.AllowedExtensions, cfg.Storage.MaxUploadSize)

	deps.EmployeeService = appServices.NewEmployeeService(
		deps.Repos.EmployeeRepository,
		deps.FileStorage,
		deps.Acceptor,
		cfg.Storage.RemoveSuperseded,
	)

	deps.EmployeeController = appControllers.NewEmployeeController(deps.EmployeeService, cfg.Storage.AllowedExtensions)
	deps.EmployeeAPIController = appControllers.NewEmployeeAPIController(deps.EmployeeService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware, templates and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	case cfg.Server.Mode == gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr), gin.Recovery())

	if cfg.Storage.MaxUploadSize > 0 {
		router.MaxMultipartMemory = cfg.Storage.MaxUploadSize
		router.Use(appMiddleware.LimitRequestBody(cfg.Storage.MaxUploadSize + formOverheadBytes))
	}

	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	appRoutes.SetupRouter(router, deps.EmployeeController, deps.EmployeeAPIController)
	appRoutes.SetupSwagger(router)

	return router, nil
}
