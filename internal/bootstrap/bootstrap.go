package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yigit/codetrack/internal/app/analytics"
	appAuth "github.com/yigit/codetrack/internal/app/auth"
	appControllers "github.com/yigit/codetrack/internal/app/controllers"
	appMigrations "github.com/yigit/codetrack/internal/app/migrations"
	appRepos "github.com/yigit/codetrack/internal/app/repositories"
	"github.com/yigit/codetrack/internal/app/repositories/memory"
	appRoutes "github.com/yigit/codetrack/internal/app/routes"
	appServices "github.com/yigit/codetrack/internal/app/services"
	"github.com/yigit/codetrack/internal/config"
	"github.com/yigit/codetrack/internal/db"
	appMiddleware "github.com/yigit/codetrack/internal/middleware"
	pkgAuth "github.com/yigit/codetrack/internal/pkg/auth"
	"github.com/yigit/codetrack/internal/pkg/logger"
	"github.com/yigit/codetrack/internal/pkg/websocket"
	"github.com/yigit/codetrack/internal/seed"
)

// DefaultConfigPath is read when CONFIG_PATH is unset
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store             appRepos.Store
	Authority         *appAuth.RoleAuthority
	Directory         *appAuth.IdentityDirectory
	Hasher            pkgAuth.PasswordHasher
	JWTService        *pkgAuth.JWTService
	Hub               *websocket.Hub
	AuthService       *appServices.AuthService
	DepartmentService *appServices.DepartmentService
	DelegationService *appServices.DelegationService
	PlatformService   *appServices.PlatformService
	ReviewService     *appServices.ReviewService
	AnalyticsService  *appServices.AnalyticsService
	Controllers       appRoutes.Controllers
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: cfg.PrettyLogs(),
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the configured store and, for postgres, applies migrations.
// The returned closer releases the underlying connections.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appRepos.Store, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using in-memory store, data is lost on shutdown")
		return memory.New(), func() {}, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return appRepos.NewPostgresStore(database), database.Close, nil
}

// BuildDependencies initializes services, controllers and middleware on top of store.
func BuildDependencies(cfg *config.Config, store appRepos.Store, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Store: store, Logger: lgr}

	deps.Authority = appAuth.NewRoleAuthority(store)
	deps.Directory = appAuth.NewIdentityDirectory(store)
	deps.Hasher = pkgAuth.NewBcryptHasher()
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.Hub = websocket.NewHub(lgr.With().Str("component", "review-feed").Logger())

	policy := analytics.RiskPolicy{
		Window:              cfg.RiskWindow(),
		FlagWithoutAccounts: cfg.Analytics.FlagStudentsWithoutAccounts,
	}

	deps.AuthService = appServices.NewAuthService(store, deps.Authority, deps.Hasher, deps.JWTService, lgr)
	deps.DepartmentService = appServices.NewDepartmentService(store, deps.Authority)
	deps.DelegationService = appServices.NewDelegationService(store, deps.Authority, deps.Hasher)
	deps.PlatformService = appServices.NewPlatformService(store)
	deps.ReviewService = appServices.NewReviewService(store, deps.Authority, appServices.NewHubNotifier(deps.Hub))
	deps.AnalyticsService = appServices.NewAnalyticsService(store, deps.Authority, policy, cfg.Analytics.LeaderboardLimit)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Directory)

	deps.Controllers = appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.AuthService, lgr),
		Department: appControllers.NewDepartmentController(deps.DepartmentService, deps.AnalyticsService),
		Staff:      appControllers.NewStaffController(deps.DelegationService),
		Platform:   appControllers.NewPlatformController(deps.PlatformService),
		Snapshot:   appControllers.NewSnapshotController(deps.ReviewService),
		Analytics:  appControllers.NewAnalyticsController(deps.AnalyticsService),
		ReviewFeed: websocket.NewHandler(deps.Hub, lgr),
	}

	return deps
}

// SeedDefaults creates the configured departments and bootstrap admin.
// Errors are logged and do not stop startup.
func SeedDefaults(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	if !cfg.Seed.Enabled {
		return
	}
	if err := seed.CreateDefaultData(ctx, deps.Store, deps.Hasher, cfg, deps.Logger); err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)
	appRoutes.SetupSwagger(router)

	// Test endpoint
	router.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
