package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/mindcare/internal/app/controllers"
	appMigrations "github.com/yigit/mindcare/internal/app/migrations"
	appRepos "github.com/yigit/mindcare/internal/app/repositories"
	"github.com/yigit/mindcare/internal/app/risk"
	appRoutes "github.com/yigit/mindcare/internal/app/routes"
	appServices "github.com/yigit/mindcare/internal/app/services"
	"github.com/yigit/mindcare/internal/config"
	"github.com/yigit/mindcare/internal/db"
	appMiddleware "github.com/yigit/mindcare/internal/middleware"
	pkgAuth "github.com/yigit/mindcare/internal/pkg/auth"
	"github.com/yigit/mindcare/internal/pkg/email"
	"github.com/yigit/mindcare/internal/pkg/helpers"
	"github.com/yigit/mindcare/internal/pkg/identity"
	"github.com/yigit/mindcare/internal/pkg/kvstore"
	"github.com/yigit/mindcare/internal/pkg/logger"
	"github.com/yigit/mindcare/internal/pkg/metrics"
	"github.com/yigit/mindcare/internal/pkg/websocket"
	"github.com/yigit/mindcare/internal/seed"
)

// DefaultConfigPath is where LoadConfigAndSetupLogger looks when no path is given
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store      kvstore.Store
	Repos      *appRepos.Repositories
	JWTService *pkgAuth.JWTService
	Metrics    *metrics.Collector // nil when metrics are disabled
	Hub        *websocket.Hub
	Handlers   appRoutes.Handlers
	Logger     zerolog.Logger

	stopHub context.CancelFunc
	closers []io.Closer
}

// Close stops the feed hub and releases the store and AI client
func (d *Dependencies) Close() error {
	if d.stopHub != nil {
		d.stopHub()
	}
	var errs []error
	for _, c := range d.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFrom(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the configured KV backend. For postgres the migrations
// are applied first.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (kvstore.Store, error) {
	var store kvstore.Store

	switch cfg.Store.Driver {
	case config.StoreMemory:
		lgr.Warn().Msg("Using the in-memory store, data is lost on restart")
		store = kvstore.NewMemoryStore()

	case config.StoreRedis:
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Connecting to redis...")
		rs, err := kvstore.NewRedisStore(ctx, kvstore.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		store = rs

	case config.StorePostgres:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		lgr.Info().Msg("Running database migrations...")
		migrator := appMigrations.NewMigrator(database.Pool, lgr)
		if _, err := os.Stat(cfg.Database.MigrationsDir); err != nil {
			database.Close()
			return nil, fmt.Errorf("migrations directory not found at %s: %w", cfg.Database.MigrationsDir, err)
		}
		if err := migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir); err != nil {
			database.Close()
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")
		store = kvstore.NewPostgresStore(database)

	case config.StoreDynamoDB:
		lgr.Info().Str("table", cfg.DynamoDB.Table).Str("region", cfg.DynamoDB.Region).Msg("Using DynamoDB store")
		ds, err := kvstore.NewDynamoDBStore(ctx, kvstore.DynamoDBConfig{
			Table:    cfg.DynamoDB.Table,
			Region:   cfg.DynamoDB.Region,
			Endpoint: cfg.DynamoDB.Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to set up dynamodb: %w", err)
		}
		store = ds

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	return kvstore.WithPrefix(store, cfg.Store.KeyPrefix), nil
}

// newIdentityProvider picks where credentials live
func newIdentityProvider(cfg *config.Config, store kvstore.Store) identity.Provider {
	if cfg.Auth.Provider == config.AuthProviderSupabase {
		return identity.NewSupabaseProvider(identity.SupabaseConfig{
			URL:            cfg.Auth.SupabaseURL,
			ServiceRoleKey: cfg.Auth.SupabaseServiceRoleKey,
		})
	}
	return identity.NewLocalProvider(store)
}

// newResponder picks the chat reply generator. A Gemini setup failure falls
// back to the static reply so chat keeps working.
func newResponder(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) appServices.Responder {
	if cfg.AI.Provider != config.AIProviderGemini {
		return appServices.StaticResponder{}
	}
	gemini, err := appServices.NewGeminiResponder(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.SystemPrompt)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize Gemini, using static chat replies")
		return appServices.StaticResponder{}
	}
	lgr.Info().Str("model", cfg.AI.Model).Msg("Gemini responder configured")
	return gemini
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, store kvstore.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Store: store, Logger: lgr}

	deps.Repos = appRepos.NewRepositories(store)

	if err := seed.CreateDefaultCounselors(ctx, deps.Repos.CounselorRepository, lgr); err != nil {
		return nil, fmt.Errorf("failed to seed counselors: %w", err)
	}

	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.NewCollector(cfg.Metrics.Namespace)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	hubCtx, stopHub := context.WithCancel(context.Background())
	deps.stopHub = stopHub
	deps.Hub = websocket.NewHub(logger.Component(lgr, "peer_feed"))
	go deps.Hub.Run(hubCtx)

	responder := newResponder(ctx, cfg, lgr)
	if closer, ok := responder.(io.Closer); ok {
		deps.closers = append(deps.closers, closer)
	}

	notifier := email.NewSMTPNotifier(email.SMTPConfig{
		Host:       cfg.SMTP.Host,
		Port:       cfg.SMTP.Port,
		Username:   cfg.SMTP.Username,
		Password:   cfg.SMTP.Password,
		FromName:   cfg.SMTP.FromName,
		FromEmail:  cfg.SMTP.FromEmail,
		UseTLS:     cfg.SMTP.UseTLS,
		AlertEmail: cfg.Crisis.AlertEmail,
	}, lgr)

	// Initialize services
	activityService := appServices.NewActivityService(deps.Repos.UserRepository, deps.Repos.ActivityRepository, lgr)
	analyticsService := appServices.NewAnalyticsService(deps.Repos.AnalyticsRepository, deps.Repos.UserRepository, deps.Repos.ActivityRepository, lgr)
	counselorService := appServices.NewCounselorService(deps.Repos.CounselorRepository, deps.Repos.BookingRepository, cfg.Crisis.SearchDays, lgr)
	crisisService := appServices.NewCrisisService(counselorService, deps.Repos.BookingRepository, notifier, activityService, deps.Metrics, lgr)

	chatService := appServices.NewChatService(appServices.ChatDeps{
		Classifier:   risk.NewKeywordClassifier(risk.ChatKeywords),
		Responder:    responder,
		ChatRepo:     deps.Repos.ChatRepository,
		Risk:         analyticsService,
		Crisis:       crisisService,
		Activity:     activityService,
		Metrics:      deps.Metrics,
		CrisisSource: cfg.Crisis.ChatSource,
	}, lgr)

	peerService := appServices.NewPeerService(appServices.PeerDeps{
		PeerRepo:     deps.Repos.PeerRepository,
		Filter:       risk.NewContentFilter(),
		Classifier:   risk.NewKeywordClassifier(risk.ForumKeywords),
		Risk:         analyticsService,
		Crisis:       crisisService,
		Activity:     activityService,
		Feed:         deps.Hub,
		Metrics:      deps.Metrics,
		CrisisSource: cfg.Crisis.ForumSource,
	}, lgr)

	accountService := appServices.NewAccountService(newIdentityProvider(cfg, store), deps.Repos.UserRepository, deps.JWTService, activityService, lgr)
	assessmentService := appServices.NewAssessmentService(deps.Repos.AssessmentRepository, deps.Repos.UserRepository, activityService, lgr)
	bookingService := appServices.NewBookingService(deps.Repos.BookingRepository, counselorService, activityService, lgr)

	catalog, err := appServices.LoadResourceCatalog(nil)
	if err != nil {
		deps.stopHub()
		return nil, fmt.Errorf("failed to load resource catalog: %w", err)
	}
	resourceService := appServices.NewResourceService(catalog, activityService, lgr)

	deps.Handlers = appRoutes.Handlers{
		Account:   appControllers.NewAccountController(accountService, activityService, lgr),
		Chat:      appControllers.NewChatController(chatService, lgr),
		Peer:      appControllers.NewPeerController(peerService, lgr),
		Care:      appControllers.NewCareController(assessmentService, bookingService, counselorService, resourceService, lgr),
		Analytics: appControllers.NewAnalyticsController(analyticsService, lgr),
		Feed:      websocket.NewHandler(deps.Hub, lgr),
		Auth:      appMiddleware.NewAuthMiddleware(deps.JWTService, cfg.Auth.TokenMode),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
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

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr, deps.Metrics))

	appRoutes.SetupSwagger(router, cfg.Server.BasePath)
	if deps.Metrics != nil {
		appRoutes.SetupMetrics(router, cfg.Metrics.Path, deps.Metrics.Handler())
	}
	appRoutes.SetupRouter(router, cfg.Server.BasePath, deps.Handlers)

	return router, nil
}

// App is a fully wired application
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Deps   *Dependencies
	Router *gin.Engine
}

// Initialize loads the configuration and wires the whole application
func Initialize(ctx context.Context, configPath string) (*App, error) {
	cfg, lgr, err := LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	store, err := SetupStore(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to set up store")
		return nil, err
	}

	deps, err := BuildDependencies(ctx, cfg, store, lgr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router, err := SetupRouter(cfg, deps, lgr)
	if err != nil {
		_ = deps.Close()
		return nil, err
	}

	return &App{Config: cfg, Logger: lgr, Deps: deps, Router: router}, nil
}
