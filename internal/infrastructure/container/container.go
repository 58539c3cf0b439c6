// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/questkitchen/backend/internal/application/auth"
	recipeapp "github.com/questkitchen/backend/internal/application/recipe"
	"github.com/questkitchen/backend/internal/infrastructure/config"
	"github.com/questkitchen/backend/internal/infrastructure/gateway/n8n"
	"github.com/questkitchen/backend/internal/infrastructure/http/apiserver"
	"github.com/questkitchen/backend/internal/infrastructure/monitoring"
	gormRepo "github.com/questkitchen/backend/internal/infrastructure/persistence/gorm"
	"github.com/questkitchen/backend/internal/infrastructure/persistence/memory"
	"github.com/questkitchen/backend/internal/infrastructure/persistence/postgres"
	"github.com/questkitchen/backend/internal/infrastructure/persistence/redis"
	"github.com/questkitchen/backend/internal/infrastructure/persistence/sqlite"
	"github.com/questkitchen/backend/internal/ports/inbound"
	"github.com/questkitchen/backend/internal/ports/outbound"
	"github.com/questkitchen/backend/pkg/logger"
)

// dbStatsInterval controls how often connection pool gauges are refreshed.
const dbStatsInterval = 15 * time.Second

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	SessionModule,

	// Repository modules
	RepositoryModule,

	// Gateway modules
	GatewayModule,

	// Service modules
	ServiceModule,

	// HTTP and monitoring modules
	MonitoringModule,
	HTTPModule,

	// Lifecycle hooks
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the GORM database connection for the
// configured driver
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		logLevel := gormLogLevel(cfg.Database.LogLevel)
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}

		var (
			db  *gorm.DB
			err error
		)
		switch cfg.Database.Driver {
		case "postgres":
			db, err = postgres.SetupDatabase(cfg, logLevel)
		default:
			db, err = sqlite.SetupDatabase(cfg.Database.Path, logLevel)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to set up %s database: %w", cfg.Database.Driver, err)
		}

		log.Info("Connected to database",
			zap.String("driver", cfg.Database.Driver),
		)

		return db, nil
	},
)

// SessionModule provides the session store backend
var SessionModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.SessionStore, error) {
		switch cfg.Session.Backend {
		case "redis":
			store, err := redis.NewSessionStore(cfg, log)
			if err != nil {
				return nil, fmt.Errorf("failed to set up Redis session store: %w", err)
			}
			log.Info("Using Redis session store",
				zap.String("addr", cfg.RedisAddr()),
			)
			return store, nil
		default:
			log.Info("Using in-memory session store")
			return memory.NewSessionStore(log), nil
		}
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewUserRepository,
	gormRepo.NewRecipeRepository,
)

// GatewayModule provides the recipe generation gateway client
var GatewayModule = fx.Provide(
	n8n.NewClient,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	// Auth service
	func(
		users outbound.UserRepository,
		sessions outbound.SessionStore,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.AuthService {
		return auth.NewAuthService(users, sessions, cfg.Session.TTL, log)
	},

	// Recipe service
	recipeapp.NewRecipeService,
)

// MonitoringModule provides the Prometheus metrics collector
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
)

// HTTPModule provides the HTTP API server
var HTTPModule = fx.Provide(
	apiserver.NewAPIServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// sessionCleaner is implemented by session stores that need periodic
// sweeping. Redis records carry native TTLs and skip this.
type sessionCleaner interface {
	StartCleanup(interval time.Duration) (stop func())
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	sessions outbound.SessionStore,
	metrics *monitoring.MetricsCollector,
	server *apiserver.APIServer,
) {
	var stopCleanup func()
	statsDone := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting QuestKitchen API",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			if cleaner, ok := sessions.(sessionCleaner); ok {
				stopCleanup = cleaner.StartCleanup(cfg.Session.CleanupInterval)
			}

			go sampleDBStats(db, metrics, statsDone)

			// Start HTTP server
			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down QuestKitchen API")

			// Stop accepting requests and drain in-flight ones
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shut down HTTP server", zap.Error(err))
			}

			if stopCleanup != nil {
				stopCleanup()
			}
			close(statsDone)

			// The Redis store holds a connection pool; the in-memory one
			// has nothing to release.
			if closer, ok := sessions.(io.Closer); ok {
				if err := closer.Close(); err != nil {
					log.Error("Failed to close session store", zap.Error(err))
				}
			}

			// Close database connections
			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			// Flush logs
			_ = log.Sync()

			return nil
		},
	})
}

// sampleDBStats feeds the connection pool gauges until done is closed
func sampleDBStats(db *gorm.DB, metrics *monitoring.MetricsCollector, done <-chan struct{}) {
	ticker := time.NewTicker(dbStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sqlDB, err := db.DB()
			if err != nil {
				continue
			}
			stats := sqlDB.Stats()
			metrics.UpdateDBConnections(stats.InUse, stats.Idle)
		case <-done:
			return
		}
	}
}

// gormLogLevel maps the configured database log level onto GORM's scale
func gormLogLevel(level string) gormLogger.LogLevel {
	switch level {
	case "silent":
		return gormLogger.Silent
	case "error":
		return gormLogger.Error
	case "info":
		return gormLogger.Info
	default:
		return gormLogger.Warn
	}
}
