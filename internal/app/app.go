// Package app builds the collaborators of the catalog engine from configuration.
// It is shared by the server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kosarica/catalog-service/config"
	"github.com/kosarica/catalog-service/internal/database"
	"github.com/kosarica/catalog-service/internal/engine"
	"github.com/kosarica/catalog-service/internal/recovery"
	"github.com/kosarica/catalog-service/internal/storage"
	"github.com/kosarica/catalog-service/internal/storefront"
)

// Recovery is the recovery cache built from configuration.
type Recovery struct {
	Cache recovery.Cache
	// Pinger is set for remote backends.
	Pinger interface{ Ping(context.Context) error }
	// Memory is set for the in-process backend so expired entries can be purged.
	Memory *recovery.MemoryCache
	close  func() error
}

// Close releases the backend connection.
func (r *Recovery) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// OpenStorage builds the document store selected by cfg.Storage. The postgres
// store migrates the schema and connects the shared pool; callers close it
// with database.Close.
func OpenStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (storage.Storage, error) {
	switch storage.StorageType(cfg.Storage.Type) {
	case storage.StorageTypeMemory:
		logger.Warn().Msg("Using in-memory storage; products are lost on restart")
		return storage.NewMemoryStorage(), nil

	case storage.StorageTypeLocal:
		store, err := storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("base_path", store.GetBasePath()).Msg("Using local storage")
		return store, nil

	case storage.StorageTypePostgres:
		if err := database.Migrate(cfg.Database.URL, logger); err != nil {
			return nil, err
		}
		if err := database.Connect(ctx, database.PoolConfig{
			URL:             cfg.Database.URL,
			MaxConnections:  cfg.Database.MaxConnections,
			MinConnections:  cfg.Database.MinConnections,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		}); err != nil {
			return nil, err
		}
		logger.Info().Msg("Using postgres storage")
		return database.NewDocumentStore(database.Pool()), nil

	default:
		return nil, &config.ErrInvalidConfig{Field: "storage.type", Reason: fmt.Sprintf("unknown storage type %q", cfg.Storage.Type)}
	}
}

// OpenRecovery builds the recovery cache selected by cfg.Recovery. Remote
// backends are guarded by a circuit breaker.
func OpenRecovery(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Recovery, error) {
	switch cfg.Recovery.Backend {
	case "memory":
		cache := recovery.NewMemoryCache(cfg.Recovery.TTL)
		return &Recovery{Cache: cache, Memory: cache}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Recovery.RedisAddr,
			Password: cfg.Recovery.RedisPassword,
			DB:       cfg.Recovery.RedisDB,
		})
		cache := recovery.NewRedisCache(client, cfg.Recovery.TTL)
		if err := cache.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Recovery.RedisAddr, err)
		}
		breaker := recovery.NewBreakerCache(cache, recovery.DefaultBreakerConfig(), logger)
		logger.Info().Str("addr", cfg.Recovery.RedisAddr).Msg("Using redis recovery cache")
		return &Recovery{Cache: breaker, Pinger: breaker, close: client.Close}, nil

	default:
		return nil, &config.ErrInvalidConfig{Field: "recovery.backend", Reason: fmt.Sprintf("unknown backend %q", cfg.Recovery.Backend)}
	}
}

// NewEngine builds the catalog engine on the given collaborators.
func NewEngine(cfg *config.Config, store storage.Storage, cache recovery.Cache, logger zerolog.Logger, opts ...engine.Option) (*engine.Engine, error) {
	tz, err := storefront.ParseTimezone(cfg.Pricing.HistoryTimezone)
	if err != nil {
		return nil, &config.ErrInvalidConfig{Field: "pricing.history_timezone", Reason: err.Error()}
	}
	return engine.New(store, cache, engine.Config{
		HistoryTimezone:   tz,
		ExportConcurrency: cfg.Export.Concurrency,
	}, logger, opts...), nil
}

// Storefront returns the default store and the language matcher of exports.
func Storefront(cfg *config.Config) (storefront.Timezone, *storefront.LanguageMatcher, error) {
	tz, err := storefront.ParseTimezone(cfg.Export.DefaultStore)
	if err != nil {
		return "", nil, &config.ErrInvalidConfig{Field: "export.default_store", Reason: err.Error()}
	}
	languages, err := storefront.ParseLanguages(cfg.Export.SupportedLanguages)
	if err != nil {
		return "", nil, &config.ErrInvalidConfig{Field: "export.supported_languages", Reason: err.Error()}
	}
	return tz, storefront.NewLanguageMatcher(languages), nil
}
