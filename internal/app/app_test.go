package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/kosarica/catalog-service/config"
	"github.com/kosarica/catalog-service/internal/catalog"
	"github.com/kosarica/catalog-service/internal/engine"
	"github.com/kosarica/catalog-service/internal/recovery"
	"github.com/kosarica/catalog-service/internal/storage"
	"github.com/kosarica/catalog-service/internal/storefront"
)

func testConfig() *config.Config {
	return &config.Config{
		Storage:  config.StorageConfig{Type: "memory"},
		Recovery: config.RecoveryConfig{Backend: "memory", TTL: time.Hour},
		Pricing:  config.PricingConfig{HistoryTimezone: "novosibirsk"},
		Export: config.ExportConfig{
			DefaultStore:       "vladivostok",
			SupportedLanguages: []string{"ru", "en"},
			Concurrency:        2,
		},
	}
}

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	store, err := OpenStorage(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStorage{}, store)

	cfg.Storage = config.StorageConfig{Type: "local", BasePath: t.TempDir()}
	store, err = OpenStorage(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStorage{}, store)

	cfg.Storage = config.StorageConfig{Type: "s3"}
	_, err = OpenStorage(ctx, cfg, zerolog.Nop())
	var invalid *config.ErrInvalidConfig
	assert.True(t, errors.As(err, &invalid))
}

func TestOpenRecovery(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	t.Run("memory", func(t *testing.T) {
		r, err := OpenRecovery(ctx, cfg, zerolog.Nop())
		require.NoError(t, err)
		assert.NotNil(t, r.Memory)
		assert.Nil(t, r.Pinger)
		assert.NoError(t, r.Close())
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := testConfig()
		cfg.Recovery = config.RecoveryConfig{Backend: "redis", TTL: time.Hour, RedisAddr: mr.Addr()}

		r, err := OpenRecovery(ctx, cfg, zerolog.Nop())
		require.NoError(t, err)
		defer r.Close()

		assert.IsType(t, &recovery.BreakerCache{}, r.Cache)
		require.NotNil(t, r.Pinger)
		assert.NoError(t, r.Pinger.Ping(ctx))

		require.NoError(t, r.Cache.Set(ctx, "price:item-1", []byte("{}")))
		assert.True(t, mr.Exists(recovery.DefaultKeyPrefix+"price:item-1"))
	})

	t.Run("redis unreachable", func(t *testing.T) {
		cfg := testConfig()
		cfg.Recovery = config.RecoveryConfig{Backend: "redis", TTL: time.Hour, RedisAddr: "127.0.0.1:1"}
		_, err := OpenRecovery(ctx, cfg, zerolog.Nop())
		assert.Error(t, err)
	})
}

func TestNewEngineUsesHistoryTimezone(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	e, err := NewEngine(cfg, storage.NewMemoryStorage(), recovery.NewMemoryCache(time.Hour), zerolog.Nop())
	require.NoError(t, err)

	outcome, err := e.ApplyProductItem(ctx, catalog.ProductItem{ItemID: "item-1", ProductID: "product-1"})
	require.NoError(t, err)
	assert.Equal(t, engine.Applied, outcome)

	cfg.Pricing.HistoryTimezone = "berlin"
	_, err = NewEngine(cfg, storage.NewMemoryStorage(), recovery.NewMemoryCache(time.Hour), zerolog.Nop())
	assert.Error(t, err)
}

func TestStorefront(t *testing.T) {
	tz, matcher, err := Storefront(testConfig())
	require.NoError(t, err)
	assert.Equal(t, storefront.Vladivostok, tz)
	assert.Equal(t, []language.Tag{language.Russian, language.English}, matcher.Supported())
}
