package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/bloom-backend/internal/domain/bloom"
	"github.com/yanqian/bloom-backend/internal/domain/chatbot"
	"github.com/yanqian/bloom-backend/internal/infra/config"
	"github.com/yanqian/bloom-backend/internal/infra/earthengine"
	"github.com/yanqian/bloom-backend/internal/infra/forecastmodel"
	"github.com/yanqian/bloom-backend/internal/infra/llm/chatgpt"
	"github.com/yanqian/bloom-backend/internal/infra/readingcache"
	"github.com/yanqian/bloom-backend/internal/infra/reference"
	"github.com/yanqian/bloom-backend/internal/infra/semindex"
)

func provideBloomConfig(cfg *config.Config) bloom.Config {
	out := bloom.DefaultConfig()
	out.FallbackIndex = cfg.Bloom.FallbackIndex
	if strings.TrimSpace(cfg.Bloom.Species) != "" {
		out.Species = cfg.Bloom.Species
	}
	out.ProviderTimeout = cfg.EarthEngine.Timeout
	return out
}

func provideChatbotConfig(cfg *config.Config) chatbot.Config {
	out := chatbot.DefaultConfig()
	out.FallbackLatitude = cfg.Chatbot.FallbackLatitude
	out.FallbackLongitude = cfg.Chatbot.FallbackLongitude
	if cfg.Chatbot.Semantic.Timeout > 0 {
		out.SemanticTimeout = cfg.Chatbot.Semantic.Timeout
	}
	return out
}

func provideEarthEngineClient(cfg *config.Config, logger *slog.Logger) *earthengine.Client {
	ee := cfg.EarthEngine
	return earthengine.NewClient(earthengine.Config{
		Project:         ee.Project,
		BaseURL:         ee.BaseURL,
		HighVolumeURL:   ee.HighVolumeURL,
		ServiceAccount:  ee.ServiceAccount,
		KeyFile:         ee.KeyFile,
		Timeout:         ee.Timeout,
		Collection:      ee.Collection,
		Band:            ee.Band,
		ScaleFactor:     ee.ScaleFactor,
		RadiusMeters:    ee.RadiusMeters,
		ScaleMeters:     ee.ScaleMeters,
		MaxPixels:       ee.MaxPixels,
		ThumbnailBuffer: ee.ThumbnailBuffer,
		ThumbnailPixels: ee.ThumbnailPixels,
		Palette:         ee.Palette,
	}, logger)
}

// provideIndexProvider puts the reading cache in front of Earth Engine when enabled.
func provideIndexProvider(cfg *config.Config, client *earthengine.Client, logger *slog.Logger) bloom.IndexProvider {
	if !cfg.Cache.Enabled {
		return client
	}
	return readingcache.NewProvider(client, provideReadingStore(cfg, logger), cfg.Bloom.CacheTTL, logger)
}

func provideReadingStore(cfg *config.Config, logger *slog.Logger) readingcache.Store {
	if cfg.Cache.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg.Cache.Redis.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return readingcache.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return readingcache.NewMemoryStore()
		}
		ping := func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Do(ctx, client.B().Ping().Build()).Error()
		}
		if err := retryStartup(ping); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
			return readingcache.NewMemoryStore()
		}
		logger.Info("valkey reading cache enabled", "addr", cfg.Cache.Redis.Addr)
		return readingcache.NewValkeyStore(client, "bloom:ndvi")
	}
	return readingcache.NewMemoryStore()
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideModelLoader(cfg *config.Config, logger *slog.Logger) bloom.ModelLoader {
	var objects forecastmodel.ObjectStore
	if store := cfg.Forecast.ObjectStore; strings.TrimSpace(store.Endpoint) != "" {
		minioStore, err := forecastmodel.NewMinioStore(store.Endpoint, store.AccessKey, store.SecretKey, store.Region, logger)
		if err != nil {
			logger.Error("object store unavailable, s3:// artifact paths will be skipped", "error", err)
		} else {
			objects = minioStore
		}
	}
	return forecastmodel.NewLoader(cfg.Forecast.ModelPath, cfg.Forecast.CandidatePaths, objects, logger)
}

func provideReferenceSource(cfg *config.Config, logger *slog.Logger) chatbot.ReferenceSource {
	return reference.NewFileSource(cfg.Chatbot.ReferencePath, logger)
}

// provideSemantic builds the optional semantic tier. It is only ever built
// here, at startup, and only when explicitly enabled.
func provideSemantic(cfg *config.Config, logger *slog.Logger) *chatbot.Semantic {
	sem := cfg.Chatbot.Semantic
	if !sem.Enabled {
		return nil
	}
	if strings.TrimSpace(sem.APIKey) == "" {
		logger.Warn("semantic tier enabled but no embedding api key configured, skipping")
		return nil
	}
	client, err := chatgpt.NewClient(sem.APIKey, sem.BaseURL)
	if err != nil {
		logger.Error("failed to create embedding client, skipping semantic tier", "error", err)
		return nil
	}

	index := provideSemanticIndex(sem, logger)
	if index == nil {
		return nil
	}
	return &chatbot.Semantic{
		Encoder: chatgpt.NewEncoder(client, sem.EmbeddingModel),
		Index:   index,
	}
}

func provideSemanticIndex(sem config.SemanticConfig, logger *slog.Logger) chatbot.SemanticIndex {
	if dsn := strings.TrimSpace(sem.Postgres.DSN); dsn != "" {
		pool, err := openPostgres(dsn, sem.Postgres, logger)
		if err != nil {
			logger.Error("semantic postgres index unavailable", "error", err)
		} else {
			logger.Info("semantic postgres index enabled")
			return semindex.NewPostgresIndex(pool)
		}
	}
	if path := strings.TrimSpace(sem.IndexPath); path != "" {
		idx, err := semindex.LoadMemoryIndex(path)
		if err != nil {
			logger.Error("semantic index file unavailable", "path", path, "error", err)
			return nil
		}
		logger.Info("semantic memory index loaded", "path", path, "rows", idx.Len())
		return idx
	}
	return nil
}

func openPostgres(dsn string, pg config.PostgresConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if pg.MaxConns > 0 {
		poolConfig.MaxConns = pg.MaxConns
	}
	if pg.MinConns > 0 {
		poolConfig.MinConns = pg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return pool.Ping(ctx)
	}
	if err := retryStartup(ping); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Debug("postgres pool ready", "max_conns", poolConfig.MaxConns)
	return pool, nil
}

// retryStartup retries a dependency check briefly so containers started
// together have a chance to come up.
func retryStartup(op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 15 * time.Second
	return backoff.Retry(op, bo)
}
