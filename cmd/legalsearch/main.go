package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/legalsearch/internal/config"
	"github.com/kailas-cloud/legalsearch/internal/db"
	dbRedis "github.com/kailas-cloud/legalsearch/internal/db/redis"
	"github.com/kailas-cloud/legalsearch/internal/domain"
	"github.com/kailas-cloud/legalsearch/internal/domain/category"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/legalsearch/internal/logger"
	"github.com/kailas-cloud/legalsearch/internal/metrics"
	"github.com/kailas-cloud/legalsearch/internal/repository/cachestore"
	documentrepo "github.com/kailas-cloud/legalsearch/internal/repository/document"
	facetrepo "github.com/kailas-cloud/legalsearch/internal/repository/facet"
	indexrepo "github.com/kailas-cloud/legalsearch/internal/repository/index"
	searchrepo "github.com/kailas-cloud/legalsearch/internal/repository/search"
	chiTransport "github.com/kailas-cloud/legalsearch/internal/transport/chi"
	"github.com/kailas-cloud/legalsearch/internal/transport/inference"
	openaiEmb "github.com/kailas-cloud/legalsearch/internal/transport/openai"
	cacheuc "github.com/kailas-cloud/legalsearch/internal/usecase/cache"
	documentuc "github.com/kailas-cloud/legalsearch/internal/usecase/document"
	embeddinguc "github.com/kailas-cloud/legalsearch/internal/usecase/embedding"
	facetuc "github.com/kailas-cloud/legalsearch/internal/usecase/facet"
	healthuc "github.com/kailas-cloud/legalsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/legalsearch/internal/usecase/search"
	"github.com/kailas-cloud/legalsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting legalsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	keys := domain.NewKeyspace(cfg.Storage.KeyPrefix)
	indexRepo := indexrepo.New(store, keys, indexrepo.Options{
		Dimensions: cfg.Embedding.Dimensions,
		Language:   cfg.Storage.Language,
		HNSW: indexrepo.HNSWConfig{
			M:           cfg.Database.HNSWM,
			EFConstruct: cfg.Database.HNSWEFConstruct,
		},
		ChunkAttributes: cfg.Search.VectorFilterPushdown,
	})
	if cfg.Database.EnsureIndexes {
		created, err := indexRepo.Ensure(ctx)
		if err != nil {
			logger.Fatal("Failed to ensure search indexes", zap.Error(err))
		}
		logger.Info("Search indexes ready", zap.Strings("created", created))
	}

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()

	cacheStore, err := buildCache(cfg.Cache, store)
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer func() { _ = cacheStore.Close() }()
	cacheTTL := time.Duration(cfg.Cache.TTLSec) * time.Second

	// Query embedder chain: provider -> instruction -> service -> cache
	embSvc := embeddinguc.New(
		buildEmbedder(cfg.Embedding, logger),
		cfg.Embedding.Provider, cfg.Embedding.Model,
		time.Duration(cfg.Embedding.TimeoutSec)*time.Second, logger,
	)
	queryEmbedder := cacheuc.NewEmbedder(embSvc, cacheStore, keys, cacheTTL, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Repositories
	docRepo := documentrepo.New(store, keys)
	schema := category.Default()

	// Use case services
	searchSvc := searchuc.New(searchrepo.New(store, keys), docRepo, queryEmbedder, schema, searchConfig(cfg.Search), logger)
	facetSvc := facetuc.New(facetrepo.New(store, keys), schema, logger)
	docSvc := documentuc.New(docRepo)
	engine := cacheuc.New(searchSvc, facetSvc, docSvc, cacheStore, keys, cacheTTL, logger)
	healthSvc := healthuc.New(store, store, indexRepo.Names(), embSvc)

	server := chiTransport.NewServer(engine, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the provider chain: transport -> instruction prefix.
func buildEmbedder(cfg config.EmbeddingConfig, logger *zap.Logger) domain.Embedder {
	var embedder domain.Embedder
	switch cfg.Provider {
	case config.ProviderOpenAI:
		embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Logger:     logger,
		})
	default:
		embedder = inference.NewEmbedder(&inference.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Logger:     logger,
		})
	}

	if cfg.Instruction != "" {
		return domain.NewInstructionEmbedder(embedder, cfg.Instruction)
	}
	return embedder
}

// buildCache opens the request cache backend.
func buildCache(cfg config.CacheConfig, store db.Store) (cachestore.Store, error) {
	switch cfg.Driver {
	case config.CacheRedis:
		return cachestore.NewRedis(store), nil
	case config.CacheMemory:
		return cachestore.NewMemory(cfg.MaxEntries, time.Duration(cfg.TTLSec)*time.Second), nil
	case config.CacheBadger:
		b, err := cachestore.OpenBadger(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("badger cache: %w", err)
		}
		return b, nil
	case config.CacheNone:
		return cachestore.Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

func searchConfig(cfg config.SearchConfig) searchuc.Config {
	return searchuc.Config{
		CaseCandidateMultiplier:    cfg.CandidateMultiplier,
		StatuteCandidateMultiplier: cfg.StatuteCandidateMultiplier,
		NumCandidates:              cfg.NumCandidates,
		EmbeddingFailure:           searchuc.FailurePolicy(cfg.EmbeddingFailure),
		VectorFilterPushdown:       cfg.VectorFilterPushdown,
		PostFusionFilter:           cfg.PostFusionFilter,
		Limits: request.Limits{
			DefaultPageSize: cfg.DefaultPageSize,
			MaxPageSize:     cfg.MaxPageSize,
		},
	}
}
