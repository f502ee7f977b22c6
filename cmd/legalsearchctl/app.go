package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/legalsearch/internal/config"
	logpkg "github.com/kailas-cloud/legalsearch/internal/logger"
	legalsearch "github.com/kailas-cloud/legalsearch/pkg/sdk"
)

// app holds the state shared by every subcommand.
type app struct {
	out    io.Writer
	env    string
	redis  string
	format string
	level  string

	client *legalsearch.Client
	logger *zap.Logger
}

// connect loads the environment config and opens the SDK client once.
func (a *app) connect(ctx context.Context) (*legalsearch.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	cfg, err := config.Load(a.env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if a.redis != "" {
		cfg.Database.Addrs = []string{a.redis}
	}

	logger, err := logpkg.NewLogger(a.env, a.level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	client, err := legalsearch.New(ctx, clientOptions(cfg, logger)...)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("connect: %w", err)
	}
	a.client, a.logger = client, logger
	return client, nil
}

// close releases the client if one was opened.
func (a *app) close() {
	if a.client != nil {
		a.client.Close()
		a.client = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// clientOptions maps the service configuration onto SDK options.
// Indexes are never created from the CLI.
func clientOptions(cfg config.Config, logger *zap.Logger) []legalsearch.Option {
	opts := []legalsearch.Option{
		legalsearch.WithRedisAddrs(cfg.Database.Addrs, cfg.Database.Username, cfg.Database.Password),
		legalsearch.WithRedisDB(cfg.Database.DB),
		legalsearch.WithKeyPrefix(cfg.Storage.KeyPrefix),
		legalsearch.WithReadinessTimeout(time.Duration(cfg.Database.ReadinessTimeout) * time.Second),
		legalsearch.WithDimensions(cfg.Embedding.Dimensions),
		legalsearch.WithQueryInstruction(cfg.Embedding.Instruction),
		legalsearch.WithEmbeddingTimeout(time.Duration(cfg.Embedding.TimeoutSec) * time.Second),
		legalsearch.WithSearch(legalsearch.SearchOptions{
			CandidateMultiplier:        cfg.Search.CandidateMultiplier,
			StatuteCandidateMultiplier: cfg.Search.StatuteCandidateMultiplier,
			NumCandidates:              cfg.Search.NumCandidates,
			LexicalFallback:            cfg.Search.EmbeddingFailure == "lexical",
			VectorFilterPushdown:       cfg.Search.VectorFilterPushdown,
			PostFusionFilter:           cfg.Search.PostFusionFilter,
			DefaultPageSize:            cfg.Search.DefaultPageSize,
			MaxPageSize:                cfg.Search.MaxPageSize,
		}),
		legalsearch.WithZapLogger(logger),
	}

	switch cfg.Embedding.Provider {
	case config.ProviderOpenAI:
		opts = append(opts, legalsearch.WithOpenAI(cfg.Embedding.BaseURL, cfg.Embedding.APIKey, cfg.Embedding.Model))
	default:
		opts = append(opts, legalsearch.WithInference(cfg.Embedding.BaseURL))
	}

	ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
	switch cfg.Cache.Driver {
	case config.CacheRedis:
		opts = append(opts, legalsearch.WithRedisCache(ttl))
	case config.CacheBadger:
		opts = append(opts, legalsearch.WithBadgerCache(cfg.Cache.Dir, ttl))
	case config.CacheNone:
		opts = append(opts, legalsearch.WithoutCache())
	default:
		opts = append(opts, legalsearch.WithMemoryCache(cfg.Cache.MaxEntries, ttl))
	}
	return opts
}
