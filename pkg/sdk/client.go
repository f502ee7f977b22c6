package legalsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/legalsearch/internal/db"
	dbRedis "github.com/kailas-cloud/legalsearch/internal/db/redis"
	"github.com/kailas-cloud/legalsearch/internal/domain"
	"github.com/kailas-cloud/legalsearch/internal/domain/category"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/request"
	"github.com/kailas-cloud/legalsearch/internal/repository/cachestore"
	documentrepo "github.com/kailas-cloud/legalsearch/internal/repository/document"
	facetrepo "github.com/kailas-cloud/legalsearch/internal/repository/facet"
	indexrepo "github.com/kailas-cloud/legalsearch/internal/repository/index"
	searchrepo "github.com/kailas-cloud/legalsearch/internal/repository/search"
	"github.com/kailas-cloud/legalsearch/internal/transport/inference"
	openaiEmb "github.com/kailas-cloud/legalsearch/internal/transport/openai"
	cacheuc "github.com/kailas-cloud/legalsearch/internal/usecase/cache"
	documentuc "github.com/kailas-cloud/legalsearch/internal/usecase/document"
	embeddinguc "github.com/kailas-cloud/legalsearch/internal/usecase/embedding"
	facetuc "github.com/kailas-cloud/legalsearch/internal/usecase/facet"
	healthuc "github.com/kailas-cloud/legalsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/legalsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the legalsearch SDK entry point. It is safe for concurrent use.
type Client struct {
	store     db.Store
	cache     cachestore.Store
	api       retriever
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the document store.
// The provided context is used for the readiness check and index creation.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("legalsearch: database address required (use WithRedis)")
	}
	if cfg.ensureIndexes && cfg.dimensions <= 0 {
		return nil, errors.New("legalsearch: WithEnsureIndexes requires WithDimensions")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("legalsearch: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("legalsearch: database not ready: %w", err)
	}

	c, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	logger := cfg.zapLogger
	if logger == nil {
		logger = zap.NewNop()
	}
	keys := domain.NewKeyspace(cfg.keyPrefix)

	indexRepo := indexrepo.New(store, keys, indexrepo.Options{
		Dimensions:      cfg.dimensions,
		Language:        cfg.language,
		HNSW:            indexrepo.HNSWConfig{M: cfg.hnswM, EFConstruct: cfg.hnswEFConstruct},
		ChunkAttributes: cfg.search.VectorFilterPushdown,
	})
	if cfg.ensureIndexes {
		created, err := indexRepo.Ensure(ctx)
		if err != nil {
			return nil, fmt.Errorf("legalsearch: ensure indexes: %w", err)
		}
		if len(created) > 0 {
			logger.Info("Created search indexes", zap.Strings("indexes", created))
		}
	}

	cacheStore, err := createCache(cfg, store)
	if err != nil {
		return nil, err
	}

	domEmb, provider, model := buildEmbedder(cfg, logger)
	embSvc := embeddinguc.New(domEmb, provider, model, cfg.embeddingTimeout, logger)
	queryEmb := cacheuc.NewEmbedder(embSvc, cacheStore, keys, cfg.cacheTTL, logger)

	docRepo := documentrepo.New(store, keys)
	schema := category.Default()

	searchSvc := searchuc.New(searchrepo.New(store, keys), docRepo, queryEmb, schema, searchConfig(cfg.search), logger)
	facetSvc := facetuc.New(facetrepo.New(store, keys), schema, logger)
	docSvc := documentuc.New(docRepo)

	engine := cacheuc.New(searchSvc, facetSvc, docSvc, cacheStore, keys, cfg.cacheTTL, logger)
	healthSvc := healthuc.New(store, store, indexRepo.Names(), embSvc)

	return &Client{
		store:     store,
		cache:     cacheStore,
		api:       engine,
		healthSvc: healthSvc,
		obs:       obs,
	}, nil
}

func createCache(cfg *clientConfig, store db.Store) (cachestore.Store, error) {
	switch cfg.cacheDriver {
	case "", cacheMemory:
		return cachestore.NewMemory(cfg.cacheMaxEntries, ttlOrDefault(cfg.cacheTTL)), nil
	case cacheRedis:
		return cachestore.NewRedis(store), nil
	case cacheBadger:
		b, err := cachestore.OpenBadger(cfg.cacheDir)
		if err != nil {
			return nil, fmt.Errorf("legalsearch: %w", err)
		}
		return b, nil
	case cacheNone:
		return cachestore.Nop{}, nil
	default:
		return nil, fmt.Errorf("legalsearch: unknown cache driver %q", cfg.cacheDriver)
	}
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return cacheuc.DefaultTTL
	}
	return ttl
}

// buildEmbedder assembles the query embedder chain:
// provider -> adapter -> instruction prefix.
func buildEmbedder(cfg *clientConfig, logger *zap.Logger) (domain.Embedder, string, string) {
	var (
		emb      domain.Embedder = noopEmbedder{}
		provider                 = "none"
	)
	switch {
	case cfg.embedder != nil:
		emb, provider = &embedderAdapter{inner: cfg.embedder}, "custom"
	case cfg.provider == providerInference:
		emb = inference.NewEmbedder(&inference.Config{
			BaseURL:    cfg.embeddingURL,
			Model:      cfg.model,
			Dimensions: cfg.dimensions,
			Logger:     logger,
		})
		provider = inference.Provider
	case cfg.provider == providerOpenAI:
		emb = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.embeddingKey,
			BaseURL:    cfg.embeddingURL,
			Model:      cfg.model,
			Dimensions: cfg.dimensions,
			Logger:     logger,
		})
		provider = openaiEmb.Provider
	}

	// The instruction applies below the cache; cache keys are raw query text.
	if cfg.instruction != "" {
		emb = domain.NewInstructionEmbedder(emb, cfg.instruction)
	}
	return emb, provider, cfg.model
}

func searchConfig(o SearchOptions) searchuc.Config {
	policy := searchuc.FailEmpty
	if o.LexicalFallback {
		policy = searchuc.FailLexical
	}
	return searchuc.Config{
		CaseCandidateMultiplier:    o.CandidateMultiplier,
		StatuteCandidateMultiplier: o.StatuteCandidateMultiplier,
		NumCandidates:              o.NumCandidates,
		EmbeddingFailure:           policy,
		VectorFilterPushdown:       o.VectorFilterPushdown,
		PostFusionFilter:           o.PostFusionFilter,
		Limits: request.Limits{
			DefaultPageSize: o.DefaultPageSize,
			MaxPageSize:     o.MaxPageSize,
		},
	}
}

// Close releases the cache and the store connection.
func (c *Client) Close() {
	if c.cache != nil {
		_ = c.cache.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
