package legalsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// Embedding providers selectable without a custom Embedder.
const (
	providerInference = "inference"
	providerOpenAI    = "openai"
)

// Cache drivers.
const (
	cacheMemory = "memory"
	cacheRedis  = "redis"
	cacheBadger = "badger"
	cacheNone   = "none"
)

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	keyPrefix        string
	readinessTimeout time.Duration

	ensureIndexes   bool
	language        string
	hnswM           int
	hnswEFConstruct int

	embedder         Embedder
	provider         string
	embeddingURL     string
	embeddingKey     string
	model            string
	dimensions       int
	instruction      string
	embeddingTimeout time.Duration

	cacheDriver     string
	cacheTTL        time.Duration
	cacheMaxEntries int
	cacheDir        string

	search SearchOptions

	logger     *slog.Logger
	zapLogger  *zap.Logger
	metricsReg prometheus.Registerer
}

// SearchOptions tune retrieval planning. Zero fields use the defaults.
type SearchOptions struct {
	// CandidateMultiplier scales the case KNN K over the page window.
	CandidateMultiplier int
	// StatuteCandidateMultiplier scales the passage KNN K over the page window.
	StatuteCandidateMultiplier int
	// NumCandidates is the minimum EF_RUNTIME of KNN queries.
	NumCandidates int
	// LexicalFallback serves searches lexically when the query cannot be
	// embedded instead of returning an empty page.
	LexicalFallback bool
	// VectorFilterPushdown filters inside the case KNN query. The chunk
	// index must carry the case attributes.
	VectorFilterPushdown bool
	// PostFusionFilter filters only after merging, for both channels.
	PostFusionFilter bool
	DefaultPageSize  int
	MaxPageSize      int
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisAddrs configures several seed addresses and an ACL user.
func WithRedisAddrs(addrs []string, username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = addrs
		c.username = username
		c.password = password
	})
}

// WithRedisDB selects the logical database.
func WithRedisDB(db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = db
	})
}

// WithKeyPrefix sets the prefix of every document, index and cache key.
// Defaults to "legalsearch:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithReadinessTimeout bounds the initial readiness wait. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithEnsureIndexes creates missing search indexes on connect.
// language is the FT index LANGUAGE; empty leaves the server default.
// Requires the embedding dimensions to be known (WithDimensions).
func WithEnsureIndexes(language string) Option {
	return optionFunc(func(c *clientConfig) {
		c.ensureIndexes = true
		c.language = language
	})
}

// WithHNSW configures HNSW index parameters (M and EF construction).
// Defaults: M=32, EFConstruct=400.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithEmbedder sets a custom query embedding provider.
// It takes precedence over WithInference and WithOpenAI.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithInference embeds queries through a sentence-embedding inference service.
func WithInference(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = providerInference
		c.embeddingURL = baseURL
	})
}

// WithOpenAI embeds queries through an OpenAI-compatible embeddings API.
func WithOpenAI(baseURL, apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = providerOpenAI
		c.embeddingURL = baseURL
		c.embeddingKey = apiKey
		c.model = model
	})
}

// WithDimensions sets the expected embedding dimension. Zero accepts any.
func WithDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimensions = dim
	})
}

// WithQueryInstruction prepends instruction to every query before embedding.
func WithQueryInstruction(instruction string) Option {
	return optionFunc(func(c *clientConfig) {
		c.instruction = instruction
	})
}

// WithEmbeddingTimeout bounds a single embedding call. Default: 10s.
func WithEmbeddingTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.embeddingTimeout = d
	})
}

// WithMemoryCache keeps results in an in-process LRU (default).
func WithMemoryCache(maxEntries int, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = cacheMemory
		c.cacheMaxEntries = maxEntries
		c.cacheTTL = ttl
	})
}

// WithRedisCache shares results through the document store connection.
func WithRedisCache(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = cacheRedis
		c.cacheTTL = ttl
	})
}

// WithBadgerCache persists results in an embedded badger database.
// An empty dir keeps it in memory.
func WithBadgerCache(dir string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = cacheBadger
		c.cacheDir = dir
		c.cacheTTL = ttl
	})
}

// WithoutCache disables result caching.
func WithoutCache() Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = cacheNone
	})
}

// WithSearch tunes retrieval planning.
func WithSearch(o SearchOptions) Option {
	return optionFunc(func(c *clientConfig) {
		c.search = o
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithZapLogger routes the logs of the retrieval internals to l.
// Pass nil to disable (default).
func WithZapLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.zapLogger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
