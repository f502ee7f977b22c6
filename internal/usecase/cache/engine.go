// Package cache memoises the public operations in a shared TTL store.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/legalsearch/internal/db"
	"github.com/kailas-cloud/legalsearch/internal/domain"
	"github.com/kailas-cloud/legalsearch/internal/domain/document"
	"github.com/kailas-cloud/legalsearch/internal/domain/facet"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/request"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/result"
	"github.com/kailas-cloud/legalsearch/internal/metrics"
	"github.com/kailas-cloud/legalsearch/internal/repository/cachestore"
)

// DefaultTTL is used when no TTL is configured.
const DefaultTTL = time.Hour

// Operation names, part of every cache key.
const (
	OpSearch         = "search"
	OpSearchStatutes = "searchStatutes"
	OpFacets         = "facets"
	OpChildFacets    = "childFacets"
	OpTimeFacets     = "timeFacets"
	OpCategories     = "categories"
	OpGetCase        = "getCase"
	OpGetLaw         = "getLaw"
	OpEmbed          = "embed"
)

// Engine is the cache-aside front of the retrieval core. Failures and
// degraded search pages are never stored; entries expire by TTL only.
type Engine struct {
	*memo
	search Searcher
	facets Faceter
	docs   DocumentGetter
}

// memo is the shared cache-aside core.
type memo struct {
	store  Store
	keys   domain.Keyspace
	ttl    time.Duration
	logger *zap.Logger
}

func newMemo(store Store, keys domain.Keyspace, ttl time.Duration, logger *zap.Logger) *memo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &memo{store: store, keys: keys, ttl: ttl, logger: logger}
}

// New creates a cache engine. A non-positive ttl uses DefaultTTL.
func New(
	search Searcher, facets Faceter, docs DocumentGetter,
	store Store, keys domain.Keyspace, ttl time.Duration, logger *zap.Logger,
) *Engine {
	return &Engine{
		memo:   newMemo(store, keys, ttl, logger),
		search: search,
		facets: facets,
		docs:   docs,
	}
}

// Search returns a cached or freshly computed case page.
func (e *Engine) Search(ctx context.Context, req request.Search) (result.Page[document.Case], error) {
	return cached(ctx, e.memo, OpSearch, req, func(ctx context.Context) (result.Page[document.Case], error) {
		return e.search.Search(ctx, req)
	}, storablePage[document.Case])
}

// SearchStatutes returns a cached or freshly computed law page.
func (e *Engine) SearchStatutes(ctx context.Context, req request.Statute) (result.Page[document.Law], error) {
	return cached(ctx, e.memo, OpSearchStatutes, req, func(ctx context.Context) (result.Page[document.Law], error) {
		return e.search.SearchStatutes(ctx, req)
	}, storablePage[document.Law])
}

// Facets returns cached scalar facets.
func (e *Engine) Facets(ctx context.Context, category string) ([]facet.Node, error) {
	return cached(ctx, e.memo, OpFacets, categoryArgs{Category: category}, func(ctx context.Context) ([]facet.Node, error) {
		return e.facets.Facets(ctx, category)
	}, always[[]facet.Node])
}

// ChildFacets returns cached child facets.
func (e *Engine) ChildFacets(ctx context.Context, category string, path []string) ([]facet.Node, error) {
	args := categoryArgs{Category: category, Path: path}
	if args.Path == nil {
		args.Path = []string{}
	}
	return cached(ctx, e.memo, OpChildFacets, args, func(ctx context.Context) ([]facet.Node, error) {
		return e.facets.ChildFacets(ctx, category, path)
	}, always[[]facet.Node])
}

// TimeFacets returns cached year facets.
func (e *Engine) TimeFacets(ctx context.Context, category string) ([]facet.Node, error) {
	return cached(ctx, e.memo, OpTimeFacets, categoryArgs{Category: category}, func(ctx context.Context) ([]facet.Node, error) {
		return e.facets.TimeFacets(ctx, category)
	}, always[[]facet.Node])
}

// Categories returns the cached initial filter tree.
func (e *Engine) Categories(ctx context.Context) ([]facet.Category, error) {
	return cached(ctx, e.memo, OpCategories, struct{}{}, e.facets.Categories, always[[]facet.Category])
}

// GetCase returns a cached case. NotFound is not cached.
func (e *Engine) GetCase(ctx context.Context, name string) (document.Case, error) {
	return cached(ctx, e.memo, OpGetCase, identityArgs{ID: name}, func(ctx context.Context) (document.Case, error) {
		return e.docs.GetCase(ctx, name)
	}, always[document.Case])
}

// GetLaw returns a cached law. NotFound is not cached.
func (e *Engine) GetLaw(ctx context.Context, title string) (document.Law, error) {
	return cached(ctx, e.memo, OpGetLaw, identityArgs{ID: title}, func(ctx context.Context) (document.Law, error) {
		return e.docs.GetLaw(ctx, title)
	}, always[document.Law])
}

// NewEmbedder wraps inner so embeddings are memoised by exact text.
// Failed and empty embeddings are not stored.
func NewEmbedder(inner Embedder, store Store, keys domain.Keyspace, ttl time.Duration, logger *zap.Logger) Embedder {
	return &cachedEmbedder{memo: newMemo(store, keys, ttl, logger), inner: inner}
}

type cachedEmbedder struct {
	*memo
	inner Embedder
}

func (c *cachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return cached(ctx, c.memo, OpEmbed, textArgs{Text: text}, func(ctx context.Context) ([]float32, error) {
		return c.inner.Embed(ctx, text)
	}, func(v []float32) bool { return len(v) > 0 })
}

type categoryArgs struct {
	Category string   `json:"category"`
	Path     []string `json:"path,omitempty"`
}

type identityArgs struct {
	ID string `json:"id"`
}

type textArgs struct {
	Text string `json:"text"`
}

// Key returns the cache key of an operation and its arguments: the
// keyspace cache prefix plus the sha256 of their canonical JSON.
func (e *memo) Key(op string, args any) (string, error) {
	raw, err := json.Marshal(struct {
		Op   string `json:"op"`
		Args any    `json:"args"`
	}{Op: op, Args: args})
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	sum := sha256.Sum256(raw)
	return e.keys.CacheKey(hex.EncodeToString(sum[:])), nil
}

func cached[T any](
	ctx context.Context, e *memo, op string, args any,
	compute func(context.Context) (T, error), storable func(T) bool,
) (T, error) {
	key, err := e.Key(op, args)
	if err != nil {
		e.logger.Warn("Failed to build cache key", zap.String("op", op), zap.Error(err))
		return compute(ctx)
	}

	if v, ok := lookup[T](ctx, e, op, key); ok {
		inc(op, "hit")
		e.logger.Debug("Cache hit", zap.String("op", op))
		return v, nil
	}
	inc(op, "miss")
	e.logger.Debug("Cache miss", zap.String("op", op))

	v, err := compute(ctx)
	if err != nil {
		return v, err
	}
	if storable(v) {
		e.put(ctx, op, key, v)
	}
	return v, nil
}

func lookup[T any](ctx context.Context, e *memo, op, key string) (T, bool) {
	var zero T
	data, err := e.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			inc(op, "error")
			e.logger.Warn("Failed to read cache entry", zap.String("op", op), zap.String("key", key), zap.Error(err))
		}
		return zero, false
	}
	if len(data) == 0 {
		return zero, false
	}
	var v T
	if err := cachestore.Decode(data, &v); err != nil {
		inc(op, "error")
		e.logger.Warn("Failed to decode cache entry", zap.String("op", op), zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return v, true
}

func (e *memo) put(ctx context.Context, op, key string, v any) {
	data, err := cachestore.Encode(v)
	if err != nil {
		e.logger.Warn("Failed to encode cache entry", zap.String("op", op), zap.Error(err))
		return
	}
	if err := e.store.Set(ctx, key, data, e.ttl); err != nil {
		inc(op, "error")
		e.logger.Warn("Failed to write cache entry", zap.String("op", op), zap.String("key", key), zap.Error(err))
	}
}

func inc(op, res string) {
	metrics.CacheRequestsTotal.WithLabelValues(op, res).Inc()
}

func always[T any](T) bool { return true }

func storablePage[D any](p result.Page[D]) bool { return !p.Degraded() }
