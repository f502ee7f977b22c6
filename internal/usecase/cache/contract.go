package cache

import (
	"context"
	"time"

	"github.com/kailas-cloud/legalsearch/internal/domain/document"
	"github.com/kailas-cloud/legalsearch/internal/domain/facet"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/request"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/result"
)

// Searcher runs case and statute searches.
type Searcher interface {
	Search(ctx context.Context, req request.Search) (result.Page[document.Case], error)
	SearchStatutes(ctx context.Context, req request.Statute) (result.Page[document.Law], error)
}

// Faceter computes facet distributions.
type Faceter interface {
	Facets(ctx context.Context, category string) ([]facet.Node, error)
	ChildFacets(ctx context.Context, category string, path []string) ([]facet.Node, error)
	TimeFacets(ctx context.Context, category string) ([]facet.Node, error)
	Categories(ctx context.Context) ([]facet.Category, error)
}

// DocumentGetter loads documents by identity.
type DocumentGetter interface {
	GetCase(ctx context.Context, name string) (document.Case, error)
	GetLaw(ctx context.Context, title string) (document.Law, error)
}

// Embedder vectorizes text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Store is the shared byte cache. Get reports a miss with db.ErrKeyNotFound.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
