package search

import (
	"context"

	"github.com/kailas-cloud/legalsearch/internal/domain/document"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/result"
)

// Repository runs the retrieval channels against the document store.
type Repository interface {
	LexicalCases(ctx context.Context, query string, p *filter.Predicate, limit int) ([]result.Candidate[document.Case], error)
	VectorCases(
		ctx context.Context, vector []float32, p *filter.Predicate, k, efRuntime int,
	) ([]result.Candidate[document.Case], error)
	LexicalLaws(ctx context.Context, query string, limit int) ([]result.Candidate[document.Law], error)
	VectorLaws(ctx context.Context, vector []float32, k, efRuntime int) ([]result.Candidate[document.Law], error)
}

// DocumentReader serves the browse paths and law hydration.
type DocumentReader interface {
	ListCases(ctx context.Context, p *filter.Predicate, offset, limit int) ([]document.Case, error)
	ListLaws(ctx context.Context, offset, limit int) ([]document.Law, error)
	LawsByTitle(ctx context.Context, titles []string) (map[string]document.Law, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
