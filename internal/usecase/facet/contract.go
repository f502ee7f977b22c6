package facet

import (
	"context"

	domfacet "github.com/kailas-cloud/legalsearch/internal/domain/facet"
)

// Repository reads facet distributions from the document store.
type Repository interface {
	Buckets(ctx context.Context, attr string) ([]domfacet.Bucket, error)
	YearBuckets(ctx context.Context, attr string) ([]domfacet.Bucket, error)
	PathArrays(ctx context.Context, attr string, path []string) ([][]string, error)
	HasChildren(ctx context.Context, category string, depth int, values []string) (map[string]bool, error)
}
