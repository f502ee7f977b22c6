package legalsearch

import "github.com/kailas-cloud/legalsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound             = domain.ErrNotFound
	ErrInvalidRequest       = domain.ErrInvalidRequest
	ErrEmbeddingUnavailable = domain.ErrEmbeddingUnavailable
	ErrRetrievalFailed      = domain.ErrRetrievalFailed
)
