package document

import (
	"context"

	domdoc "github.com/kailas-cloud/legalsearch/internal/domain/document"
)

// Repository reads documents by identity.
type Repository interface {
	GetCase(ctx context.Context, name string) (domdoc.Case, error)
	GetLaw(ctx context.Context, title string) (domdoc.Law, error)
}
