package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/legalsearch/internal/domain"
	domdoc "github.com/kailas-cloud/legalsearch/internal/domain/document"
)

// MaxIdentityLength bounds case names and law titles.
const MaxIdentityLength = 512

// Service looks up documents by identity.
type Service struct {
	repo Repository
}

// New creates a document service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetCase returns a case by name.
func (s *Service) GetCase(ctx context.Context, name string) (domdoc.Case, error) {
	name, err := identity(name)
	if err != nil {
		return domdoc.Case{}, err
	}
	c, err := s.repo.GetCase(ctx, name)
	if err != nil {
		return domdoc.Case{}, fmt.Errorf("get case: %w", err)
	}
	return c, nil
}

// GetLaw returns a law by title.
func (s *Service) GetLaw(ctx context.Context, title string) (domdoc.Law, error) {
	title, err := identity(title)
	if err != nil {
		return domdoc.Law{}, err
	}
	l, err := s.repo.GetLaw(ctx, title)
	if err != nil {
		return domdoc.Law{}, fmt.Errorf("get law: %w", err)
	}
	return l, nil
}

func identity(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: identity is required", domain.ErrInvalidRequest)
	}
	if len(id) > MaxIdentityLength {
		return "", fmt.Errorf("%w: identity too long (max %d bytes)", domain.ErrInvalidRequest, MaxIdentityLength)
	}
	return id, nil
}
