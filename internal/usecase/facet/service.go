package facet

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/legalsearch/internal/domain"
	"github.com/kailas-cloud/legalsearch/internal/domain/category"
	domfacet "github.com/kailas-cloud/legalsearch/internal/domain/facet"
)

// Service computes facet counts for the filter tree.
type Service struct {
	repo   Repository
	schema *category.Schema
	logger *zap.Logger
}

// New creates a facet service.
func New(repo Repository, schema *category.Schema, logger *zap.Logger) *Service {
	if schema == nil {
		schema = category.Default()
	}
	return &Service{repo: repo, schema: schema, logger: logger}
}

// Schema returns the category schema the service serves.
func (s *Service) Schema() *category.Schema { return s.schema }

// Facets returns the value distribution of a scalar category.
func (s *Service) Facets(ctx context.Context, name string) ([]domfacet.Node, error) {
	if err := s.expectKind(name, category.KindScalar); err != nil {
		return nil, err
	}
	buckets, err := s.repo.Buckets(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("facets %s: %w", name, err)
	}
	return domfacet.FromBuckets(buckets), nil
}

// TimeFacets returns the per-year distribution of a date category.
func (s *Service) TimeFacets(ctx context.Context, name string) ([]domfacet.Node, error) {
	if err := s.expectKind(name, category.KindYear); err != nil {
		return nil, err
	}
	buckets, err := s.repo.YearBuckets(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("time facets %s: %w", name, err)
	}
	return domfacet.FromYearBuckets(buckets), nil
}

// ChildFacets returns the values one level below path in a hierarchical
// category. A document qualifies when its path contains every value of
// path in any position; the value it holds at index len(path) is counted.
func (s *Service) ChildFacets(ctx context.Context, name string, path []string) ([]domfacet.Node, error) {
	if err := s.expectKind(name, category.KindHierarchy); err != nil {
		return nil, err
	}
	if slices.Contains(path, "") {
		return nil, fmt.Errorf("%w: empty value in path of %q", domain.ErrInvalidRequest, name)
	}

	arrays, err := s.repo.PathArrays(ctx, name, path)
	if err != nil {
		return nil, fmt.Errorf("child facets %s: %w", name, err)
	}

	depth := len(path)
	counts := make(map[string]int64)
	var order []string
	for _, arr := range arrays {
		if !containsAll(arr, path) || len(arr) <= depth {
			continue
		}
		v := arr[depth]
		if v == "" {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	if len(order) == 0 {
		return []domfacet.Node{}, nil
	}

	flags, err := s.repo.HasChildren(ctx, name, depth, order)
	if err != nil {
		return nil, fmt.Errorf("child facets %s: %w", name, err)
	}

	nodes := make([]domfacet.Node, 0, len(order))
	for _, v := range order {
		n := domfacet.Node{Name: v, DisplayName: v, Count: counts[v], HasChildren: flags[v]}
		if !n.HasChildren {
			n.Children = []domfacet.Node{}
		}
		nodes = append(nodes, n)
	}
	domfacet.SortByCount(nodes)
	return nodes, nil
}

// Roots returns the root level of any category, dispatching on its kind.
func (s *Service) Roots(ctx context.Context, name string) ([]domfacet.Node, error) {
	kind, err := s.schema.MustKind(name)
	if err != nil {
		return nil, err
	}
	switch kind {
	case category.KindHierarchy:
		return s.ChildFacets(ctx, name, nil)
	case category.KindYear:
		return s.TimeFacets(ctx, name)
	default:
		return s.Facets(ctx, name)
	}
}

// Categories returns the initial filter tree: the root level of every
// category in schema order.
func (s *Service) Categories(ctx context.Context) ([]domfacet.Category, error) {
	all := s.schema.All()
	out := make([]domfacet.Category, len(all))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range all {
		g.Go(func() error {
			nodes, err := s.Roots(gctx, c.Name)
			if err != nil {
				return err
			}
			out[i] = domfacet.Category{Name: c.Name, DisplayName: c.DisplayName, Nodes: nodes}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}

	s.logger.Debug("Filter tree built", zap.Int("categories", len(out)))
	return out, nil
}

func (s *Service) expectKind(name string, want category.Kind) error {
	kind, err := s.schema.MustKind(name)
	if err != nil {
		return err
	}
	if kind != want {
		return fmt.Errorf("%w: category %q is %s, not %s", domain.ErrInvalidRequest, name, kind, want)
	}
	return nil
}

func containsAll(arr, values []string) bool {
	for _, v := range values {
		if !slices.Contains(arr, v) {
			return false
		}
	}
	return true
}
