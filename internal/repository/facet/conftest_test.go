package facet

import (
	"context"

	"github.com/kailas-cloud/legalsearch/internal/db"
	"github.com/kailas-cloud/legalsearch/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	aggregateFn  func(ctx context.Context, q *db.AggregateQuery) ([]map[string]string, error)
	searchListFn func(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	smIsMemberFn func(ctx context.Context, key string, members []string) ([]bool, error)
}

func (m *mockStore) Aggregate(ctx context.Context, q *db.AggregateQuery) ([]map[string]string, error) {
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, q)
	}
	return nil, nil
}

func (m *mockStore) SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	if m.searchListFn != nil {
		return m.searchListFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SMIsMember(ctx context.Context, key string, members []string) ([]bool, error) {
	if m.smIsMemberFn != nil {
		return m.smIsMemberFn(ctx, key, members)
	}
	return make([]bool, len(members)), nil
}

var testKeys = domain.NewKeyspace("ls:")
