package facet

import (
	"context"
	"slices"
	"sync"

	domfacet "github.com/kailas-cloud/legalsearch/internal/domain/facet"
)

// mockRepo serves cause paths from memory and records calls.
type mockRepo struct {
	mu        sync.Mutex
	causes    [][]string
	relations map[int][]string // depth -> values with children
	buckets   map[string][]domfacet.Bucket
	err       error

	pathCalls  int
	probeCalls int
	lastProbe  []string
}

func (m *mockRepo) Buckets(_ context.Context, attr string) ([]domfacet.Bucket, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.buckets[attr], nil
}

func (m *mockRepo) YearBuckets(_ context.Context, attr string) ([]domfacet.Bucket, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.buckets[attr], nil
}

func (m *mockRepo) PathArrays(_ context.Context, _ string, path []string) ([][]string, error) {
	m.mu.Lock()
	m.pathCalls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out [][]string
	for _, c := range m.causes {
		if containsAll(c, path) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockRepo) HasChildren(_ context.Context, _ string, depth int, values []string) (map[string]bool, error) {
	m.mu.Lock()
	m.probeCalls++
	m.lastProbe = values
	m.mu.Unlock()
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = slices.Contains(m.relations[depth], v)
	}
	return out, nil
}

func exampleRepo() *mockRepo {
	return &mockRepo{
		causes: [][]string{
			{"民事", "合同纠纷"},
			{"民事", "合同纠纷"},
			{"民事", "侵权纠纷"},
		},
		relations: map[int][]string{0: {"民事"}, 1: {"合同纠纷"}},
		buckets:   map[string][]domfacet.Bucket{},
	}
}
