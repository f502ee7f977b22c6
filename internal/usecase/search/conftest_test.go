package search

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/legalsearch/internal/domain"
	"github.com/kailas-cloud/legalsearch/internal/domain/category"
	"github.com/kailas-cloud/legalsearch/internal/domain/document"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/result"
)

// --- Mocks ---

type mockRepo struct {
	mu sync.Mutex

	lexCases []result.Candidate[document.Case]
	vecCases []result.Candidate[document.Case]
	lexLaws  []result.Candidate[document.Law]
	vecLaws  []result.Candidate[document.Law]
	lexErr   error
	vecErr   error

	lexCalls   int
	vecCalls   int
	lexFilter  *filter.Predicate
	vecFilter  *filter.Predicate
	lexLimit   int
	vecK       int
	vecEF      int
	lastVector []float32
}

// limitCases mimics the store: pushed-down predicates filter, limits cap.
func limitCases(in []result.Candidate[document.Case], p *filter.Predicate, limit int) []result.Candidate[document.Case] {
	var out []result.Candidate[document.Case]
	for _, c := range in {
		if p != nil && !p.Eval(c.Document) {
			continue
		}
		out = append(out, c)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *mockRepo) LexicalCases(
	_ context.Context, _ string, p *filter.Predicate, limit int,
) ([]result.Candidate[document.Case], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lexCalls++
	m.lexFilter, m.lexLimit = p, limit
	if m.lexErr != nil {
		return nil, m.lexErr
	}
	return limitCases(m.lexCases, p, limit), nil
}

func (m *mockRepo) VectorCases(
	_ context.Context, vec []float32, p *filter.Predicate, k, ef int,
) ([]result.Candidate[document.Case], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vecCalls++
	m.vecFilter, m.vecK, m.vecEF, m.lastVector = p, k, ef, vec
	if m.vecErr != nil {
		return nil, m.vecErr
	}
	return limitCases(m.vecCases, p, k), nil
}

func (m *mockRepo) LexicalLaws(_ context.Context, _ string, limit int) ([]result.Candidate[document.Law], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lexCalls++
	m.lexLimit = limit
	if m.lexErr != nil {
		return nil, m.lexErr
	}
	return m.lexLaws, nil
}

func (m *mockRepo) VectorLaws(_ context.Context, _ []float32, k, ef int) ([]result.Candidate[document.Law], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vecCalls++
	m.vecK, m.vecEF = k, ef
	if m.vecErr != nil {
		return nil, m.vecErr
	}
	return m.vecLaws, nil
}

type mockDocs struct {
	cases      []document.Case
	lawList    []document.Law
	laws       map[string]document.Law
	err        error
	listCalls  int
	listFilter *filter.Predicate
	offset     int
	limit      int
	titles     []string
}

func (m *mockDocs) ListCases(_ context.Context, p *filter.Predicate, offset, limit int) ([]document.Case, error) {
	m.listCalls++
	m.listFilter, m.offset, m.limit = p, offset, limit
	if m.err != nil {
		return nil, m.err
	}
	var matched []document.Case
	for _, c := range m.cases {
		if p == nil || p.Eval(c) {
			matched = append(matched, c)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	return matched[offset:min(offset+limit, len(matched))], nil
}

func (m *mockDocs) ListLaws(_ context.Context, offset, limit int) ([]document.Law, error) {
	m.listCalls++
	m.offset, m.limit = offset, limit
	if m.err != nil {
		return nil, m.err
	}
	if offset >= len(m.lawList) {
		return nil, nil
	}
	return m.lawList[offset:min(offset+limit, len(m.lawList))], nil
}

func (m *mockDocs) LawsByTitle(_ context.Context, titles []string) (map[string]document.Law, error) {
	m.titles = slices.Clone(titles)
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]document.Law)
	for _, t := range titles {
		if l, ok := m.laws[t]; ok {
			out[t] = l
		}
	}
	return out, nil
}

type mockEmbedder struct {
	mu    sync.Mutex
	vec   []float32
	err   error
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.vec, nil
}

func unavailable() error {
	return domain.ErrEmbeddingUnavailable
}

// --- Fixtures ---

func newTestService(repo *mockRepo, docs *mockDocs, emb *mockEmbedder, cfg Config) *Service {
	return New(repo, docs, emb, category.Default(), cfg, zap.NewNop())
}

func okEmbedder() *mockEmbedder { return &mockEmbedder{vec: []float32{0.1, 0.2}} }

func mkCase(name, typ string, cause ...string) document.Case {
	return document.Case{
		Name:     name,
		Type:     typ,
		Cause:    cause,
		JudgedAt: time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func cand(c document.Case, score float64) result.Candidate[document.Case] {
	return result.Candidate[document.Case]{Document: c, Score: score}
}

func passage(title string, score float64, index string) result.Candidate[document.Law] {
	return result.Candidate[document.Law]{
		Document: document.Law{Title: title, Path: [][]document.PathSegment{{{Index: index}}}},
		Score:    score,
		Partial:  true,
	}
}

func names(hits []result.Hit[document.Case]) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Document.Name
	}
	return out
}
