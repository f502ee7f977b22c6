package legalsearch

import (
	"context"
	"sync"

	"github.com/kailas-cloud/legalsearch/internal/domain/document"
	"github.com/kailas-cloud/legalsearch/internal/domain/facet"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/request"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/legalsearch/internal/usecase/health"
)

// --- retriever mock ---

type mockRetriever struct {
	mu    sync.Mutex
	calls []string

	page     result.Page[document.Case]
	lawPage  result.Page[document.Law]
	nodes    []facet.Node
	cats     []facet.Category
	cs       document.Case
	law      document.Law
	err      error
	lastPath []string
}

func (m *mockRetriever) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, op)
}

func (m *mockRetriever) Search(_ context.Context, _ request.Search) (result.Page[document.Case], error) {
	m.record("search")
	return m.page, m.err
}

func (m *mockRetriever) SearchStatutes(_ context.Context, _ request.Statute) (result.Page[document.Law], error) {
	m.record("search_statutes")
	return m.lawPage, m.err
}

func (m *mockRetriever) Facets(_ context.Context, _ string) ([]facet.Node, error) {
	m.record("facets")
	return m.nodes, m.err
}

func (m *mockRetriever) ChildFacets(_ context.Context, _ string, path []string) ([]facet.Node, error) {
	m.record("child_facets")
	m.lastPath = path
	return m.nodes, m.err
}

func (m *mockRetriever) TimeFacets(_ context.Context, _ string) ([]facet.Node, error) {
	m.record("time_facets")
	return m.nodes, m.err
}

func (m *mockRetriever) Categories(_ context.Context) ([]facet.Category, error) {
	m.record("categories")
	return m.cats, m.err
}

func (m *mockRetriever) GetCase(_ context.Context, _ string) (document.Case, error) {
	m.record("get_case")
	return m.cs, m.err
}

func (m *mockRetriever) GetLaw(_ context.Context, _ string) (document.Law, error) {
	m.record("get_law")
	return m.law, m.err
}

// --- healthUseCase mock ---

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

// --- Embedder mock ---

type mockEmbedder struct {
	fn        func(ctx context.Context, text string) (EmbeddingResult, error)
	healthErr error
	checked   bool
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

// plainEmbedder has no HealthCheck method.
type plainEmbedder struct{}

func (plainEmbedder) Embed(_ context.Context, _ string) (EmbeddingResult, error) {
	return EmbeddingResult{Embedding: []float32{1}}, nil
}

type checkingEmbedder struct {
	mockEmbedder
}

func (c *checkingEmbedder) HealthCheck(_ context.Context) error {
	c.checked = true
	return c.healthErr
}

func newTestClient(api retriever, obs *observer) *Client {
	return &Client{api: api, healthSvc: &mockHealth{}, obs: obs}
}
