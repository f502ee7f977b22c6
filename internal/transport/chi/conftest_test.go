package chi

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/legalsearch/internal/domain/document"
	"github.com/kailas-cloud/legalsearch/internal/domain/facet"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/request"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/legalsearch/internal/usecase/health"
)

// mockRetriever records the last request and returns canned values.
type mockRetriever struct {
	err error

	lastSearch   request.Search
	lastStatute  request.Statute
	lastCategory string
	lastPath     []string
	lastID       string
	panicOn      string

	casePage result.Page[document.Case]
	lawPage  result.Page[document.Law]
	nodes    []facet.Node
	cats     []facet.Category
}

func (m *mockRetriever) Search(_ context.Context, req request.Search) (result.Page[document.Case], error) {
	if m.panicOn == "search" {
		panic("boom")
	}
	m.lastSearch = req
	return m.casePage, m.err
}

func (m *mockRetriever) SearchStatutes(_ context.Context, req request.Statute) (result.Page[document.Law], error) {
	m.lastStatute = req
	return m.lawPage, m.err
}

func (m *mockRetriever) Facets(_ context.Context, category string) ([]facet.Node, error) {
	m.lastCategory = category
	return m.nodes, m.err
}

func (m *mockRetriever) ChildFacets(_ context.Context, category string, path []string) ([]facet.Node, error) {
	m.lastCategory, m.lastPath = category, path
	return m.nodes, m.err
}

func (m *mockRetriever) TimeFacets(_ context.Context, category string) ([]facet.Node, error) {
	m.lastCategory = category
	return m.nodes, m.err
}

func (m *mockRetriever) Categories(_ context.Context) ([]facet.Category, error) {
	return m.cats, m.err
}

func (m *mockRetriever) GetCase(_ context.Context, name string) (document.Case, error) {
	m.lastID = name
	return document.Case{Name: name, Title: "t"}, m.err
}

func (m *mockRetriever) GetLaw(_ context.Context, title string) (document.Law, error) {
	m.lastID = title
	return document.Law{Title: title}, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

func newTestServer(api *mockRetriever) *Server {
	return NewServer(api, &mockHealth{report: healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
	}}, zap.NewNop())
}
