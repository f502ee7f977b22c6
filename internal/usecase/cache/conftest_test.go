package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/legalsearch/internal/domain"
	"github.com/kailas-cloud/legalsearch/internal/domain/document"
	"github.com/kailas-cloud/legalsearch/internal/domain/facet"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/request"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/result"
	"github.com/kailas-cloud/legalsearch/internal/repository/cachestore"
)

var testKeys = domain.NewKeyspace("ls:")

// countingBackend implements Searcher, Faceter and DocumentGetter and
// counts every downstream call.
type countingBackend struct {
	mu    sync.Mutex
	calls map[string]int

	page     result.Page[document.Case]
	laws     result.Page[document.Law]
	nodes    []facet.Node
	cats     []facet.Category
	caseDoc  document.Case
	lawDoc   document.Law
	err      error
	notFound bool
}

func newBackend() *countingBackend {
	return &countingBackend{
		calls: make(map[string]int),
		page: result.Page[document.Case]{
			Hits: []result.Hit[document.Case]{
				{Document: document.Case{Name: "D1", Cause: []string{"A", "B"}}, Scores: result.NewScores(2, 0.5)},
			},
			PageSize: 10,
			Channels: map[string]result.Status{
				result.ChannelLexical: result.StatusOK,
				result.ChannelVector:  result.StatusOK,
			},
		},
		laws: result.Page[document.Law]{
			Hits:     []result.Hit[document.Law]{{Document: document.Law{Title: "L1"}, Scores: result.NewScores(1, 0)}},
			PageSize: 10,
			Channels: map[string]result.Status{result.ChannelLexical: result.StatusOK},
		},
		nodes: []facet.Node{
			{Name: "A", DisplayName: "A", Count: 3, HasChildren: true},
			{Name: "X", DisplayName: "X", Count: 1, Children: []facet.Node{}},
		},
		cats:    []facet.Category{{Name: "cause", DisplayName: "Cause", Nodes: []facet.Node{{Name: "A", Count: 3}}}},
		caseDoc: document.Case{Name: "D1", Title: "First", JudgedAt: time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)},
		lawDoc:  document.Law{Title: "L1", Content: []document.Section{{Index: "1", Content: "text"}}},
	}
}

func (b *countingBackend) hit(op string) {
	b.mu.Lock()
	b.calls[op]++
	b.mu.Unlock()
}

func (b *countingBackend) count(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

func (b *countingBackend) Search(_ context.Context, _ request.Search) (result.Page[document.Case], error) {
	b.hit(OpSearch)
	return b.page, b.err
}

func (b *countingBackend) SearchStatutes(_ context.Context, _ request.Statute) (result.Page[document.Law], error) {
	b.hit(OpSearchStatutes)
	return b.laws, b.err
}

func (b *countingBackend) Facets(_ context.Context, _ string) ([]facet.Node, error) {
	b.hit(OpFacets)
	return b.nodes, b.err
}

func (b *countingBackend) ChildFacets(_ context.Context, _ string, _ []string) ([]facet.Node, error) {
	b.hit(OpChildFacets)
	return b.nodes, b.err
}

func (b *countingBackend) TimeFacets(_ context.Context, _ string) ([]facet.Node, error) {
	b.hit(OpTimeFacets)
	return b.nodes, b.err
}

func (b *countingBackend) Categories(_ context.Context) ([]facet.Category, error) {
	b.hit(OpCategories)
	return b.cats, b.err
}

func (b *countingBackend) GetCase(_ context.Context, _ string) (document.Case, error) {
	b.hit(OpGetCase)
	if b.notFound {
		return document.Case{}, domain.ErrNotFound
	}
	return b.caseDoc, b.err
}

func (b *countingBackend) GetLaw(_ context.Context, _ string) (document.Law, error) {
	b.hit(OpGetLaw)
	if b.notFound {
		return document.Law{}, domain.ErrNotFound
	}
	return b.lawDoc, b.err
}

type countingEmbedder struct {
	calls int
	vec   []float32
	err   error
}

func (e *countingEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	e.calls++
	return e.vec, e.err
}

// brokenStore fails every operation.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

// garbageStore returns undecodable bytes for every key.
type garbageStore struct{ sets int }

func (g *garbageStore) Get(context.Context, string) ([]byte, error) { return []byte{0xc1}, nil }

func (g *garbageStore) Set(context.Context, string, []byte, time.Duration) error {
	g.sets++
	return nil
}

func newTestEngine(b *countingBackend) (*Engine, *cachestore.Memory) {
	store := cachestore.NewMemory(100, time.Minute)
	return New(b, b, b, store, testKeys, time.Minute, zap.NewNop()), store
}
