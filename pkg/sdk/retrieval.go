package legalsearch

import (
	"context"
	"time"

	"github.com/kailas-cloud/legalsearch/internal/domain/document"
	"github.com/kailas-cloud/legalsearch/internal/domain/facet"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/request"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/result"
)

// retriever is the cached operation surface (internal, replaced in tests).
//
//nolint:interfacebloat // mirrors the public operation set
type retriever interface {
	Search(ctx context.Context, req request.Search) (result.Page[document.Case], error)
	SearchStatutes(ctx context.Context, req request.Statute) (result.Page[document.Law], error)
	Facets(ctx context.Context, category string) ([]facet.Node, error)
	ChildFacets(ctx context.Context, category string, path []string) ([]facet.Node, error)
	TimeFacets(ctx context.Context, category string) ([]facet.Node, error)
	Categories(ctx context.Context) ([]facet.Category, error)
	GetCase(ctx context.Context, name string) (document.Case, error)
	GetLaw(ctx context.Context, title string) (document.Law, error)
}

// Search returns one page of cases. An empty query browses the cases
// matching the filters without scores.
func (c *Client) Search(ctx context.Context, req SearchRequest) (page CasePage, err error) {
	start := time.Now()
	defer func() { c.obs.observePage("search", start, err, page.Degraded()) }()

	return c.api.Search(ctx, req) //nolint:wrapcheck // domain errors are public
}

// SearchStatutes returns one page of laws carrying their matched passages.
func (c *Client) SearchStatutes(ctx context.Context, req StatuteRequest) (page LawPage, err error) {
	start := time.Now()
	defer func() { c.obs.observePage("search_statutes", start, err, page.Degraded()) }()

	return c.api.SearchStatutes(ctx, req) //nolint:wrapcheck // domain errors are public
}

// Facets returns the root nodes of a category.
func (c *Client) Facets(ctx context.Context, category string) (nodes []FacetNode, err error) {
	start := time.Now()
	defer func() { c.obs.observe("facets", start, err) }()

	return c.api.Facets(ctx, category) //nolint:wrapcheck // domain errors are public
}

// ChildFacets returns the children of the node at path. An empty path
// returns the root level.
func (c *Client) ChildFacets(ctx context.Context, category string, path []string) (nodes []FacetNode, err error) {
	start := time.Now()
	defer func() { c.obs.observe("child_facets", start, err) }()

	return c.api.ChildFacets(ctx, category, path) //nolint:wrapcheck // domain errors are public
}

// TimeFacets returns the year distribution of a date category, newest first.
func (c *Client) TimeFacets(ctx context.Context, category string) (nodes []FacetNode, err error) {
	start := time.Now()
	defer func() { c.obs.observe("time_facets", start, err) }()

	return c.api.TimeFacets(ctx, category) //nolint:wrapcheck // domain errors are public
}

// Categories returns every filterable category with its root nodes.
func (c *Client) Categories(ctx context.Context) (cats []FacetCategory, err error) {
	start := time.Now()
	defer func() { c.obs.observe("categories", start, err) }()

	return c.api.Categories(ctx) //nolint:wrapcheck // domain errors are public
}

// GetCase returns a case by name.
func (c *Client) GetCase(ctx context.Context, name string) (cs Case, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get_case", start, err) }()

	return c.api.GetCase(ctx, name) //nolint:wrapcheck // domain errors are public
}

// GetLaw returns a law by title.
func (c *Client) GetLaw(ctx context.Context, title string) (law Law, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get_law", start, err) }()

	return c.api.GetLaw(ctx, title) //nolint:wrapcheck // domain errors are public
}
