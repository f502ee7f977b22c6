package chi

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/legalsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/request"
)

// PathSeparator joins child facet path values in the path query parameter.
const PathSeparator = "|"

// SearchParams defines parameters for GET /v1/cases/search and, without
// Filter, GET /v1/laws/search. Absent parameters stay nil.
type SearchParams struct {
	Q              *string
	Filter         *[]string
	Page           *int
	PageSize       *int
	Mode           *string
	ScoreThreshold *float64
}

// ChildFacetsParams defines parameters for GET /v1/facets/{category}/children.
type ChildFacetsParams struct {
	Path *string
}

// bindQuery binds one optional form-style, exploded query parameter.
// dest is a pointer to a pointer field of a params struct.
func bindQuery(q url.Values, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, q, dest); err != nil {
		return fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return nil
}

type binding struct {
	name string
	dest any
}

func bindSearchParams(q url.Values, withFilter bool) (SearchParams, error) {
	var p SearchParams
	binds := []binding{
		{"q", &p.Q},
		{"page", &p.Page},
		{"page_size", &p.PageSize},
		{"mode", &p.Mode},
		{"score_threshold", &p.ScoreThreshold},
	}
	if withFilter {
		binds = append(binds, binding{"filter", &p.Filter})
	}
	for _, b := range binds {
		if err := bindQuery(q, b.name, b.dest); err != nil {
			return SearchParams{}, err
		}
	}
	return p, nil
}

func searchRequest(q url.Values) (request.Search, error) {
	p, err := bindSearchParams(q, true)
	if err != nil {
		return request.Search{}, err
	}
	var filters []filter.Selected
	if p.Filter != nil {
		if filters, err = filter.ParseAll(*p.Filter); err != nil {
			return request.Search{}, fmt.Errorf("invalid filter: %w", err)
		}
	}
	return request.Search{
		Query:          deref(p.Q),
		Filters:        filters,
		ScoreThreshold: deref(p.ScoreThreshold),
		PageSize:       deref(p.PageSize),
		Page:           deref(p.Page),
		Mode:           mode.Mode(deref(p.Mode)),
	}, nil
}

func statuteRequest(q url.Values) (request.Statute, error) {
	p, err := bindSearchParams(q, false)
	if err != nil {
		return request.Statute{}, err
	}
	return request.Statute{
		Query:          deref(p.Q),
		ScoreThreshold: deref(p.ScoreThreshold),
		PageSize:       deref(p.PageSize),
		Page:           deref(p.Page),
		Mode:           mode.Mode(deref(p.Mode)),
	}, nil
}

// childPath reads the required path parameter. An empty value is the root level.
func childPath(q url.Values) ([]string, error) {
	var p ChildFacetsParams
	if err := bindQuery(q, "path", &p.Path); err != nil {
		return nil, err
	}
	if p.Path == nil {
		return nil, errors.New("query parameter path is required")
	}
	if *p.Path == "" {
		return []string{}, nil
	}
	return strings.Split(*p.Path, PathSeparator), nil
}

// pathParam binds a required simple-style path parameter.
func pathParam(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	if strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
