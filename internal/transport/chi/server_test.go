package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/kailas-cloud/legalsearch/internal/domain"
	"github.com/kailas-cloud/legalsearch/internal/domain/document"
	"github.com/kailas-cloud/legalsearch/internal/domain/facet"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/legalsearch/internal/usecase/health"
)

func do(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e
}

func TestSearchCases_ParsesQuery(t *testing.T) {
	api := &mockRetriever{casePage: result.Page[document.Case]{
		Hits:     []result.Hit[document.Case]{{Document: document.Case{Name: "D1"}, Scores: result.NewScores(5, 0.8)}},
		PageSize: 5,
		Channels: map[string]result.Status{result.ChannelLexical: result.StatusOK},
	}}
	rr := do(t, newTestServer(api),
		"/v1/cases/search?q=contract&filter=cause:A&filter=court:Supreme&page=2&page_size=5&mode=lexical&score_threshold=1.5")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	got := api.lastSearch
	if got.Query != "contract" || got.Page != 2 || got.PageSize != 5 || got.Mode != mode.Lexical || got.ScoreThreshold != 1.5 {
		t.Errorf("request = %+v", got)
	}
	wantFilters := []filter.Selected{{Category: "cause", Value: "A"}, {Category: "court", Value: "Supreme"}}
	if !slices.Equal(got.Filters, wantFilters) {
		t.Errorf("filters = %v, want %v", got.Filters, wantFilters)
	}

	var page result.Page[document.Case]
	if err := json.NewDecoder(rr.Body).Decode(&page); err != nil {
		t.Fatal(err)
	}
	if len(page.Hits) != 1 || page.Hits[0].Scores.SortScore != 89 {
		t.Errorf("page = %+v", page)
	}
	if page.Channels[result.ChannelLexical] != result.StatusOK {
		t.Errorf("channels = %v", page.Channels)
	}
}

func TestSearchCases_BadParams(t *testing.T) {
	for _, target := range []string{
		"/v1/cases/search?page=x",
		"/v1/cases/search?page_size=1.5",
		"/v1/cases/search?score_threshold=high",
		"/v1/cases/search?filter=cause",
		"/v1/cases/search?filter=:A",
		"/v1/cases/search?page=1&page=2",
		"/v1/cases/search?" + strings.Repeat("filter=cause:A&", filter.MaxSelected+1),
		"/v1/laws/search?page_size=ten",
	} {
		t.Run(target, func(t *testing.T) {
			rr := do(t, newTestServer(&mockRetriever{}), target)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
			if e := decodeError(t, rr); e.Code != codeBadRequest {
				t.Errorf("code = %q", e.Code)
			}
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
		code string
	}{
		{fmt.Errorf("%w: page must be between 0 and 1000", domain.ErrInvalidRequest), http.StatusBadRequest, codeBadRequest},
		{fmt.Errorf("get case: %w", domain.ErrNotFound), http.StatusNotFound, codeNotFound},
		{fmt.Errorf("%w: dial tcp", domain.ErrEmbeddingUnavailable), http.StatusBadGateway, codeEmbeddingUnavailable},
		{fmt.Errorf("%w: both channels", domain.ErrRetrievalFailed), http.StatusInternalServerError, codeRetrievalFailed},
		{fmt.Errorf("redis: connection reset"), http.StatusInternalServerError, codeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rr := do(t, newTestServer(&mockRetriever{err: tt.err}), "/v1/laws/search?q=x")
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
			e := decodeError(t, rr)
			if e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
			if strings.Contains(e.Message, "dial tcp") || strings.Contains(e.Message, "connection reset") {
				t.Errorf("internal detail leaked: %q", e.Message)
			}
		})
	}
}

func TestSearchLaws(t *testing.T) {
	api := &mockRetriever{}
	rr := do(t, newTestServer(api), "/v1/laws/search?q=%E7%A7%9F%E8%B5%81&mode=vector")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if api.lastStatute.Query != "租赁" || api.lastStatute.Mode != mode.Vector {
		t.Errorf("request = %+v", api.lastStatute)
	}
}

func TestSearchLaws_NoQuery(t *testing.T) {
	api := &mockRetriever{}
	rr := do(t, newTestServer(api), "/v1/laws/search?page=1")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if api.lastStatute.Query != "" || api.lastStatute.Page != 1 {
		t.Errorf("request = %+v", api.lastStatute)
	}
}

func TestFacetRoutes(t *testing.T) {
	api := &mockRetriever{nodes: []facet.Node{{Name: "A", Count: 3, HasChildren: true}}}
	s := newTestServer(api)

	rr := do(t, s, "/v1/facets/court")
	if rr.Code != http.StatusOK || api.lastCategory != "court" {
		t.Errorf("facets: status %d category %q", rr.Code, api.lastCategory)
	}
	var body struct {
		Filters []facet.Node `json:"filters"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Filters) != 1 || !body.Filters[0].HasChildren {
		t.Errorf("filters = %+v", body.Filters)
	}

	rr = do(t, s, "/v1/facets/judgedAt/years")
	if rr.Code != http.StatusOK || api.lastCategory != "judgedAt" {
		t.Errorf("years: status %d category %q", rr.Code, api.lastCategory)
	}

	rr = do(t, s, "/v1/facets/cause/children?path=A%7CB")
	if rr.Code != http.StatusOK {
		t.Fatalf("children: status %d", rr.Code)
	}
	if api.lastCategory != "cause" || !slices.Equal(api.lastPath, []string{"A", "B"}) {
		t.Errorf("children: category %q path %v", api.lastCategory, api.lastPath)
	}

	rr = do(t, s, "/v1/facets/cause/children?path=")
	if rr.Code != http.StatusOK || len(api.lastPath) != 0 || api.lastPath == nil {
		t.Errorf("root children: status %d path %#v", rr.Code, api.lastPath)
	}
}

func TestChildFacets_MissingPath(t *testing.T) {
	rr := do(t, newTestServer(&mockRetriever{}), "/v1/facets/cause/children")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestCategories(t *testing.T) {
	api := &mockRetriever{cats: []facet.Category{{Name: "cause", DisplayName: "案由"}}}
	rr := do(t, newTestServer(api), "/v1/facets")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"displayName":"案由"`) {
		t.Errorf("body = %s", rr.Body)
	}
}

func TestGetDocuments_UnescapesIdentity(t *testing.T) {
	api := &mockRetriever{}
	s := newTestServer(api)

	rr := do(t, s, "/v1/cases/%E6%A1%88%201")
	if rr.Code != http.StatusOK || api.lastID != "案 1" {
		t.Errorf("case: status %d id %q", rr.Code, api.lastID)
	}
	rr = do(t, s, "/v1/laws/%E5%90%88%E5%90%8C%E6%B3%95")
	if rr.Code != http.StatusOK || api.lastID != "合同法" {
		t.Errorf("law: status %d id %q", rr.Code, api.lastID)
	}
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(&mockRetriever{})
	rr := do(t, s, "/health")
	if rr.Code != http.StatusOK {
		t.Errorf("healthy status = %d", rr.Code)
	}

	s.health = &mockHealth{report: healthuc.Report{Status: healthuc.Degraded}}
	rr = do(t, s, "/health")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("degraded status = %d", rr.Code)
	}
	var report healthuc.Report
	if err := json.NewDecoder(rr.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if report.Status != healthuc.Degraded {
		t.Errorf("report = %+v", report)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(&mockRetriever{})
	_ = do(t, s, "/v1/facets/court")
	rr := do(t, s, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `legalsearch_http_requests_total{method="GET",path="/v1/facets/{category}"`) {
		t.Error("expected route-pattern labelled request counter")
	}
}

func TestUnknownRoute(t *testing.T) {
	rr := do(t, newTestServer(&mockRetriever{}), "/v2/nothing")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d", rr.Code)
	}
	if e := decodeError(t, rr); e.Code != codeNotFound {
		t.Errorf("code = %q", e.Code)
	}
}

func TestRecoverer(t *testing.T) {
	rr := do(t, newTestServer(&mockRetriever{panicOn: "search"}), "/v1/cases/search?q=x")
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rr.Code)
	}
	if e := decodeError(t, rr); e.Code != codeInternal {
		t.Errorf("code = %q", e.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	rr := do(t, newTestServer(&mockRetriever{}), "/health")
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}
