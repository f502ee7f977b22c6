package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/legalsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/mode"
)

func TestSearchRequest_BindsQuery(t *testing.T) {
	q, err := url.ParseQuery("q=%E5%90%88%E5%90%8C&filter=cause:%E6%B0%91%E4%BA%8B&filter=court:a:b" +
		"&page=3&page_size=20&mode=vector&score_threshold=0.25")
	if err != nil {
		t.Fatal(err)
	}
	req, err := searchRequest(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Query != "合同" || req.Page != 3 || req.PageSize != 20 || req.Mode != mode.Vector || req.ScoreThreshold != 0.25 {
		t.Errorf("request = %+v", req)
	}
	want := []filter.Selected{{Category: "cause", Value: "民事"}, {Category: "court", Value: "a:b"}}
	if !slices.Equal(req.Filters, want) {
		t.Errorf("filters = %+v, want %+v", req.Filters, want)
	}
}

func TestSearchRequest_AbsentParamsAreZero(t *testing.T) {
	req, err := searchRequest(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Query != "" || req.Filters != nil || req.Page != 0 || req.PageSize != 0 || req.Mode != "" || req.ScoreThreshold != 0 {
		t.Errorf("request = %+v", req)
	}
}

func TestStatuteRequest_IgnoresFilter(t *testing.T) {
	req, err := statuteRequest(url.Values{"filter": {"not-a-filter"}, "page": {"1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Query != "" || req.Page != 1 {
		t.Errorf("request = %+v", req)
	}
}

func TestChildPath(t *testing.T) {
	tests := []struct {
		raw     string
		want    []string
		wantErr bool
	}{
		{"path=A%7CB", []string{"A", "B"}, false},
		{"path=", []string{}, false},
		{"", nil, true},
		{"path=A&path=B", nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			q, _ := url.ParseQuery(tc.raw)
			got, err := childPath(q)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && (got == nil || !slices.Equal(got, tc.want)) {
				t.Errorf("path = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestPathParam(t *testing.T) {
	withParam := func(v string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("name", v)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	got, err := pathParam(withParam("%EF%BC%882021%EF%BC%89%E4%BA%AC73%E6%B0%91%E7%BB%881%E5%8F%B7"), "name")
	if err != nil || got != "（2021）京73民终1号" {
		t.Errorf("got %q, %v", got, err)
	}
	for _, bad := range []string{"", "  ", "%zz"} {
		if _, err := pathParam(withParam(bad), "name"); err == nil {
			t.Errorf("pathParam(%q): expected error", bad)
		}
	}
}
