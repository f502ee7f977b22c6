package search

import (
	"testing"

	"github.com/kailas-cloud/legalsearch/internal/domain/category"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/request"
)

func normalized(t *testing.T, r request.Search) request.Search {
	t.Helper()
	n, err := r.Normalize(request.Limits{})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return n
}

func TestPlanCases_Modes(t *testing.T) {
	tests := []struct {
		mode    mode.Mode
		lexical bool
		vector  bool
	}{
		{mode.Hybrid, true, true},
		{mode.Lexical, true, false},
		{mode.Vector, false, true},
	}
	for _, tc := range tests {
		t.Run(string(tc.mode), func(t *testing.T) {
			plan, err := PlanCases(normalized(t, request.Search{Query: "q", Mode: tc.mode}), category.Default(), Config{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if plan.Lexical.Enabled != tc.lexical || plan.Vector.Enabled != tc.vector {
				t.Errorf("plan = %+v", plan)
			}
		})
	}
}

func TestPlanCases_Sizing(t *testing.T) {
	req := normalized(t, request.Search{Query: "q", Page: 2, PageSize: 10})

	plan, err := PlanCases(req, category.Default(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Skip != 20 || plan.Limit != 10 || plan.Lexical.Limit != 30 {
		t.Errorf("skip=%d limit=%d lexical=%d", plan.Skip, plan.Limit, plan.Lexical.Limit)
	}
	if plan.Vector.Limit != 30 || plan.Vector.EFRuntime != DefaultNumCandidates {
		t.Errorf("vector = %+v", plan.Vector)
	}

	plan, err = PlanCases(req, category.Default(), Config{CaseCandidateMultiplier: 10, NumCandidates: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Vector.Limit != 300 || plan.Vector.EFRuntime != 300 {
		t.Errorf("EF_RUNTIME must cover K, got %+v", plan.Vector)
	}
}

func TestPlanCases_FilterPlacement(t *testing.T) {
	req := normalized(t, request.Search{
		Query:   "q",
		Filters: []filter.Selected{{Category: "cause", Value: "民事"}},
	})
	tests := []struct {
		name         string
		cfg          Config
		lexicalPush  bool
		vectorPush   bool
		postFiltered bool
	}{
		{"default", Config{}, true, false, true},
		{"vector pushdown", Config{VectorFilterPushdown: true}, true, true, false},
		{"post fusion only", Config{PostFusionFilter: true, VectorFilterPushdown: true}, false, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := PlanCases(req, category.Default(), tc.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (plan.Lexical.Filter != nil) != tc.lexicalPush {
				t.Errorf("lexical filter = %v", plan.Lexical.Filter)
			}
			if (plan.Vector.Filter != nil) != tc.vectorPush {
				t.Errorf("vector filter = %v", plan.Vector.Filter)
			}
			if (plan.PostFilter != nil) != tc.postFiltered {
				t.Errorf("post filter = %v", plan.PostFilter)
			}
			if plan.PostFilter != nil {
				fields := plan.PostFilter.Fields()
				if len(fields) != 1 || fields[0] != JoinPrefix+"cause" {
					t.Errorf("post filter fields = %v", fields)
				}
			}
		})
	}
}

func TestPlanCases_LexicalOnlyNeedsNoPostFilter(t *testing.T) {
	req := normalized(t, request.Search{
		Query:   "q",
		Mode:    mode.Lexical,
		Filters: []filter.Selected{{Category: "type", Value: "典型案例"}},
	})
	plan, err := PlanCases(req, category.Default(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.PostFilter != nil || plan.Lexical.Filter == nil {
		t.Errorf("plan = %+v", plan)
	}
}

func TestPlanCases_Browse(t *testing.T) {
	req := normalized(t, request.Search{Filters: []filter.Selected{{Category: "type", Value: "典型案例"}}})
	plan, err := PlanCases(req, category.Default(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Browse || plan.Filter == nil || plan.Lexical.Enabled || plan.Vector.Enabled {
		t.Errorf("plan = %+v", plan)
	}
}

func TestPlanStatutes(t *testing.T) {
	req, err := request.Statute{Query: "q", PageSize: 4, Page: 1}.Normalize(request.Limits{})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	plan := PlanStatutes(req, Config{})
	if plan.Browse || plan.Lexical.Limit != 8 || plan.Vector.Limit != 40 {
		t.Errorf("plan = %+v", plan)
	}
}

func TestPlanStatutes_EmptyQueryBrowses(t *testing.T) {
	req, err := request.Statute{PageSize: 5, Page: 2}.Normalize(request.Limits{})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	plan := PlanStatutes(req, Config{})
	if !plan.Browse || plan.Lexical.Enabled || plan.Vector.Enabled {
		t.Errorf("plan = %+v", plan)
	}
	if plan.Skip != 10 || plan.Limit != 5 {
		t.Errorf("skip = %d, limit = %d", plan.Skip, plan.Limit)
	}
}

func TestConfig_Defaults(t *testing.T) {
	c := Config{EmbeddingFailure: "retry"}.withDefaults()
	if c.EmbeddingFailure != FailEmpty {
		t.Errorf("unknown policy should fall back to empty, got %q", c.EmbeddingFailure)
	}
	if c.StatuteCandidateMultiplier != 5 || c.CaseCandidateMultiplier != 1 || c.NumCandidates != 150 {
		t.Errorf("defaults = %+v", c)
	}
}
