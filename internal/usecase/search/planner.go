package search

import (
	"fmt"

	"github.com/kailas-cloud/legalsearch/internal/domain/category"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/request"
)

// JoinPrefix scopes case attributes in predicates evaluated after fusion,
// where vector hits are joined to their owning case.
const JoinPrefix = "case."

// Planner defaults.
const (
	DefaultCaseCandidateMultiplier    = 1
	DefaultStatuteCandidateMultiplier = 5
	DefaultNumCandidates              = 150
)

// FailurePolicy decides what a query-bearing search returns when the
// query cannot be embedded.
type FailurePolicy string

const (
	// FailEmpty returns an empty page.
	FailEmpty FailurePolicy = "empty"
	// FailLexical serves the request from the lexical channel alone.
	FailLexical FailurePolicy = "lexical"
)

// IsValid reports whether the policy is known.
func (p FailurePolicy) IsValid() bool { return p == FailEmpty || p == FailLexical }

// Config tunes planning and failure handling.
type Config struct {
	CaseCandidateMultiplier    int
	StatuteCandidateMultiplier int
	NumCandidates              int
	EmbeddingFailure           FailurePolicy
	// VectorFilterPushdown filters inside the case KNN query. It requires a
	// chunk index that carries the case attributes.
	VectorFilterPushdown bool
	// PostFusionFilter applies the predicate only after merging, for both channels.
	PostFusionFilter bool
	Limits           request.Limits
}

func (c Config) withDefaults() Config {
	if c.CaseCandidateMultiplier <= 0 {
		c.CaseCandidateMultiplier = DefaultCaseCandidateMultiplier
	}
	if c.StatuteCandidateMultiplier <= 0 {
		c.StatuteCandidateMultiplier = DefaultStatuteCandidateMultiplier
	}
	if c.NumCandidates <= 0 {
		c.NumCandidates = DefaultNumCandidates
	}
	if !c.EmbeddingFailure.IsValid() {
		c.EmbeddingFailure = FailEmpty
	}
	return c
}

// Channel is the plan of one retrieval channel. A disabled channel is a no-op.
type Channel struct {
	Enabled   bool
	Limit     int
	EFRuntime int
	Filter    *filter.Predicate
}

// Plan describes how one request is served.
type Plan struct {
	Query   string
	Lexical Channel
	Vector  Channel
	// PostFilter is evaluated on merged documents under JoinPrefix.
	PostFilter *filter.Predicate
	// Browse selects the pure-filter path; Filter applies directly.
	Browse    bool
	Filter    *filter.Predicate
	Threshold float64
	Skip      int
	Limit     int
}

// PlanCases plans a case search. The request must be normalized.
func PlanCases(req request.Search, schema *category.Schema, cfg Config) (Plan, error) {
	cfg = cfg.withDefaults()
	if schema == nil {
		schema = category.Default()
	}

	plan := Plan{
		Query:     req.Query,
		Threshold: req.ScoreThreshold,
		Skip:      req.Page * req.PageSize,
		Limit:     req.PageSize,
	}

	pred, err := filter.Build(schema, req.Filters, "")
	if err != nil {
		return Plan{}, fmt.Errorf("plan: %w", err)
	}
	if req.Query == "" {
		plan.Browse = true
		plan.Filter = pred
		return plan, nil
	}

	window := request.Window(req.Page, req.PageSize)
	if req.Mode.UsesLexical() {
		plan.Lexical = Channel{Enabled: true, Limit: window}
		if !cfg.PostFusionFilter {
			plan.Lexical.Filter = pred
		}
	}
	if req.Mode.UsesVector() {
		k := window * cfg.CaseCandidateMultiplier
		plan.Vector = Channel{Enabled: true, Limit: k, EFRuntime: max(cfg.NumCandidates, k)}
		if cfg.VectorFilterPushdown && !cfg.PostFusionFilter {
			plan.Vector.Filter = pred
		}
	}

	needPost := cfg.PostFusionFilter || (plan.Vector.Enabled && !cfg.VectorFilterPushdown)
	if pred != nil && needPost {
		post, err := filter.Build(schema, req.Filters, JoinPrefix)
		if err != nil {
			return Plan{}, fmt.Errorf("plan: %w", err)
		}
		plan.PostFilter = post
	}
	return plan, nil
}

// PlanStatutes plans a law search. The request must be normalized.
// An empty query selects the browse path over the law index.
func PlanStatutes(req request.Statute, cfg Config) Plan {
	cfg = cfg.withDefaults()
	plan := Plan{
		Query:     req.Query,
		Threshold: req.ScoreThreshold,
		Skip:      req.Page * req.PageSize,
		Limit:     req.PageSize,
	}
	if req.Query == "" {
		plan.Browse = true
		return plan
	}
	window := request.Window(req.Page, req.PageSize)
	if req.Mode.UsesLexical() {
		plan.Lexical = Channel{Enabled: true, Limit: window}
	}
	if req.Mode.UsesVector() {
		k := window * cfg.StatuteCandidateMultiplier
		plan.Vector = Channel{Enabled: true, Limit: k, EFRuntime: max(cfg.NumCandidates, k)}
	}
	return plan
}

// degradeToLexical serves a plan from the lexical channel when the vector
// channel cannot run. A lexical channel that was not requested is enabled
// with the fused window and the predicate moves into it.
func (p Plan) degradeToLexical(window int) Plan {
	if !p.Lexical.Enabled {
		p.Lexical = Channel{Enabled: true, Limit: window, Filter: p.Vector.Filter}
	}
	return p
}
