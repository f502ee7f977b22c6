package db

import "github.com/kailas-cloud/legalsearch/internal/domain/search/filter"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	VectorField  string
	Filter       *filter.Predicate
	Vector       []float32
	K            int
	EFRuntime    int
	ReturnFields []string
}

// TextQuery is the input for full-text search scored by the index scorer.
type TextQuery struct {
	IndexName    string
	Fields       []string
	Query        string
	Filter       *filter.Predicate
	Limit        int
	ReturnFields []string
}

// ListQuery pages through documents matching a predicate in index order.
type ListQuery struct {
	IndexName    string
	Filter       *filter.Predicate
	Offset       int
	Limit        int
	ReturnFields []string
}

// AggregateQuery groups documents matching a predicate by one property
// and counts each group. Apply expressions run before grouping.
type AggregateQuery struct {
	IndexName string
	Filter    *filter.Predicate
	Load      []string
	Apply     []Projection
	GroupBy   string
	CountAs   string
}

// Projection is an APPLY expression and its alias.
type Projection struct {
	Expr string
	As   string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
