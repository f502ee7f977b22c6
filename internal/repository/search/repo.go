package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/legalsearch/internal/db"
	"github.com/kailas-cloud/legalsearch/internal/domain"
	"github.com/kailas-cloud/legalsearch/internal/domain/document"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/result"
	docrepo "github.com/kailas-cloud/legalsearch/internal/repository/document"
)

// Text attributes searched by the lexical channels.
var (
	CaseTextFields = []string{"title", "name", "subtitle", "keywords", "content"}
	LawTextFields  = []string{"title", "introduction", "notification", "content"}
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	JSONMGet(ctx context.Context, keys []string, path string) ([][]byte, error)
}

// Repo runs the lexical and vector retrieval channels.
type Repo struct {
	store store
	keys  domain.Keyspace
}

// New creates a search repository.
func New(s store, keys domain.Keyspace) *Repo {
	return &Repo{store: s, keys: keys}
}

// LexicalCases runs full-text search over the case index.
func (r *Repo) LexicalCases(
	ctx context.Context, query string, p *filter.Predicate, limit int,
) ([]result.Candidate[document.Case], error) {
	sr, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName:    r.keys.CaseIndex(),
		Fields:       CaseTextFields,
		Query:        query,
		Filter:       p,
		Limit:        limit,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, fmt.Errorf("lexical cases: %w", err)
	}
	if sr == nil {
		return nil, nil
	}

	out := make([]result.Candidate[document.Case], 0, len(sr.Entries))
	for _, e := range sr.Entries {
		c, err := docrepo.DecodeCase([]byte(e.Fields["$"]))
		if err != nil {
			return nil, fmt.Errorf("lexical case %s: %w", r.keys.TrimCase(e.Key), err)
		}
		out = append(out, result.Candidate[document.Case]{Document: c, Score: e.Score})
	}
	return out, nil
}

// VectorCases runs KNN over case chunks and loads the owning cases.
// Every chunk hit yields a candidate; chunks whose case is gone are dropped.
func (r *Repo) VectorCases(
	ctx context.Context, vector []float32, p *filter.Predicate, k, efRuntime int,
) ([]result.Candidate[document.Case], error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.keys.ChunkIndex(),
		VectorField:  "embedding",
		Filter:       p,
		Vector:       vector,
		K:            k,
		EFRuntime:    efRuntime,
		ReturnFields: []string{"name"},
	})
	if err != nil {
		return nil, fmt.Errorf("vector cases: %w", err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	var names []string
	seen := make(map[string]bool)
	for _, e := range sr.Entries {
		n := e.Fields["name"]
		if n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = r.keys.CaseKey(n)
	}
	raws, err := r.store.JSONMGet(ctx, keys, "$")
	if err != nil {
		return nil, fmt.Errorf("vector cases hydrate: %w", err)
	}
	docs := make(map[string]document.Case, len(names))
	for i, raw := range raws {
		if raw == nil || i >= len(names) {
			continue
		}
		c, err := docrepo.DecodeCase(raw)
		if err != nil {
			return nil, fmt.Errorf("vector case %s: %w", names[i], err)
		}
		docs[names[i]] = c
	}

	out := make([]result.Candidate[document.Case], 0, len(sr.Entries))
	for _, e := range sr.Entries {
		c, ok := docs[e.Fields["name"]]
		if !ok {
			continue
		}
		out = append(out, result.Candidate[document.Case]{Document: c, Score: e.Score})
	}
	return out, nil
}

// LexicalLaws runs full-text search over the law index.
func (r *Repo) LexicalLaws(ctx context.Context, query string, limit int) ([]result.Candidate[document.Law], error) {
	sr, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName:    r.keys.LawIndex(),
		Fields:       LawTextFields,
		Query:        query,
		Limit:        limit,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, fmt.Errorf("lexical laws: %w", err)
	}
	if sr == nil {
		return nil, nil
	}

	out := make([]result.Candidate[document.Law], 0, len(sr.Entries))
	for _, e := range sr.Entries {
		law, err := docrepo.DecodeLaw([]byte(e.Fields["$"]))
		if err != nil {
			return nil, fmt.Errorf("lexical law %s: %w", r.keys.TrimLaw(e.Key), err)
		}
		out = append(out, result.Candidate[document.Law]{Document: law, Score: e.Score})
	}
	return out, nil
}

// VectorLaws runs KNN over law passages. Candidates carry only the title and
// the matched passage path and are marked partial.
func (r *Repo) VectorLaws(
	ctx context.Context, vector []float32, k, efRuntime int,
) ([]result.Candidate[document.Law], error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.keys.PassageIndex(),
		VectorField:  "embedding",
		Vector:       vector,
		K:            k,
		EFRuntime:    efRuntime,
		ReturnFields: []string{"title", "$.path", "AS", "path"},
	})
	if err != nil {
		return nil, fmt.Errorf("vector laws: %w", err)
	}
	if sr == nil {
		return nil, nil
	}

	out := make([]result.Candidate[document.Law], 0, len(sr.Entries))
	for _, e := range sr.Entries {
		title := e.Fields["title"]
		if title == "" {
			continue
		}
		law := document.Law{Title: title}
		if raw := e.Fields["path"]; raw != "" {
			path, err := decodePath([]byte(raw))
			if err != nil {
				return nil, fmt.Errorf("passage %s: %w", e.Key, err)
			}
			law.Path = [][]document.PathSegment{path}
		}
		out = append(out, result.Candidate[document.Law]{Document: law, Score: e.Score, Partial: true})
	}
	return out, nil
}

// decodePath accepts a bare segment array or one wrapped in a JSONPath result array.
func decodePath(raw []byte) ([]document.PathSegment, error) {
	raw = bytes.TrimSpace(raw)
	var nested [][]document.PathSegment
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}
	var flat []document.PathSegment
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode path: %w", err)
	}
	return flat, nil
}
