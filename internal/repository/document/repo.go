package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/legalsearch/internal/db"
	"github.com/kailas-cloud/legalsearch/internal/domain"
	domdoc "github.com/kailas-cloud/legalsearch/internal/domain/document"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/filter"
)

// store is the consumer interface for documents (ISP).
type store interface {
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONMGet(ctx context.Context, keys []string, path string) ([][]byte, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

// Repo reads cases and laws.
type Repo struct {
	store store
	keys  domain.Keyspace
}

// New creates a document repository.
func New(s store, keys domain.Keyspace) *Repo {
	return &Repo{store: s, keys: keys}
}

// GetCase returns a case by name.
func (r *Repo) GetCase(ctx context.Context, name string) (domdoc.Case, error) {
	key := r.keys.CaseKey(name)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domdoc.Case{}, fmt.Errorf("case %q: %w", name, domain.ErrNotFound)
		}
		return domdoc.Case{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return DecodeCase(raw)
}

// GetLaw returns a law by title.
func (r *Repo) GetLaw(ctx context.Context, title string) (domdoc.Law, error) {
	key := r.keys.LawKey(title)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domdoc.Law{}, fmt.Errorf("law %q: %w", title, domain.ErrNotFound)
		}
		return domdoc.Law{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return DecodeLaw(raw)
}

// LawsByTitle loads many laws in one round trip. Missing titles are absent from the map.
func (r *Repo) LawsByTitle(ctx context.Context, titles []string) (map[string]domdoc.Law, error) {
	if len(titles) == 0 {
		return map[string]domdoc.Law{}, nil
	}
	keys := make([]string, len(titles))
	for i, t := range titles {
		keys[i] = r.keys.LawKey(t)
	}
	raws, err := r.store.JSONMGet(ctx, keys, "$")
	if err != nil {
		return nil, fmt.Errorf("json.mget laws: %w", err)
	}
	out := make(map[string]domdoc.Law, len(titles))
	for i, raw := range raws {
		if raw == nil {
			continue
		}
		law, err := DecodeLaw(raw)
		if err != nil {
			return nil, fmt.Errorf("law %q: %w", titles[i], err)
		}
		out[titles[i]] = law
	}
	return out, nil
}

// ListCases returns cases matching the predicate in index order.
func (r *Repo) ListCases(ctx context.Context, p *filter.Predicate, offset, limit int) ([]domdoc.Case, error) {
	raws, keys, err := r.list(ctx, r.keys.CaseIndex(), p, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	var cases []domdoc.Case
	for i, raw := range raws {
		c, err := DecodeCase(raw)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", r.keys.TrimCase(keys[i]), err)
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// ListLaws returns laws in index order.
func (r *Repo) ListLaws(ctx context.Context, offset, limit int) ([]domdoc.Law, error) {
	raws, keys, err := r.list(ctx, r.keys.LawIndex(), nil, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list laws: %w", err)
	}
	var laws []domdoc.Law
	for i, raw := range raws {
		l, err := DecodeLaw(raw)
		if err != nil {
			return nil, fmt.Errorf("law %s: %w", r.keys.TrimLaw(keys[i]), err)
		}
		laws = append(laws, l)
	}
	return laws, nil
}

// list pages whole documents out of an index. Entries without a body are skipped.
func (r *Repo) list(
	ctx context.Context, index string, p *filter.Predicate, offset, limit int,
) ([][]byte, []string, error) {
	if limit <= 0 {
		return nil, nil, nil
	}
	res, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName:    index,
		Filter:       p,
		Offset:       offset,
		Limit:        limit,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, nil, err //nolint:wrapcheck // wrapped by callers
	}
	if res == nil {
		return nil, nil, nil
	}
	raws := make([][]byte, 0, len(res.Entries))
	keys := make([]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		raw, ok := e.Fields["$"]
		if !ok {
			continue
		}
		raws = append(raws, []byte(raw))
		keys = append(keys, e.Key)
	}
	return raws, keys, nil
}
