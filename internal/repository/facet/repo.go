package facet

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/legalsearch/internal/db"
	"github.com/kailas-cloud/legalsearch/internal/domain"
	domfacet "github.com/kailas-cloud/legalsearch/internal/domain/facet"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/filter"
	docrepo "github.com/kailas-cloud/legalsearch/internal/repository/document"
)

// DefaultScanPage is the page size used when scanning path arrays.
const DefaultScanPage = 1000

const yearAlias = "year"

// store is the consumer interface for facet aggregation (ISP).
type store interface {
	Aggregate(ctx context.Context, q *db.AggregateQuery) ([]map[string]string, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SMIsMember(ctx context.Context, key string, members []string) ([]bool, error)
}

// Repo reads facet distributions from the case index.
type Repo struct {
	store    store
	keys     domain.Keyspace
	scanPage int
}

// New creates a facet repository.
func New(s store, keys domain.Keyspace) *Repo {
	return &Repo{store: s, keys: keys, scanPage: DefaultScanPage}
}

// WithScanPage overrides the path scan page size.
func (r *Repo) WithScanPage(n int) *Repo {
	if n > 0 {
		r.scanPage = n
	}
	return r
}

// Buckets groups cases by a scalar attribute.
func (r *Repo) Buckets(ctx context.Context, attr string) ([]domfacet.Bucket, error) {
	rows, err := r.store.Aggregate(ctx, &db.AggregateQuery{
		IndexName: r.keys.CaseIndex(),
		Load:      []string{attr},
		GroupBy:   attr,
		CountAs:   "count",
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", attr, err)
	}
	return toBuckets(rows, attr)
}

// YearBuckets groups cases by the calendar year of a date attribute.
func (r *Repo) YearBuckets(ctx context.Context, attr string) ([]domfacet.Bucket, error) {
	rows, err := r.store.Aggregate(ctx, &db.AggregateQuery{
		IndexName: r.keys.CaseIndex(),
		Load:      []string{attr},
		Apply:     []db.Projection{{Expr: fmt.Sprintf("timefmt(@%s, \"%%Y\")", attr), As: yearAlias}},
		GroupBy:   yearAlias,
		CountAs:   "count",
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate year of %s: %w", attr, err)
	}
	return toBuckets(rows, yearAlias)
}

// PathArrays returns the attribute array of every case whose attribute
// contains all of the path values, in any position.
func (r *Repo) PathArrays(ctx context.Context, attr string, path []string) ([][]string, error) {
	var p *filter.Predicate
	if len(path) > 0 {
		members := make([]*filter.Predicate, len(path))
		for i, v := range path {
			members[i] = filter.Member(attr, v)
		}
		p = filter.And(members...)
	}

	var out [][]string
	for offset := 0; ; offset += r.scanPage {
		res, err := r.store.SearchList(ctx, &db.ListQuery{
			IndexName:    r.keys.CaseIndex(),
			Filter:       p,
			Offset:       offset,
			Limit:        r.scanPage,
			ReturnFields: []string{"$." + attr, "AS", attr},
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", attr, err)
		}
		if res == nil || len(res.Entries) == 0 {
			break
		}
		for _, e := range res.Entries {
			values, err := docrepo.DecodeStrings([]byte(e.Fields[attr]))
			if err != nil {
				return nil, fmt.Errorf("case %s: %w", r.keys.TrimCase(e.Key), err)
			}
			out = append(out, values)
		}
		if len(res.Entries) < r.scanPage || offset+len(res.Entries) >= res.Total {
			break
		}
	}
	return out, nil
}

// HasChildren probes the adjacency index for values at depth.
func (r *Repo) HasChildren(ctx context.Context, category string, depth int, values []string) (map[string]bool, error) {
	out := make(map[string]bool, len(values))
	if len(values) == 0 {
		return out, nil
	}
	key := r.keys.RelationKey(category, depth)
	flags, err := r.store.SMIsMember(ctx, key, values)
	if err != nil {
		return nil, fmt.Errorf("adjacency %s: %w", key, err)
	}
	for i, v := range values {
		out[v] = i < len(flags) && flags[i]
	}
	return out, nil
}

func toBuckets(rows []map[string]string, field string) ([]domfacet.Bucket, error) {
	buckets := make([]domfacet.Bucket, 0, len(rows))
	for _, row := range rows {
		n, err := strconv.ParseInt(row["count"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bucket count %q: %w", row["count"], err)
		}
		buckets = append(buckets, domfacet.Bucket{Value: row[field], Count: n})
	}
	return buckets, nil
}
