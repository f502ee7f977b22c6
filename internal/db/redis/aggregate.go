package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/legalsearch/internal/db"
)

// Aggregate groups matching documents by one property and counts each group
// via FT.AGGREGATE. Each row maps the group property and the count alias to
// their string values.
func (s *Store) Aggregate(ctx context.Context, q *db.AggregateQuery) ([]map[string]string, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if err := checkField(q.GroupBy); err != nil {
		return nil, err
	}
	countAs := q.CountAs
	if countAs == "" {
		countAs = "count"
	}

	queryStr, err := withFilter("", q.Filter)
	if err != nil {
		return nil, err
	}

	args := []string{q.IndexName, queryStr}
	if len(q.Load) > 0 {
		args = append(args, "LOAD", strconv.Itoa(len(q.Load)))
		for _, l := range q.Load {
			args = append(args, "@"+l)
		}
	}
	for _, p := range q.Apply {
		args = append(args, "APPLY", p.Expr, "AS", p.As)
	}
	args = append(args,
		"GROUPBY", "1", "@"+q.GroupBy,
		"REDUCE", "COUNT", "0", "AS", countAs,
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	// [count, row1, row2, ...], each row a flat field/value array
	if len(raw) <= 1 {
		return nil, nil
	}
	rows := make([]map[string]string, 0, len(raw)-1)
	for _, r := range raw[1:] {
		pairs, err := r.ToArray()
		if err != nil {
			continue
		}
		rows = append(rows, parseFieldPairs(pairs))
	}
	return rows, nil
}
