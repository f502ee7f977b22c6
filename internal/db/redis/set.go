package redis

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/legalsearch/internal/db"
)

// SMIsMember reports membership of each member in the set at key.
// A missing set reports every member absent.
func (s *Store) SMIsMember(ctx context.Context, key string, members []string) ([]bool, error) {
	if len(members) == 0 {
		return nil, nil
	}
	cmd := s.b().Smismember().Key(key).Member(members...).Build()
	arr, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSMIsMember, Err: err}
	}
	if len(arr) != len(members) {
		return nil, &db.Error{Op: db.OpSMIsMember, Err: fmt.Errorf("got %d replies for %d members", len(arr), len(members))}
	}
	out := make([]bool, len(arr))
	for i, m := range arr {
		n, err := m.AsInt64()
		if err != nil {
			return nil, &db.Error{Op: db.OpSMIsMember, Err: err}
		}
		out[i] = n == 1
	}
	return out, nil
}
