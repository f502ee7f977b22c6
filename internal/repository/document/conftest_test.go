package document

import (
	"context"

	"github.com/kailas-cloud/legalsearch/internal/db"
	"github.com/kailas-cloud/legalsearch/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonGetFn    func(ctx context.Context, key string, paths ...string) ([]byte, error)
	jsonMGetFn   func(ctx context.Context, keys []string, path string) ([][]byte, error)
	searchListFn func(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) JSONMGet(ctx context.Context, keys []string, path string) ([][]byte, error) {
	if m.jsonMGetFn != nil {
		return m.jsonMGetFn(ctx, keys, path)
	}
	return make([][]byte, len(keys)), nil
}

func (m *mockStore) SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	if m.searchListFn != nil {
		return m.searchListFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

var testKeys = domain.NewKeyspace("ls:")

const caseJSON = `{"name":"（2021）京73民终1号","title":"著作权纠纷","court":"北京知识产权法院",` +
	`"type":"典型案例","judgedAt":1622505600,"cause":["民事","知识产权"],` +
	`"keywords":["著作权"],"content":{"facts":"..."}}`

const lawJSON = `{"title":"著作权法","introduction":"...",` +
	`"content":[{"index":"第一章","name":"总则","children":[{"index":"第一条","content":"为保护..."}]}]}`
