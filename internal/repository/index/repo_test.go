package index

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/legalsearch/internal/db"
)

func fieldByAlias(def *db.IndexDefinition, alias string) (db.IndexField, bool) {
	for _, f := range def.Fields {
		if f.Alias == alias {
			return f, true
		}
	}
	return db.IndexField{}, false
}

func TestDefinitions(t *testing.T) {
	r := New(&mockStore{}, testKeys, Options{Dimensions: 768, Language: "chinese"})
	defs, err := r.Definitions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 4 {
		t.Fatalf("expected 4 definitions, got %d", len(defs))
	}

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	if !slices.Equal(names, r.Names()) {
		t.Errorf("names = %v, want %v", names, r.Names())
	}

	cases := defs[0]
	if cases.Language != "chinese" || !slices.Equal(cases.Prefixes, []string{"ls:case:"}) {
		t.Errorf("case index = %s", cases)
	}
	cause, ok := fieldByAlias(cases, "cause")
	if !ok || cause.Type != db.IndexFieldTag || cause.Path != "$.cause[*]" {
		t.Errorf("cause field = %+v", cause)
	}
	judged, ok := fieldByAlias(cases, "judgedAt")
	if !ok || judged.Type != db.IndexFieldNumeric {
		t.Errorf("judgedAt field = %+v", judged)
	}

	chunk := defs[1]
	vec, ok := fieldByAlias(chunk, "embedding")
	if !ok || vec.VectorDim != 768 || vec.VectorDistance != db.DistanceCosine || vec.VectorM != 32 {
		t.Errorf("chunk embedding = %+v", vec)
	}
	if _, ok := fieldByAlias(chunk, "cause"); ok {
		t.Error("chunk index should not carry case attributes by default")
	}

	passage := defs[3]
	if _, ok := fieldByAlias(passage, "title"); !ok {
		t.Error("passage index must carry the owning law title")
	}
}

func TestDefinitions_ChunkAttributes(t *testing.T) {
	r := New(&mockStore{}, testKeys, Options{Dimensions: 4, ChunkAttributes: true, HNSW: HNSWConfig{M: 16}})
	defs, err := r.Definitions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, alias := range []string{"cause", "type", "trialProcedure", "courtLevel", "court", "judgedAt"} {
		if _, ok := fieldByAlias(defs[1], alias); !ok {
			t.Errorf("chunk index missing %s", alias)
		}
	}
	vec, _ := fieldByAlias(defs[1], "embedding")
	if vec.VectorM != 16 || vec.VectorEFConstruct != 400 {
		t.Errorf("hnsw = %d/%d, want 16/400", vec.VectorM, vec.VectorEFConstruct)
	}
}

func TestDefinitions_InvalidDimensions(t *testing.T) {
	r := New(&mockStore{}, testKeys, Options{})
	if _, err := r.Definitions(); err == nil {
		t.Fatal("expected error for zero dimensions")
	}
}

func TestEnsure_CreatesMissingOnly(t *testing.T) {
	var createdDefs []string
	ms := &mockStore{
		indexExistsFn: func(_ context.Context, name string) (bool, error) {
			return name == "ls:case:idx" || name == "ls:law:idx", nil
		},
		createIndexFn: func(_ context.Context, def *db.IndexDefinition) error {
			createdDefs = append(createdDefs, def.Name)
			return nil
		},
	}
	created, err := New(ms, testKeys, Options{Dimensions: 4}).Ensure(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"ls:chunk:idx", "ls:passage:idx"}
	if !slices.Equal(created, want) || !slices.Equal(createdDefs, want) {
		t.Errorf("created = %v (store saw %v), want %v", created, createdDefs, want)
	}
}

func TestEnsure_CreateError(t *testing.T) {
	boom := errors.New("boom")
	ms := &mockStore{
		createIndexFn: func(_ context.Context, def *db.IndexDefinition) error {
			if def.Name == "ls:chunk:idx" {
				return boom
			}
			return nil
		},
	}
	created, err := New(ms, testKeys, Options{Dimensions: 4}).Ensure(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if !slices.Equal(created, []string{"ls:case:idx"}) {
		t.Errorf("created = %v", created)
	}
}

func TestEnsure_ExistsError(t *testing.T) {
	ms := &mockStore{
		indexExistsFn: func(context.Context, string) (bool, error) { return false, errors.New("conn") },
	}
	if _, err := New(ms, testKeys, Options{Dimensions: 4}).Ensure(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
