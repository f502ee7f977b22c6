// Package index declares the search indexes the retrieval core queries and
// creates the missing ones on startup.
package index

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/legalsearch/internal/db"
	"github.com/kailas-cloud/legalsearch/internal/domain"
	"github.com/kailas-cloud/legalsearch/internal/domain/category"
)

// store is the consumer interface for index management (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Options shape the index definitions.
type Options struct {
	Dimensions int
	Language   string
	HNSW       HNSWConfig
	// ChunkAttributes indexes the case filter attributes on chunk documents
	// so the vector channel can filter inside KNN.
	ChunkAttributes bool
}

// Repo manages the case, chunk, law and passage indexes.
type Repo struct {
	store store
	keys  domain.Keyspace
	opts  Options
}

// New creates an index repository.
func New(s store, keys domain.Keyspace, opts Options) *Repo {
	if opts.HNSW.M <= 0 {
		opts.HNSW.M = 32
	}
	if opts.HNSW.EFConstruct <= 0 {
		opts.HNSW.EFConstruct = 400
	}
	return &Repo{store: s, keys: keys, opts: opts}
}

// Names returns the index names in creation order.
func (r *Repo) Names() []string {
	return []string{r.keys.CaseIndex(), r.keys.ChunkIndex(), r.keys.LawIndex(), r.keys.PassageIndex()}
}

// Definitions builds every index definition.
func (r *Repo) Definitions() ([]*db.IndexDefinition, error) {
	if r.opts.Dimensions <= 0 {
		return nil, fmt.Errorf("%w: embedding dimensions must be positive", domain.ErrInvalidRequest)
	}

	cases := attributes(db.NewIndex(r.keys.CaseIndex()).
		Prefix(r.keys.CasePrefix()).
		Language(r.opts.Language).
		TextWeighted("$.title", "title", 2).
		Text("$.name", "name").
		Text("$.subtitle", "subtitle").
		Text("$.keywords[*]", "keywords").
		Text("$.content.*", "content"))

	chunks := db.NewIndex(r.keys.ChunkIndex()).
		Prefix(r.keys.ChunkPrefix()).
		Tag("$.name", "name").
		Vector("$.embedding", "embedding", r.opts.Dimensions, db.DistanceCosine, r.opts.HNSW.M, r.opts.HNSW.EFConstruct)
	if r.opts.ChunkAttributes {
		chunks = attributes(chunks)
	}

	laws := db.NewIndex(r.keys.LawIndex()).
		Prefix(r.keys.LawPrefix()).
		Language(r.opts.Language).
		TextWeighted("$.title", "title", 2).
		Text("$.introduction", "introduction").
		Text("$.notification", "notification").
		Text("$..content", "content")

	passages := db.NewIndex(r.keys.PassageIndex()).
		Prefix(r.keys.PassagePrefix()).
		Tag("$.title", "title").
		Vector("$.embedding", "embedding", r.opts.Dimensions, db.DistanceCosine, r.opts.HNSW.M, r.opts.HNSW.EFConstruct)

	builders := []*db.IndexBuilder{cases, chunks, laws, passages}
	defs := make([]*db.IndexDefinition, 0, len(builders))
	for _, b := range builders {
		def, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("build index: %w", err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Ensure creates the indexes that do not exist yet and returns their names.
// Existing indexes are left untouched.
func (r *Repo) Ensure(ctx context.Context) ([]string, error) {
	defs, err := r.Definitions()
	if err != nil {
		return nil, err
	}
	var created []string
	for _, def := range defs {
		exists, err := r.store.IndexExists(ctx, def.Name)
		if err != nil {
			return created, fmt.Errorf("check index %s: %w", def.Name, err)
		}
		if exists {
			continue
		}
		if err := r.store.CreateIndex(ctx, def); err != nil {
			return created, fmt.Errorf("create index %s: %w", def.Name, err)
		}
		created = append(created, def.Name)
	}
	return created, nil
}

// attributes adds the case filter attributes: tags for hierarchy and
// scalar categories, a numeric unix-seconds field for the judgment date.
func attributes(b *db.IndexBuilder) *db.IndexBuilder {
	return b.
		Tag("$.cause[*]", category.Cause).
		Tag("$.type", category.Type).
		Tag("$.trialProcedure", category.TrialProcedure).
		Tag("$.courtLevel", category.CourtLevel).
		Tag("$.court", category.Court).
		Numeric("$.judgedAt", category.JudgedAt)
}
