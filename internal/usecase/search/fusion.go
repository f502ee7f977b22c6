package search

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/legalsearch/internal/domain"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/result"
)

// identified is a document with a stable identity.
type identified interface {
	Identity() string
}

// channelFunc runs one retrieval channel. A nil func is a skipped channel.
type channelFunc[D any] func(ctx context.Context) ([]result.Candidate[D], error)

// outcome is the result of one channel run.
type outcome[D any] struct {
	hits   []result.Candidate[D]
	status result.Status
	err    error
}

func runChannel[D any](ctx context.Context, fn channelFunc[D]) outcome[D] {
	if fn == nil {
		return outcome[D]{status: result.StatusSkipped}
	}
	hits, err := fn(ctx)
	switch {
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		return outcome[D]{status: result.StatusUnavailable, err: err}
	case err != nil:
		return outcome[D]{status: result.StatusFailed, err: err}
	case len(hits) == 0:
		return outcome[D]{status: result.StatusEmpty}
	default:
		return outcome[D]{hits: hits, status: result.StatusOK}
	}
}

// runChannels runs both channels concurrently and joins them. A failing
// channel does not cancel the other.
func runChannels[D any](ctx context.Context, lexical, vector channelFunc[D]) (lex, vec outcome[D]) {
	var g errgroup.Group
	g.Go(func() error {
		lex = runChannel(ctx, lexical)
		return nil
	})
	g.Go(func() error {
		vec = runChannel(ctx, vector)
		return nil
	})
	_ = g.Wait()
	return lex, vec
}

// combineFunc folds a later candidate for the same identity into the representative.
type combineFunc[D any] func(rep, in result.Candidate[D]) result.Candidate[D]

// keepFirst keeps the first-seen representative.
func keepFirst[D any](rep, _ result.Candidate[D]) result.Candidate[D] { return rep }

// fused is one merged document with its channel scores.
type fused[D any] struct {
	cand   result.Candidate[D]
	text   float64
	vector float64
	sort   float64
}

// merge groups candidates by identity. Vector hits are visited first, so
// their document is the representative unless combine chooses otherwise.
// Each channel contributes its maximum score, or zero when absent.
func merge[D identified](vector, lexical []result.Candidate[D], combine combineFunc[D]) []fused[D] {
	if combine == nil {
		combine = keepFirst[D]
	}
	index := make(map[string]int, len(vector)+len(lexical))
	var out []fused[D]

	add := func(c result.Candidate[D], isVector bool) {
		id := c.Document.Identity()
		i, ok := index[id]
		if !ok {
			index[id] = len(out)
			f := fused[D]{cand: c}
			if isVector {
				f.vector = c.Score
			} else {
				f.text = c.Score
			}
			out = append(out, f)
			return
		}
		f := &out[i]
		f.cand = combine(f.cand, c)
		if isVector {
			f.vector = max(f.vector, c.Score)
		} else {
			f.text = max(f.text, c.Score)
		}
	}
	for _, c := range vector {
		add(c, true)
	}
	for _, c := range lexical {
		add(c, false)
	}
	for i := range out {
		out[i].sort = result.SortScore(out[i].text, out[i].vector)
	}
	return out
}

// rank applies the post filter and threshold, then orders by sort score
// desc with identity asc as tiebreak.
func rank[D identified](
	entries []fused[D], post *filter.Predicate, source func(D) filter.Source, threshold float64,
) []fused[D] {
	kept := entries[:0]
	for _, e := range entries {
		if post != nil && !post.Eval(source(e.cand.Document)) {
			continue
		}
		if threshold > 0 && e.sort < threshold {
			continue
		}
		kept = append(kept, e)
	}
	slices.SortStableFunc(kept, func(a, b fused[D]) int {
		if c := cmp.Compare(b.sort, a.sort); c != 0 {
			return c
		}
		return cmp.Compare(a.cand.Document.Identity(), b.cand.Document.Identity())
	})
	return kept
}

// paginate returns entries[skip:skip+limit], clamped.
func paginate[T any](entries []T, skip, limit int) []T {
	if skip >= len(entries) {
		return nil
	}
	end := min(skip+limit, len(entries))
	return entries[skip:end]
}

// toHits attaches scores.
func toHits[D any](entries []fused[D]) []result.Hit[D] {
	hits := make([]result.Hit[D], len(entries))
	for i, e := range entries {
		hits[i] = result.Hit[D]{Document: e.cand.Document, Scores: result.NewScores(e.text, e.vector)}
	}
	return hits
}
