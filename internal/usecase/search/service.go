package search

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/kailas-cloud/legalsearch/internal/domain"
	"github.com/kailas-cloud/legalsearch/internal/domain/category"
	"github.com/kailas-cloud/legalsearch/internal/domain/document"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/request"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/result"
	"github.com/kailas-cloud/legalsearch/internal/metrics"
)

// Kinds label channel metrics.
const (
	kindCase    = "case"
	kindStatute = "statute"
)

// Service serves case and statute searches by fusing lexical and vector channels.
type Service struct {
	repo   Repository
	docs   DocumentReader
	embed  Embedder
	schema *category.Schema
	cfg    Config
	logger *zap.Logger
}

// New creates a search service.
func New(
	repo Repository, docs DocumentReader, embed Embedder,
	schema *category.Schema, cfg Config, logger *zap.Logger,
) *Service {
	if schema == nil {
		schema = category.Default()
	}
	return &Service{
		repo:   repo,
		docs:   docs,
		embed:  embed,
		schema: schema,
		cfg:    cfg.withDefaults(),
		logger: logger,
	}
}

// Search returns one page of cases. An empty query pages through the cases
// matching the filters in store order, without scores.
func (s *Service) Search(ctx context.Context, req request.Search) (result.Page[document.Case], error) {
	req, err := req.Normalize(s.cfg.Limits)
	if err != nil {
		return result.Page[document.Case]{}, err
	}
	plan, err := PlanCases(req, s.schema, s.cfg)
	if err != nil {
		return result.Page[document.Case]{}, err
	}
	page := result.Page[document.Case]{Page: req.Page, PageSize: req.PageSize}

	if plan.Browse {
		return s.browse(ctx, plan, page)
	}

	lexicalFor := func(ch Channel) channelFunc[document.Case] {
		if !ch.Enabled {
			return nil
		}
		return func(ctx context.Context) ([]result.Candidate[document.Case], error) {
			return s.repo.LexicalCases(ctx, plan.Query, ch.Filter, ch.Limit)
		}
	}
	var vectorFn channelFunc[document.Case]
	if plan.Vector.Enabled {
		vectorFn = func(ctx context.Context) ([]result.Candidate[document.Case], error) {
			vec, err := s.embed.Embed(ctx, plan.Query)
			if err != nil {
				return nil, err
			}
			return s.repo.VectorCases(ctx, vec, plan.Vector.Filter, plan.Vector.Limit, plan.Vector.EFRuntime)
		}
	}

	lex, vec := runChannels(ctx, lexicalFor(plan.Lexical), vectorFn)
	lex, vec, empty, err := settle(ctx, s, kindCase, plan, lex, vec, lexicalFor)
	page.Channels = channels(lex.status, vec.status)
	if err != nil {
		return result.Page[document.Case]{}, err
	}
	if empty {
		page.Hits = []result.Hit[document.Case]{}
		return page, nil
	}

	entries := merge(vec.hits, lex.hits, keepFirst[document.Case])
	entries = rank(entries, plan.PostFilter, joined, plan.Threshold)
	page.Hits = toHits(paginate(entries, plan.Skip, plan.Limit))
	return page, nil
}

// SearchStatutes returns one page of laws. Vector hits on several passages
// of one law accumulate their paths on the returned document. An empty query
// pages through the laws in store order, without scores.
func (s *Service) SearchStatutes(ctx context.Context, req request.Statute) (result.Page[document.Law], error) {
	req, err := req.Normalize(s.cfg.Limits)
	if err != nil {
		return result.Page[document.Law]{}, err
	}
	plan := PlanStatutes(req, s.cfg)
	page := result.Page[document.Law]{Page: req.Page, PageSize: req.PageSize}

	if plan.Browse {
		return s.browseLaws(ctx, plan, page)
	}

	lexicalFor := func(ch Channel) channelFunc[document.Law] {
		if !ch.Enabled {
			return nil
		}
		return func(ctx context.Context) ([]result.Candidate[document.Law], error) {
			return s.repo.LexicalLaws(ctx, plan.Query, ch.Limit)
		}
	}
	var vectorFn channelFunc[document.Law]
	if plan.Vector.Enabled {
		vectorFn = func(ctx context.Context) ([]result.Candidate[document.Law], error) {
			vec, err := s.embed.Embed(ctx, plan.Query)
			if err != nil {
				return nil, err
			}
			return s.repo.VectorLaws(ctx, vec, plan.Vector.Limit, plan.Vector.EFRuntime)
		}
	}

	lex, vec := runChannels(ctx, lexicalFor(plan.Lexical), vectorFn)
	lex, vec, empty, err := settle(ctx, s, kindStatute, plan, lex, vec, lexicalFor)
	page.Channels = channels(lex.status, vec.status)
	if err != nil {
		return result.Page[document.Law]{}, err
	}
	if empty {
		page.Hits = []result.Hit[document.Law]{}
		return page, nil
	}

	entries := merge(vec.hits, lex.hits, combineLaws)
	entries = rank[document.Law](entries, nil, nil, plan.Threshold)
	entries, err = s.hydrateLaws(ctx, paginate(entries, plan.Skip, plan.Limit))
	if err != nil {
		return result.Page[document.Law]{}, err
	}
	page.Hits = toHits(entries)
	return page, nil
}

func (s *Service) browse(
	ctx context.Context, plan Plan, page result.Page[document.Case],
) (result.Page[document.Case], error) {
	cases, err := s.docs.ListCases(ctx, plan.Filter, plan.Skip, plan.Limit)
	if err != nil {
		return result.Page[document.Case]{}, fmt.Errorf("%w: list cases: %w", domain.ErrRetrievalFailed, err)
	}
	page.Hits = make([]result.Hit[document.Case], len(cases))
	for i, c := range cases {
		page.Hits[i] = result.Hit[document.Case]{Document: c}
	}
	return page, nil
}

func (s *Service) browseLaws(
	ctx context.Context, plan Plan, page result.Page[document.Law],
) (result.Page[document.Law], error) {
	laws, err := s.docs.ListLaws(ctx, plan.Skip, plan.Limit)
	if err != nil {
		return result.Page[document.Law]{}, fmt.Errorf("%w: list laws: %w", domain.ErrRetrievalFailed, err)
	}
	page.Hits = make([]result.Hit[document.Law], len(laws))
	for i, l := range laws {
		page.Hits[i] = result.Hit[document.Law]{Document: l}
	}
	return page, nil
}

// settle applies the embedding failure policy and decides whether the
// joined channels can serve the request. empty reports that the policy
// requires an empty page.
func settle[D any](
	ctx context.Context, s *Service, kind string, plan Plan,
	lex, vec outcome[D], lexicalFor func(Channel) channelFunc[D],
) (outcome[D], outcome[D], bool, error) {
	if vec.status == result.StatusUnavailable {
		s.logger.Warn("Query embedding unavailable",
			zap.String("kind", kind),
			zap.String("policy", string(s.cfg.EmbeddingFailure)),
			zap.Error(vec.err),
		)
		if s.cfg.EmbeddingFailure == FailEmpty {
			record(kind, lex.status, vec.status)
			return lex, vec, true, nil
		}
		if lex.status == result.StatusSkipped {
			degraded := plan.degradeToLexical(plan.Skip + plan.Limit)
			lex = runChannel(ctx, lexicalFor(degraded.Lexical))
		}
	}
	record(kind, lex.status, vec.status)

	if lex.status == result.StatusFailed {
		s.logger.Warn("Lexical channel failed", zap.String("kind", kind), zap.Error(lex.err))
	}
	if vec.status == result.StatusFailed {
		s.logger.Warn("Vector channel failed", zap.String("kind", kind), zap.Error(vec.err))
	}

	if !served(lex.status) && !served(vec.status) {
		return lex, vec, false, fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, errors.Join(lex.err, vec.err))
	}
	return lex, vec, false, nil
}

// hydrateLaws replaces partial laws with their full documents, keeping the
// accumulated passage paths. Laws missing from the store are dropped.
func (s *Service) hydrateLaws(
	ctx context.Context, entries []fused[document.Law],
) ([]fused[document.Law], error) {
	var titles []string
	for _, e := range entries {
		if e.cand.Partial {
			titles = append(titles, e.cand.Document.Title)
		}
	}
	if len(titles) == 0 {
		return entries, nil
	}

	laws, err := s.docs.LawsByTitle(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("%w: hydrate laws: %w", domain.ErrRetrievalFailed, err)
	}

	out := make([]fused[document.Law], 0, len(entries))
	for _, e := range entries {
		if e.cand.Partial {
			full, ok := laws[e.cand.Document.Title]
			if !ok {
				s.logger.Warn("Passage refers to a missing law", zap.String("title", e.cand.Document.Title))
				continue
			}
			full.Path = nil
			e.cand.Document = full.WithPaths(e.cand.Document.Path...)
			e.cand.Partial = false
		}
		out = append(out, e)
	}
	return out, nil
}

// combineLaws accumulates passage paths and prefers a full document over a partial one.
func combineLaws(rep, in result.Candidate[document.Law]) result.Candidate[document.Law] {
	paths := append(slices.Clone(rep.Document.Path), in.Document.Path...)
	base, partial := rep.Document, rep.Partial
	if rep.Partial && !in.Partial {
		base, partial = in.Document, false
	}
	base.Path = nil
	return result.Candidate[document.Law]{Document: base.WithPaths(paths...), Score: rep.Score, Partial: partial}
}

// joined exposes a case to predicates built under JoinPrefix.
func joined(c document.Case) filter.Source {
	return filter.Scoped{Prefix: JoinPrefix, Source: c}
}

func channels(lexical, vector result.Status) map[string]result.Status {
	return map[string]result.Status{
		result.ChannelLexical: lexical,
		result.ChannelVector:  vector,
	}
}

func record(kind string, lexical, vector result.Status) {
	metrics.SearchChannelTotal.WithLabelValues(kind, result.ChannelLexical, string(lexical)).Inc()
	metrics.SearchChannelTotal.WithLabelValues(kind, result.ChannelVector, string(vector)).Inc()
}

// served reports whether a channel produced a usable answer, possibly empty.
func served(s result.Status) bool {
	return s == result.StatusOK || s == result.StatusEmpty
}
