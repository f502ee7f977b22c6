package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/legalsearch/internal/domain"
)

// DefaultTimeout bounds a single embedding call.
const DefaultTimeout = 10 * time.Second

// Service turns query text into a vector. It never retries; every failure
// is reported as domain.ErrEmbeddingUnavailable.
// Transport metrics (requests, duration, tokens) are recorded by the transports.
type Service struct {
	inner    domain.Embedder
	provider string
	model    string
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates an embedding service. A non-positive timeout uses DefaultTimeout.
func New(
	inner domain.Embedder, provider, model string,
	timeout time.Duration, logger *zap.Logger,
) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		inner:    inner,
		provider: provider,
		model:    model,
		timeout:  timeout,
		logger:   logger,
	}
}

// Embed returns the embedding of text.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	res, err := s.inner.Embed(ctx, text)
	duration := time.Since(start)

	if err != nil {
		s.logger.Warn("Embedding request failed",
			zap.String("provider", s.provider),
			zap.String("model", s.model),
			zap.Duration("duration", duration),
			zap.Bool("timeout", errors.Is(err, context.DeadlineExceeded)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(res.Embedding) == 0 {
		s.logger.Warn("Embedding response is empty",
			zap.String("provider", s.provider),
			zap.String("model", s.model),
		)
		return nil, fmt.Errorf("%w: empty embedding", domain.ErrEmbeddingUnavailable)
	}

	s.logger.Debug("Embedding request completed",
		zap.String("provider", s.provider),
		zap.String("model", s.model),
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(res.Embedding)),
		zap.Int("total_tokens", res.TotalTokens),
	)
	return res.Embedding, nil
}

// HealthCheck probes the inner embedder when it supports health checks.
func (s *Service) HealthCheck(ctx context.Context) error {
	hc, ok := s.inner.(domain.HealthChecker)
	if !ok {
		return nil
	}
	if err := hc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}
