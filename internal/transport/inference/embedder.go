// Package inference embeds queries through the sentence-embedding inference
// service: POST {base}/generate_embedding/ with {"text"} returning {"embedding"}.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/legalsearch/internal/domain"
	"github.com/kailas-cloud/legalsearch/internal/metrics"
)

// Provider labels metrics for this transport.
const Provider = "inference"

// EmbedPath is the inference endpoint path.
const EmbedPath = "/generate_embedding/"

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 512

// Config holds the inference endpoint settings.
type Config struct {
	BaseURL    string
	Model      string // metrics label only
	Dimensions int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Embedder calls the inference service.
type Embedder struct {
	baseURL    string
	dimensions int
	client     *http.Client
	observer   metrics.EmbeddingObserver
	logger     *zap.Logger
}

// NewEmbedder creates an inference embedder. Timeouts come from the
// caller's context.
func NewEmbedder(cfg *Config) *Embedder {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	model := cfg.Model
	if model == "" {
		model = "default"
	}
	return &Embedder{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		dimensions: cfg.Dimensions,
		client:     client,
		observer:   metrics.NewEmbeddingObserver(Provider, model),
		logger:     logger,
	}
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed implements domain.Embedder. The service reports no token usage.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	body, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+EmbedPath, bytes.NewReader(body))
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		kind := "transport"
		if errors.Is(err, context.DeadlineExceeded) {
			kind = "timeout"
		}
		e.observer.Failure(kind)
		return domain.EmbeddingResult{}, fmt.Errorf("embedding request failed: %w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		e.observer.Failure("status")
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.EmbeddingResult{}, fmt.Errorf(
			"embedding service status %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(detail)), domain.ErrEmbeddingUnavailable,
		)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		e.observer.Failure("decode")
		return domain.EmbeddingResult{}, fmt.Errorf("decode embedding: %w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(out.Embedding) == 0 {
		e.observer.Failure("empty_response")
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingUnavailable)
	}
	if e.dimensions > 0 && len(out.Embedding) != e.dimensions {
		e.observer.Failure("dimension_mismatch")
		return domain.EmbeddingResult{}, fmt.Errorf(
			"embedding has %d dimensions, want %d: %w", len(out.Embedding), e.dimensions, domain.ErrEmbeddingUnavailable,
		)
	}

	e.observer.Success(time.Since(start), 0, 0)
	return domain.EmbeddingResult{Embedding: out.Embedding}, nil
}

// HealthCheck probes the service root. Any response below 500 counts as reachable.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/", http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("inference health: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("inference health: status %d", resp.StatusCode)
	}
	return nil
}
