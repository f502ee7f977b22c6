package health

import (
	"context"
	"fmt"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates that some retrieval channels cannot serve.
	Degraded Status = "degraded"
	// Unhealthy indicates the store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	indexes   IndexChecker
	names     []string
	embedding EmbeddingChecker
}

// New creates a Service. indexes and embedding can be nil; names lists
// the search indexes that must exist.
func New(db DBPinger, indexes IndexChecker, names []string, embedding EmbeddingChecker) *Service {
	return &Service{db: db, indexes: indexes, names: names, embedding: embedding}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		return Report{Status: Unhealthy, Checks: checks}
	}
	checks["database"] = CheckOK

	if s.indexes != nil {
		for _, name := range s.names {
			checks["index:"+name] = result(s.indexExists(ctx, name))
		}
	}

	if s.embedding != nil {
		checks["embedding"] = result(s.embedding.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) indexExists(ctx context.Context, name string) error {
	ok, err := s.indexes.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("index %s: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("index %s missing", name)
	}
	return nil
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
