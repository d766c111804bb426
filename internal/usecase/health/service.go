// Package health aggregates component health checks.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the service can still answer, possibly without
	// vector retrieval.
	Degraded Status = "degraded"
	// Unhealthy indicates the backing store is unreachable.
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
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store     StorePinger
	embedding EmbeddingChecker
}

// New creates a Service. embedding can be nil.
func New(store StorePinger, embedding EmbeddingChecker) *Service {
	return &Service{store: store, embedding: embedding}
}

// Check runs health checks against all components. A failing store makes
// the service unhealthy; a failing embedding provider only degrades it,
// since keyword retrieval still works.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	storeOK := true
	if err := s.store.Ping(ctx); err != nil {
		checks["database"] = CheckError
		storeOK = false
	} else {
		checks["database"] = CheckOK
	}

	embeddingOK := true
	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
			embeddingOK = false
		} else {
			checks["embedding"] = CheckOK
		}
	}

	status := Healthy
	switch {
	case !storeOK:
		status = Unhealthy
	case !embeddingOK:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
