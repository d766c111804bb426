package health

import "context"

// StorePinger checks connectivity to the backing store.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks the embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
