package resolve

import (
	"context"

	"github.com/helpline-labs/refdesk/internal/domain/directory"
	"github.com/helpline-labs/refdesk/internal/domain/evidence"
	"github.com/helpline-labs/refdesk/internal/domain/intent"
	"github.com/helpline-labs/refdesk/internal/domain/match"
	"github.com/helpline-labs/refdesk/internal/domain/resolved"
	"github.com/helpline-labs/refdesk/internal/usecase/confidence"
)

// Parser extracts structured intent from free-text queries.
type Parser interface {
	Parse(query string) intent.Intent
}

// EntityMatcher ranks directory entries against an input name.
type EntityMatcher interface {
	Match(input string, entries []directory.Entry) []match.Candidate
}

// Directory lists known entities, optionally restricted to one scope.
type Directory interface {
	List(ctx context.Context, scope string) ([]directory.Entry, error)
}

// Retriever fetches evidence for a parsed intent within a scope.
type Retriever interface {
	Fetch(ctx context.Context, scope string, in *intent.Intent) (evidence.Bundle, error)
}

// Validator gates the final decision on match and evidence quality.
type Validator interface {
	Validate(category string, matches []match.Candidate, items []evidence.Item, degraded bool) confidence.Verdict
}

// Cache stores resolved results keyed by (query, scope).
type Cache interface {
	Get(ctx context.Context, query, scope string) (resolved.Query, bool)
	Set(ctx context.Context, query, scope string, q *resolved.Query)
}
