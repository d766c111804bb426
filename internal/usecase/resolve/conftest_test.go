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

type mockParser struct {
	parseFn func(query string) intent.Intent
}

func (m *mockParser) Parse(query string) intent.Intent {
	if m.parseFn != nil {
		return m.parseFn(query)
	}
	return intent.New("", "", nil, query)
}

type mockMatcher struct {
	matchFn func(input string, entries []directory.Entry) []match.Candidate
}

func (m *mockMatcher) Match(input string, entries []directory.Entry) []match.Candidate {
	if m.matchFn != nil {
		return m.matchFn(input, entries)
	}
	return nil
}

type mockDirectory struct {
	listFn func(ctx context.Context, scope string) ([]directory.Entry, error)
}

func (m *mockDirectory) List(ctx context.Context, scope string) ([]directory.Entry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, scope)
	}
	return nil, nil
}

type mockRetriever struct {
	fetchFn func(ctx context.Context, scope string, in *intent.Intent) (evidence.Bundle, error)
}

func (m *mockRetriever) Fetch(ctx context.Context, scope string, in *intent.Intent) (evidence.Bundle, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, scope, in)
	}
	return evidence.NewBundle(nil, false), nil
}

type mockValidator struct {
	validateFn func(category string, matches []match.Candidate, items []evidence.Item, degraded bool) confidence.Verdict
}

func (m *mockValidator) Validate(
	category string, matches []match.Candidate, items []evidence.Item, degraded bool,
) confidence.Verdict {
	if m.validateFn != nil {
		return m.validateFn(category, matches, items, degraded)
	}
	return confidence.Verdict{Decision: resolved.Rejected, Reason: "entity not found"}
}

type mockCache struct {
	getFn  func(ctx context.Context, query, scope string) (resolved.Query, bool)
	setFn  func(ctx context.Context, query, scope string, q *resolved.Query)
	stored int
}

func (m *mockCache) Get(ctx context.Context, query, scope string) (resolved.Query, bool) {
	if m.getFn != nil {
		return m.getFn(ctx, query, scope)
	}
	return resolved.Query{}, false
}

func (m *mockCache) Set(ctx context.Context, query, scope string, q *resolved.Query) {
	m.stored++
	if m.setFn != nil {
		m.setFn(ctx, query, scope, q)
	}
}
