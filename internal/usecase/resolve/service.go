// Package resolve orchestrates the query pipeline: parse, match,
// retrieve, validate. Identical inputs always produce the identical
// decision, and nothing is answered without evidence behind it.
package resolve

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/helpline-labs/refdesk/internal/domain"
	"github.com/helpline-labs/refdesk/internal/domain/evidence"
	"github.com/helpline-labs/refdesk/internal/domain/intent"
	"github.com/helpline-labs/refdesk/internal/domain/match"
	"github.com/helpline-labs/refdesk/internal/domain/resolved"
	"github.com/helpline-labs/refdesk/internal/metrics"
)

// Config holds pipeline orchestration settings.
type Config struct {
	// RetrievalTimeout bounds one evidence fetch; on expiry the query
	// proceeds with whatever was gathered, marked degraded.
	RetrievalTimeout time.Duration
	// Epsilon is the score tie window used for the cross-tenant
	// ambiguity check before retrieval.
	Epsilon float64
}

// Service runs the resolution pipeline.
type Service struct {
	parser    Parser
	matcher   EntityMatcher
	directory Directory
	retriever Retriever
	validator Validator
	cache     Cache
	cfg       Config
	logger    *zap.Logger
}

// New creates a resolution service. cache can be nil to disable caching.
func New(
	parser Parser, matcher EntityMatcher, directory Directory,
	retriever Retriever, validator Validator, cache Cache,
	cfg Config, logger *zap.Logger,
) *Service {
	return &Service{
		parser:    parser,
		matcher:   matcher,
		directory: directory,
		retriever: retriever,
		validator: validator,
		cache:     cache,
		cfg:       cfg,
		logger:    logger,
	}
}

// Resolve runs one query through the pipeline. The only error it returns
// is domain.ErrEmptyQuery; every other failure downgrades to a rejected
// or degraded result so the caller always gets a decision.
func (s *Service) Resolve(ctx context.Context, rawQuery, scopeHint string) (resolved.Query, error) {
	query := strings.TrimSpace(rawQuery)
	if query == "" {
		return resolved.Query{}, domain.ErrEmptyQuery
	}

	start := time.Now()

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, query, scopeHint); ok {
			s.record(cached.Decision(), start)
			return cached, nil
		}
	}

	in := s.parser.Parse(query)

	result := s.resolveIntent(ctx, query, scopeHint, in)

	s.record(result.Decision(), start)

	if s.cache != nil && !result.Degraded() {
		s.cache.Set(ctx, query, scopeHint, &result)
	}

	return result, nil
}

func (s *Service) resolveIntent(
	ctx context.Context, query, scopeHint string, in intent.Intent,
) resolved.Query {
	entries, err := s.directory.List(ctx, scopeHint)
	if err != nil {
		s.logger.Warn("Entity directory unavailable",
			zap.String("scope", scopeHint), zap.Error(err))
		return resolved.New(in, nil, nil, nil, 0,
			resolved.Rejected, "entity directory unavailable", false)
	}

	cands := s.matcher.Match(matchTarget(query, in), entries)

	if len(cands) == 0 {
		verdict := s.validator.Validate(in.Category(), nil, nil, false)
		return resolved.New(in, nil, nil, nil,
			verdict.Confidence, verdict.Decision, verdict.Reason, false)
	}

	if scopeHint == "" {
		if tied := s.crossTenantTie(cands); len(tied) > 1 {
			return resolved.New(in, &cands[0], tied, nil, cands[0].Score(),
				resolved.Ambiguous, "entity name matches in multiple tenants", false)
		}
	}

	scope := scopeHint
	if scope == "" {
		scope = cands[0].Scope()
	}

	bundle := s.fetchEvidence(ctx, scope, &in)
	if bundle.Degraded() {
		metrics.RetrievalDegradedTotal.Inc()
	}

	verdict := s.validator.Validate(in.Category(), cands, bundle.Items(), bundle.Degraded())

	var alternatives []match.Candidate
	if verdict.Decision == resolved.Ambiguous {
		alternatives = cands
	}

	return resolved.New(in, &cands[0], alternatives, bundle.Items(),
		verdict.Confidence, verdict.Decision, verdict.Reason, bundle.Degraded())
}

// fetchEvidence bounds retrieval with the configured timeout. Retriever
// errors and timeouts produce an empty degraded bundle rather than
// failing the query.
func (s *Service) fetchEvidence(ctx context.Context, scope string, in *intent.Intent) evidence.Bundle {
	if s.cfg.RetrievalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RetrievalTimeout)
		defer cancel()
	}

	bundle, err := s.retriever.Fetch(ctx, scope, in)
	if err != nil {
		s.logger.Warn("Evidence retrieval failed",
			zap.String("scope", scope), zap.Error(err))
		return evidence.NewBundle(nil, true)
	}
	return bundle
}

// crossTenantTie returns the leading candidates whose scores sit within
// the tie window of the top score, but only when they span more than one
// tenant scope. A same-tenant tie is left for the validator to call.
func (s *Service) crossTenantTie(cands []match.Candidate) []match.Candidate {
	top := cands[0].Score()
	scopes := map[string]struct{}{}

	var tied []match.Candidate
	for i := range cands {
		if top-cands[i].Score() >= s.cfg.Epsilon {
			break
		}
		tied = append(tied, cands[i])
		scopes[cands[i].Scope()] = struct{}{}
	}

	if len(scopes) < 2 {
		return nil
	}
	return tied
}

func (s *Service) record(decision resolved.Decision, start time.Time) {
	metrics.QueryDecisionsTotal.WithLabelValues(string(decision)).Inc()
	metrics.QueryDuration.WithLabelValues(string(decision)).Observe(time.Since(start).Seconds())
}

// matchTarget picks the string the matcher should resolve: the parsed
// target name when present, otherwise the full query text.
func matchTarget(query string, in intent.Intent) string {
	if t := in.TargetName(); t != "" {
		return t
	}
	return query
}
