// Package resolved holds the final outcome of the query pipeline.
package resolved

import (
	"github.com/helpline-labs/refdesk/internal/domain/evidence"
	"github.com/helpline-labs/refdesk/internal/domain/intent"
	"github.com/helpline-labs/refdesk/internal/domain/match"
)

// Decision is the answer/reject/disambiguate outcome of a query.
type Decision string

const (
	// Answered means evidence cleared the confidence bar.
	Answered Decision = "answered"
	// Rejected means no entity, no evidence, or insufficient confidence.
	Rejected Decision = "rejected"
	// Ambiguous means multiple resolutions tied; the caller should
	// prompt for disambiguation instead of treating it as failure.
	Ambiguous Decision = "ambiguous"
)

// Query is the immutable result of one pipeline run. Created fresh per
// query and discarded after the response; cached copies are values keyed
// by (normalized query, scope), never references.
type Query struct {
	intent       intent.Intent
	entity       *match.Candidate
	alternatives []match.Candidate
	evidence     []evidence.Item
	confidence   float64
	decision     Decision
	reason       string
	degraded     bool
}

// New creates a resolved query result.
func New(
	it intent.Intent, entity *match.Candidate, alternatives []match.Candidate,
	ev []evidence.Item, confidence float64, decision Decision, reason string,
	degraded bool,
) Query {
	return Query{
		intent:       it,
		entity:       entity,
		alternatives: alternatives,
		evidence:     ev,
		confidence:   confidence,
		decision:     decision,
		reason:       reason,
		degraded:     degraded,
	}
}

// Intent returns the parsed query intent.
func (q *Query) Intent() intent.Intent { return q.intent }

// Entity returns the chosen match, or nil when unresolved.
func (q *Query) Entity() *match.Candidate { return q.entity }

// Alternatives returns the tied candidates surfaced for disambiguation.
// Empty unless the decision is Ambiguous.
func (q *Query) Alternatives() []match.Candidate { return q.alternatives }

// Evidence returns the backing evidence, ordered by descending relevance.
func (q *Query) Evidence() []evidence.Item { return q.evidence }

// Confidence returns the aggregate confidence in [0,1].
func (q *Query) Confidence() float64 { return q.confidence }

// Decision returns the pipeline decision.
func (q *Query) Decision() Decision { return q.decision }

// Reason returns a human-readable explanation for non-answered decisions.
func (q *Query) Reason() string { return q.reason }

// Degraded reports whether retrieval was partial for this result.
func (q *Query) Degraded() bool { return q.degraded }
