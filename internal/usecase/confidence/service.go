// Package confidence gates pipeline answers: a query is answered only
// when the matched entity and its evidence clear the category threshold.
package confidence

import (
	"github.com/helpline-labs/refdesk/internal/domain/evidence"
	"github.com/helpline-labs/refdesk/internal/domain/match"
	"github.com/helpline-labs/refdesk/internal/domain/resolved"
)

// Config holds confidence gating settings.
type Config struct {
	// DefaultThreshold applies to categories without an explicit entry.
	DefaultThreshold float64
	// CategoryThresholds maps intent categories to stricter (or looser)
	// thresholds, e.g. password lookups demanding 0.9.
	CategoryThresholds map[string]float64
	// TopK is how many evidence items are averaged into the score.
	TopK int
	// Epsilon is the tie window: top candidates within it are ambiguous.
	Epsilon float64
	// DegradedPenalty multiplies confidence when retrieval was partial.
	DegradedPenalty float64
}

// Service decides whether a resolution is answerable.
type Service struct {
	cfg Config
}

// New creates a confidence validator.
func New(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// Verdict is the outcome of one validation.
type Verdict struct {
	Decision   resolved.Decision
	Confidence float64
	Reason     string
}

// Validate combines the entity match score with evidence relevance and
// returns the final decision. Rejections always carry a reason; the
// computed confidence is surfaced even when it falls below the bar so
// callers can report how close the query came.
func (s *Service) Validate(
	category string, matches []match.Candidate, items []evidence.Item, degraded bool,
) Verdict {
	if len(matches) == 0 {
		return Verdict{Decision: resolved.Rejected, Confidence: 0, Reason: "entity not found"}
	}
	if len(items) == 0 {
		return Verdict{Decision: resolved.Rejected, Confidence: 0, Reason: "no data available"}
	}

	conf := s.score(matches[0].Score(), items, degraded)

	if len(matches) > 1 && matches[0].Score()-matches[1].Score() < s.cfg.Epsilon {
		return Verdict{
			Decision:   resolved.Ambiguous,
			Confidence: conf,
			Reason:     "multiple entities match equally well",
		}
	}

	if conf < s.threshold(category) {
		return Verdict{
			Decision:   resolved.Rejected,
			Confidence: conf,
			Reason:     "confidence below threshold",
		}
	}

	return Verdict{Decision: resolved.Answered, Confidence: conf}
}

// score is the mean relevance of the top-K evidence items, weighted by
// the entity match score, with a penalty when retrieval was partial.
func (s *Service) score(topMatch float64, items []evidence.Item, degraded bool) float64 {
	k := s.cfg.TopK
	if k <= 0 || k > len(items) {
		k = len(items)
	}

	var sum float64
	for i := 0; i < k; i++ {
		sum += items[i].Relevance()
	}
	conf := (sum / float64(k)) * topMatch

	if degraded && s.cfg.DegradedPenalty > 0 {
		conf *= s.cfg.DegradedPenalty
	}
	return conf
}

func (s *Service) threshold(category string) float64 {
	if t, ok := s.cfg.CategoryThresholds[category]; ok {
		return t
	}
	return s.cfg.DefaultThreshold
}
