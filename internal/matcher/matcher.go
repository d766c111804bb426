// Package matcher ranks known entity names by similarity to an input
// string, correcting for domain-specific misspellings. It never
// fabricates a candidate that is not in the input set.
package matcher

import (
	"sort"
	"strings"

	"github.com/helpline-labs/refdesk/internal/domain/directory"
	"github.com/helpline-labs/refdesk/internal/domain/match"
	"github.com/helpline-labs/refdesk/internal/similarity"
)

// acronymScore is the fixed score of an initials match: above any
// default threshold, below an exact hit.
const acronymScore = 0.95

// wordFactor discounts word-level edit-distance scores against
// multi-word names.
const wordFactor = 0.98

// Config holds matcher tuning.
type Config struct {
	// Threshold is the minimum score a candidate must reach to be returned.
	Threshold float64
	// MaxResults caps the returned list.
	MaxResults int
	// Signal weights for the blended score. The blend only lifts weak
	// edit-distance scores; a strong edit score stands on its own.
	EditWeight     float64
	PhoneticWeight float64
	PartialWeight  float64
	AcronymWeight  float64
}

// DefaultConfig returns the default matcher tuning.
func DefaultConfig() Config {
	return Config{
		Threshold:      0.7,
		MaxResults:     5,
		EditWeight:     0.4,
		PhoneticWeight: 0.3,
		PartialWeight:  0.2,
		AcronymWeight:  0.1,
	}
}

// Matcher scores directory entries against an input name. Stateless
// apart from the alias table, which is safe for concurrent use.
type Matcher struct {
	cfg     Config
	aliases *AliasTable
}

// New creates a matcher. aliases may be nil.
func New(cfg Config, aliases *AliasTable) *Matcher {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultConfig().MaxResults
	}
	return &Matcher{cfg: cfg, aliases: aliases}
}

// Match returns candidates scoring at or above the threshold, highest
// score first. Ties keep the input order (stable sort). An empty
// candidate set yields an empty result, never an error.
func (m *Matcher) Match(input string, entries []directory.Entry) []match.Candidate {
	input = strings.TrimSpace(input)
	if input == "" || len(entries) == 0 {
		return nil
	}

	// A dictionary hit rewrites the input to its canonical form before
	// scoring; an exact hit against a candidate then short-circuits below.
	canonical := input
	aliased := false
	if m.aliases != nil {
		if c, ok := m.aliases.Canonical(input); ok {
			canonical = c
			aliased = true
		}
	}

	out := make([]match.Candidate, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		score, matchType := m.score(input, canonical, aliased, e.Name())
		if score < m.cfg.Threshold {
			continue
		}
		out = append(out, match.New(input, e.Name(), score, matchType, e.ID(), e.Scope()))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})

	if len(out) > m.cfg.MaxResults {
		out = out[:m.cfg.MaxResults]
	}
	return out
}

// score computes the similarity of input against one candidate name.
func (m *Matcher) score(input, canonical string, aliased bool, name string) (float64, match.Type) {
	if strings.EqualFold(input, name) {
		return 1.0, match.TypeExact
	}
	if aliased && strings.EqualFold(canonical, name) {
		return 1.0, match.TypeExact
	}

	if similarity.AcronymScore(input, name) == 1.0 {
		return acronymScore, match.TypeAcronym
	}

	// Edit distance against the full name and against each word: a typo
	// of one word ("Microsft") must still rank the multi-word candidate
	// ("Microsoft Corporation") highly. Word-level scores are discounted
	// so a single-word hit never outranks a full-name exact match.
	edit := similarity.EditDistanceScore(canonical, name)
	phonetic := similarity.PhoneticScore(canonical, name)
	for _, word := range strings.Fields(name) {
		if s := wordFactor * similarity.EditDistanceScore(canonical, word); s > edit {
			edit = s
		}
		if similarity.PhoneticScore(canonical, word) == 1.0 {
			phonetic = 1.0
		}
	}
	partial := similarity.PartialScore(canonical, name)

	blended := m.cfg.EditWeight*edit +
		m.cfg.PhoneticWeight*phonetic +
		m.cfg.PartialWeight*partial +
		m.cfg.AcronymWeight*similarity.AcronymScore(input, name)

	score := edit
	if blended > score {
		score = blended
	}

	matchType := match.TypeEditDistance
	switch {
	case partial == 1.0 && partial > edit:
		matchType = match.TypePartial
	case phonetic == 1.0 && edit < 0.5:
		matchType = match.TypePhonetic
	}

	return score, matchType
}
