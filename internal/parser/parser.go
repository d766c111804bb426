// Package parser extracts structured intent from free-text queries using
// a fixed keyword vocabulary. Parsing is deterministic: the same input
// and vocabulary always produce the same intent. No network calls.
package parser

import (
	"strings"

	"github.com/helpline-labs/refdesk/internal/domain/intent"
)

// entityKeyword maps a query token to a canonical entity-type tag.
type entityKeyword struct {
	token      string
	entityType string
}

// Vocabulary is the fixed keyword set the parser classifies against.
type Vocabulary struct {
	entityKeywords []entityKeyword
	scopeMarkers   map[string]struct{}
	timeWords      map[string]string
}

// DefaultVocabulary returns the built-in IT-documentation vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		entityKeywords: []entityKeyword{
			{"password", "password"},
			{"passwords", "password"},
			{"credential", "password"},
			{"credentials", "password"},
			{"server", "server"},
			{"servers", "server"},
			{"host", "server"},
			{"vm", "server"},
			{"printer", "printer"},
			{"printers", "printer"},
			{"network", "network"},
			{"vlan", "network"},
			{"license", "license"},
			{"licenses", "license"},
			{"contact", "contact"},
			{"contacts", "contact"},
			{"document", "document"},
			{"documents", "document"},
			{"doc", "document"},
			{"docs", "document"},
			{"runbook", "document"},
			{"configuration", "configuration"},
			{"config", "configuration"},
		},
		scopeMarkers: map[string]struct{}{
			"for": {}, "at": {}, "about": {},
		},
		timeWords: map[string]string{
			"today":     "today",
			"yesterday": "yesterday",
			"recent":    "recent",
			"latest":    "recent",
		},
	}
}

// Parser classifies query tokens against a vocabulary. Stateless and
// safe for concurrent use.
type Parser struct {
	vocab Vocabulary
}

// New creates a parser over the given vocabulary.
func New(vocab Vocabulary) *Parser {
	return &Parser{vocab: vocab}
}

// Parse extracts intent from a raw query. Missing hints are empty, not
// errors. On conflicting entity-type keywords the first occurrence wins
// (left-to-right) and the first discarded type is recorded under the
// "conflict" filter key.
func (p *Parser) Parse(raw string) intent.Intent {
	tokens := tokenize(raw)

	entityType := ""
	filters := map[string]string{}
	target := make([]string, 0, len(tokens))
	residual := make([]string, 0, len(tokens))
	inTarget := false

	for _, tok := range tokens {
		lower := strings.ToLower(tok)

		if et, ok := p.entityTypeFor(lower); ok {
			inTarget = false
			if entityType == "" {
				entityType = et
			} else if et != entityType {
				if _, seen := filters[intent.ConflictKey]; !seen {
					filters[intent.ConflictKey] = et
				}
			}
			continue
		}

		if tw, ok := p.vocab.timeWords[lower]; ok {
			inTarget = false
			filters["time"] = tw
			continue
		}

		if _, ok := p.vocab.scopeMarkers[lower]; ok {
			inTarget = true
			continue
		}

		if inTarget {
			target = append(target, tok)
			continue
		}
		residual = append(residual, tok)
	}

	return intent.New(
		entityType,
		strings.Join(target, " "),
		filters,
		strings.Join(residual, " "),
	)
}

func (p *Parser) entityTypeFor(token string) (string, bool) {
	for _, kw := range p.vocab.entityKeywords {
		if kw.token == token {
			return kw.entityType, true
		}
	}
	return "", false
}

// tokenize splits on anything that is not a letter, digit, or
// apostrophe, preserving original casing.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		return !isAlpha && !isDigit && r != '\''
	})
}
