package match

// Type tags how a candidate was matched.
type Type string

const (
	// TypeExact is a case-insensitive name equality or alias dictionary hit.
	TypeExact Type = "exact"
	// TypeEditDistance is a normalized Levenshtein match.
	TypeEditDistance Type = "edit-distance"
	// TypePhonetic is a phonetic encoding match.
	TypePhonetic Type = "phonetic"
	// TypeAcronym is an initials match against a multi-word name.
	TypeAcronym Type = "acronym"
	// TypePartial is a substring containment match.
	TypePartial Type = "partial-substring"
)

// Candidate is a single ranked entity match. Immutable after construction.
type Candidate struct {
	original    string
	matchedName string
	score       float64
	matchType   Type
	entityID    string
	scope       string
}

// New creates a match candidate.
func New(original, matchedName string, score float64, matchType Type, entityID, scope string) Candidate {
	return Candidate{
		original:    original,
		matchedName: matchedName,
		score:       score,
		matchType:   matchType,
		entityID:    entityID,
		scope:       scope,
	}
}

// Original returns the raw input string the match was computed for.
func (c *Candidate) Original() string { return c.original }

// MatchedName returns the known entity name that was compared against.
func (c *Candidate) MatchedName() string { return c.matchedName }

// Score returns the similarity score in [0,1].
func (c *Candidate) Score() float64 { return c.score }

// MatchType returns the match type tag.
func (c *Candidate) MatchType() Type { return c.matchType }

// EntityID returns the matched entity identifier, if known.
func (c *Candidate) EntityID() string { return c.entityID }

// Scope returns the owning tenant scope of the matched entity.
func (c *Candidate) Scope() string { return c.scope }
