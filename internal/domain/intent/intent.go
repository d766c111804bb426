// Package intent holds the structured representation of a parsed query.
package intent

// ConflictKey is the filter key recording a discarded entity-type keyword
// when two conflicting keywords appear in one query (left-to-right priority).
const ConflictKey = "conflict"

// Intent is the structured result of parsing a free-text query.
// Immutable after construction; absence of a hint is an empty string,
// never an error.
type Intent struct {
	entityType string
	targetName string
	filters    map[string]string
	residual   string
}

// New creates an intent. The filters map is copied.
func New(entityType, targetName string, filters map[string]string, residual string) Intent {
	var f map[string]string
	if len(filters) > 0 {
		f = make(map[string]string, len(filters))
		for k, v := range filters {
			f[k] = v
		}
	}
	return Intent{entityType: entityType, targetName: targetName, filters: f, residual: residual}
}

// EntityType returns the entity-type hint, or "" when none was recognized.
func (i Intent) EntityType() string { return i.entityType }

// TargetName returns the target-name hint, or "" when none was recognized.
func (i Intent) TargetName() string { return i.targetName }

// Filter returns the value of a filter key and whether it is set.
func (i Intent) Filter(key string) (string, bool) {
	v, ok := i.filters[key]
	return v, ok
}

// Filters returns a copy of all filters.
func (i Intent) Filters() map[string]string {
	out := make(map[string]string, len(i.filters))
	for k, v := range i.filters {
		out[k] = v
	}
	return out
}

// Residual returns the free-text residue left after hint extraction.
func (i Intent) Residual() string { return i.residual }

// Category maps the intent to a confidence-threshold category.
// Queries without an entity-type hint fall into the "general" category.
func (i Intent) Category() string {
	if i.entityType == "" {
		return "general"
	}
	return i.entityType
}
