// Package directory defines the known-entity directory entry consumed by
// the fuzzy matcher. Entries are fed by the external source-system sync.
package directory

// Entry is a single known entity: a name, its opaque identifier, and the
// tenant scope that owns it.
type Entry struct {
	name  string
	id    string
	scope string
}

// New creates a directory entry.
func New(name, id, scope string) Entry {
	return Entry{name: name, id: id, scope: scope}
}

// Name returns the entity name.
func (e *Entry) Name() string { return e.name }

// ID returns the opaque entity identifier.
func (e *Entry) ID() string { return e.id }

// Scope returns the owning tenant scope.
func (e *Entry) Scope() string { return e.scope }
