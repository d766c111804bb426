// Package evidence holds retrieved content fragments with traceable sources.
package evidence

// Item is a single retrieved fragment. Every item carries a non-empty
// source identifier; unsourced evidence must be dropped at the retrieval
// boundary before it reaches the validator.
type Item struct {
	sourceID  string
	content   string
	relevance float64
	scope     string
}

// New creates an evidence item.
func New(sourceID, content string, relevance float64, scope string) Item {
	return Item{sourceID: sourceID, content: content, relevance: relevance, scope: scope}
}

// SourceID returns the identifier tracing back to the originating document.
func (it *Item) SourceID() string { return it.sourceID }

// Content returns the retrieved text fragment.
func (it *Item) Content() string { return it.content }

// Relevance returns the similarity score in [0,1].
func (it *Item) Relevance() float64 { return it.relevance }

// Scope returns the tenant scope the item belongs to.
func (it *Item) Scope() string { return it.scope }

// Bundle is the outcome of one retrieval: the evidence gathered plus a
// degraded flag set when a backend failed or timed out mid-retrieval.
type Bundle struct {
	items    []Item
	degraded bool
}

// NewBundle creates a bundle. The item slice is not copied; callers hand
// over ownership.
func NewBundle(items []Item, degraded bool) Bundle {
	return Bundle{items: items, degraded: degraded}
}

// Items returns the retrieved evidence, ordered by descending relevance.
func (b *Bundle) Items() []Item { return b.items }

// Degraded reports whether retrieval was partial.
func (b *Bundle) Degraded() bool { return b.degraded }
