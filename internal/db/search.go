package db

// KNNQuery is the input for vector similarity search over the evidence
// index. Scope, when set, becomes a tag pre-filter restricting results
// to one tenant.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	Scope        string
	ReturnFields []string
}

// TextQuery is the input for BM25 text search over the evidence index.
type TextQuery struct {
	IndexName    string
	Query        string
	TopK         int
	Scope        string
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
