package refdesk

// Decision values returned by the query API.
const (
	DecisionAnswered  = "answered"
	DecisionRejected  = "rejected"
	DecisionAmbiguous = "ambiguous"
)

// Candidate is one ranked entity match.
type Candidate struct {
	Original    string  `json:"original"`
	MatchedName string  `json:"matched_name"`
	Score       float64 `json:"score"`
	MatchType   string  `json:"match_type"`
	EntityID    string  `json:"entity_id,omitempty"`
	Scope       string  `json:"scope,omitempty"`
}

// Evidence is one retrieved fragment backing an answer.
type Evidence struct {
	SourceID  string  `json:"source_id"`
	Content   string  `json:"content"`
	Relevance float64 `json:"relevance"`
}

// QueryResult is the outcome of one resolved query.
type QueryResult struct {
	Decision     string      `json:"decision"`
	Confidence   float64     `json:"confidence"`
	Reason       string      `json:"reason,omitempty"`
	Degraded     bool        `json:"degraded,omitempty"`
	Entity       *Candidate  `json:"entity,omitempty"`
	Alternatives []Candidate `json:"alternatives,omitempty"`
	Evidence     []Evidence  `json:"evidence,omitempty"`
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded", "error"
	Checks map[string]string `json:"checks"` // component -> "ok"/"error"
}

type queryRequest struct {
	Query     string `json:"query"`
	ScopeHint string `json:"scope_hint,omitempty"`
}
