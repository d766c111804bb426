package rescache

import (
	"github.com/helpline-labs/refdesk/internal/domain/evidence"
	"github.com/helpline-labs/refdesk/internal/domain/intent"
	"github.com/helpline-labs/refdesk/internal/domain/match"
	"github.com/helpline-labs/refdesk/internal/domain/resolved"
)

// resultDTO is the JSON wire form of a cached resolved query.
type resultDTO struct {
	Intent       intentDTO      `json:"intent"`
	Entity       *candidateDTO  `json:"entity,omitempty"`
	Alternatives []candidateDTO `json:"alternatives,omitempty"`
	Evidence     []evidenceDTO  `json:"evidence,omitempty"`
	Confidence   float64        `json:"confidence"`
	Decision     string         `json:"decision"`
	Reason       string         `json:"reason,omitempty"`
	Degraded     bool           `json:"degraded,omitempty"`
}

type intentDTO struct {
	EntityType string            `json:"entity_type,omitempty"`
	TargetName string            `json:"target_name,omitempty"`
	Filters    map[string]string `json:"filters,omitempty"`
	Residual   string            `json:"residual,omitempty"`
}

type candidateDTO struct {
	Original    string  `json:"original"`
	MatchedName string  `json:"matched_name"`
	Score       float64 `json:"score"`
	MatchType   string  `json:"match_type"`
	EntityID    string  `json:"entity_id,omitempty"`
	Scope       string  `json:"scope,omitempty"`
}

type evidenceDTO struct {
	SourceID  string  `json:"source_id"`
	Content   string  `json:"content"`
	Relevance float64 `json:"relevance"`
	Scope     string  `json:"scope,omitempty"`
}

func toDTO(q *resolved.Query) resultDTO {
	in := q.Intent()
	dto := resultDTO{
		Intent: intentDTO{
			EntityType: in.EntityType(),
			TargetName: in.TargetName(),
			Filters:    in.Filters(),
			Residual:   in.Residual(),
		},
		Confidence: q.Confidence(),
		Decision:   string(q.Decision()),
		Reason:     q.Reason(),
		Degraded:   q.Degraded(),
	}

	if e := q.Entity(); e != nil {
		c := candidateToDTO(e)
		dto.Entity = &c
	}
	alternatives := q.Alternatives()
	for i := range alternatives {
		dto.Alternatives = append(dto.Alternatives, candidateToDTO(&alternatives[i]))
	}
	items := q.Evidence()
	for i := range items {
		it := &items[i]
		dto.Evidence = append(dto.Evidence, evidenceDTO{
			SourceID:  it.SourceID(),
			Content:   it.Content(),
			Relevance: it.Relevance(),
			Scope:     it.Scope(),
		})
	}
	return dto
}

func candidateToDTO(c *match.Candidate) candidateDTO {
	return candidateDTO{
		Original:    c.Original(),
		MatchedName: c.MatchedName(),
		Score:       c.Score(),
		MatchType:   string(c.MatchType()),
		EntityID:    c.EntityID(),
		Scope:       c.Scope(),
	}
}

func fromDTO(dto *resultDTO) resolved.Query {
	in := intent.New(dto.Intent.EntityType, dto.Intent.TargetName, dto.Intent.Filters, dto.Intent.Residual)

	var entity *match.Candidate
	if dto.Entity != nil {
		c := candidateFromDTO(dto.Entity)
		entity = &c
	}

	var alternatives []match.Candidate
	for i := range dto.Alternatives {
		alternatives = append(alternatives, candidateFromDTO(&dto.Alternatives[i]))
	}

	var items []evidence.Item
	for _, e := range dto.Evidence {
		items = append(items, evidence.New(e.SourceID, e.Content, e.Relevance, e.Scope))
	}

	return resolved.New(
		in, entity, alternatives, items,
		dto.Confidence, resolved.Decision(dto.Decision), dto.Reason, dto.Degraded,
	)
}

func candidateFromDTO(dto *candidateDTO) match.Candidate {
	return match.New(
		dto.Original, dto.MatchedName, dto.Score,
		match.Type(dto.MatchType), dto.EntityID, dto.Scope,
	)
}
