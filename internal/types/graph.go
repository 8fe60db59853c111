package types

// GraphNode is the node shape at the query boundary.
type GraphNode struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// GraphEdge is the edge shape at the query boundary.
type GraphEdge struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties"`
}

// EntityCandidate is one raw entity mention produced by the recognizer,
// scoped to a single document. Properties hold scalar values only.
type EntityCandidate struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// RelationCandidate is one raw relation between two entity candidates.
type RelationCandidate struct {
	SourceID   string         `json:"source"`
	TargetID   string         `json:"target"`
	Label      string         `json:"label,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// EntityResult is one hit from entity search. PaperID is the most recent
// document that tagged the entity; entities spanning documents keep their
// full provenance on CONTAINS edges.
type EntityResult struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	PaperID    string         `json:"paper_id,omitempty"`
	Properties map[string]any `json:"properties"`
}
