package nlp

import (
	"github.com/scholargraph/scholargraph-backend/internal/normalization"
	"github.com/scholargraph/scholargraph-backend/internal/types"
)

// NormalizeExtraction turns raw recognizer output into a deduplicated,
// internally consistent node/edge set for one document. Entities sharing an
// identity key collapse onto the first-seen candidate; its id stays
// canonical and later duplicates are dropped without property merging
// (cross-document merging happens at store-write time). Relations survive
// only when both endpoints survive. Pure transformation, no side effects.
func NormalizeExtraction(entities []types.EntityCandidate, relations []types.RelationCandidate) ([]types.EntityCandidate, []types.RelationCandidate) {
	seen := make(map[string]struct{}, len(entities))
	nodes := make([]types.EntityCandidate, 0, len(entities))
	valid := make(map[string]struct{}, len(entities))

	for _, e := range entities {
		key := normalization.IdentityKey(e.Name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		valid[e.ID] = struct{}{}
		nodes = append(nodes, e)
	}

	edges := make([]types.RelationCandidate, 0, len(relations))
	for _, r := range relations {
		if _, ok := valid[r.SourceID]; !ok {
			continue
		}
		if _, ok := valid[r.TargetID]; !ok {
			continue
		}
		edges = append(edges, r)
	}

	return nodes, edges
}
