package nlp

import (
	"testing"

	"github.com/scholargraph/scholargraph-backend/internal/types"
)

func TestNormalizeExtractionDedupes(t *testing.T) {
	entities := []types.EntityCandidate{
		{ID: "a", Name: "Graph"},
		{ID: "b", Name: " graph "},
		{ID: "c", Name: "Neo4j"},
	}
	nodes, _ := NormalizeExtraction(entities, nil)

	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].ID != "a" || nodes[1].ID != "c" {
		t.Fatalf("first-seen candidate must win, got %q and %q", nodes[0].ID, nodes[1].ID)
	}
}

func TestNormalizeExtractionDropsDanglingRelations(t *testing.T) {
	entities := []types.EntityCandidate{
		{ID: "a", Name: "Graph"},
		{ID: "b", Name: " graph "},
		{ID: "c", Name: "Neo4j"},
	}
	relations := []types.RelationCandidate{
		{SourceID: "a", TargetID: "c", Label: "related_to"},
		{SourceID: "b", TargetID: "c", Label: "related_to"},
		{SourceID: "a", TargetID: "zz", Label: "related_to"},
	}
	_, edges := NormalizeExtraction(entities, relations)

	if len(edges) != 1 {
		t.Fatalf("expected 1 surviving edge, got %d", len(edges))
	}
	if edges[0].SourceID != "a" || edges[0].TargetID != "c" {
		t.Fatalf("unexpected edge %+v", edges[0])
	}
}

func TestNormalizeExtractionDropsEmptyNames(t *testing.T) {
	entities := []types.EntityCandidate{
		{ID: "a", Name: "   "},
		{ID: "b", Name: ""},
	}
	nodes, edges := NormalizeExtraction(entities, nil)
	if len(nodes) != 0 || len(edges) != 0 {
		t.Fatalf("expected empty output, got %d nodes, %d edges", len(nodes), len(edges))
	}
}

func TestNormalizeExtractionEmptyInput(t *testing.T) {
	nodes, edges := NormalizeExtraction(nil, nil)
	if nodes == nil || edges == nil {
		t.Fatalf("expected non-nil empty slices")
	}
	if len(nodes) != 0 || len(edges) != 0 {
		t.Fatalf("expected empty output")
	}
}
