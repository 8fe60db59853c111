package graph

import (
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/scholargraph/scholargraph-backend/internal/types"
)

func TestSnippet(t *testing.T) {
	long := strings.Repeat("a", 350)
	got := Snippet(long, paperSnippetLen)
	if len(got) != paperSnippetLen+3 {
		t.Fatalf("snippet length = %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("long snippet must end with ellipsis")
	}

	short := strings.Repeat("b", 200)
	if got := Snippet(short, paperSnippetLen); got != short {
		t.Fatalf("short text must pass through unchanged")
	}
	if got := Snippet("", paperSnippetLen); got != "" {
		t.Fatalf("empty text must stay empty")
	}
}

func TestRankPaperResults(t *testing.T) {
	results := []types.PaperResult{
		{PaperID: "b", Title: "Unrelated Work", UploadDate: "2024-05-01T00:00:00Z"},
		{PaperID: "a", Title: "Graph Theory Basics", UploadDate: "2020-01-01T00:00:00Z"},
		{PaperID: "c", Title: "Graph Mining at Scale", UploadDate: "2023-03-01T00:00:00Z"},
	}
	rankPaperResults(results, "graph")

	want := []string{"c", "a", "b"}
	for i, id := range want {
		if results[i].PaperID != id {
			t.Fatalf("position %d: got %q, want %q (%+v)", i, results[i].PaperID, id, results)
		}
	}
}

func TestRankPaperResultsNewestFirstWithinTier(t *testing.T) {
	results := []types.PaperResult{
		{PaperID: "old", Title: "Alpha", UploadDate: "2021-01-01T00:00:00Z"},
		{PaperID: "new", Title: "Beta", UploadDate: "2024-01-01T00:00:00Z"},
	}
	rankPaperResults(results, "nomatch")
	if results[0].PaperID != "new" {
		t.Fatalf("expected newest first, got %q", results[0].PaperID)
	}
}

func TestRankPaperResultsFractionalSecondDates(t *testing.T) {
	results := []types.PaperResult{
		{PaperID: "whole", Title: "Alpha", UploadDate: "2024-01-01T00:00:00Z"},
		{PaperID: "frac", Title: "Beta", UploadDate: "2024-01-01T00:00:00.5Z"},
	}
	rankPaperResults(results, "nomatch")
	if results[0].PaperID != "frac" {
		t.Fatalf("fractional-second timestamp must rank as later, got %q first", results[0].PaperID)
	}
}

func TestClampDepth(t *testing.T) {
	cases := []struct{ in, want int }{
		{-3, 1},
		{0, 1},
		{1, 1},
		{3, 3},
		{5, 5},
		{99, 5},
	}
	for _, c := range cases {
		if got := clampDepth(c.in); got != c.want {
			t.Fatalf("clampDepth(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestShapeNodeFallbacks(t *testing.T) {
	n := neo4j.Node{Props: map[string]any{"id": "ent-1"}}
	shaped := shapeNode(n)
	if shaped.Label != "ent-1" {
		t.Fatalf("label must fall back to id, got %q", shaped.Label)
	}
	if shaped.Type != "Entity" {
		t.Fatalf("type must fall back to Entity, got %q", shaped.Type)
	}

	named := neo4j.Node{Props: map[string]any{"id": "ent-2", "name": "BERT", "type": "work"}}
	shaped = shapeNode(named)
	if shaped.Label != "BERT" || shaped.Type != "work" {
		t.Fatalf("unexpected shaping %+v", shaped)
	}
}

func TestShapePaperTruncatesText(t *testing.T) {
	props := map[string]any{
		"paper_id": "p1",
		"title":    "A Title",
		"text":     strings.Repeat("x", 1000),
	}
	shaped := shapePaper(props)
	if len(shaped.TextSnippet) != paperSnippetLen+3 {
		t.Fatalf("snippet length = %d", len(shaped.TextSnippet))
	}
	if shaped.PaperID != "p1" || shaped.Title != "A Title" {
		t.Fatalf("unexpected shaping %+v", shaped)
	}
}
