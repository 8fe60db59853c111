package graph

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/scholargraph/scholargraph-backend/internal/platform/apierr"
	"github.com/scholargraph/scholargraph-backend/internal/types"
)

const (
	paperSnippetLen = 300

	minExpandDepth = 1
	maxExpandDepth = 5

	expandNodeCap = 100
	expandEdgeCap = 200
)

func shapeNode(n neo4j.Node) types.GraphNode {
	id := stringProp(n.Props, "id")
	label := stringProp(n.Props, "name")
	if label == "" {
		label = id
	}
	typ := stringProp(n.Props, "type")
	if typ == "" {
		typ = genericEntityLabel
	}
	return types.GraphNode{
		ID:         id,
		Label:      label,
		Type:       typ,
		Properties: n.Props,
	}
}

func shapeEdge(r neo4j.Relationship, sourceID, targetID string) types.GraphEdge {
	return types.GraphEdge{
		ID:         r.ElementId,
		Source:     sourceID,
		Target:     targetID,
		Label:      r.Type,
		Properties: r.Props,
	}
}

func shapePaper(props map[string]any) types.PaperResult {
	return types.PaperResult{
		PaperID:     stringProp(props, "paper_id"),
		Title:       stringProp(props, "title"),
		Authors:     stringProp(props, "authors"),
		Year:        stringProp(props, "year"),
		Journal:     stringProp(props, "journal"),
		Filename:    stringProp(props, "filename"),
		UploadDate:  stringProp(props, "upload_date"),
		TextSnippet: Snippet(stringProp(props, "text"), paperSnippetLen),
	}
}

// Snippet returns the first max characters of text with an ellipsis marker
// when the text is longer, otherwise the full text.
func Snippet(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	return text[:max] + "..."
}

// rankPaperResults orders search hits: title matches before matches found
// only elsewhere, then newest upload first within each tier. Upload dates
// are parsed before comparing; fractional-second timestamps are not ordered
// correctly by string comparison.
func rankPaperResults(results []types.PaperResult, query string) {
	q := strings.ToLower(strings.TrimSpace(query))
	tier := func(p types.PaperResult) int {
		if q != "" && strings.Contains(strings.ToLower(p.Title), q) {
			return 0
		}
		return 1
	}
	sort.SliceStable(results, func(i, j int) bool {
		ti, tj := tier(results[i]), tier(results[j])
		if ti != tj {
			return ti < tj
		}
		return uploadedAfter(results[i].UploadDate, results[j].UploadDate)
	})
}

func uploadedAfter(a, b string) bool {
	ta, errA := time.Parse(time.RFC3339Nano, a)
	tb, errB := time.Parse(time.RFC3339Nano, b)
	if errA == nil && errB == nil {
		return ta.After(tb)
	}
	return a > b
}

func storeUnavailable() error {
	return apierr.New(http.StatusServiceUnavailable, "graph_store_unavailable", errors.New("graph store not configured"))
}

// clampDepth bounds neighborhood expansion. Depths at or below zero expand
// to the immediate neighbors; the upper bound keeps the variable-length
// pattern small since the bound is spliced into the query after clamping.
func clampDepth(depth int) int {
	if depth < minExpandDepth {
		return minExpandDepth
	}
	if depth > maxExpandDepth {
		return maxExpandDepth
	}
	return depth
}

func stringProp(props map[string]any, key string) string {
	if props == nil {
		return ""
	}
	if v, ok := props[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
