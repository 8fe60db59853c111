package graph

import (
	"strings"
)

// Node labels and relationship types are structural in Cypher and cannot be
// parameterized, so caller-supplied type strings never reach a query
// directly: they map through these whitelists and fall back to the generic
// label. Only whitelist values are ever interpolated.

const (
	genericEntityLabel   = "Entity"
	genericRelationLabel = "RELATED_TO"
)

var entityTypeLabels = map[string]string{
	"person":       "Person",
	"per":          "Person",
	"org":          "Organization",
	"organization": "Organization",
	"gpe":          "Location",
	"loc":          "Location",
	"location":     "Location",
	"fac":          "Location",
	"product":      "Product",
	"event":        "Event",
	"work_of_art":  "Work",
	"work":         "Work",
	"norp":         "Group",
}

var relationTypeLabels = map[string]string{
	"cooccurs_in_sentence": "COOCCURS_IN_SENTENCE",
	"related_to":           "RELATED_TO",
	"mentions":             "MENTIONS",
	"cites":                "CITES",
}

// EntityTypeLabel maps a recognizer type onto a safe storage label.
func EntityTypeLabel(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if label, ok := entityTypeLabels[key]; ok {
		return label
	}
	return genericEntityLabel
}

// RelationTypeLabel maps a logical relation name onto a safe relationship
// type.
func RelationTypeLabel(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if label, ok := relationTypeLabels[key]; ok {
		return label
	}
	return genericRelationLabel
}

func truncateString(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
