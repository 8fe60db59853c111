package handlers

import "testing"

func TestExtraFormFieldsSkipsDedicatedColumns(t *testing.T) {
	extra := extraFormFields(map[string][]string{
		"title":    {"A Title"},
		"authors":  {"Someone"},
		"year":     {"2024"},
		"journal":  {"Nature"},
		"doi":      {"10.1000/xyz"},
		"keywords": {"graphs, neo4j"},
		"blank":    {""},
	})

	if len(extra) != 2 {
		t.Fatalf("expected 2 extra fields, got %d: %+v", len(extra), extra)
	}
	if extra["doi"] != "10.1000/xyz" {
		t.Fatalf("doi = %v", extra["doi"])
	}
	if extra["keywords"] != "graphs, neo4j" {
		t.Fatalf("keywords = %v", extra["keywords"])
	}
	if _, ok := extra["title"]; ok {
		t.Fatalf("title must not be duplicated into extra")
	}
}

func TestExtraFormFieldsEmptyForm(t *testing.T) {
	if extra := extraFormFields(nil); len(extra) != 0 {
		t.Fatalf("expected empty map, got %+v", extra)
	}
}
