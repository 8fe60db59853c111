package nlp

import (
	"context"
	"testing"
)

func TestRecognizePairsSentenceEntities(t *testing.T) {
	r := NewCooccurrenceRecognizer()
	text := "Google Brain develops TensorFlow. Microsoft Research builds ONNX."

	entities, relations, err := r.Recognize(context.Background(), text)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if len(entities) != 4 {
		t.Fatalf("expected 4 entities, got %d: %+v", len(entities), entities)
	}
	if len(relations) != 2 {
		t.Fatalf("expected 2 relations, got %d", len(relations))
	}
	for _, rel := range relations {
		if rel.Label != "cooccurs_in_sentence" {
			t.Fatalf("unexpected relation label %q", rel.Label)
		}
		if rel.Properties["sentence"] == "" {
			t.Fatalf("relation missing sentence property")
		}
	}
}

func TestRecognizeNoCrossSentenceRelations(t *testing.T) {
	r := NewCooccurrenceRecognizer()
	text := "Alice Smith studied graphs. Bob Jones studied trees."

	_, relations, err := r.Recognize(context.Background(), text)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	for _, rel := range relations {
		if rel.SourceID == rel.TargetID {
			t.Fatalf("self relation %+v", rel)
		}
	}
	if len(relations) != 0 {
		t.Fatalf("single entity per sentence must yield no relations, got %d", len(relations))
	}
}

func TestRecognizeDropsSentenceInitialStopwords(t *testing.T) {
	r := NewCooccurrenceRecognizer()

	entities, _, err := r.Recognize(context.Background(), "We propose BERT here")
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if len(entities) != 1 {
		t.Fatalf("expected 1 entity, got %d: %+v", len(entities), entities)
	}
	if entities[0].Name != "BERT" {
		t.Fatalf("expected BERT, got %q", entities[0].Name)
	}
}

func TestRecognizeClassifiesOrganizations(t *testing.T) {
	r := NewCooccurrenceRecognizer()

	entities, _, err := r.Recognize(context.Background(), "Researchers at Stanford University published results")
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	found := false
	for _, e := range entities {
		if e.Name == "Stanford University" {
			found = true
			if e.Type != "organization" {
				t.Fatalf("expected organization type, got %q", e.Type)
			}
		}
	}
	if !found {
		t.Fatalf("Stanford University not recognized: %+v", entities)
	}
}

func TestRecognizeEmptyText(t *testing.T) {
	r := NewCooccurrenceRecognizer()
	entities, relations, err := r.Recognize(context.Background(), "   \n  ")
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if len(entities) != 0 || len(relations) != 0 {
		t.Fatalf("expected no candidates")
	}
}
