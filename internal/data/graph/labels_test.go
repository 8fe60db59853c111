package graph

import "testing"

func TestEntityTypeLabel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"person", "Person"},
		{"PERSON", "Person"},
		{" org ", "Organization"},
		{"gpe", "Location"},
		{"work_of_art", "Work"},
		{"", "Entity"},
		{"unknown_type", "Entity"},
		{"Entity) DETACH DELETE n //", "Entity"},
	}
	for _, c := range cases {
		if got := EntityTypeLabel(c.in); got != c.want {
			t.Fatalf("EntityTypeLabel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRelationTypeLabel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"cooccurs_in_sentence", "COOCCURS_IN_SENTENCE"},
		{"CITES", "CITES"},
		{"mentions", "MENTIONS"},
		{"", "RELATED_TO"},
		{"anything else", "RELATED_TO"},
		{"r]->() DETACH DELETE", "RELATED_TO"},
	}
	for _, c := range cases {
		if got := RelationTypeLabel(c.in); got != c.want {
			t.Fatalf("RelationTypeLabel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("abcdef", 4); got != "abcd" {
		t.Fatalf("truncateString = %q", got)
	}
	if got := truncateString("abc", 10); got != "abc" {
		t.Fatalf("truncateString must not pad, got %q", got)
	}
	if got := truncateString("abc", 0); got != "abc" {
		t.Fatalf("zero max must disable truncation, got %q", got)
	}
}
