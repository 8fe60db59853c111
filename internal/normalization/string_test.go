package normalization

import "testing"

func TestIdentityKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Graph", "graph"},
		{"  graph  ", "graph"},
		{"Knowledge   Graph", "knowledge graph"},
		{"Knowledge\tGraph", "knowledge graph"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := IdentityKey(c.in); got != c.want {
			t.Fatalf("IdentityKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIdentityKeyCollapsesSameMention(t *testing.T) {
	a := IdentityKey("Neural  Network")
	b := IdentityKey(" neural network ")
	if a != b {
		t.Fatalf("expected same key, got %q and %q", a, b)
	}
}

func TestParseInputString(t *testing.T) {
	if got := ParseInputString("  Hello World  "); got != "hello world" {
		t.Fatalf("ParseInputString = %q", got)
	}
}
