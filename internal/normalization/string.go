package normalization

import (
	"strings"
)

// IdentityKey normalizes an entity name into the key used to decide whether
// two mentions refer to the same node: case-folded, trimmed, inner
// whitespace collapsed.
func IdentityKey(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}

func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
