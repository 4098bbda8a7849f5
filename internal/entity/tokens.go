package entity

import "strings"

// ParseTokenList splits a comma-delimited variant field ("Obsidian,Silver,Gray")
// into trimmed tokens, preserving order. Commas inside tokens are not escaped;
// that is a known limitation of the legacy form encoding.
func ParseTokenList(value string) StringArray {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return StringArray{}
	}
	parts := strings.Split(trimmed, ",")
	tokens := make(StringArray, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// JoinTokenList renders tokens back into the comma form used at the interface
// boundary.
func JoinTokenList(tokens StringArray) string {
	return strings.Join(tokens.ToSlice(), ",")
}
