// Package normalize canonicalizes free-form legal tokens into comparable
// forms. All functions are pure and total: unrecognized input yields a
// best-effort canonical form, never an error, and every function is
// idempotent (normalize(normalize(x)) == normalize(x)).
package normalize

import (
	"strings"
	"unicode"
)

// Section canonicalizes a section reference: whitespace and hyphens are
// stripped, letter suffixes are uppercased, leading digits stay intact.
// "153-b" -> "153B", " 302 " -> "302".
func Section(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case unicode.IsSpace(r), r == '-':
			// dropped
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Token canonicalizes a metadata token (act name, topic, document id):
// lowercased, spaces become underscores, everything outside [a-z0-9_-] is
// stripped. "Indian Penal Code" -> "indian_penal_code".
func Token(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokens canonicalizes a slice via Token, dropping entries that normalize
// to the empty string and collapsing duplicates while preserving order.
func Tokens(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		t := Token(r)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Sections canonicalizes a slice via Section with the same dedup policy
// as Tokens.
func Sections(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		s := Section(r)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
