// Package entity defines the domain models for the conversion feature.
package entity

import "strings"

// IdentifierLength is the length of a valid ISIN.
const IdentifierLength = 12

// FieldSeparator separates the identifier from the rest of an input line.
const FieldSeparator = ";"

// ExtractIdentifier returns the first field of line when it is exactly IdentifierLength long.
// Lines whose first field has any other length are not identifiers and yield ok=false.
func ExtractIdentifier(line string) (isin string, ok bool) {
	field, _, _ := strings.Cut(line, FieldSeparator)
	field = strings.TrimSpace(field)
	if len(field) != IdentifierLength {
		return "", false
	}
	return field, true
}

// ExtractIdentifiers returns the identifiers found in lines, deduplicated, in first-seen order.
func ExtractIdentifiers(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		isin, ok := ExtractIdentifier(l)
		if !ok {
			continue
		}
		if _, dup := seen[isin]; dup {
			continue
		}
		seen[isin] = struct{}{}
		out = append(out, isin)
	}
	return out
}
