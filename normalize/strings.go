package normalize

import (
	"strings"
	"unicode/utf8"
)

// RepairAccents fixes strings whose UTF-8 bytes were decoded as Latin-1
// somewhere upstream ("JoÃ£o" → "João"). Strings without the telltale Ã/Â
// markers, or that are not re-encodable, are returned unchanged.
func RepairAccents(s string) string {
	if !strings.ContainsRune(s, 'Ã') && !strings.ContainsRune(s, 'Â') {
		return s
	}

	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			// Genuine non-Latin-1 text; the markers were legitimate.
			return s
		}
		b = append(b, byte(r))
	}
	if !utf8.Valid(b) {
		return s
	}
	return string(b)
}

// accentFold maps the accented letters that occur in Portuguese category
// names onto their base letters, for comparison only.
var accentFold = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

// foldKey lowercases and strips accents so "Educação" and "educacao"
// compare equal.
func foldKey(s string) string {
	return accentFold.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// DedupeCategories removes duplicate category names, comparing
// case-insensitively and accent-insensitively, keeping the first spelling
// seen. Blank entries are dropped.
func DedupeCategories(categories []string) []string {
	seen := make(map[string]struct{}, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		trimmed := strings.TrimSpace(c)
		if trimmed == "" {
			continue
		}
		key := foldKey(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
