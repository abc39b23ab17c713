// Package names splits and normalizes politician display names so campaign
// text searches can match on individual tokens.
package names

import "strings"

var honorifics = map[string]bool{
	"dr":   true,
	"dr.":  true,
	"hon":  true,
	"hon.": true,
	"mr":   true,
	"mr.":  true,
	"mrs":  true,
	"mrs.": true,
	"ms":   true,
	"ms.":  true,
	"rep":  true,
	"rep.": true,
	"sen":  true,
	"sen.": true,
}

var suffixes = map[string]bool{
	"jr":   true,
	"jr.":  true,
	"sr":   true,
	"sr.":  true,
	"ii":   true,
	"iii":  true,
	"iv":   true,
	"v":    true,
	"esq":  true,
	"esq.": true,
}

// tokens drops honorifics, suffixes and quoted nicknames from a full name
func tokens(fullName string) []string {
	var out []string
	for _, raw := range strings.Fields(fullName) {
		token := strings.Trim(raw, ",")
		lower := strings.ToLower(token)
		if honorifics[lower] || suffixes[lower] {
			continue
		}
		if strings.HasPrefix(token, `"`) || strings.HasPrefix(token, "(") {
			continue
		}
		if token == "" {
			continue
		}
		out = append(out, token)
	}
	return out
}

// ExtractFirstName returns the leading name token
func ExtractFirstName(fullName string) string {
	parts := tokens(fullName)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// ExtractLastName returns the trailing name token
func ExtractLastName(fullName string) string {
	parts := tokens(fullName)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// IsShouting reports whether a name is written entirely in one case, which
// usually means it came from an upstream import rather than a person.
func IsShouting(name string) bool {
	hasLetter := false
	for _, r := range name {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// CorrectCapitalization rewrites an all-caps name into title case, keeping
// recognized suffixes as-is.
func CorrectCapitalization(name string) string {
	words := strings.Fields(name)
	for i, word := range words {
		if suffixes[strings.ToLower(word)] {
			continue
		}
		lower := strings.ToLower(word)
		words[i] = capitalizeWord(lower)
	}
	return strings.Join(words, " ")
}

func capitalizeWord(word string) string {
	if word == "" {
		return word
	}
	// handle hyphenated and apostrophe names piecewise
	for _, sep := range []string{"-", "'"} {
		if strings.Contains(word, sep) {
			parts := strings.Split(word, sep)
			for i, part := range parts {
				parts[i] = capitalizeWord(part)
			}
			return strings.Join(parts, sep)
		}
	}
	if strings.HasPrefix(word, "mc") && len(word) > 2 {
		return "Mc" + capitalizeWord(word[2:])
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
